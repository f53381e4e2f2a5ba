// Package expand grows a detected requirement fragment into a complete
// multi-sentence statement using its surrounding chunk text.
package expand

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxSentences caps how many follow-on sentences are appended.
	DefaultMaxSentences = 3
	// DefaultMaxChars caps the expanded text length.
	DefaultMaxChars = 300

	locatePrefixLen    = 60
	alreadyCompleteLen = 50
	earlyStopLen       = 80
)

// Options carries the expansion budgets.
type Options struct {
	MaxSentences int
	MaxChars     int
}

// DefaultOptions returns the standard expansion budgets.
func DefaultOptions() Options {
	return Options{MaxSentences: DefaultMaxSentences, MaxChars: DefaultMaxChars}
}

// sentence is a positional sentence inside the chunk text.
type sentence struct {
	text  string
	start int
}

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)
	whitespace  = regexp.MustCompile(`\s+`)

	numberedItem = regexp.MustCompile(`^\s*\d+[.)]\s+`)
	letteredItem = regexp.MustCompile(`^\s*[a-zA-Z][.)]\s+`)
	romanItem    = regexp.MustCompile(`^\s*(?i:i{1,3}|iv|v|vi{1,3}|ix|x)[.)]\s+`)
	bulletItem   = regexp.MustCompile(`^\s*[-*•○]\s+`)
	headingStart = regexp.MustCompile(`^[A-Z][a-zA-Z\s&-]{2,40}:\s`)
)

// continuationStarters are leading words that signal a sentence extends the
// previous one: conjunctions, demonstrative/personal pronouns, and linking
// adverbs.
var continuationStarters = []string{
	"and", "but", "or", "so", "also", "additionally", "furthermore",
	"moreover", "however", "therefore", "thus", "hence", "besides",
	"it", "this", "that", "these", "those", "they", "its", "their",
}

// Expand grows initial into a multi-sentence requirement statement using
// the surrounding chunk text. The result is always at least as long as the
// input: when the input cannot be located in the context, or is already a
// sufficiently long complete sentence, it is returned unchanged. Expansion
// never crosses a section break and respects both budgets. Re-applying
// Expand to its own output against the same context is a no-op.
func Expand(initial, context string, opts Options) string {
	initial = strings.TrimSpace(initial)
	if initial == "" || context == "" {
		return initial
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}

	if endsTerminal(initial) && len(initial) > alreadyCompleteLen {
		return initial
	}

	sentences := splitSentences(context)
	idx := locate(initial, sentences)
	if idx < 0 {
		// Never invent a location.
		return initial
	}

	expanded := sentences[idx].text
	appended := 0
	for next := idx + 1; next < len(sentences); next++ {
		if appended >= opts.MaxSentences {
			break
		}
		candidate := sentences[next].text
		if !isContinuation(candidate) {
			break
		}
		if len(expanded)+1+len(candidate) > opts.MaxChars {
			break
		}
		expanded = expanded + " " + candidate
		appended++
		if isCompleteThought(expanded) && len(expanded) > earlyStopLen {
			break
		}
	}

	expanded = normalizeSpace(expanded)
	if len(expanded) < len(initial) {
		return initial
	}
	return expanded
}

// splitSentences splits text on sentence-final punctuation followed by
// whitespace, keeping the punctuation and tracking each sentence's offset.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		raw := text[start:loc[1]]
		if s := strings.TrimSpace(raw); s != "" {
			out = append(out, sentence{text: s, start: start})
		}
		start = loc[1]
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, sentence{text: s, start: start})
	}
	return out
}

// locate finds the sentence the fragment came from by bidirectional prefix
// comparison over the fragment's leading characters, tolerating the
// punctuation and whitespace drift between detector output and raw text.
func locate(fragment string, sentences []sentence) int {
	prefix := normalizeSpace(fragment)
	if len(prefix) > locatePrefixLen {
		prefix = prefix[:locatePrefixLen]
	}
	for i, s := range sentences {
		norm := normalizeSpace(s.text)
		if strings.HasPrefix(norm, prefix) || strings.HasPrefix(prefix, norm) {
			return i
		}
	}
	return -1
}

// isSectionBreak reports whether a sentence starts a new document section:
// numbered/lettered/roman list items, bullet glyphs, or a fresh heading.
func isSectionBreak(s string) bool {
	return numberedItem.MatchString(s) ||
		romanItem.MatchString(s) ||
		letteredItem.MatchString(s) ||
		bulletItem.MatchString(s) ||
		headingStart.MatchString(s)
}

// isContinuation reports whether a sentence extends the preceding
// requirement statement. Section breaks always stop expansion; a leading
// continuation word or a lowercase first character counts as continuation;
// anything else stops (conservative default).
func isContinuation(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if isSectionBreak(s) {
		return false
	}

	first := strings.ToLower(strings.TrimRight(strings.Fields(s)[0], ",.;:"))
	for _, starter := range continuationStarters {
		if first == starter {
			return true
		}
	}
	return s[0] >= 'a' && s[0] <= 'z'
}

// isCompleteThought reports whether accumulated text stands alone as a
// requirement: terminal punctuation, at least three words, at least twenty
// characters.
func isCompleteThought(s string) bool {
	s = strings.TrimSpace(s)
	return endsTerminal(s) && len(s) >= 20 && len(strings.Fields(s)) >= 3
}

func endsTerminal(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
