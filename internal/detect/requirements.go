package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

const (
	minLineLen       = 10
	minSentenceLen   = 15
	maxHeaderLen     = 200
	headerConfidence = 0.75
	modalConfidence  = 0.85
	actionConfidence = 0.7
	bulletConfidence = 0.7
)

var (
	modalPattern = regexp.MustCompile(`(?i)\b(shall|must|should|will|may|needs to|required to|has to|ought to|supposed to)\b`)

	actionPattern = regexp.MustCompile(`(?i)\b(provide|support|enable|allow|implement|ensure|guarantee|deliver|offer|include|facilitate|perform|execute|process|handle)(s|ing)?\b`)

	// Capitalized heading ending in a colon, e.g. "Security:" or "Feature Name:".
	sectionPattern = regexp.MustCompile(`^[A-Z][a-zA-Z\s&-]{3,40}:`)

	bulletPattern   = regexp.MustCompile(`^\s*[-*•○]\s+`)
	numberedPattern = regexp.MustCompile(`^\s*[0-9a-z]+[.)]\s+`)

	sentenceSplit = regexp.MustCompile(`[.!?]\s+`)
)

// actionGateKeywords suppresses ordinary prose: an action-verb sentence only
// counts as a requirement when it also names the system or its artifacts.
var actionGateKeywords = []string{"system", "user", "feature", "application", "data", "service", "platform"}

// Detector finds requirement candidates in chunk text. The id counter is
// global across the document and monotonic (never reset per page), and
// exact-text duplicates are discarded for the lifetime of the detector.
// One Detector per processing run; not safe for concurrent use.
type Detector struct {
	nextID int
	seen   map[string]bool
}

// NewDetector creates a Detector with a fresh id counter.
func NewDetector() *Detector {
	return &Detector{nextID: 1, seen: make(map[string]bool)}
}

func (d *Detector) mint() string {
	id := fmt.Sprintf("REQ-%03d", d.nextID)
	d.nextID++
	return id
}

// Detect scans one page's chunk text line by line, then sentence by
// sentence, applying triggers in priority order: section header, modal
// verb, action verb (keyword-gated), bullet/numbered list. Empty input
// yields empty output; Detect never fails.
func (d *Detector) Detect(text string) []domain.DetectedRequirement {
	var requirements []domain.DetectedRequirement

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLen {
			continue
		}

		if sectionPattern.MatchString(line) {
			header := strings.TrimSpace(strings.SplitN(line, ":", 2)[0])
			if len(header) > 5 && !d.seen[header] {
				d.seen[header] = true
				requirements = append(requirements, domain.DetectedRequirement{
					ID:         d.mint(),
					Text:       truncate(line, maxHeaderLen),
					Type:       domain.RequirementSectionHeader,
					Confidence: headerConfidence,
				})
			}
		}

		for _, sentence := range splitSentences(line) {
			sentence = strings.TrimSpace(sentence)
			if len(sentence) < minSentenceLen || d.seen[sentence] {
				continue
			}

			switch {
			case modalPattern.MatchString(sentence):
				d.seen[sentence] = true
				requirements = append(requirements, domain.DetectedRequirement{
					ID:         d.mint(),
					Text:       sentence,
					Type:       domain.RequirementModalVerb,
					Confidence: modalConfidence,
				})

			case actionPattern.MatchString(sentence) && hasGateKeyword(sentence):
				d.seen[sentence] = true
				requirements = append(requirements, domain.DetectedRequirement{
					ID:         d.mint(),
					Text:       sentence,
					Type:       domain.RequirementActionVerb,
					Confidence: actionConfidence,
				})

			case bulletPattern.MatchString(sentence) || numberedPattern.MatchString(sentence):
				d.seen[sentence] = true
				requirements = append(requirements, domain.DetectedRequirement{
					ID:         d.mint(),
					Text:       sentence,
					Type:       domain.RequirementBulletPoint,
					Confidence: bulletConfidence,
				})
			}
		}
	}

	return requirements
}

func splitSentences(line string) []string {
	return sentenceSplit.Split(line, -1)
}

func hasGateKeyword(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range actionGateKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// truncate caps s at n bytes, backing up to a rune boundary so the cut
// never produces invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
