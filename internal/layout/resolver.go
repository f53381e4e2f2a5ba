package layout

import (
	"strings"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

const (
	// paragraphOverlapThreshold is the word-set overlap a paragraph needs
	// to be accepted as containing the whole requirement.
	paragraphOverlapThreshold = 0.7
	// lineCoverageThreshold is the fraction of the target's words a line
	// must carry to participate in the multi-line merge.
	lineCoverageThreshold = 0.2
)

// strategy is one tier of the resolver: an independent pure function that
// either produces a box or passes. Tiers run in order, first match wins.
type strategy struct {
	name    string
	resolve func(target string, elements []domain.LayoutElement) *domain.BoundingBox
}

var strategies = []strategy{
	{"paragraph_containment", resolveParagraph},
	{"multi_line_merge", resolveMultiLine},
	{"substring_fallback", resolveSubstring},
}

// Resolve maps requirement text onto a merged page rectangle using the
// tiered strategy chain. A nil result is a valid outcome, not an error:
// some requirements simply cannot be located in the layout.
func Resolve(target string, elements []domain.LayoutElement) *domain.BoundingBox {
	if target == "" || len(elements) == 0 {
		return nil
	}
	for _, s := range strategies {
		if box := s.resolve(target, elements); box != nil {
			return box
		}
	}
	return nil
}

// resolveParagraph returns the envelope of the first paragraph whose
// word-set overlap with the target reaches the containment threshold.
func resolveParagraph(target string, elements []domain.LayoutElement) *domain.BoundingBox {
	targetWords := wordSet(target)
	if len(targetWords) == 0 {
		return nil
	}
	for _, el := range elements {
		if el.Kind != domain.LayoutParagraph {
			continue
		}
		if overlap(targetWords, wordSet(el.Text)) >= paragraphOverlapThreshold {
			return FromPolygon(el.Polygon)
		}
	}
	return nil
}

// resolveMultiLine collects every line carrying a meaningful fraction of
// the target's words and merges their envelopes. This is what locates a
// requirement spanning several physical lines when no single line (and no
// paragraph) covers the whole text.
func resolveMultiLine(target string, elements []domain.LayoutElement) *domain.BoundingBox {
	targetWords := wordSet(target)
	if len(targetWords) == 0 {
		return nil
	}

	var boxes []domain.BoundingBox
	for _, el := range elements {
		if el.Kind != domain.LayoutLine {
			continue
		}
		if overlap(targetWords, wordSet(el.Text)) >= lineCoverageThreshold {
			if box := FromPolygon(el.Polygon); box != nil {
				boxes = append(boxes, *box)
			}
		}
	}
	if merged, ok := Merge(boxes); ok {
		return &merged
	}
	return nil
}

// resolveSubstring scans paragraphs, then lines, then tokens for the first
// element whose normalized text is a substring of the target or vice versa.
func resolveSubstring(target string, elements []domain.LayoutElement) *domain.BoundingBox {
	normTarget := normalize(target)
	if normTarget == "" {
		return nil
	}
	for _, kind := range []domain.LayoutKind{domain.LayoutParagraph, domain.LayoutLine, domain.LayoutToken} {
		for _, el := range elements {
			if el.Kind != kind {
				continue
			}
			normEl := normalize(el.Text)
			if normEl == "" {
				continue
			}
			if strings.Contains(normTarget, normEl) || strings.Contains(normEl, normTarget) {
				if box := FromPolygon(el.Polygon); box != nil {
					return box
				}
			}
		}
	}
	return nil
}

// overlap returns the fraction of target words present in the candidate set.
func overlap(target, candidate map[string]bool) float64 {
	if len(target) == 0 {
		return 0
	}
	hits := 0
	for w := range target {
		if candidate[w] {
			hits++
		}
	}
	return float64(hits) / float64(len(target))
}

func wordSet(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:!?()[]\"'")
		if w != "" {
			words[w] = true
		}
	}
	return words
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
