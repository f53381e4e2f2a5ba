package detect

import (
	"strings"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// labelRule pairs a chunk label with the keywords that trigger it.
type labelRule struct {
	label    domain.ChunkLabel
	keywords []string
}

var labelRules = []labelRule{
	{domain.LabelAcceptanceCriteria, []string{"acceptance criteria", "acceptance test", "ac:"}},
	{domain.LabelSecurity, []string{"security", "authentication", "authorization", "encryption"}},
	{domain.LabelPerformance, []string{"performance", "scalability", "load", "response time"}},
	{domain.LabelCompliance, []string{"compliance", "regulation", "gdpr", "hipaa", "sox", "ccpa"}},
	{domain.LabelFunctionalRequirement, []string{"functional requirement", "user story", "feature"}},
	{domain.LabelTechnical, []string{"technical", "architecture", "design"}},
	{domain.LabelTest, []string{"test", "testing", "qa"}},
}

// ClassifyLabels assigns every matching content label to a chunk, falling
// back to GENERAL when nothing matches.
func ClassifyLabels(text string) []domain.ChunkLabel {
	lower := strings.ToLower(text)

	var labels []domain.ChunkLabel
	for _, rule := range labelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				labels = append(labels, rule.label)
				break
			}
		}
	}

	if len(labels) == 0 {
		labels = append(labels, domain.LabelGeneral)
	}
	return labels
}
