package detect

import (
	"fmt"
	"regexp"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// complianceRegime bundles the detection patterns for one regulatory regime.
type complianceRegime struct {
	name        string
	canonicalID string
	patterns    []*regexp.Regexp
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

// complianceRegimes is the fixed regime table. Order determines the order
// of reported mentions; each regime is reported at most once per chunk.
var complianceRegimes = []complianceRegime{
	{
		name:        "GDPR",
		canonicalID: "GDPR:2016/679",
		patterns: rx(
			`\bGDPR\b`,
			`General Data Protection Regulation`,
			`GDPR\s+Article\s+\d+`,
			`\bdata protection\b.*\bEU\b`,
			`\bright to be forgotten\b`,
			`\bdata subject rights\b`,
		),
	},
	{
		name:        "CCPA",
		canonicalID: "CCPA:CA-CIV-1798.100",
		patterns: rx(
			`\bCCPA\b`,
			`California Consumer Privacy Act`,
			`\bconsumer privacy rights\b.*\bCalifornia\b`,
			`\bdo not sell\b.*\bpersonal information\b`,
		),
	},
	{
		name:        "HIPAA",
		canonicalID: "HIPAA:45-CFR-164",
		patterns: rx(
			`\bHIPAA\b`,
			`Health Insurance Portability`,
			`\bPHI\b.*\bprotection\b`,
			`\bprotected health information\b`,
			`HIPAA\s+§\s*\d+`,
		),
	},
	{
		name:        "SOC2",
		canonicalID: "SOC2:AICPA-TSC",
		patterns: rx(
			`\bSOC\s*2\b`,
			`SOC\s*2\s+Type\s+(I|II)`,
			`\bservice organization control\b`,
		),
	},
	{
		name:        "ISO27001",
		canonicalID: "ISO27001:2013",
		patterns: rx(
			`\bISO\s*27001\b`,
			`\bISO/IEC\s*27001\b`,
			`information security management`,
		),
	},
	{
		name:        "PCI-DSS",
		canonicalID: "PCI-DSS:v4.0",
		patterns: rx(
			`\bPCI\s*DSS\b`,
			`\bPCI-DSS\b`,
			`Payment Card Industry`,
			`\bcardholder data\b.*\bsecurity\b`,
		),
	},
	{
		name:        "FDA 21 CFR Part 11",
		canonicalID: "FDA:21-CFR-11",
		patterns: rx(
			`\bFDA\s+21\s+CFR\s+Part\s+11\b`,
			`\b21\s+CFR\s+11\b`,
			`\belectronic signatures\b.*\bFDA\b`,
		),
	},
}

func init() {
	// A malformed regime table is a programming error; fail fast at startup
	// rather than silently skipping regimes at detection time.
	seen := make(map[string]bool, len(complianceRegimes))
	for _, regime := range complianceRegimes {
		if regime.canonicalID == "" || len(regime.patterns) == 0 {
			panic(fmt.Sprintf("detect: regime %q has no canonical id or patterns", regime.name))
		}
		if seen[regime.canonicalID] {
			panic(fmt.Sprintf("detect: duplicate canonical id %q in regime table", regime.canonicalID))
		}
		seen[regime.canonicalID] = true
	}
}

// DetectCompliance scans chunk text for compliance-standard mentions.
// A regime is reported at most once regardless of how many of its patterns
// match. Empty input yields an empty result; it never fails.
func DetectCompliance(text string) []domain.DetectedComplianceStandard {
	if text == "" {
		return nil
	}
	var detected []domain.DetectedComplianceStandard
	for _, regime := range complianceRegimes {
		for _, pattern := range regime.patterns {
			if pattern.MatchString(text) {
				detected = append(detected, domain.DetectedComplianceStandard{
					Name:        regime.name,
					CanonicalID: regime.canonicalID,
				})
				break
			}
		}
	}
	return detected
}
