// Package graph builds and queries the traceability knowledge graph.
package graph

import (
	"fmt"
	"strings"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// complianceAliases maps case/whitespace-insensitive spellings of a
// regulatory regime onto its canonical id, the dedup key for compliance
// nodes. Both detector-side canonical ids and free-text names are aliases.
// Unrecognized strings pass through as their own canonical id.
var complianceAliases = map[string]string{
	"gdpr":                                "GDPR:2016/679",
	"gdpr:2016/679":                       "GDPR:2016/679",
	"general data protection regulation":  "GDPR:2016/679",
	"ccpa":                                "CCPA:2018",
	"ccpa:2018":                           "CCPA:2018",
	"ccpa:ca-civ-1798.100":                "CCPA:2018",
	"california consumer privacy act":     "CCPA:2018",
	"hipaa":                               "HIPAA:1996",
	"hipaa:1996":                          "HIPAA:1996",
	"hipaa:45-cfr-164":                    "HIPAA:1996",
	"health insurance portability":        "HIPAA:1996",
	"fda":                                 "FDA:21CFR11",
	"fda:21cfr11":                         "FDA:21CFR11",
	"fda:21-cfr-11":                       "FDA:21CFR11",
	"fda 21 cfr part 11":                  "FDA:21CFR11",
	"21 cfr part 11":                      "FDA:21CFR11",
	"soc2":                                "SOC2:TypeII",
	"soc 2":                               "SOC2:TypeII",
	"soc2:aicpa-tsc":                      "SOC2:TypeII",
	"service organization control":        "SOC2:TypeII",
	"iso27001":                            "ISO:27001",
	"iso 27001":                           "ISO:27001",
	"iso27001:2013":                       "ISO:27001",
	"pci-dss":                             "PCI-DSS:v4.0",
	"pci dss":                             "PCI-DSS:v4.0",
	"pci-dss:v4.0":                        "PCI-DSS:v4.0",
	"payment card industry":               "PCI-DSS:v4.0",
}

func init() {
	// The alias table is data, but a malformed entry corrupts graph
	// identity for every run; validate it once at startup.
	for alias, canonical := range complianceAliases {
		if canonical == "" {
			panic(fmt.Sprintf("graph: alias %q maps to empty canonical id", alias))
		}
		if alias != strings.TrimSpace(strings.ToLower(alias)) {
			panic(fmt.Sprintf("graph: alias %q is not lowercase/trimmed", alias))
		}
	}
}

// NormalizeComplianceID maps a raw compliance identifier to its canonical
// form. Unrecognized strings are returned unchanged; empty input maps to
// UNKNOWN rather than producing an empty node id.
func NormalizeComplianceID(raw string) string {
	if raw == "" {
		return string(domain.StandardUnknown)
	}
	if canonical, ok := complianceAliases[strings.TrimSpace(strings.ToLower(raw))]; ok {
		return canonical
	}
	return raw
}

// standardPrefixes resolves a canonical id to its regime family.
var standardPrefixes = []struct {
	prefix string
	typ    domain.StandardType
}{
	{"GDPR", domain.StandardGDPR},
	{"CCPA", domain.StandardCCPA},
	{"HIPAA", domain.StandardHIPAA},
	{"FDA", domain.StandardFDA},
	{"SOC2", domain.StandardSOC2},
	{"ISO", domain.StandardISO},
}

// StandardTypeOf derives the regime family from a canonical id by prefix
// matching, UNKNOWN when no known regime matches.
func StandardTypeOf(canonicalID string) domain.StandardType {
	for _, p := range standardPrefixes {
		if strings.HasPrefix(canonicalID, p.prefix) {
			return p.typ
		}
	}
	return domain.StandardUnknown
}
