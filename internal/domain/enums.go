package domain

// LayoutKind identifies the granularity of a layout element on a page.
type LayoutKind string

const (
	LayoutToken     LayoutKind = "token"
	LayoutLine      LayoutKind = "line"
	LayoutParagraph LayoutKind = "paragraph"
)

// RequirementType classifies how a requirement was detected.
type RequirementType string

const (
	RequirementSectionHeader RequirementType = "SECTION_HEADER"
	RequirementModalVerb     RequirementType = "MODAL_VERB"
	RequirementActionVerb    RequirementType = "ACTION_VERB"
	RequirementBulletPoint   RequirementType = "BULLET_POINT"
)

// NodeType identifies the kind of a knowledge graph node.
type NodeType string

const (
	NodeRequirement        NodeType = "REQUIREMENT"
	NodeComplianceStandard NodeType = "COMPLIANCE_STANDARD"
	NodeTestCase           NodeType = "TEST_CASE"
)

// RelationType is the canonical set of graph edge relations.
type RelationType string

const (
	RelationGovernedBy         RelationType = "GOVERNED_BY"
	RelationRequiresCompliance RelationType = "REQUIRES_COMPLIANCE"
	RelationVerifiedBy         RelationType = "VERIFIED_BY"
	RelationEnsuresCompliance  RelationType = "ENSURES_COMPLIANCE_WITH"
)

// relationAliases maps historical spellings of edge relations onto the
// canonical enum. Source data mixes casings and an alternate "type" field;
// everything is normalized once at graph construction, and consumers that
// read foreign snapshots tolerate the variants through the Is* helpers.
var relationAliases = map[string]RelationType{
	"governed_by":             RelationGovernedBy,
	"governs":                 RelationGovernedBy,
	"requires_compliance":     RelationRequiresCompliance,
	"verified_by":             RelationVerifiedBy,
	"verifies":                RelationVerifiedBy,
	"ensures_compliance_with": RelationEnsuresCompliance,
	"ensures_compliance":      RelationEnsuresCompliance,
	"ensures":                 RelationEnsuresCompliance,
}

// NormalizeRelation maps any historical spelling of a relation tag to its
// canonical RelationType. Unrecognized tags pass through unchanged so edges
// from foreign snapshots are kept rather than dropped.
func NormalizeRelation(raw string) RelationType {
	if rel, ok := relationAliases[lowerSnake(raw)]; ok {
		return rel
	}
	return RelationType(raw)
}

// IsVerifies reports whether a relation tag denotes requirement→test
// verification, tolerating variant spellings found in older snapshots.
func (r RelationType) IsVerifies() bool {
	return relationAliases[lowerSnake(string(r))] == RelationVerifiedBy
}

// IsEnsuresCompliance reports whether a relation tag denotes test→compliance
// coverage, tolerating variant spellings.
func (r RelationType) IsEnsuresCompliance() bool {
	return relationAliases[lowerSnake(string(r))] == RelationEnsuresCompliance
}

// IsGoverns reports whether a relation tag denotes a direct
// requirement→compliance edge, tolerating variant spellings.
func (r RelationType) IsGoverns() bool {
	rel := relationAliases[lowerSnake(string(r))]
	return rel == RelationGovernedBy || rel == RelationRequiresCompliance
}

func lowerSnake(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'A' && c <= 'Z':
			b[i] = c + ('a' - 'A')
		case c == ' ' || c == '-':
			b[i] = '_'
		}
	}
	return string(b)
}

// StandardType is the regulatory regime family of a compliance node.
type StandardType string

const (
	StandardGDPR    StandardType = "GDPR"
	StandardCCPA    StandardType = "CCPA"
	StandardHIPAA   StandardType = "HIPAA"
	StandardFDA     StandardType = "FDA"
	StandardSOC2    StandardType = "SOC2"
	StandardISO     StandardType = "ISO"
	StandardUnknown StandardType = "UNKNOWN"
)

// ChunkLabel is a content classification attached to a chunk.
type ChunkLabel string

const (
	LabelAcceptanceCriteria    ChunkLabel = "ACCEPTANCE_CRITERIA"
	LabelSecurity              ChunkLabel = "SECURITY"
	LabelPerformance           ChunkLabel = "PERFORMANCE"
	LabelCompliance            ChunkLabel = "COMPLIANCE"
	LabelFunctionalRequirement ChunkLabel = "FUNCTIONAL_REQUIREMENT"
	LabelTechnical             ChunkLabel = "TECHNICAL"
	LabelTest                  ChunkLabel = "TEST"
	LabelGeneral               ChunkLabel = "GENERAL"
)

// Priority is the coarse priority assigned to requirement nodes.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)
