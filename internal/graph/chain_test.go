package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

func chainFixture() domain.KnowledgeGraph {
	return domain.KnowledgeGraph{
		Nodes: []domain.GraphNode{
			{ID: "REQ-001", Type: domain.NodeRequirement, Text: "The system shall erase personal data."},
			{ID: "TC-1", Type: domain.NodeTestCase, Title: "Erasure test"},
			{ID: "COMP_001", Type: domain.NodeComplianceStandard, Title: "GDPR:2016/679"},
		},
		Edges: []domain.GraphEdge{
			{ID: "edge_001", From: "REQ-001", To: "TC-1", Relation: domain.RelationVerifiedBy, Confidence: 0.9},
			{ID: "edge_002", From: "TC-1", To: "COMP_001", Relation: domain.RelationEnsuresCompliance, Confidence: 0.85},
		},
	}
}

func TestChains_TestMediated(t *testing.T) {
	g := chainFixture()
	records, err := Chains("REQ-001", &g, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "REQ-001", rec.RequirementID)
	assert.Equal(t, "TC-1", rec.TestID)
	assert.Equal(t, "COMP_001", rec.ComplianceID)
	assert.Equal(t, "GDPR:2016/679", rec.ComplianceTitle)
	assert.False(t, rec.Direct)
	assert.False(t, rec.Inferred)
}

func TestChains_TestCaseSeedResolvesToRequirement(t *testing.T) {
	g := chainFixture()
	records, err := Chains("TC-1", &g, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "REQ-001", records[0].RequirementID)
}

func TestChains_DirectGovernedBy(t *testing.T) {
	g := chainFixture()
	g.Edges = append(g.Edges, domain.GraphEdge{
		ID: "edge_003", From: "REQ-001", To: "COMP_001",
		Relation: domain.RelationGovernedBy, Confidence: 0.7,
	})

	records, err := Chains("REQ-001", &g, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var direct *domain.ChainRecord
	for i := range records {
		if records[i].Direct {
			direct = &records[i]
		}
	}
	require.NotNil(t, direct)
	assert.Empty(t, direct.TestID)
	assert.Equal(t, "COMP_001", direct.ComplianceID)
}

func TestChains_ToleratesLegacyRelationSpellings(t *testing.T) {
	g := chainFixture()
	g.Edges[0].Relation = domain.RelationType("verified_by")
	g.Edges[1].Relation = domain.RelationType("ensures_compliance")

	records, err := Chains("REQ-001", &g, nil)

	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestChains_DeduplicatesPairs(t *testing.T) {
	g := chainFixture()
	// A second verification edge to the same test must not double the record.
	g.Edges = append(g.Edges, domain.GraphEdge{
		ID: "edge_004", From: "REQ-001", To: "TC-1",
		Relation: domain.RelationVerifiedBy, Confidence: 0.9,
	})

	records, err := Chains("REQ-001", &g, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestChains_InferredFallbackFromSummaries(t *testing.T) {
	g := domain.KnowledgeGraph{
		Nodes: []domain.GraphNode{
			{ID: "REQ-007", Type: domain.NodeRequirement, Text: "The system shall notify regulators."},
		},
	}
	summaries := []domain.RequirementSummary{
		{
			RequirementID: "REQ-007",
			TestIDs:       []string{"TC-3"},
			ComplianceIDs: []string{"COMP_002"},
		},
	}

	records, err := Chains("REQ-007", &g, summaries)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Inferred)
	assert.Equal(t, "TC-3", records[0].TestID)
	assert.Equal(t, "COMP_002", records[0].ComplianceID)
}

func TestChains_NoEdgesNoSummaryYieldsEmpty(t *testing.T) {
	g := domain.KnowledgeGraph{
		Nodes: []domain.GraphNode{
			{ID: "REQ-008", Type: domain.NodeRequirement},
		},
	}

	records, err := Chains("REQ-008", &g, nil)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChains_UnknownSeed(t *testing.T) {
	g := chainFixture()
	_, err := Chains("REQ-999", &g, nil)

	assert.ErrorIs(t, err, domain.ErrSeedNotFound)
}

func TestChains_ComplianceSeedRejected(t *testing.T) {
	g := chainFixture()
	_, err := Chains("COMP_001", &g, nil)

	assert.ErrorIs(t, err, domain.ErrSeedNotFound)
}
