package graph

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

func chunkWithRequirement(id, reqID, text string, page int) domain.Chunk {
	return domain.Chunk{
		ID:         id,
		PageNumber: page,
		Text:       text,
		Requirements: []domain.DetectedRequirement{
			{ID: reqID, Text: text, Type: domain.RequirementModalVerb, Confidence: 0.85},
		},
	}
}

func gdprLink(reqID string, page int) domain.TraceLink {
	return domain.TraceLink{
		SourceID:    reqID,
		TargetID:    "GDPR",
		TargetClass: domain.NodeComplianceStandard,
		Relation:    domain.RelationRequiresCompliance,
		Confidence:  0.7,
		Page:        page,
	}
}

func TestBuild_ComplianceDeduplicatedAcrossChunks(t *testing.T) {
	chunk1 := chunkWithRequirement("chunk_001", "REQ-001", "The system shall erase personal data on request.", 1)
	chunk1.TraceLinks = []domain.TraceLink{gdprLink("REQ-001", 1)}

	chunk2 := domain.Chunk{
		ID:         "chunk_002",
		PageNumber: 2,
		TraceLinks: []domain.TraceLink{
			{
				SourceID:    "REQ-001",
				TargetID:    "gdpr:2016/679",
				TargetClass: domain.NodeComplianceStandard,
				Relation:    domain.RelationRequiresCompliance,
				Confidence:  0.7,
				Page:        2,
			},
		},
	}

	g := Build([]domain.Chunk{chunk1, chunk2}, nil)

	var complianceNodes []domain.GraphNode
	for _, n := range g.Nodes {
		if n.Type == domain.NodeComplianceStandard {
			complianceNodes = append(complianceNodes, n)
		}
	}
	require.Len(t, complianceNodes, 1)
	assert.Equal(t, "GDPR:2016/679", complianceNodes[0].Title)
	assert.Equal(t, domain.StandardGDPR, complianceNodes[0].StandardType)

	require.Len(t, g.Edges, 2)
	for _, e := range g.Edges {
		assert.Equal(t, complianceNodes[0].ID, e.To)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithRequirement("chunk_001", "REQ-001", "The system shall log access attempts.", 1),
		chunkWithRequirement("chunk_002", "REQ-002", "The platform must mask card numbers.", 2),
	}
	chunks[0].TraceLinks = []domain.TraceLink{gdprLink("REQ-001", 1)}

	first := Build(chunks, nil)
	second := Build(chunks, nil)

	assert.Equal(t, first, second)
}

func TestBuild_EdgeWithDanglingSourceSkipped(t *testing.T) {
	chunk := domain.Chunk{
		ID:         "chunk_001",
		PageNumber: 1,
		TraceLinks: []domain.TraceLink{gdprLink("REQ-404", 1)},
	}

	g := Build([]domain.Chunk{chunk}, nil)

	// The compliance node is still minted, but no edge dangles.
	assert.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Edges)
}

func TestBuild_TestDraftAddsNodeAndEdges(t *testing.T) {
	chunk := chunkWithRequirement("chunk_001", "REQ-001", "The system shall encrypt backups.", 1)
	drafts := []domain.TestCaseDraft{
		{
			ID:                  "TC-1",
			Title:               "Verify backup encryption",
			Description:         "Restore a backup and confirm ciphertext on disk.",
			DerivedFrom:         "REQ-001",
			ComplianceStandards: []string{"GDPR"},
		},
	}

	g := Build([]domain.Chunk{chunk}, drafts)

	types := make(map[domain.NodeType]int)
	for _, n := range g.Nodes {
		types[n.Type]++
	}
	assert.Equal(t, 1, types[domain.NodeRequirement])
	assert.Equal(t, 1, types[domain.NodeTestCase])
	assert.Equal(t, 1, types[domain.NodeComplianceStandard])

	relations := make(map[domain.RelationType]int)
	for _, e := range g.Edges {
		relations[e.Relation]++
	}
	assert.Equal(t, 1, relations[domain.RelationVerifiedBy])
	assert.Equal(t, 1, relations[domain.RelationEnsuresCompliance])
}

func TestBuild_DraftWithUnknownRequirementSkipped(t *testing.T) {
	chunk := chunkWithRequirement("chunk_001", "REQ-001", "The system shall encrypt backups.", 1)
	drafts := []domain.TestCaseDraft{
		{ID: "TC-9", Title: "Orphan", DerivedFrom: "REQ-999"},
	}

	g := Build([]domain.Chunk{chunk}, drafts)

	for _, n := range g.Nodes {
		assert.NotEqual(t, domain.NodeTestCase, n.Type)
	}
	assert.Empty(t, g.Edges)
}

func TestBuild_RequirementPriorityFromText(t *testing.T) {
	chunks := []domain.Chunk{
		chunkWithRequirement("chunk_001", "REQ-001", "Critical: the system shall fail over within 5 seconds.", 1),
		chunkWithRequirement("chunk_002", "REQ-002", "The system should prefer local reads.", 1),
	}

	g := Build(chunks, nil)

	byID := make(map[string]domain.GraphNode)
	for _, n := range g.Nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, domain.PriorityHigh, byID["REQ-001"].Priority)
	assert.Equal(t, domain.PriorityMedium, byID["REQ-002"].Priority)
}

func TestBuild_RelationSpellingsNormalized(t *testing.T) {
	chunk := chunkWithRequirement("chunk_001", "REQ-001", "The system shall log access attempts.", 1)
	chunk.TraceLinks = []domain.TraceLink{
		{
			SourceID:    "REQ-001",
			TargetID:    "GDPR",
			TargetClass: domain.NodeComplianceStandard,
			Relation:    domain.RelationType("governed_by"),
			Confidence:  0.7,
			Page:        1,
		},
	}

	g := Build([]domain.Chunk{chunk}, nil)

	require.Len(t, g.Edges, 1)
	assert.Equal(t, domain.RelationGovernedBy, g.Edges[0].Relation)
}

func TestBuild_TitleTruncatedOnRuneBoundary(t *testing.T) {
	// The 100-byte title cap falls inside the two-byte rune.
	text := strings.Repeat("x", 99) + "ü and the system shall redact names."
	chunk := chunkWithRequirement("chunk_001", "REQ-001", text, 1)

	g := Build([]domain.Chunk{chunk}, nil)

	require.Len(t, g.Nodes, 1)
	title := g.Nodes[0].Title
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, strings.Repeat("x", 99), title)
	assert.Equal(t, text, g.Nodes[0].Text)
}

func TestBuild_EmptyInput(t *testing.T) {
	g := Build(nil, nil)

	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
	assert.Equal(t, 0, g.Metadata.TotalNodes)
}
