package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

func buildSampleGraph(t *testing.T) domain.KnowledgeGraph {
	t.Helper()
	chunks := []domain.Chunk{
		chunkWithRequirement("chunk_001", "REQ-001", "The system shall erase personal data.", 1),
		chunkWithRequirement("chunk_002", "REQ-002", "The system must mask card numbers.", 2),
	}
	chunks[0].TraceLinks = []domain.TraceLink{gdprLink("REQ-001", 1)}
	chunks[1].TraceLinks = []domain.TraceLink{gdprLink("REQ-002", 2)}

	drafts := []domain.TestCaseDraft{
		{ID: "TC-1", Title: "Erasure test", DerivedFrom: "REQ-001"},
	}
	return Build(chunks, drafts)
}

func TestMetadata_Counts(t *testing.T) {
	g := buildSampleGraph(t)
	meta := g.Metadata

	assert.Equal(t, 4, meta.TotalNodes)
	assert.Equal(t, 3, meta.TotalEdges)
	assert.Equal(t, 2, meta.RequirementNodes)
	assert.Equal(t, 1, meta.ComplianceNodes)
	assert.Equal(t, 1, meta.TestCaseNodes)
	assert.Equal(t, 1, meta.ComplianceByType[domain.StandardGDPR])
	assert.Equal(t, 2, meta.EdgesByRelation[domain.RelationRequiresCompliance])
	assert.Equal(t, 1, meta.EdgesByRelation[domain.RelationVerifiedBy])
}

func TestMetadata_DensityAndConfidence(t *testing.T) {
	g := buildSampleGraph(t)
	meta := g.Metadata

	// 3 edges over 4 nodes, rounded to two decimals.
	assert.InDelta(t, 0.75, meta.GraphDensity, 1e-9)
	// Edge confidences 0.7, 0.7, 0.9.
	assert.InDelta(t, 0.77, meta.AvgConfidence, 1e-9)
}

func TestMetadata_CrossPageLinks(t *testing.T) {
	g := buildSampleGraph(t)

	// Trace-link edges reference pages 1 and 2; the verification edge
	// carries no page.
	assert.Equal(t, 2, g.Metadata.CrossPageLinks)
}

func TestMetadata_TopConnectedTieBreakIsFirstSeen(t *testing.T) {
	g := buildSampleGraph(t)
	top := g.Metadata.TopConnected

	require.NotEmpty(t, top)
	// The GDPR node holds two edges; REQ-001 also holds two (trace link
	// plus verification). REQ-001 was added first, so it ranks first.
	assert.Equal(t, "REQ-001", top[0].NodeID)
	assert.Equal(t, 2, top[0].Connections)
	assert.Equal(t, 2, top[1].Connections)
}

func TestMetadata_TopConnectedCapped(t *testing.T) {
	var chunks []domain.Chunk
	ids := []string{"REQ-001", "REQ-002", "REQ-003", "REQ-004", "REQ-005", "REQ-006", "REQ-007"}
	for i, id := range ids {
		c := chunkWithRequirement("chunk", id, "The system shall do thing "+id+".", i+1)
		c.TraceLinks = []domain.TraceLink{gdprLink(id, i+1)}
		chunks = append(chunks, c)
	}

	g := Build(chunks, nil)

	assert.Len(t, g.Metadata.TopConnected, 5)
	// The shared compliance node has the highest degree.
	assert.Equal(t, 7, g.Metadata.TopConnected[0].Connections)
}
