package graph

import (
	"math"
	"sort"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

const topConnectedLimit = 5

// computeMetadata derives the analytics block from a finished fold. It only
// reads the accumulator, so repeated calls over the same state are
// byte-identical.
func computeMetadata(acc *Accumulator) domain.GraphMetadata {
	meta := domain.GraphMetadata{
		TotalNodes:       len(acc.nodes),
		TotalEdges:       len(acc.edges),
		ComplianceByType: make(map[domain.StandardType]int),
		EdgesByRelation:  make(map[domain.RelationType]int),
		NormalizedCount:  len(acc.complianceNodes),
	}

	for _, n := range acc.nodes {
		switch n.Type {
		case domain.NodeRequirement:
			meta.RequirementNodes++
		case domain.NodeComplianceStandard:
			meta.ComplianceNodes++
			meta.ComplianceByType[n.StandardType]++
		case domain.NodeTestCase:
			meta.TestCaseNodes++
		}
	}

	pages := make(map[int]bool)
	var confSum float64
	for _, e := range acc.edges {
		meta.EdgesByRelation[e.Relation]++
		confSum += e.Confidence
		if e.Page > 0 {
			pages[e.Page] = true
		}
	}
	meta.CrossPageLinks = len(pages)

	if len(acc.nodes) > 0 {
		meta.GraphDensity = round2(float64(len(acc.edges)) / float64(len(acc.nodes)))
	}
	if len(acc.edges) > 0 {
		meta.AvgConfidence = round2(confSum / float64(len(acc.edges)))
	}

	meta.TopConnected = topConnected(acc)
	return meta
}

// topConnected ranks nodes by degree (edges touching the node in either
// direction). The stable sort preserves first-seen order among ties.
func topConnected(acc *Accumulator) []domain.NodeDegree {
	degrees := make(map[string]int, len(acc.nodes))
	for _, e := range acc.edges {
		degrees[e.From]++
		degrees[e.To]++
	}

	ranked := make([]domain.NodeDegree, 0, len(acc.nodes))
	for _, n := range acc.nodes {
		if d := degrees[n.ID]; d > 0 {
			ranked = append(ranked, domain.NodeDegree{NodeID: n.ID, Connections: d})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Connections > ranked[j].Connections
	})
	if len(ranked) > topConnectedLimit {
		ranked = ranked[:topConnectedLimit]
	}
	return ranked
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
