package graph

import (
	"fmt"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// inferredConfidence is assigned to chain records synthesized from flattened
// summaries, where no edge carries a real score.
const inferredConfidence = 0.5

type chainKey struct {
	testID       string
	complianceID string
}

// Chains reconstructs requirement→test→compliance traceability paths for a
// seed node. A TEST_CASE seed is first resolved to its source requirement
// through its verification edge. Stateless per call; safe for concurrent
// queries against the same snapshot.
//
// Three record shapes come out, disjoint by construction: test-mediated
// chains, direct governed-by chains (Direct=true), and, only when the
// snapshot carries no usable edges for the seed, records synthesized from
// flattened summaries (Inferred=true). Duplicate (test, compliance) pairs
// are dropped, keeping the first occurrence.
func Chains(seedID string, g *domain.KnowledgeGraph, summaries []domain.RequirementSummary) ([]domain.ChainRecord, error) {
	if g == nil {
		return nil, domain.ErrSeedNotFound
	}

	nodes := make(map[string]*domain.GraphNode, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}

	reqID, err := resolveSeed(seedID, nodes, g.Edges)
	if err != nil {
		return nil, err
	}
	req := nodes[reqID]

	seen := make(map[chainKey]bool)
	var records []domain.ChainRecord
	add := func(r domain.ChainRecord) {
		k := chainKey{r.TestID, r.ComplianceID}
		if seen[k] {
			return
		}
		seen[k] = true
		records = append(records, r)
	}

	// Test-mediated chains: verifies edges out of the requirement, then
	// ensures-compliance edges out of each test.
	for _, ve := range g.Edges {
		if ve.From != reqID || !ve.Relation.IsVerifies() {
			continue
		}
		test, ok := nodes[ve.To]
		if !ok || test.Type != domain.NodeTestCase {
			continue
		}
		for _, ce := range g.Edges {
			if ce.From != test.ID || !ce.Relation.IsEnsuresCompliance() {
				continue
			}
			comp, ok := nodes[ce.To]
			if !ok {
				continue
			}
			add(domain.ChainRecord{
				RequirementID:   reqID,
				RequirementText: req.Text,
				TestID:          test.ID,
				TestTitle:       test.Title,
				ComplianceID:    comp.ID,
				ComplianceTitle: comp.Title,
				Confidence:      ce.Confidence,
			})
		}
	}

	// Direct requirement→compliance chains.
	for _, de := range g.Edges {
		if de.From != reqID || !de.Relation.IsGoverns() {
			continue
		}
		comp, ok := nodes[de.To]
		if !ok || comp.Type != domain.NodeComplianceStandard {
			continue
		}
		add(domain.ChainRecord{
			RequirementID:   reqID,
			RequirementText: req.Text,
			ComplianceID:    comp.ID,
			ComplianceTitle: comp.Title,
			Confidence:      de.Confidence,
			Direct:          true,
		})
	}

	// No usable edges for this requirement (snapshots rebuilt from
	// flattened summaries lose them). Synthesize from the summary instead.
	if len(records) == 0 {
		for _, r := range inferredChains(reqID, req, summaries) {
			add(r)
		}
	}
	return records, nil
}

// inferredChains pairs the summary's test ids with its compliance ids. With
// no tests on record, each compliance id still yields a requirement-only
// record so the regime linkage is not silently lost.
func inferredChains(reqID string, req *domain.GraphNode, summaries []domain.RequirementSummary) []domain.ChainRecord {
	var summary *domain.RequirementSummary
	for i := range summaries {
		if summaries[i].RequirementID == reqID {
			summary = &summaries[i]
			break
		}
	}
	if summary == nil {
		return nil
	}

	var records []domain.ChainRecord
	emit := func(testID, compID string) {
		records = append(records, domain.ChainRecord{
			RequirementID:   reqID,
			RequirementText: req.Text,
			TestID:          testID,
			ComplianceID:    compID,
			Confidence:      inferredConfidence,
			Inferred:        true,
		})
	}
	if len(summary.TestIDs) == 0 {
		for _, compID := range summary.ComplianceIDs {
			emit("", compID)
		}
		return records
	}
	for _, testID := range summary.TestIDs {
		for _, compID := range summary.ComplianceIDs {
			emit(testID, compID)
		}
	}
	return records
}

// resolveSeed maps the query id onto a requirement node id. Test-case seeds
// follow their incoming verification edge back to the requirement.
func resolveSeed(seedID string, nodes map[string]*domain.GraphNode, edges []domain.GraphEdge) (string, error) {
	node, ok := nodes[seedID]
	if !ok {
		return "", fmt.Errorf("seed %s: %w", seedID, domain.ErrSeedNotFound)
	}
	switch node.Type {
	case domain.NodeRequirement:
		return seedID, nil
	case domain.NodeTestCase:
		for _, e := range edges {
			if e.To == seedID && e.Relation.IsVerifies() {
				if src, ok := nodes[e.From]; ok && src.Type == domain.NodeRequirement {
					return src.ID, nil
				}
			}
		}
		return "", fmt.Errorf("test case %s has no source requirement: %w", seedID, domain.ErrSeedNotFound)
	default:
		return "", fmt.Errorf("seed %s is a %s node: %w", seedID, node.Type, domain.ErrSeedNotFound)
	}
}
