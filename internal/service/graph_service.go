package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/graph"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// GraphService builds, persists, and queries traceability graph snapshots.
type GraphService interface {
	BuildGraph(ctx context.Context, result *domain.ExtractionResult, drafts []domain.TestCaseDraft) (*port.GraphSnapshot, error)
	GetGraph(ctx context.Context, id uuid.UUID) (*port.GraphSnapshot, error)
	ListGraphs(ctx context.Context, limit int) ([]port.GraphSnapshot, error)
	TraceChains(ctx context.Context, id uuid.UUID, seedID string) ([]domain.ChainRecord, error)
}

type graphService struct {
	snapshots port.GraphSnapshotRepository
	drafter   port.TestDrafter
}

// NewGraphService creates a new GraphService implementation. The drafter is
// optional; without one, graphs are built from detections alone unless the
// caller supplies drafts explicitly.
func NewGraphService(snapshots port.GraphSnapshotRepository, drafter port.TestDrafter) GraphService {
	return &graphService{snapshots: snapshots, drafter: drafter}
}

func (s *graphService) BuildGraph(ctx context.Context, result *domain.ExtractionResult, drafts []domain.TestCaseDraft) (*port.GraphSnapshot, error) {
	if result == nil || len(result.Chunks) == 0 {
		return nil, domain.ErrNoChunks
	}

	if len(drafts) == 0 && s.drafter != nil {
		generated, err := s.drafter.DraftTestCases(ctx, allRequirements(result.Chunks))
		if err != nil {
			log.Printf("graphService.BuildGraph: test drafting failed, building without test cases: %v", err)
		} else {
			drafts = generated
		}
	}

	g := graph.Build(result.Chunks, drafts)
	snapshot := &port.GraphSnapshot{
		ID:           uuid.New(),
		DocumentName: result.DocumentName,
		Graph:        g,
		Summaries:    flattenSummaries(&g),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("graphService.BuildGraph: save snapshot: %w", err)
	}
	log.Printf("graphService.BuildGraph: %s: snapshot %s (%d nodes, %d edges)",
		result.DocumentName, snapshot.ID, g.Metadata.TotalNodes, g.Metadata.TotalEdges)
	return snapshot, nil
}

func (s *graphService) GetGraph(ctx context.Context, id uuid.UUID) (*port.GraphSnapshot, error) {
	snapshot, err := s.snapshots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("graphService.GetGraph: %w", err)
	}
	return snapshot, nil
}

func (s *graphService) ListGraphs(ctx context.Context, limit int) ([]port.GraphSnapshot, error) {
	snapshots, err := s.snapshots.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("graphService.ListGraphs: %w", err)
	}
	return snapshots, nil
}

func (s *graphService) TraceChains(ctx context.Context, id uuid.UUID, seedID string) ([]domain.ChainRecord, error) {
	snapshot, err := s.snapshots.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("graphService.TraceChains: %w", err)
	}
	records, err := graph.Chains(seedID, &snapshot.Graph, snapshot.Summaries)
	if err != nil {
		return nil, fmt.Errorf("graphService.TraceChains: %w", err)
	}
	return records, nil
}

func allRequirements(chunks []domain.Chunk) []domain.DetectedRequirement {
	var reqs []domain.DetectedRequirement
	for _, chunk := range chunks {
		reqs = append(reqs, chunk.Requirements...)
	}
	return reqs
}

// flattenSummaries derives the per-requirement (test ids, compliance ids)
// view stored alongside each snapshot. Chain queries fall back to it when a
// rebuilt snapshot carries no usable edges.
func flattenSummaries(g *domain.KnowledgeGraph) []domain.RequirementSummary {
	nodes := make(map[string]*domain.GraphNode, len(g.Nodes))
	for i := range g.Nodes {
		nodes[g.Nodes[i].ID] = &g.Nodes[i]
	}

	index := make(map[string]*domain.RequirementSummary)
	var order []string
	forReq := func(reqID string) *domain.RequirementSummary {
		if s, ok := index[reqID]; ok {
			return s
		}
		s := &domain.RequirementSummary{RequirementID: reqID}
		index[reqID] = s
		order = append(order, reqID)
		return s
	}

	testToReq := make(map[string]string)
	for _, n := range g.Nodes {
		if n.Type == domain.NodeRequirement {
			forReq(n.ID)
		}
	}
	for _, e := range g.Edges {
		if e.Relation.IsVerifies() {
			forReq(e.From).TestIDs = append(forReq(e.From).TestIDs, e.To)
			testToReq[e.To] = e.From
		}
	}
	for _, e := range g.Edges {
		switch {
		case e.Relation.IsGoverns():
			if node, ok := nodes[e.From]; ok && node.Type == domain.NodeRequirement {
				forReq(e.From).ComplianceIDs = appendUnique(forReq(e.From).ComplianceIDs, e.To)
			}
		case e.Relation.IsEnsuresCompliance():
			if reqID, ok := testToReq[e.From]; ok {
				forReq(reqID).ComplianceIDs = appendUnique(forReq(reqID).ComplianceIDs, e.To)
			}
		}
	}

	summaries := make([]domain.RequirementSummary, 0, len(order))
	for _, reqID := range order {
		summaries = append(summaries, *index[reqID])
	}
	return summaries
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
