package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

const (
	titleMaxLen           = 100
	complianceBaseConf    = 0.8
	relationshipConf      = 0.7
	testCaseConfidence    = 0.9
	ensuresComplianceConf = 0.85
)

// Accumulator is the dedup state threaded through one graph build: a node
// arena plus indexes keyed by node id and canonical compliance id. Each
// build owns its accumulator, so multiple graphs can be built concurrently
// in one process. Not safe for concurrent mutation; the fold itself is
// inherently sequential.
type Accumulator struct {
	nodes           []domain.GraphNode
	edges           []domain.GraphEdge
	nodeByID        map[string]int    // node id → arena index
	complianceNodes map[string]string // canonical id → minted node id
	edgeSeq         int
}

// NewAccumulator creates an empty build accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		nodeByID:        make(map[string]int),
		complianceNodes: make(map[string]string),
	}
}

func (a *Accumulator) has(id string) bool {
	_, ok := a.nodeByID[id]
	return ok
}

func (a *Accumulator) addNode(n domain.GraphNode) {
	a.nodeByID[n.ID] = len(a.nodes)
	a.nodes = append(a.nodes, n)
}

// addEdge appends an edge, minting an id when the source data carried none.
// Both endpoints must already exist in the arena.
func (a *Accumulator) addEdge(e domain.GraphEdge) bool {
	if !a.has(e.From) || !a.has(e.To) {
		return false
	}
	a.edgeSeq++
	if e.ID == "" {
		e.ID = fmt.Sprintf("edge_%03d", a.edgeSeq)
	}
	a.edges = append(a.edges, e)
	return true
}

// ensureCompliance returns the node id for a canonical compliance id,
// minting a COMP_NNN node on first sighting. One canonical id maps to
// exactly one node for the lifetime of the accumulator.
func (a *Accumulator) ensureCompliance(canonicalID string, page int, confidence float64) string {
	if nodeID, ok := a.complianceNodes[canonicalID]; ok {
		return nodeID
	}
	nodeID := fmt.Sprintf("COMP_%03d", len(a.complianceNodes)+1)
	a.complianceNodes[canonicalID] = nodeID
	a.addNode(domain.GraphNode{
		ID:           nodeID,
		Type:         domain.NodeComplianceStandard,
		Title:        canonicalID,
		Text:         "Compliance standard: " + canonicalID,
		Confidence:   confidence,
		PageNumber:   page,
		StandardType: StandardTypeOf(canonicalID),
	})
	return nodeID
}

// Build folds chunks (in document page order) and optional test-case
// drafts into a deduplicated knowledge graph. The fold is order-sensitive:
// node ids (COMP_NNN) and edge ids depend on first-seen order, so identical
// input always produces identical output.
func Build(chunks []domain.Chunk, drafts []domain.TestCaseDraft) domain.KnowledgeGraph {
	acc := NewAccumulator()
	for i := range chunks {
		foldChunk(acc, &chunks[i])
	}
	for i := range drafts {
		foldDraft(acc, &drafts[i])
	}
	return domain.KnowledgeGraph{
		Nodes:    acc.nodes,
		Edges:    acc.edges,
		Metadata: computeMetadata(acc),
	}
}

func foldChunk(acc *Accumulator, chunk *domain.Chunk) {
	// Requirement nodes from detections. Ids are inherited from the
	// detector and unique per run; a repeat sighting is a no-op.
	for _, req := range chunk.Requirements {
		if req.ID == "" || acc.has(req.ID) {
			continue
		}
		acc.addNode(domain.GraphNode{
			ID:          req.ID,
			Type:        domain.NodeRequirement,
			Title:       truncateTitle(req.Text),
			Text:        req.Text,
			Confidence:  req.Confidence,
			PageNumber:  chunk.PageNumber,
			Priority:    priorityOf(req.Text),
			BoundingBox: req.BoundingBox,
		})
	}

	// Compliance nodes from detections.
	for _, comp := range chunk.Compliance {
		id := comp.CanonicalID
		if id == "" {
			id = comp.Name
		}
		acc.ensureCompliance(NormalizeComplianceID(id), chunk.PageNumber, complianceBaseConf)
	}

	// Compliance nodes referenced only by trace links still get minted, so
	// every edge target resolves.
	for _, link := range chunk.TraceLinks {
		if link.TargetClass == domain.NodeComplianceStandard && link.TargetID != "" {
			acc.ensureCompliance(NormalizeComplianceID(link.TargetID), link.Page, relationshipConf)
		}
	}

	// Trace links become edges; compliance targets are rewritten to the
	// minted synthetic node id through the same canonical lookup.
	for _, link := range chunk.TraceLinks {
		if link.SourceID == "" || link.TargetID == "" {
			continue
		}
		targetID := link.TargetID
		if link.TargetClass == domain.NodeComplianceStandard {
			targetID = acc.complianceNodes[NormalizeComplianceID(link.TargetID)]
		}
		page := link.Page
		if page == 0 {
			page = chunk.PageNumber
		}
		acc.addEdge(domain.GraphEdge{
			ID:         link.EdgeID,
			From:       link.SourceID,
			To:         targetID,
			Relation:   domain.NormalizeRelation(string(link.Relation)),
			Confidence: link.Confidence,
			Page:       page,
		})
	}
}

// foldDraft adds a TEST_CASE node and its verification edge. A draft whose
// source requirement is absent from the graph is skipped entirely, so no
// dangling edges are produced.
func foldDraft(acc *Accumulator, draft *domain.TestCaseDraft) {
	if draft.ID == "" || acc.has(draft.ID) {
		return
	}
	if draft.DerivedFrom == "" || !acc.has(draft.DerivedFrom) {
		return
	}

	acc.addNode(domain.GraphNode{
		ID:         draft.ID,
		Type:       domain.NodeTestCase,
		Title:      draft.Title,
		Text:       draft.Description,
		Confidence: testCaseConfidence,
	})
	acc.addEdge(domain.GraphEdge{
		From:       draft.DerivedFrom,
		To:         draft.ID,
		Relation:   domain.RelationVerifiedBy,
		Confidence: testCaseConfidence,
	})

	for _, std := range draft.ComplianceStandards {
		nodeID := acc.ensureCompliance(NormalizeComplianceID(std), 0, complianceBaseConf)
		acc.addEdge(domain.GraphEdge{
			From:       draft.ID,
			To:         nodeID,
			Relation:   domain.RelationEnsuresCompliance,
			Confidence: ensuresComplianceConf,
		})
	}
}

// truncateTitle caps the title at titleMaxLen bytes, backing up to a rune
// boundary so the cut never produces invalid UTF-8.
func truncateTitle(text string) string {
	if len(text) <= titleMaxLen {
		return text
	}
	cut := titleMaxLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func priorityOf(text string) domain.Priority {
	if strings.Contains(strings.ToLower(text), "critical") {
		return domain.PriorityHigh
	}
	return domain.PriorityMedium
}
