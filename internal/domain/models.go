package domain

// Vertex is a single normalized (0..1) point of a layout polygon.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoundingBox is the normalized axis-aligned envelope of a polygon.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Valid reports whether the box has a usable extent. Malformed boxes
// (zero-valued min/max pairs from missing fields) are ignored by merges.
func (b BoundingBox) Valid() bool {
	return b.XMax > b.XMin && b.YMax > b.YMin
}

// TextAnchor locates a span inside the full document text.
type TextAnchor struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// LayoutElement is one structural element of a page as reported by the
// document-structure service: a paragraph, line, or token with its text
// span and polygon. Immutable once built, owned by its page.
type LayoutElement struct {
	Kind       LayoutKind `json:"kind"`
	PageNumber int        `json:"page_number"`
	Text       string     `json:"text"`
	TextSpan   TextAnchor `json:"text_span"`
	Polygon    []Vertex   `json:"polygon,omitempty"`
}

// Page groups the layout elements of one physical page.
type Page struct {
	Number   int             `json:"page_number"`
	Text     string          `json:"text"`
	Elements []LayoutElement `json:"elements"`
}

// DocumentStructure is the full output of the document-understanding step
// for one document: ordered pages plus the concatenated document text.
type DocumentStructure struct {
	Name  string `json:"name"`
	Text  string `json:"text"`
	Pages []Page `json:"pages"`
}

// DetectedRequirement is one requirement candidate found in a chunk.
// Text is overwritten by context expansion before bounding-box resolution;
// the id is stable from detection onward.
type DetectedRequirement struct {
	ID          string          `json:"id"`
	Text        string          `json:"text"`
	Type        RequirementType `json:"type"`
	Confidence  float64         `json:"confidence"`
	BoundingBox *BoundingBox    `json:"bounding_box,omitempty"`
}

// DetectedComplianceStandard is one compliance-regime mention found in a
// chunk. CanonicalID is the graph dedup key after normalization.
type DetectedComplianceStandard struct {
	Name        string `json:"name"`
	CanonicalID string `json:"canonical_id"`
}

// TraceLink is a same-page association between a detected requirement and a
// detected compliance mention, materialized later as a graph edge.
type TraceLink struct {
	EdgeID      string       `json:"edge_id"`
	SourceID    string       `json:"source_id"`
	TargetID    string       `json:"target_id"`
	TargetClass NodeType     `json:"target_class"`
	Relation    RelationType `json:"relation"`
	Confidence  float64      `json:"confidence"`
	Page        int          `json:"page"`
}

// Chunk is the page-scoped unit of extracted text. Later pipeline stages
// attach detections and trace links but never mutate Text or BoundingBox.
type Chunk struct {
	ID           string                       `json:"chunk_id"`
	PageNumber   int                          `json:"page_number"`
	Text         string                       `json:"text"`
	TextAnchor   *TextAnchor                  `json:"text_anchor,omitempty"`
	BoundingBox  *BoundingBox                 `json:"bounding_box,omitempty"`
	Labels       []ChunkLabel                 `json:"labels"`
	Requirements []DetectedRequirement        `json:"detected_requirements,omitempty"`
	Compliance   []DetectedComplianceStandard `json:"detected_compliance,omitempty"`
	TraceLinks   []TraceLink                  `json:"trace_links,omitempty"`
}

// ExtractionSummary aggregates per-document detection statistics.
type ExtractionSummary struct {
	TotalPages           int  `json:"total_pages"`
	TotalChunks          int  `json:"total_chunks"`
	TotalRequirements    int  `json:"total_detected_requirements"`
	TotalCompliance      int  `json:"total_detected_compliance"`
	TotalTraceLinks      int  `json:"total_trace_links"`
	TextLength           int  `json:"text_length"`
	RequirementsWithBBox int  `json:"requirements_with_bounding_box"`
	GraphReady           bool `json:"kg_ready"`
}

// ExtractionResult is the full per-document pipeline output.
type ExtractionResult struct {
	DocumentName string            `json:"document_name"`
	Chunks       []Chunk           `json:"chunks"`
	Summary      ExtractionSummary `json:"summary"`
}

// TestCaseDraft is a candidate test case supplied by the drafting
// collaborator, accepted verbatim as Graph Builder input. The optional
// compliance list yields ENSURES_COMPLIANCE_WITH edges.
type TestCaseDraft struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Category            string   `json:"category"`
	Priority            string   `json:"priority"`
	DerivedFrom         string   `json:"derived_from"`
	ComplianceStandards []string `json:"compliance_standards,omitempty"`
}

// GraphNode is one node of the traceability knowledge graph.
type GraphNode struct {
	ID           string       `json:"id"`
	Type         NodeType     `json:"type"`
	Title        string       `json:"title"`
	Text         string       `json:"text"`
	Confidence   float64      `json:"confidence"`
	PageNumber   int          `json:"page_number,omitempty"`
	Priority     Priority     `json:"priority,omitempty"`
	StandardType StandardType `json:"standard_type,omitempty"`
	BoundingBox  *BoundingBox `json:"bounding_box,omitempty"`
}

// GraphEdge is one append-only edge of the traceability knowledge graph.
type GraphEdge struct {
	ID         string       `json:"id"`
	From       string       `json:"from"`
	To         string       `json:"to"`
	Relation   RelationType `json:"relation"`
	Confidence float64      `json:"confidence"`
	Page       int          `json:"page,omitempty"`
}

// NodeDegree pairs a node id with its edge count for the metadata block.
type NodeDegree struct {
	NodeID      string `json:"node_id"`
	Connections int    `json:"connections"`
}

// GraphMetadata holds the analytics computed after the build fold.
type GraphMetadata struct {
	TotalNodes       int                  `json:"total_nodes"`
	TotalEdges       int                  `json:"total_edges"`
	RequirementNodes int                  `json:"requirement_nodes"`
	ComplianceNodes  int                  `json:"compliance_nodes"`
	TestCaseNodes    int                  `json:"test_case_nodes"`
	GraphDensity     float64              `json:"graph_density"`
	AvgConfidence    float64              `json:"avg_confidence"`
	CrossPageLinks   int                  `json:"cross_page_links"`
	ComplianceByType map[StandardType]int `json:"compliance_by_type"`
	EdgesByRelation  map[RelationType]int `json:"edges_by_relation"`
	TopConnected     []NodeDegree         `json:"top_connected_nodes"`
	NormalizedCount  int                  `json:"normalized_compliance_count"`
}

// KnowledgeGraph is a complete, immutable graph snapshot.
type KnowledgeGraph struct {
	Nodes    []GraphNode   `json:"nodes"`
	Edges    []GraphEdge   `json:"edges"`
	Metadata GraphMetadata `json:"metadata"`
}

// RequirementSummary is a flattened per-requirement view (test ids and
// compliance titles) kept alongside snapshots rebuilt from summarized data.
// The chain reconstructor falls back to it when a snapshot has no usable
// edges for a seed.
type RequirementSummary struct {
	RequirementID string   `json:"requirement_id"`
	TestIDs       []string `json:"test_ids"`
	ComplianceIDs []string `json:"compliance_ids"`
}

// ChainRecord is one requirement→test→compliance traceability path.
// Ephemeral: computed per query, never persisted.
type ChainRecord struct {
	RequirementID   string  `json:"requirement_id"`
	RequirementText string  `json:"requirement_text,omitempty"`
	TestID          string  `json:"test_id,omitempty"`
	TestTitle       string  `json:"test_title,omitempty"`
	ComplianceID    string  `json:"compliance_id"`
	ComplianceTitle string  `json:"compliance_title,omitempty"`
	Confidence      float64 `json:"confidence"`
	Direct          bool    `json:"direct"`
	Inferred        bool    `json:"inferred"`
}
