package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/report"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/service"
)

// GraphHandler handles knowledge graph endpoints.
type GraphHandler struct {
	graphs service.GraphService
}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler(graphs service.GraphService) *GraphHandler {
	return &GraphHandler{graphs: graphs}
}

// BuildGraphRequest is the payload for POST /api/v1/graphs: a previous
// extraction result plus optional externally drafted test cases.
type BuildGraphRequest struct {
	Extraction domain.ExtractionResult `json:"extraction" binding:"required"`
	TestCases  []domain.TestCaseDraft  `json:"test_cases,omitempty"`
}

// Build handles POST /api/v1/graphs.
func (h *GraphHandler) Build(c *gin.Context) {
	var req BuildGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PAYLOAD", "request payload is malformed")
		return
	}

	snapshot, err := h.graphs.BuildGraph(c.Request.Context(), &req.Extraction, req.TestCases)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, snapshot)
}

// Get handles GET /api/v1/graphs/:id.
func (h *GraphHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	snapshot, err := h.graphs.GetGraph(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snapshot)
}

// List handles GET /api/v1/graphs.
func (h *GraphHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	snapshots, err := h.graphs.ListGraphs(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, snapshots)
}

// Trace handles GET /api/v1/graphs/:id/trace/:seedId.
func (h *GraphHandler) Trace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	seedID := c.Param("seedId")

	records, err := h.graphs.TraceChains(c.Request.Context(), id, seedID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, records)
}

// RTM handles GET /api/v1/graphs/:id/rtm and streams the traceability
// matrix workbook.
func (h *GraphHandler) RTM(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	snapshot, err := h.graphs.GetGraph(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteRTM(&buf, snapshot.Graph, snapshot.Summaries); err != nil {
		HandleError(c, err)
		return
	}

	filename := "rtm-" + snapshot.ID.String() + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "graph id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
