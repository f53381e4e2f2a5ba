package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/service"
)

// DocumentHandler handles document extraction endpoints.
type DocumentHandler struct {
	extraction    service.ExtractionService
	maxFileSizeMB int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(extraction service.ExtractionService, maxFileSizeMB int64) *DocumentHandler {
	return &DocumentHandler{extraction: extraction, maxFileSizeMB: maxFileSizeMB}
}

// Extract handles POST /api/v1/documents/extract.
// Accepts either a multipart upload (field "file", PDF) or a raw
// document-structure JSON body, and returns per-chunk detections with
// resolved bounding boxes plus the document summary.
func (h *DocumentHandler) Extract(c *gin.Context) {
	input, cleanup, ok := h.readInput(c)
	if !ok {
		return
	}
	defer cleanup()

	result, err := h.extraction.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *DocumentHandler) readInput(c *gin.Context) (port.StructureInput, func(), bool) {
	noop := func() {}

	contentType := c.ContentType()
	if strings.Contains(contentType, "multipart/form-data") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
			return port.StructureInput{}, noop, false
		}
		if fileHeader.Size > h.maxFileSizeMB*1024*1024 {
			RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size")
			return port.StructureInput{}, noop, false
		}
		file, err := fileHeader.Open()
		if err != nil {
			RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "uploaded file could not be read")
			return port.StructureInput{}, noop, false
		}
		return port.StructureInput{
			Name:        fileHeader.Filename,
			Body:        file,
			ContentType: fileHeader.Header.Get("Content-Type"),
		}, func() { _ = file.Close() }, true
	}

	name := c.Query("name")
	if name == "" {
		name = "document.json"
	}
	return port.StructureInput{
		Name:        name,
		Body:        c.Request.Body,
		ContentType: contentType,
	}, noop, true
}
