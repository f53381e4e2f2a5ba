// Package docstructure routes document payloads to a structure provider by
// content type.
package docstructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// Router dispatches by content type: PDFs to the native extractor,
// application/json to the structure decoder. Filename extension is the
// fallback when no content type is given.
type Router struct {
	pdf  port.DocumentStructureProvider
	json port.DocumentStructureProvider
}

var _ port.DocumentStructureProvider = (*Router)(nil)

func NewRouter(pdf, json port.DocumentStructureProvider) *Router {
	return &Router{pdf: pdf, json: json}
}

func (r *Router) ExtractStructure(ctx context.Context, input port.StructureInput) (*domain.DocumentStructure, error) {
	switch {
	case strings.Contains(input.ContentType, "pdf") || strings.HasSuffix(strings.ToLower(input.Name), ".pdf"):
		return r.pdf.ExtractStructure(ctx, input)
	case strings.Contains(input.ContentType, "json") || strings.HasSuffix(strings.ToLower(input.Name), ".json"):
		return r.json.ExtractStructure(ctx, input)
	default:
		return nil, fmt.Errorf("docstructure.Router: %s (%s): %w", input.Name, input.ContentType, domain.ErrUnsupportedSource)
	}
}
