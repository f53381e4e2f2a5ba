package port

import (
	"context"
	"io"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// StructureInput carries one document payload for structure extraction.
type StructureInput struct {
	Name        string
	Body        io.Reader
	ContentType string
}

// DocumentStructureProvider abstracts the document-understanding step that
// turns a raw document into pages, layout elements, and full text.
type DocumentStructureProvider interface {
	ExtractStructure(ctx context.Context, input StructureInput) (*domain.DocumentStructure, error)
}
