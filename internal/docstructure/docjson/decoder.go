// Package docjson decodes pre-analyzed document structure payloads, the
// JSON a document-understanding service emits: full text plus per-page
// layout elements with text spans and polygons.
package docjson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// Decoder turns a structure JSON payload into a DocumentStructure. It
// tolerates sparse payloads: pages without elements, elements without
// polygons, and a missing top-level text field (rebuilt from page texts).
type Decoder struct{}

var _ port.DocumentStructureProvider = (*Decoder)(nil)

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) ExtractStructure(ctx context.Context, input port.StructureInput) (*domain.DocumentStructure, error) {
	var doc domain.DocumentStructure
	if err := json.NewDecoder(input.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("docjson.ExtractStructure: %w: %v", domain.ErrInvalidPayload, err)
	}
	if doc.Name == "" {
		doc.Name = input.Name
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("docjson.ExtractStructure: %s: %w", doc.Name, domain.ErrEmptyDocument)
	}

	for i := range doc.Pages {
		if doc.Pages[i].Number == 0 {
			doc.Pages[i].Number = i + 1
		}
		for j := range doc.Pages[i].Elements {
			if doc.Pages[i].Elements[j].PageNumber == 0 {
				doc.Pages[i].Elements[j].PageNumber = doc.Pages[i].Number
			}
		}
	}

	if doc.Text == "" {
		texts := make([]string, 0, len(doc.Pages))
		for _, p := range doc.Pages {
			if p.Text != "" {
				texts = append(texts, p.Text)
			}
		}
		doc.Text = strings.Join(texts, "\n")
	}
	if doc.Text == "" {
		return nil, fmt.Errorf("docjson.ExtractStructure: %s: %w", doc.Name, domain.ErrEmptyDocument)
	}
	return &doc, nil
}
