package docjson

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

const samplePayload = `{
	"name": "security-spec",
	"pages": [
		{
			"page_number": 1,
			"text": "The system shall encrypt data.",
			"elements": [
				{
					"kind": "paragraph",
					"text": "The system shall encrypt data.",
					"text_span": {"start": 0, "end": 30},
					"polygon": [
						{"x": 0.1, "y": 0.1}, {"x": 0.9, "y": 0.1},
						{"x": 0.9, "y": 0.2}, {"x": 0.1, "y": 0.2}
					]
				}
			]
		},
		{
			"text": "Audit logs are retained for a year."
		}
	]
}`

func decode(t *testing.T, payload, name string) (*domain.DocumentStructure, error) {
	t.Helper()
	return NewDecoder().ExtractStructure(context.Background(), port.StructureInput{
		Name:        name,
		Body:        strings.NewReader(payload),
		ContentType: "application/json",
	})
}

func TestDecoder_FullPayload(t *testing.T) {
	doc, err := decode(t, samplePayload, "upload.json")

	require.NoError(t, err)
	assert.Equal(t, "security-spec", doc.Name)
	require.Len(t, doc.Pages, 2)

	page := doc.Pages[0]
	assert.Equal(t, 1, page.Number)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, domain.LayoutParagraph, page.Elements[0].Kind)
	assert.Equal(t, 1, page.Elements[0].PageNumber)

	// Missing page numbers are filled positionally and document text is
	// rebuilt from page texts.
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Contains(t, doc.Text, "Audit logs")
}

func TestDecoder_NameFallsBackToInput(t *testing.T) {
	doc, err := decode(t, `{"pages":[{"page_number":1,"text":"x y z"}]}`, "fallback.json")

	require.NoError(t, err)
	assert.Equal(t, "fallback.json", doc.Name)
}

func TestDecoder_MalformedJSON(t *testing.T) {
	_, err := decode(t, `{"pages": [`, "bad.json")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestDecoder_NoPages(t *testing.T) {
	_, err := decode(t, `{"name":"empty","pages":[]}`, "empty.json")
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}
