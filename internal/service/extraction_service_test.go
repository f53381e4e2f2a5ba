package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/service"
	"github.com/rajrawat37/gemini-traceability-microservice/mocks"
)

func securityPage() domain.Page {
	text := "The system shall authenticate users. It must use multi-factor authentication. GDPR compliance is mandatory."
	return domain.Page{
		Number: 1,
		Text:   text,
		Elements: []domain.LayoutElement{
			{
				Kind:       domain.LayoutParagraph,
				PageNumber: 1,
				Text:       text,
				TextSpan:   domain.TextAnchor{Start: 0, End: len(text)},
				Polygon: []domain.Vertex{
					{X: 0.1, Y: 0.1}, {X: 0.9, Y: 0.1}, {X: 0.9, Y: 0.3}, {X: 0.1, Y: 0.3},
				},
			},
		},
	}
}

func testStructure() *domain.DocumentStructure {
	page := securityPage()
	return &domain.DocumentStructure{
		Name:  "security-spec.pdf",
		Text:  page.Text,
		Pages: []domain.Page{page},
	}
}

func newPipeline() service.ExtractionService {
	return service.NewExtractionService(nil, nil, nil, service.ExtractionConfig{})
}

func TestExtractionService_DetectsAndLinks(t *testing.T) {
	result, err := newPipeline().ExtractFromStructure(context.Background(), testStructure())

	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	chunk := result.Chunks[0]

	require.Len(t, chunk.Requirements, 2)
	assert.Equal(t, "REQ-001", chunk.Requirements[0].ID)
	assert.Equal(t, "REQ-002", chunk.Requirements[1].ID)

	require.Len(t, chunk.Compliance, 1)
	assert.Equal(t, "GDPR:2016/679", chunk.Compliance[0].CanonicalID)

	// Two requirements, one regime: two same-page links.
	require.Len(t, chunk.TraceLinks, 2)
	for _, link := range chunk.TraceLinks {
		assert.Equal(t, domain.RelationRequiresCompliance, link.Relation)
		assert.Equal(t, 1, link.Page)
	}
}

func TestExtractionService_ExpandsAndResolves(t *testing.T) {
	result, err := newPipeline().ExtractFromStructure(context.Background(), testStructure())

	require.NoError(t, err)
	req := result.Chunks[0].Requirements[0]

	assert.Contains(t, req.Text, "multi-factor")
	require.NotNil(t, req.BoundingBox)
	assert.InDelta(t, 0.1, req.BoundingBox.XMin, 1e-9)
	assert.InDelta(t, 0.9, req.BoundingBox.XMax, 1e-9)
}

func TestExtractionService_Summary(t *testing.T) {
	result, err := newPipeline().ExtractFromStructure(context.Background(), testStructure())

	require.NoError(t, err)
	s := result.Summary
	assert.Equal(t, 1, s.TotalPages)
	assert.Equal(t, 1, s.TotalChunks)
	assert.Equal(t, 2, s.TotalRequirements)
	assert.Equal(t, 1, s.TotalCompliance)
	assert.Equal(t, 2, s.TotalTraceLinks)
	assert.Equal(t, 2, s.RequirementsWithBBox)
	assert.True(t, s.GraphReady)
}

func TestExtractionService_EmptyDocument(t *testing.T) {
	_, err := newPipeline().ExtractFromStructure(context.Background(), &domain.DocumentStructure{Name: "empty"})
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)

	_, err = newPipeline().ExtractFromStructure(context.Background(), &domain.DocumentStructure{
		Name:  "blank",
		Pages: []domain.Page{{Number: 1, Text: ""}},
	})
	assert.ErrorIs(t, err, domain.ErrNoChunks)
}

func TestExtractionService_IDsMonotonicAcrossPages(t *testing.T) {
	doc := &domain.DocumentStructure{
		Name: "multi-page.pdf",
		Pages: []domain.Page{
			{Number: 1, Text: "The system shall log every request."},
			{Number: 2, Text: "The system must retain logs for a year."},
		},
	}

	result, err := newPipeline().ExtractFromStructure(context.Background(), doc)

	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)
	assert.Equal(t, "REQ-001", result.Chunks[0].Requirements[0].ID)
	assert.Equal(t, "REQ-002", result.Chunks[1].Requirements[0].ID)
}

func TestExtractionService_ExtractUsesProvider(t *testing.T) {
	provider := new(mocks.MockDocumentStructureProvider)
	provider.On("ExtractStructure", mock.Anything, mock.Anything).Return(testStructure(), nil)

	svc := service.NewExtractionService(provider, nil, nil, service.ExtractionConfig{})
	result, err := svc.Extract(context.Background(), port.StructureInput{
		Name:        "security-spec.pdf",
		Body:        strings.NewReader("ignored by the mock"),
		ContentType: "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "security-spec.pdf", result.DocumentName)
	provider.AssertExpectations(t)
}
