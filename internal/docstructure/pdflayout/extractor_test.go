package pdflayout

import (
	"context"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

func TestGroupLines_OrdersTopToBottomLeftToRight(t *testing.T) {
	fragments := []pdf.Text{
		{S: "world", X: 60, Y: 700, W: 30, FontSize: 12},
		{S: "footer", X: 10, Y: 100, W: 40, FontSize: 12},
		{S: "hello", X: 10, Y: 700.5, W: 30, FontSize: 12},
	}

	lines := groupLines(fragments)

	require.Len(t, lines, 2)
	// Higher Y (top of page in PDF space) comes first.
	require.Len(t, lines[0].fragments, 2)
	assert.Equal(t, "hello", lines[0].fragments[0].S)
	assert.Equal(t, "world", lines[0].fragments[1].S)
	assert.Equal(t, "footer", lines[1].fragments[0].S)
}

func TestFragmentPolygon_NormalizesAndFlipsY(t *testing.T) {
	frag := pdf.Text{S: "hello", X: 61.2, Y: 712.8, W: 61.2, FontSize: 7.92}

	polygon := fragmentPolygon(frag, 612, 792)

	require.Len(t, polygon, 4)
	assert.InDelta(t, 0.1, polygon[0].X, 1e-9)
	assert.InDelta(t, 0.2, polygon[2].X, 1e-9)
	// PDF Y grows upward; layout Y grows downward.
	assert.InDelta(t, 0.1, polygon[2].Y, 1e-9)
	assert.Greater(t, polygon[2].Y, polygon[0].Y)
}

func TestExtractStructure_RejectsNonPDF(t *testing.T) {
	_, err := NewExtractor().ExtractStructure(context.Background(), port.StructureInput{
		Name:        "not-a-pdf.pdf",
		Body:        strings.NewReader("plain text, no PDF header"),
		ContentType: "application/pdf",
	})

	assert.ErrorIs(t, err, domain.ErrUnsupportedSource)
}

func TestNeedsSpace(t *testing.T) {
	assert.True(t, needsSpace("hello", "world"))
	assert.False(t, needsSpace("hello ", "world"))
	assert.False(t, needsSpace("hello", " world"))
	assert.False(t, needsSpace("", "world"))
}
