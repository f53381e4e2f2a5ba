// Package pdflayout extracts document structure from native PDF files.
package pdflayout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
	"github.com/rajrawat37/gemini-traceability-microservice/internal/port"
)

// Default page size (US Letter, points) when a page carries no MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// lineYTolerance groups text fragments whose baselines differ by less than
// this many points onto the same line.
const lineYTolerance = 2.0

// Extractor reads a PDF and synthesizes pages, lines, and token layout
// elements with normalized coordinates. Paragraph granularity is
// approximated by blank-line grouping of reconstructed lines.
type Extractor struct{}

var _ port.DocumentStructureProvider = (*Extractor)(nil)

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractStructure(ctx context.Context, input port.StructureInput) (*domain.DocumentStructure, error) {
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, fmt.Errorf("pdflayout.ExtractStructure: read body: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdflayout.ExtractStructure: %w: %v", domain.ErrUnsupportedSource, err)
	}

	doc := &domain.DocumentStructure{Name: input.Name}
	var fullText strings.Builder

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}

		page := buildPage(p, i)
		if page.Text == "" {
			log.Printf("pdflayout.ExtractStructure: page %d of %s has no extractable text", i, input.Name)
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n")
		}
		fullText.WriteString(page.Text)
		doc.Pages = append(doc.Pages, page)
	}

	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("pdflayout.ExtractStructure: %s: %w", input.Name, domain.ErrEmptyDocument)
	}
	doc.Text = fullText.String()
	return doc, nil
}

// textLine is one reconstructed physical line: ordered fragments sharing a
// baseline.
type textLine struct {
	y         float64
	fragments []pdf.Text
}

func buildPage(p pdf.Page, number int) domain.Page {
	width, height := pageSize(p)

	content := p.Content()
	lines := groupLines(content.Text)

	var pageText strings.Builder
	var elements []domain.LayoutElement

	for _, ln := range lines {
		lineStart := pageText.Len()
		var lineText strings.Builder

		for _, frag := range ln.fragments {
			s := frag.S
			if s == "" {
				continue
			}
			if lineText.Len() > 0 && needsSpace(lineText.String(), s) {
				lineText.WriteString(" ")
			}
			tokenStart := lineStart + lineText.Len()
			lineText.WriteString(s)
			elements = append(elements, domain.LayoutElement{
				Kind:       domain.LayoutToken,
				PageNumber: number,
				Text:       s,
				TextSpan:   domain.TextAnchor{Start: tokenStart, End: tokenStart + len(s)},
				Polygon:    fragmentPolygon(frag, width, height),
			})
		}

		text := strings.TrimSpace(lineText.String())
		if text == "" {
			continue
		}
		elements = append(elements, domain.LayoutElement{
			Kind:       domain.LayoutLine,
			PageNumber: number,
			Text:       text,
			TextSpan:   domain.TextAnchor{Start: lineStart, End: lineStart + len(text)},
			Polygon:    linePolygon(ln, width, height),
		})
		pageText.WriteString(text)
		pageText.WriteString("\n")
	}

	text := strings.TrimSpace(pageText.String())
	page := domain.Page{Number: number, Text: text}
	if text == "" {
		return page
	}

	// One paragraph per page is the coarsest useful approximation; native
	// PDFs carry no paragraph markers.
	page.Elements = append(elements, domain.LayoutElement{
		Kind:       domain.LayoutParagraph,
		PageNumber: number,
		Text:       text,
		TextSpan:   domain.TextAnchor{Start: 0, End: len(text)},
		Polygon: []domain.Vertex{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		},
	})
	return page
}

// groupLines buckets fragments by baseline and orders them top to bottom,
// left to right. PDF coordinates grow upward, so higher Y comes first.
func groupLines(fragments []pdf.Text) []textLine {
	var lines []textLine
	for _, frag := range fragments {
		placed := false
		for i := range lines {
			if abs(lines[i].y-frag.Y) < lineYTolerance {
				lines[i].fragments = append(lines[i].fragments, frag)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, textLine{y: frag.Y, fragments: []pdf.Text{frag}})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })
	for i := range lines {
		frags := lines[i].fragments
		sort.SliceStable(frags, func(a, b int) bool { return frags[a].X < frags[b].X })
	}
	return lines
}

// fragmentPolygon converts one positioned fragment to a normalized
// four-vertex rectangle. PDF Y origin is bottom-left; layout coordinates
// are top-down.
func fragmentPolygon(frag pdf.Text, width, height float64) []domain.Vertex {
	x0 := frag.X / width
	x1 := (frag.X + frag.W) / width
	yTop := 1 - (frag.Y+frag.FontSize)/height
	yBot := 1 - frag.Y/height
	return []domain.Vertex{
		{X: x0, Y: yTop}, {X: x1, Y: yTop},
		{X: x1, Y: yBot}, {X: x0, Y: yBot},
	}
}

func linePolygon(ln textLine, width, height float64) []domain.Vertex {
	first := ln.fragments[0]
	last := ln.fragments[len(ln.fragments)-1]
	x0 := first.X / width
	x1 := (last.X + last.W) / width
	yTop := 1 - (ln.y+first.FontSize)/height
	yBot := 1 - ln.y/height
	return []domain.Vertex{
		{X: x0, Y: yTop}, {X: x1, Y: yTop},
		{X: x1, Y: yBot}, {X: x0, Y: yBot},
	}
}

func pageSize(p pdf.Page) (float64, float64) {
	box := p.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	w := box.Index(2).Float64() - box.Index(0).Float64()
	h := box.Index(3).Float64() - box.Index(1).Float64()
	if w <= 0 || h <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return w, h
}

// needsSpace reports whether a separating space belongs between two adjacent
// fragments when joining them into line text.
func needsSpace(left, right string) bool {
	if left == "" || right == "" {
		return false
	}
	return !strings.HasSuffix(left, " ") && !strings.HasPrefix(right, " ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
