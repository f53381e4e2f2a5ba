// Package layout maps requirement text back onto page geometry.
package layout

import (
	"github.com/rajrawat37/gemini-traceability-microservice/internal/domain"
)

// FromPolygon computes the axis-aligned envelope of a polygon's normalized
// vertices. Returns nil for degenerate polygons (fewer than two vertices).
func FromPolygon(polygon []domain.Vertex) *domain.BoundingBox {
	if len(polygon) < 2 {
		return nil
	}
	box := domain.BoundingBox{
		XMin: polygon[0].X, XMax: polygon[0].X,
		YMin: polygon[0].Y, YMax: polygon[0].Y,
	}
	for _, v := range polygon[1:] {
		if v.X < box.XMin {
			box.XMin = v.X
		}
		if v.X > box.XMax {
			box.XMax = v.X
		}
		if v.Y < box.YMin {
			box.YMin = v.Y
		}
		if v.Y > box.YMax {
			box.YMax = v.Y
		}
	}
	return &box
}

// Merge folds boxes into their minimal enclosing rectangle, component-wise
// (min of mins, max of maxes per axis). Malformed boxes are ignored; when
// no valid box remains the second return is false. Merge is commutative.
func Merge(boxes []domain.BoundingBox) (domain.BoundingBox, bool) {
	var merged domain.BoundingBox
	found := false
	for _, b := range boxes {
		if !b.Valid() {
			continue
		}
		if !found {
			merged = b
			found = true
			continue
		}
		if b.XMin < merged.XMin {
			merged.XMin = b.XMin
		}
		if b.YMin < merged.YMin {
			merged.YMin = b.YMin
		}
		if b.XMax > merged.XMax {
			merged.XMax = b.XMax
		}
		if b.YMax > merged.YMax {
			merged.YMax = b.YMax
		}
	}
	return merged, found
}
