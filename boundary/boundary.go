// Package boundary keeps crop rectangles inside a bounding frame.
//
// Shrink is used while a rectangle is being drawn: an edge dragged past the
// frame stops at it. Translate is used while an already sized rectangle is
// moved: the whole rectangle slides back inside.
package boundary

import "github.com/sebnyberg/cropview/geom"

// Shrink moves every overflowing edge onto the bound and reduces the size on
// that axis so the opposite edge stays put.
func Shrink(r geom.Rect, bound geom.Size) geom.Rect {
	r.Origin.Y, r.Size.H = shrinkAxis(r.Origin.Y, r.Size.H, bound.H)
	r.Origin.X, r.Size.W = shrinkAxis(r.Origin.X, r.Size.W, bound.W)
	return r
}

func shrinkAxis(origin, size, bound float64) (float64, float64) {
	if origin < 0 {
		size += origin
		origin = 0
	}
	if origin > bound {
		// the whole rectangle lies past the far edge
		origin = bound
	}
	if origin+size > bound {
		size = bound - origin
	}
	if size < 0 {
		size = 0
	}
	return origin, size
}

// Translate slides r so that it lies inside bound, preserving its size. The
// near edge is clamped first, then the far edge relative to the result.
//
// When r is larger than bound on an axis the far edge wins and the origin on
// that axis goes negative; rectangles produced by Shrink never hit this.
func Translate(r geom.Rect, bound geom.Size) geom.Rect {
	r.Origin.Y = translateAxis(r.Origin.Y, r.Size.H, bound.H)
	r.Origin.X = translateAxis(r.Origin.X, r.Size.W, bound.W)
	return r
}

func translateAxis(origin, size, bound float64) float64 {
	if origin < 0 {
		origin = 0
	}
	if origin+size > bound {
		origin -= origin + size - bound
	}
	return origin
}
