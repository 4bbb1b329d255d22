// Package orient describes how a stored bitmap's pixel grid relates to its
// displayed appearance, and maps rectangles between the two.
package orient

import "github.com/sebnyberg/cropview/geom"

// Orientation is the storage orientation of a bitmap.
type Orientation int

const (
	Identity Orientation = iota
	RotateLeft
	RotateRight
	Rotate180
	MirrorHorizontal
	MirrorVertical
	MirrorRotateLeft
	MirrorRotateRight
)

var names = [...]string{
	Identity:          "identity",
	RotateLeft:        "rotate-left",
	RotateRight:       "rotate-right",
	Rotate180:         "rotate-180",
	MirrorHorizontal:  "mirror-horizontal",
	MirrorVertical:    "mirror-vertical",
	MirrorRotateLeft:  "mirror-rotate-left",
	MirrorRotateRight: "mirror-rotate-right",
}

func (o Orientation) String() string {
	if o < 0 || int(o) >= len(names) {
		return "unknown"
	}
	return names[o]
}

// Parse returns the orientation with the given name.
func Parse(s string) (Orientation, bool) {
	for i, n := range names {
		if n == s {
			return Orientation(i), true
		}
	}
	return Identity, false
}

// SwapsAxes reports whether the stored grid is a ±90° rotation of the
// displayed one, i.e. stored width is displayed height.
func (o Orientation) SwapsAxes() bool {
	switch o {
	case RotateLeft, RotateRight, MirrorRotateLeft, MirrorRotateRight:
		return true
	}
	return false
}

// Inverse returns the orientation that undoes o.
func (o Orientation) Inverse() Orientation {
	switch o {
	case RotateLeft:
		return RotateRight
	case RotateRight:
		return RotateLeft
	}
	return o
}

// Dims returns dim as seen after transforming by o.
func (o Orientation) Dims(dim geom.Size) geom.Size {
	if o.SwapsAxes() {
		return dim.Swap()
	}
	return dim
}

// Transform maps r, expressed in a space of size dim, into the space of the
// stored bitmap under orientation o. It is a pure remap; r is not validated.
func Transform(r geom.Rect, dim geom.Size, o Orientation) geom.Rect {
	x, y, w, h := r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H
	right := dim.W - (w + x)
	bottom := dim.H - (h + y)
	swapped := geom.Size{W: h, H: w}

	switch o {
	case RotateLeft:
		return geom.Rect{Origin: geom.Pt(bottom, x), Size: swapped}
	case RotateRight:
		return geom.Rect{Origin: geom.Pt(y, right), Size: swapped}
	case Rotate180:
		return geom.Rect{Origin: geom.Pt(right, bottom), Size: r.Size}
	case MirrorVertical:
		return geom.Rect{Origin: geom.Pt(x, bottom), Size: r.Size}
	case MirrorRotateLeft:
		return geom.Rect{Origin: geom.Pt(y, x), Size: swapped}
	case MirrorRotateRight:
		return geom.Rect{Origin: geom.Pt(bottom, right), Size: swapped}
	case MirrorHorizontal:
		return geom.Rect{Origin: geom.Pt(right, y), Size: r.Size}
	}
	return r
}
