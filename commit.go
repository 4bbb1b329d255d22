package cropview

import (
	"fmt"

	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/orient"
)

// Resolution selects the pixel grid a commit extracts from.
type Resolution int

const (
	// Native extracts from the full-resolution bitmap.
	Native Resolution = iota
	// Display first resamples the bitmap to the displayed size and extracts
	// from that, so the result has the on-screen pixel dimensions.
	Display
)

func (r Resolution) String() string {
	if r == Display {
		return "display"
	}
	return "native"
}

// ParseResolution parses "native" or "display".
func ParseResolution(s string) (Resolution, error) {
	switch s {
	case "native", "":
		return Native, nil
	case "display":
		return Display, nil
	}
	return Native, fmt.Errorf("unknown resolution %q", s)
}

// Plan is what a commit hands to the pixel collaborators.
type Plan struct {
	// Region is integral and expressed in the grid that is cut: the stored
	// bitmap, or the resampled bitmap when Resample is set.
	Region geom.Rect
	// Resample is the stored-orientation size to resample to first. It is
	// zero for Native plans.
	Resample geom.Size
}

// Commit validates a displayed crop rectangle and plans its extraction.
//
// rect must be non-empty and lie inside frame, otherwise ok is false and the
// caller falls back to the whole image. frame is rounded, rect is mapped into
// stored orientation within the rounded frame and, for Native, scaled onto
// the stored pixel grid of size native. Rounding may push the far edges one
// pixel out, so the region is clipped to the grid it is cut from.
func Commit(rect geom.Rect, frame geom.Size, o orient.Orientation, native geom.Size, res Resolution) (p Plan, ok bool) {
	if !rect.Within(frame) {
		return Plan{}, false
	}
	rnd := frame.Round()
	stored := o.Dims(rnd)
	r := orient.Transform(rect, rnd, o)
	if res == Display {
		return Plan{Region: r.Round().Clip(stored), Resample: stored}, true
	}
	if stored.W <= 0 || native.Empty() {
		return Plan{}, false
	}
	return Plan{Region: geom.Transpose(r, stored, native).Clip(native)}, true
}

// BitmapRect maps a displayed crop rectangle onto the stored bitmap's pixel
// grid. ok is false when rect fails validation.
func BitmapRect(rect geom.Rect, frame geom.Size, o orient.Orientation, native geom.Size) (geom.Rect, bool) {
	p, ok := Commit(rect, frame, o, native, Native)
	return p.Region, ok
}
