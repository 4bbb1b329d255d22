package gesture

import (
	"github.com/sebnyberg/cropview/boundary"
	"github.com/sebnyberg/cropview/geom"
)

// DrawState is the state of the define-rectangle gesture.
type DrawState int

const (
	DrawIdle DrawState = iota
	Drawing
)

func (s DrawState) String() string {
	if s == Drawing {
		return "drawing"
	}
	return "idle"
}

// Draw derives a crop rectangle from a drag measured against a fixed anchor.
// The zero value is idle.
type Draw struct {
	state  DrawState
	anchor geom.Point
	rect   geom.Rect
}

// State returns the current state.
func (d *Draw) State() DrawState { return d.state }

// Anchor returns the point the current drag started from.
func (d *Draw) Anchor() geom.Point { return d.anchor }

// Rect returns the last derived rectangle.
func (d *Draw) Rect() geom.Rect { return d.rect }

// Begin anchors a new rectangle at the true first-touch point.
func (d *Draw) Begin(anchor geom.Point, frame geom.Size) geom.Rect {
	d.state = Drawing
	d.anchor = anchor
	d.rect = boundary.Shrink(geom.Rect{Origin: anchor}, frame)
	return d.rect
}

// Update derives the rectangle spanned by the anchor and the current point,
// shrunk to fit frame. It is a no-op while idle.
func (d *Draw) Update(current geom.Point, frame geom.Size) geom.Rect {
	if d.state != Drawing {
		return d.rect
	}
	d.rect = boundary.Shrink(DragRect(d.anchor, current), frame)
	return d.rect
}

// End leaves the final rectangle in place.
func (d *Draw) End() geom.Rect {
	d.state = DrawIdle
	return d.rect
}

// DragRect returns the rectangle spanned by anchor and current, picking the
// top-left corner by the quadrant current lies in relative to anchor.
func DragRect(anchor, current geom.Point) geom.Rect {
	switch {
	case current.X >= anchor.X && current.Y >= anchor.Y:
		// down and right
		return geom.Rect{Origin: anchor, Size: geom.Sz(current.X-anchor.X, current.Y-anchor.Y)}
	case current.X <= anchor.X && current.Y <= anchor.Y:
		// up and left; the anchor is the bottom-right corner
		return geom.Rect{Origin: current, Size: geom.Sz(anchor.X-current.X, anchor.Y-current.Y)}
	case current.X < anchor.X:
		// down and left
		return geom.Rect{Origin: geom.Pt(current.X, anchor.Y), Size: geom.Sz(anchor.X-current.X, current.Y-anchor.Y)}
	case current.X >= anchor.X && current.Y < anchor.Y:
		// up and right
		return geom.Rect{Origin: geom.Pt(anchor.X, current.Y), Size: geom.Sz(current.X-anchor.X, anchor.Y-current.Y)}
	}
	// only NaN coordinates get here
	return geom.Rect{Origin: anchor}
}
