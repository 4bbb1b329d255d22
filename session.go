package cropview

import (
	"github.com/sebnyberg/cropview/geom"
)

// Overlay opacities used by the original widget.
const (
	ShadedOpacity      = 0.65
	TransparentOpacity = 0.0
)

// Session is the state of a crop in display space. Transitions return a new
// value; nothing here touches rendering.
type Session struct {
	// Frame is the size of the displayed image, the bound every crop
	// rectangle is kept within.
	Frame geom.Size
	// Anchor is where the current or last define-rectangle drag started.
	Anchor  geom.Point
	Rect    geom.Rect
	Visible bool
}

// NewSession returns a hidden session holding the sentinel rectangle.
func NewSession(frame geom.Size) Session {
	return Session{Frame: frame, Rect: geom.Sentinel}
}

// Show makes the session visible with rect, anchored at anchor.
func (s Session) Show(anchor geom.Point, rect geom.Rect) Session {
	s.Anchor = anchor
	s.Rect = rect
	s.Visible = true
	return s
}

// WithRect replaces the rectangle.
func (s Session) WithRect(rect geom.Rect) Session {
	s.Rect = rect
	return s
}

// Hide resets the rectangle to the sentinel.
func (s Session) Hide() Session {
	s.Rect = geom.Sentinel
	s.Visible = false
	return s
}

// Hit reports whether pt falls on the visible crop rectangle.
func (s Session) Hit(pt geom.Point) bool {
	return s.Visible && s.Rect.Contains(pt)
}

// Mask is what a Renderer draws: Frame shaded at Opacity except for Cutout.
type Mask struct {
	Frame   geom.Size
	Cutout  geom.Rect
	Opacity float64
}

// Mask projects the session onto a mask using the given opacities.
func (s Session) Mask(shaded, transparent float64) Mask {
	m := Mask{Frame: s.Frame, Cutout: s.Rect, Opacity: transparent}
	if s.Visible {
		m.Opacity = shaded
	}
	return m
}
