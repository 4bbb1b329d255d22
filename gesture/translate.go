package gesture

import (
	"github.com/sebnyberg/cropview/boundary"
	"github.com/sebnyberg/cropview/geom"
)

// TranslateState is the state of the move gesture.
type TranslateState int

const (
	TranslateIdle TranslateState = iota
	Moving
)

func (s TranslateState) String() string {
	if s == Moving {
		return "moving"
	}
	return "idle"
}

// Translate moves an already sized rectangle by the pointer's displacement
// since the gesture began. The zero value is idle.
type Translate struct {
	state TranslateState
	touch geom.Point
	start geom.Rect
	rect  geom.Rect
}

// State returns the current state.
func (m *Translate) State() TranslateState { return m.state }

// Begin records the pointer and the rectangle at the start of the move.
func (m *Translate) Begin(touch geom.Point, rect geom.Rect) {
	m.state = Moving
	m.touch = touch
	m.start = rect
	m.rect = rect
}

// Update offsets the starting rectangle by the pointer displacement and
// slides it back inside frame. It is a no-op while idle.
func (m *Translate) Update(current geom.Point, frame geom.Size) geom.Rect {
	if m.state != Moving {
		return m.rect
	}
	r := m.start
	r.Origin = m.start.Origin.Add(current.Sub(m.touch))
	m.rect = boundary.Translate(r, frame)
	return m.rect
}

// End discards the move session.
func (m *Translate) End() geom.Rect {
	m.state = TranslateIdle
	m.touch, m.start = geom.Point{}, geom.Rect{}
	return m.rect
}
