// Package gesture turns pointer events into crop rectangles.
//
// A Recognizer classifies raw pointer events as taps and pans. A Policy
// decides which handler a gesture goes to. Draw and Translate are the two
// independent state machines that derive the crop rectangle from a pan.
package gesture

import (
	"fmt"
	"io"

	"github.com/sebnyberg/cropview/geom"
)

// Phase of a raw pointer event.
type Phase int

const (
	Down Phase = iota
	Move
	Up
	Cancel
)

var phaseNames = [...]string{Down: "down", Move: "move", Up: "up", Cancel: "cancel"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// UnmarshalText lets scripts spell phases by name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, n := range phaseNames {
		if n == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown pointer phase %q", b)
}

// MarshalText is the inverse of UnmarshalText.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Pointer is a raw pointer event in the widget's local coordinates.
type Pointer struct {
	Phase Phase   `yaml:"phase"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Pos returns the event position.
func (p Pointer) Pos() geom.Point { return geom.Pt(p.X, p.Y) }

// Source delivers pointer events. Next returns io.EOF once the stream ends.
type Source interface {
	Next() (Pointer, error)
}

// Script is an in-memory Source that replays its events in order.
type Script []Pointer

// Next pops the first event.
func (s *Script) Next() (Pointer, error) {
	if len(*s) == 0 {
		return Pointer{}, io.EOF
	}
	p := (*s)[0]
	*s = (*s)[1:]
	return p, nil
}

// Drag returns the events of a single-finger drag from 'from' through each
// point in 'via'.
func Drag(from geom.Point, via ...geom.Point) Script {
	s := Script{{Phase: Down, X: from.X, Y: from.Y}}
	last := from
	for _, p := range via {
		s = append(s, Pointer{Phase: Move, X: p.X, Y: p.Y})
		last = p
	}
	return append(s, Pointer{Phase: Up, X: last.X, Y: last.Y})
}

// Tap returns the events of a tap at p.
func Tap(p geom.Point) Script {
	return Script{{Phase: Down, X: p.X, Y: p.Y}, {Phase: Up, X: p.X, Y: p.Y}}
}
