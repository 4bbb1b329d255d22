package gesture

import (
	"math"

	"github.com/sebnyberg/cropview/geom"
)

// Trigger is the kind of recognized gesture.
type Trigger int

const (
	TapTrigger Trigger = iota
	PanTrigger
)

func (t Trigger) String() string {
	if t == TapTrigger {
		return "tap"
	}
	return "pan"
}

// State of a recognized gesture. Taps are reported once, as Ended.
type State int

const (
	Began State = iota
	Changed
	Ended
	Cancelled
)

func (s State) String() string {
	switch s {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Gesture is a recognized tap or pan update.
//
// Location is where the recognizer reports the gesture. For a pan that is
// only Began once the pointer has travelled past the slop, so on Began it is
// not the point the finger first touched; TouchDown always is.
type Gesture struct {
	Trigger   Trigger
	State     State
	TouchDown geom.Point
	Location  geom.Point
}

// DefaultSlop is how far, in points, a pointer may travel before a press
// stops being a tap and becomes a pan.
const DefaultSlop = 10

// Recognizer classifies raw pointer events. The zero value uses no slop:
// any movement starts a pan.
type Recognizer struct {
	Slop float64

	down    bool
	panning bool
	start   geom.Point
}

// NewRecognizer returns a Recognizer with the given slop.
func NewRecognizer(slop float64) *Recognizer { return &Recognizer{Slop: slop} }

// Feed consumes one pointer event and reports the gesture update it
// completes, if any.
func (r *Recognizer) Feed(p Pointer) (Gesture, bool) {
	pos := p.Pos()
	switch p.Phase {
	case Down:
		r.down, r.panning, r.start = true, false, pos
		return Gesture{}, false
	case Move:
		if !r.down {
			return Gesture{}, false
		}
		if r.panning {
			return r.pan(Changed, pos), true
		}
		if dist(pos, r.start) > r.Slop {
			r.panning = true
			return r.pan(Began, pos), true
		}
		return Gesture{}, false
	case Up:
		if !r.down {
			return Gesture{}, false
		}
		wasPanning := r.panning
		r.down, r.panning = false, false
		if wasPanning {
			return r.pan(Ended, pos), true
		}
		return Gesture{Trigger: TapTrigger, State: Ended, TouchDown: r.start, Location: pos}, true
	case Cancel:
		wasPanning := r.panning
		r.down, r.panning = false, false
		if wasPanning {
			return r.pan(Cancelled, pos), true
		}
	}
	return Gesture{}, false
}

func (r *Recognizer) pan(s State, at geom.Point) Gesture {
	return Gesture{Trigger: PanTrigger, State: s, TouchDown: r.start, Location: at}
}

func dist(a, b geom.Point) float64 {
	d := a.Sub(b)
	return math.Hypot(d.X, d.Y)
}
