package gesture

import "github.com/sebnyberg/cropview/geom"

// Handler names the widget action a gesture is routed to.
type Handler int

const (
	// DrawHandler defines a new crop rectangle.
	DrawHandler Handler = iota
	// MoveHandler translates the existing crop rectangle.
	MoveHandler
	// SwallowHandler consumes a tap without effect.
	SwallowHandler
	// HideHandler hides the crop rectangle.
	HideHandler
)

func (h Handler) String() string {
	switch h {
	case DrawHandler:
		return "draw"
	case MoveHandler:
		return "move"
	case SwallowHandler:
		return "swallow"
	case HideHandler:
		return "hide"
	}
	return "unknown"
}

// Region restricts where a rule applies, relative to the crop rectangle.
type Region int

const (
	Anywhere Region = iota
	// InsideCrop matches only while the crop rectangle is visible and
	// contains the point.
	InsideCrop
	OutsideCrop
)

// Rule routes one trigger in one region to a handler. A consuming rule stops
// the search; a non-consuming rule lets later rules see the gesture too.
type Rule struct {
	Trigger Trigger
	Region  Region
	Handler Handler
	Consume bool
}

// Policy is an ordered rule table; earlier rules take priority.
type Policy []Rule

// DefaultPolicy gives the crop rectangle's own hit region priority, so that
// pans on it move it and taps on it never reach the hide handler.
func DefaultPolicy() Policy {
	return Policy{
		{Trigger: PanTrigger, Region: InsideCrop, Handler: MoveHandler, Consume: true},
		{Trigger: PanTrigger, Region: Anywhere, Handler: DrawHandler, Consume: true},
		{Trigger: TapTrigger, Region: InsideCrop, Handler: SwallowHandler, Consume: true},
		{Trigger: TapTrigger, Region: Anywhere, Handler: HideHandler, Consume: true},
	}
}

// Route returns the handlers that receive a gesture of trigger t at point
// 'at', given the current crop rectangle and its visibility.
func (p Policy) Route(t Trigger, at geom.Point, crop geom.Rect, visible bool) []Handler {
	inside := visible && crop.Contains(at)
	var hs []Handler
	for _, r := range p {
		if r.Trigger != t {
			continue
		}
		switch r.Region {
		case InsideCrop:
			if !inside {
				continue
			}
		case OutsideCrop:
			if inside {
				continue
			}
		}
		hs = append(hs, r.Handler)
		if r.Consume {
			break
		}
	}
	return hs
}
