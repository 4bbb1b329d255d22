package geom

import "math"

// ScaleSizeToFit returns the largest size with from's aspect ratio that fits
// inside to, each dimension rounded to the nearest integer.
//
// The shorter side of to is fitted first. If the other side then overflows,
// the fit is redone on that side instead; only one side can overflow after
// the first fit, so a single correction suffices.
//
// A from or to with a non-positive component yields the zero Size.
func ScaleSizeToFit(from, to Size) Size {
	if from.Empty() || to.Empty() {
		return Size{}
	}
	onWidth := func() Size {
		w := math.Round(to.W)
		return Size{w, math.Round(w * from.H / from.W)}
	}
	onHeight := func() Size {
		h := math.Round(to.H)
		return Size{math.Round(h * from.W / from.H), h}
	}

	if to.W < to.H {
		s := onWidth()
		if s.H > to.H {
			s = onHeight()
		}
		return s
	}
	s := onHeight()
	if s.W > to.W {
		s = onWidth()
	}
	return s
}

// ScaleFactor returns the uniform factor mapping a rectangle expressed in
// source onto target, assuming both share an aspect ratio. It is
// target.W/source.W; the result is ±Inf or NaN when source.W is 0.
func ScaleFactor(source, target Size) float64 {
	return target.W / source.W
}

// Transpose maps r from the from bound onto the to bound and rounds the
// result, which is what callers need before handing it to a pixel extractor.
func Transpose(r Rect, from, to Size) Rect {
	return r.Scale(ScaleFactor(from, to)).Round()
}
