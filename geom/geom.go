// Package geom holds the real-valued point, size and rectangle types used to
// describe crop regions in display space and bitmap space.
//
// All values are passed by copy. Methods never mutate their receiver.
package geom

import (
	"fmt"
	"image"
	"math"
)

// Point is a 2D coordinate. Y grows downward.
type Point struct{ X, Y float64 }

// Pt is a convenience constructor for Point.
func Pt(x, y float64) Point { return Point{x, y} }

// Add returns pt+other.
func (pt Point) Add(other Point) Point {
	pt.X += other.X
	pt.Y += other.Y
	return pt
}

// Sub returns pt-other.
func (pt Point) Sub(other Point) Point {
	pt.X -= other.X
	pt.Y -= other.Y
	return pt
}

func (pt Point) String() string { return fmt.Sprintf("(%g,%g)", pt.X, pt.Y) }

// Size is a width and height. Negative components mean "unset".
type Size struct{ W, H float64 }

// Sz is a convenience constructor for Size.
func Sz(w, h float64) Size { return Size{w, h} }

// Swap exchanges width and height.
func (s Size) Swap() Size { return Size{s.H, s.W} }

// Round rounds both components half away from zero.
func (s Size) Round() Size { return Size{math.Round(s.W), math.Round(s.H)} }

// Empty reports whether either component is non-positive.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Rect is an origin (top-left corner) and a size.
type Rect struct {
	Origin Point
	Size   Size
}

// Rc is a convenience constructor for Rect.
func Rc(x, y, w, h float64) Rect { return Rect{Point{x, y}, Size{w, h}} }

// Sentinel is the off-screen rectangle an inactive crop session holds.
var Sentinel = Rc(-1, -1, 0, 0)

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.Origin.X + r.Size.W, r.Origin.Y + r.Size.H} }

// Contains reports whether pt lies inside r. The far edges are exclusive.
func (r Rect) Contains(pt Point) bool {
	max := r.Max()
	return pt.X >= r.Origin.X && pt.X < max.X && pt.Y >= r.Origin.Y && pt.Y < max.Y
}

// Within reports whether r is non-empty and lies entirely in [0, bound].
func (r Rect) Within(bound Size) bool {
	max := r.Max()
	return !r.Size.Empty() &&
		r.Origin.X >= 0 && r.Origin.Y >= 0 &&
		max.X <= bound.W && max.Y <= bound.H
}

// Scale multiplies origin and size by k.
func (r Rect) Scale(k float64) Rect {
	return Rc(r.Origin.X*k, r.Origin.Y*k, r.Size.W*k, r.Size.H*k)
}

// Round rounds origin and size independently, half away from zero.
func (r Rect) Round() Rect {
	return Rc(math.Round(r.Origin.X), math.Round(r.Origin.Y), math.Round(r.Size.W), math.Round(r.Size.H))
}

// Clip intersects r with [0, bound]. A rectangle outside bound collapses to
// an empty one on its nearest edge.
func (r Rect) Clip(bound Size) Rect {
	max := r.Max()
	x0 := math.Min(math.Max(r.Origin.X, 0), bound.W)
	y0 := math.Min(math.Max(r.Origin.Y, 0), bound.H)
	x1 := math.Max(math.Min(max.X, bound.W), x0)
	y1 := math.Max(math.Min(max.Y, bound.H), y0)
	return Rc(x0, y0, x1-x0, y1-y0)
}

// Image converts r to an integral image.Rectangle, rounding first.
func (r Rect) Image() image.Rectangle {
	r = r.Round()
	x, y := int(r.Origin.X), int(r.Origin.Y)
	return image.Rect(x, y, x+int(r.Size.W), y+int(r.Size.H))
}

func (r Rect) String() string { return fmt.Sprintf("%v+%v", r.Origin, r.Size) }

// FromImage converts an image.Rectangle to a Rect.
func FromImage(r image.Rectangle) Rect {
	return Rc(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
}

// SizeOf returns the dimensions of an image.Rectangle.
func SizeOf(r image.Rectangle) Size { return Size{float64(r.Dx()), float64(r.Dy())} }
