// Package pixel resamples and extracts in-memory images.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

var (
	ErrEmptyRegion = errors.New("crop area empty or out of bounds")
	ErrBadSize     = errors.New("target size must be positive")
)

// Imaging resamples with github.com/disintegration/imaging.
type Imaging struct {
	Filter imaging.ResampleFilter
}

func (p Imaging) Resample(img image.Image, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("resample to %v err, %w", size, ErrBadSize)
	}
	f := p.Filter
	if f.Support == 0 && f.Kernel == nil {
		f = imaging.Lanczos
	}
	return imaging.Resize(img, size.X, size.Y, f), nil
}

func (Imaging) Extract(img image.Image, r image.Rectangle) (image.Image, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	return imaging.Crop(img, r), nil
}

// Scaler resamples with one of golang.org/x/image/draw's interpolators.
type Scaler struct {
	Interp draw.Interpolator
}

func (s Scaler) Resample(img image.Image, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("resample to %v err, %w", size, ErrBadSize)
	}
	interp := s.Interp
	if interp == nil {
		interp = draw.CatmullRom
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

func (Scaler) Extract(img image.Image, r image.Rectangle) (image.Image, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, nil
}

var filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
	"mitchell":   imaging.MitchellNetravali,
	"gaussian":   imaging.Gaussian,
	"bspline":    imaging.BSpline,
	"hermite":    imaging.Hermite,
	"hann":       imaging.Hann,
	"blackman":   imaging.Blackman,
	"cosine":     imaging.Cosine,
	"welch":      imaging.Welch,
	"hamming":    imaging.Hamming,
	"bartlett":   imaging.Bartlett,
}

var interpolators = map[string]draw.Interpolator{
	"nearest":    draw.NearestNeighbor,
	"linear":     draw.ApproxBiLinear,
	"bilinear":   draw.BiLinear,
	"catmullrom": draw.CatmullRom,
}

// Filter looks up an imaging filter by name.
func Filter(name string) (imaging.ResampleFilter, bool) {
	f, ok := filters[strings.ToLower(name)]
	return f, ok
}

// Interpolator looks up an x/image/draw interpolator by name.
func Interpolator(name string) (draw.Interpolator, bool) {
	i, ok := interpolators[strings.ToLower(name)]
	return i, ok
}
