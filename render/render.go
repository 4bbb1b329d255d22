// Package render draws the crop mask over a preview of the displayed image.
package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/sebnyberg/cropview"
)

var _ cropview.Renderer = (*Preview)(nil)

// Preview renders a cropview.Mask on top of the displayed image: the area
// outside the cut-out is filled with MaskColor at the mask's opacity and the
// visible cut-out gets a one pixel Border.
type Preview struct {
	MaskColor color.Color
	Border    color.Color

	mtx    sync.Mutex
	base   image.Image
	scaled *image.NRGBA
	out    *image.NRGBA
	last   cropview.Mask
}

// NewPreview returns a black-mask, white-border preview of base. base must be
// upright, as shown to the user.
func NewPreview(base image.Image) *Preview {
	return &Preview{
		MaskColor: color.Black,
		Border:    color.White,
		base:      base,
	}
}

// Render redraws the preview for m.
func (p *Preview) Render(m cropview.Mask) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.last = m
	frame := m.Frame.Round()
	w, h := int(frame.W), int(frame.H)
	if w <= 0 || h <= 0 {
		p.out = nil
		return
	}
	if p.scaled == nil || p.scaled.Bounds().Dx() != w || p.scaled.Bounds().Dy() != h {
		p.scaled = imaging.Resize(p.base, w, h, imaging.Linear)
	}

	// Even-odd fill: the frame minus the cut-out.
	shade := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(shade, shade.Bounds(), image.NewUniform(p.MaskColor), image.Point{}, draw.Src)
	cut := m.Cutout.Image().Intersect(shade.Bounds())
	if !cut.Empty() {
		draw.Draw(shade, cut, image.Transparent, image.Point{}, draw.Src)
	}
	p.out = imaging.Overlay(p.scaled, shade, image.Point{}, m.Opacity)
	if m.Opacity > 0 && !cut.Empty() {
		strokeRect(p.out, cut, p.Border)
	}
}

// Image returns the last rendered preview, nil before the first Render.
func (p *Preview) Image() *image.NRGBA {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.out
}

// Mask returns the mask of the last Render.
func (p *Preview) Mask() cropview.Mask {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.last
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(r), src, image.Point{}, draw.Src)
	}
}
