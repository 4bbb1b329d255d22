package cropview_test

import (
	"fmt"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/gesture"
	"github.com/sebnyberg/cropview/orient"
	"github.com/sebnyberg/cropview/pixel"
)

func BenchmarkCropImage(b *testing.B) {
	img := imaging.New(4000, 3000, color.Black)
	rnd := rand.New(rand.NewSource(1))
	rnd.Read(img.Pix)
	bitmap := cropview.Bitmap{Image: img}
	view := geom.Sz(800, 600)

	for _, px := range []struct {
		name string
		impl interface {
			cropview.Resampler
			cropview.Extractor
		}
	}{
		{"imaging", pixel.Imaging{Filter: imaging.Lanczos}},
		{"draw", pixel.Scaler{Interp: draw.CatmullRom}},
	} {
		for _, res := range []cropview.Resolution{cropview.Native, cropview.Display} {
			for _, side := range []float64{50, 400} {
				b.Run(fmt.Sprintf("%s/%s/%v", px.name, res, side), func(b *testing.B) {
					opts := cropview.DefaultOptions()
					opts.Resampler, opts.Extractor, opts.Resolution = px.impl, px.impl, res
					w := cropview.New(bitmap, view, opts, nil)
					for i := 0; i < b.N; i++ {
						x := rnd.Float64() * (view.W - side)
						y := rnd.Float64() * (view.H - side)
						w.Select(geom.Rc(x, y, side, side))
						if _, ok := w.CropImage(); !ok {
							b.Fatal("crop fell back")
						}
					}
				})
			}
		}
	}
}

func BenchmarkHandle(b *testing.B) {
	w := cropview.NewForSize(geom.Sz(4000, 3000), orient.Identity, geom.Sz(800, 600), cropview.DefaultOptions(), nil)
	s := gesture.Drag(geom.Pt(100, 100), geom.Pt(200, 150), geom.Pt(400, 300), geom.Pt(900, 700))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, p := range s {
			w.Handle(p)
		}
	}
}
