package pixel_test

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/sebnyberg/cropview/pixel"
)

func randomImage(rnd *rand.Rand, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

type resampleExtractor interface {
	Resample(img image.Image, size image.Point) (image.Image, error)
	Extract(img image.Image, r image.Rectangle) (image.Image, error)
}

func TestExtract(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	img := randomImage(rnd, 64, 48)
	for name, px := range map[string]resampleExtractor{
		"imaging": Imaging{Filter: imaging.Lanczos},
		"draw":    Scaler{},
	} {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				x0, y0 := rnd.Intn(63), rnd.Intn(47)
				r := image.Rect(x0, y0, x0+1+rnd.Intn(64-x0), y0+1+rnd.Intn(48-y0))
				got, err := px.Extract(img, r)
				require.NoError(t, err)
				require.Equal(t, r.Size(), got.Bounds().Size())
				for y := 0; y < r.Dy(); y++ {
					for x := 0; x < r.Dx(); x++ {
						want := img.NRGBAAt(r.Min.X+x, r.Min.Y+y)
						have := color.NRGBAModel.Convert(got.At(got.Bounds().Min.X+x, got.Bounds().Min.Y+y))
						require.Equal(t, want, have)
					}
				}
			}

			_, err := px.Extract(img, image.Rect(100, 100, 120, 120))
			assert.ErrorIs(t, err, ErrEmptyRegion)
		})
	}
}

func TestResample(t *testing.T) {
	img := imaging.New(40, 20, color.NRGBA{R: 10, G: 200, B: 30, A: 255})
	for name, px := range map[string]resampleExtractor{
		"imaging": Imaging{},
		"draw":    Scaler{},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := px.Resample(img, image.Pt(10, 30))
			require.NoError(t, err)
			assert.Equal(t, image.Pt(10, 30), got.Bounds().Size())
			// a uniform image stays uniform
			c := color.NRGBAModel.Convert(got.At(5, 15)).(color.NRGBA)
			assert.InDelta(t, 10, int(c.R), 1)
			assert.InDelta(t, 200, int(c.G), 1)
			assert.InDelta(t, 30, int(c.B), 1)
			assert.Equal(t, uint8(255), c.A)

			_, err = px.Resample(img, image.Pt(0, 10))
			assert.ErrorIs(t, err, ErrBadSize)
		})
	}
}

func TestLookup(t *testing.T) {
	f, ok := Filter("Lanczos")
	assert.True(t, ok)
	assert.Equal(t, imaging.Lanczos.Support, f.Support)
	_, ok = Filter("sinc")
	assert.False(t, ok)

	_, ok = Interpolator("catmullrom")
	assert.True(t, ok)
	_, ok = Interpolator("lanczos")
	assert.False(t, ok)
}
