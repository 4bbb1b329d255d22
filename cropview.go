// Package cropview is the geometry engine of an interactive image cropping
// widget.
//
// A Widget consumes pointer events, keeps a crop rectangle over the displayed
// image, and on commit maps that rectangle into the stored bitmap's pixel
// space, accounting for display scale and storage orientation. Pixels are
// resampled and extracted by collaborators (see package pixel, bmpx, vipsx);
// the mask overlay is drawn by a Renderer.
package cropview

import (
	"image"
	"io"

	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/orient"
)

// Bitmap is a stored image together with its storage orientation.
type Bitmap struct {
	Image       image.Image
	Orientation orient.Orientation
}

// Size returns the stored pixel dimensions.
func (b Bitmap) Size() geom.Size {
	if b.Image == nil {
		return geom.Size{}
	}
	return geom.SizeOf(b.Image.Bounds())
}

// DisplaySize returns the dimensions the bitmap has when shown upright.
func (b Bitmap) DisplaySize() geom.Size {
	return b.Orientation.Dims(b.Size())
}

// Resampler scales an image to exactly size pixels. The result must not
// alias img.
type Resampler interface {
	Resample(img image.Image, size image.Point) (image.Image, error)
}

// Extractor returns a new image holding exactly the pixels of img inside r.
type Extractor interface {
	Extract(img image.Image, r image.Rectangle) (image.Image, error)
}

// Renderer draws the translucent mask with the crop rectangle cut out.
// Render may be called on every pointer event and must be idempotent.
type Renderer interface {
	Render(m Mask)
}

// Cropper crops a region out of an encoded image stream and writes the
// result to the provided writer.
type Cropper interface {
	Crop(r image.Rectangle, to io.Writer) error
}
