package orient

import (
	"image"

	"github.com/disintegration/imaging"
)

// Apply returns the displayed (upright) image for a bitmap stored with
// orientation o. The result never aliases img.
func Apply(img image.Image, o Orientation) *image.NRGBA {
	switch o {
	case RotateLeft:
		return imaging.Rotate90(img)
	case RotateRight:
		return imaging.Rotate270(img)
	case Rotate180:
		return imaging.Rotate180(img)
	case MirrorHorizontal:
		return imaging.FlipH(img)
	case MirrorVertical:
		return imaging.FlipV(img)
	case MirrorRotateLeft:
		return imaging.Transpose(img)
	case MirrorRotateRight:
		return imaging.Transverse(img)
	}
	return imaging.Clone(img)
}

// Store is the inverse of Apply: it lays out an upright image the way a
// bitmap with orientation o stores it.
func Store(img image.Image, o Orientation) *image.NRGBA {
	return Apply(img, o.Inverse())
}
