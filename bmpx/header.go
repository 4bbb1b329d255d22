package bmpx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/sebnyberg/cropview/geom"
)

var (
	ErrFormat      = errors.New("bmp: invalid format")
	ErrUnsupported = errors.New("bmp: unsupported")
)

const (
	fileHeaderLen   = 14
	infoHeaderLen   = 40
	v4InfoHeaderLen = 108
	v5InfoHeaderLen = 124
)

// Header holds the decoded BMP header together with its raw bytes, palette
// included, so that it can be re-written for a cropped image.
type Header struct {
	Config       image.Config
	BitsPerPixel int
	TopDown      bool
	// Alpha is set for 32-bit images with a V4 or V5 info header.
	Alpha       bool
	InfoLen     int
	ImageOffset int
	Raw         []byte
}

// Size returns the pixel dimensions.
func (h Header) Size() geom.Size {
	return geom.Sz(float64(h.Config.Width), float64(h.Config.Height))
}

// RowBytes is the length of one stored row of width pixels, including the
// padding to a 4-byte boundary.
func (h Header) RowBytes(width int) int {
	return ((width*h.BitsPerPixel + 31) / 32) * 4
}

// Resized returns the raw header rewritten for a width x height image. Row
// order is kept.
func (h Header) Resized(width, height int) []byte {
	b := make([]byte, len(h.Raw))
	copy(b, h.Raw)
	imageSize := h.RowBytes(width) * height
	if h.TopDown {
		height = -height
	}
	binary.LittleEndian.PutUint32(b[2:6], uint32(h.ImageOffset+imageSize))
	binary.LittleEndian.PutUint32(b[18:22], uint32(int32(width)))
	binary.LittleEndian.PutUint32(b[22:26], uint32(int32(height)))
	binary.LittleEndian.PutUint32(b[34:38], uint32(imageSize))
	return b
}

// ReadHeader reads the file header, the info header and, for paletted
// images, the palette. Unlike golang.org/x/image/bmp the bytes are retained.
//
// Supported are uncompressed 8, 24 and 32 bits per pixel images with a
// BITMAPINFOHEADER, BITMAPV4HEADER or BITMAPV5HEADER.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	b := make([]byte, fileHeaderLen+4, fileHeaderLen+v5InfoHeaderLen+256*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return h, fmt.Errorf("read file header err, %w", unexpected(err))
	}
	if string(b[:2]) != "BM" {
		return h, ErrFormat
	}
	h.ImageOffset = int(binary.LittleEndian.Uint32(b[10:14]))
	h.InfoLen = int(binary.LittleEndian.Uint32(b[14:18]))
	switch h.InfoLen {
	case infoHeaderLen, v4InfoHeaderLen, v5InfoHeaderLen:
	default:
		return h, fmt.Errorf("info header length %d, %w", h.InfoLen, ErrUnsupported)
	}
	b = b[:fileHeaderLen+h.InfoLen]
	if _, err := io.ReadFull(r, b[fileHeaderLen+4:]); err != nil {
		return h, fmt.Errorf("read info header err, %w", unexpected(err))
	}

	width := int(int32(binary.LittleEndian.Uint32(b[18:22])))
	height := int(int32(binary.LittleEndian.Uint32(b[22:26])))
	if height < 0 {
		height, h.TopDown = -height, true
	}
	if width < 0 {
		return h, fmt.Errorf("negative width, %w", ErrUnsupported)
	}
	planes := binary.LittleEndian.Uint16(b[26:28])
	bpp := int(binary.LittleEndian.Uint16(b[28:30]))
	compression := binary.LittleEndian.Uint32(b[30:34])
	// BI_BITFIELDS with the default masks is laid out like BI_RGB.
	if compression == 3 && h.InfoLen > infoHeaderLen &&
		binary.LittleEndian.Uint32(b[54:58]) == 0xff0000 &&
		binary.LittleEndian.Uint32(b[58:62]) == 0xff00 &&
		binary.LittleEndian.Uint32(b[62:66]) == 0xff &&
		binary.LittleEndian.Uint32(b[66:70]) == 0xff000000 {
		compression = 0
	}
	if planes != 1 || compression != 0 {
		return h, fmt.Errorf("planes %d compression %d, %w", planes, compression, ErrUnsupported)
	}

	h.BitsPerPixel = bpp
	h.Config = image.Config{ColorModel: color.RGBAModel, Width: width, Height: height}
	switch bpp {
	case 8:
		if h.ImageOffset != fileHeaderLen+h.InfoLen+256*4 {
			return h, fmt.Errorf("palette size, %w", ErrUnsupported)
		}
		pre := len(b)
		b = b[:pre+256*4]
		if _, err := io.ReadFull(r, b[pre:]); err != nil {
			return h, fmt.Errorf("read palette err, %w", unexpected(err))
		}
		pal := make(color.Palette, 256)
		for i := range pal {
			// BGR with a padding byte
			pal[i] = color.RGBA{b[pre+4*i+2], b[pre+4*i+1], b[pre+4*i], 0xff}
		}
		h.Config.ColorModel = pal
	case 24, 32:
		if h.ImageOffset != fileHeaderLen+h.InfoLen {
			return h, fmt.Errorf("pixel data offset %d, %w", h.ImageOffset, ErrUnsupported)
		}
		// Alpha in 32-bit images is only honoured with a V4 header or later,
		// the same rule golang.org/x/image/bmp applies.
		h.Alpha = bpp == 32 && h.InfoLen > infoHeaderLen
	default:
		return h, fmt.Errorf("%d bits per pixel, %w", bpp, ErrUnsupported)
	}
	h.Raw = b
	return h, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
