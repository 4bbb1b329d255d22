// Package tiffx crops TIFF images in memory with golang.org/x/image/tiff.
package tiffx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"github.com/sebnyberg/cropview"
)

var _ cropview.Cropper = (*Cropper)(nil)

var (
	ErrFormat      = errors.New("tiff: invalid format")
	ErrEmptyRegion = errors.New("crop area empty or out of bounds")
)

const (
	leHeader = "II\x2A\x00"
	beHeader = "MM\x00\x2A"
)

// ReadByteOrder reads the 8-byte TIFF header and returns its byte order and
// the offset of the first IFD.
func ReadByteOrder(r io.Reader) (binary.ByteOrder, int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, 0, err
	}
	var bo binary.ByteOrder
	switch string(b[:4]) {
	case leHeader:
		bo = binary.LittleEndian
	case beHeader:
		bo = binary.BigEndian
	default:
		return nil, 0, ErrFormat
	}
	return bo, int64(bo.Uint32(b[4:8])), nil
}

// Cropper crops regions out of one TIFF stream. Cropping more than once
// requires the stream to be an io.Seeker.
type Cropper struct {
	mtx       sync.Mutex
	r         io.Reader
	cropCount int
	opts      *tiff.Options
}

// NewCropper returns a Cropper writing deflate-compressed TIFF.
func NewCropper(r io.Reader) *Cropper {
	return &Cropper{r: r, opts: &tiff.Options{Compression: tiff.Deflate, Predictor: true}}
}

func (c *Cropper) Crop(region image.Rectangle, out io.Writer) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.cropCount > 0 {
		s, ok := c.r.(io.Seeker)
		if !ok {
			return errors.New("re-cropping not supported for non-io.Seekers")
		}
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind err, %w", err)
		}
	}
	c.cropCount++
	return Crop(c.r, region, out, c.opts)
}

// Crop decodes the TIFF in r, extracts region and encodes it to out.
func Crop(r io.Reader, region image.Rectangle, out io.Writer, opts *tiff.Options) error {
	img, err := tiff.Decode(r)
	if err != nil {
		return fmt.Errorf("decode tiff err, %w", err)
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return ErrEmptyRegion
	}
	if err := tiff.Encode(out, imaging.Crop(img, region), opts); err != nil {
		return fmt.Errorf("encode tiff err, %w", err)
	}
	return nil
}
