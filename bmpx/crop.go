// Package bmpx crops uncompressed BMP streams without decoding them.
package bmpx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/image/bmp"

	"github.com/sebnyberg/cropview"
)

var ErrEmptyRegion = errors.New("crop area empty or out of bounds")

var _ cropview.Cropper = (*Cropper)(nil)

// Cropper crops regions out of one BMP stream. Cropping more than once
// requires the stream to be an io.Seeker.
type Cropper struct {
	mtx       sync.Mutex
	r         io.Reader
	cropCount int
}

func NewCropper(r io.Reader) *Cropper {
	return &Cropper{r: r}
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
	return Crop(c.r, out, region)
}

// CropFile crops region of the BMP at srcPath into a new BMP at dstPath.
func CropFile(srcPath, dstPath string, region image.Rectangle) (err error) {
	srcPath = filepath.Clean(srcPath)
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open file %q err, %w", srcPath, err)
	}
	defer func() { err = multierr.Append(err, src.Close()) }()
	dst, err := os.OpenFile(dstPath, os.O_RDWR|os.O_TRUNC|os.O_CREATE, 0640)
	if err != nil {
		return fmt.Errorf("open file %q err, %w", dstPath, err)
	}
	defer func() { err = multierr.Append(err, dst.Close()) }()
	return Crop(src, dst, region)
}

// Crop copies region of the BMP in src to a BMP in dst.
//
// Only the rows of the region are buffered. If src is an io.Seeker, pixels
// outside the region are skipped by seeking, otherwise they are discarded.
// The output keeps the row order of the input.
//
// Cropping cost scales with the number of rows, not columns.
func Crop(src io.Reader, dst io.Writer, region image.Rectangle) error {
	hdr, err := ReadHeader(src)
	if err != nil {
		return err
	}
	region = region.Intersect(image.Rect(0, 0, hdr.Config.Width, hdr.Config.Height))
	if region.Empty() {
		return ErrEmptyRegion
	}
	if _, err := dst.Write(hdr.Resized(region.Dx(), region.Dy())); err != nil {
		return fmt.Errorf("write header err, %w", err)
	}

	skip := func(n int) error {
		if n == 0 {
			return nil
		}
		if s, ok := src.(io.Seeker); ok {
			_, err := s.Seek(int64(n), io.SeekCurrent)
			return err
		}
		_, err := io.CopyN(io.Discard, src, int64(n))
		return err
	}

	// Bottom-up images store the last row first.
	rowBytes := hdr.RowBytes(hdr.Config.Width)
	firstRow := region.Min.Y
	if !hdr.TopDown {
		firstRow = hdr.Config.Height - region.Max.Y
	}
	if err := skip(rowBytes * firstRow); err != nil {
		return fmt.Errorf("skip rows err, %w", err)
	}

	bytesPerPixel := hdr.BitsPerPixel / 8
	left := bytesPerPixel * region.Min.X
	mid := bytesPerPixel * region.Dx()
	right := rowBytes - left - mid
	row := make([]byte, hdr.RowBytes(region.Dx()))
	for y := 0; y < region.Dy(); y++ {
		if err := skip(left); err != nil {
			return fmt.Errorf("skip left err, %w", err)
		}
		if _, err := io.ReadFull(src, row[:mid]); err != nil {
			return fmt.Errorf("read row err, %w", unexpected(err))
		}
		if _, err := dst.Write(row); err != nil {
			return fmt.Errorf("write row err, %w", err)
		}
		if err := skip(right); err != nil {
			return fmt.Errorf("skip right err, %w", err)
		}
	}
	return nil
}

// Extract crops region out of the BMP in src and decodes the result.
func Extract(src io.Reader, region image.Rectangle) (image.Image, error) {
	var buf bytes.Buffer
	if err := Crop(src, &buf, region); err != nil {
		return nil, err
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode cropped bmp err, %w", err)
	}
	return img, nil
}
