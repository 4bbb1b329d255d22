// Package vipsx crops and resamples through libvips.
//
// Start must be called before any other function and Shutdown once done.
package vipsx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	vipsimage "github.com/vipsimage/vips"

	"github.com/sebnyberg/cropview"
)

var (
	_ cropview.Cropper   = (*Cropper)(nil)
	_ cropview.Resampler = Pixels{}
	_ cropview.Extractor = Pixels{}
)

var ErrEmptyRegion = errors.New("crop area empty or out of bounds")

var startOnce sync.Once

// Start initializes libvips with its own logging silenced.
func Start() {
	startOnce.Do(func() {
		vips.LoggingSettings(nil, vips.LogLevelCritical)
		vips.Startup(nil)
	})
}

// Shutdown releases libvips.
func Shutdown() { vips.Shutdown() }

// Cropper crops regions out of one encoded image stream. Cropping more than
// once requires the stream to be an io.Seeker.
type Cropper struct {
	mtx       sync.Mutex
	r         io.Reader
	cropCount int
	format    vips.ImageType
}

// NewCropper returns a Cropper writing TIFF.
func NewCropper(r io.Reader) *Cropper {
	return &Cropper{r: r, format: vips.ImageTypeTIFF}
}

// WithFormat sets the output format. PNG, JPEG and TIFF are supported.
func (c *Cropper) WithFormat(t vips.ImageType) *Cropper {
	c.format = t
	return c
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
	return CropAs(c.r, region, out, c.format)
}

// Crop extracts region from the image in r and writes it to out as TIFF.
func Crop(r io.Reader, region image.Rectangle, out io.Writer) error {
	return CropAs(r, region, out, vips.ImageTypeTIFF)
}

// CropAs is Crop with a chosen output format.
func CropAs(r io.Reader, region image.Rectangle, out io.Writer, format vips.ImageType) error {
	img, err := vips.NewImageFromReader(r)
	if err != nil {
		return fmt.Errorf("load image err, %w", err)
	}
	defer img.Close()
	region = region.Intersect(image.Rect(0, 0, img.Width(), img.Height()))
	if region.Empty() {
		return ErrEmptyRegion
	}
	if err := img.ExtractArea(region.Min.X, region.Min.Y, region.Dx(), region.Dy()); err != nil {
		return fmt.Errorf("extract area err, %w", err)
	}
	b, err := export(img, format)
	if err != nil {
		return err
	}
	if _, err := out.Write(b); err != nil {
		return fmt.Errorf("write output err, %w", err)
	}
	return nil
}

func export(img *vips.ImageRef, format vips.ImageType) ([]byte, error) {
	var (
		b   []byte
		err error
	)
	switch format {
	case vips.ImageTypePNG:
		b, _, err = img.ExportPng(vips.NewPngExportParams())
	case vips.ImageTypeJPEG:
		b, _, err = img.ExportJpeg(vips.NewJpegExportParams())
	case vips.ImageTypeTIFF:
		b, _, err = img.ExportTiff(vips.NewTiffExportParams())
	default:
		return nil, fmt.Errorf("unsupported output format %v", format)
	}
	if err != nil {
		return nil, fmt.Errorf("export err, %w", err)
	}
	return b, nil
}

// Pixels resamples and extracts in-memory images with libvips. Images make a
// round trip through PNG.
type Pixels struct{}

func (Pixels) Resample(img image.Image, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("resample to %v: target size must be positive", size)
	}
	ref, err := load(img)
	if err != nil {
		return nil, err
	}
	defer ref.Close()
	hscale := float64(size.X) / float64(ref.Width())
	vscale := float64(size.Y) / float64(ref.Height())
	if err := ref.ResizeWithVScale(hscale, vscale, vips.KernelLanczos3); err != nil {
		return nil, fmt.Errorf("resize err, %w", err)
	}
	return decode(ref)
}

func (Pixels) Extract(img image.Image, r image.Rectangle) (image.Image, error) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return nil, ErrEmptyRegion
	}
	ref, err := load(img)
	if err != nil {
		return nil, err
	}
	defer ref.Close()
	r = r.Sub(img.Bounds().Min)
	if err := ref.ExtractArea(r.Min.X, r.Min.Y, r.Dx(), r.Dy()); err != nil {
		return nil, fmt.Errorf("extract area err, %w", err)
	}
	return decode(ref)
}

func load(img image.Image) (*vips.ImageRef, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png err, %w", err)
	}
	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("load image err, %w", err)
	}
	return ref, nil
}

func decode(ref *vips.ImageRef) (image.Image, error) {
	b, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("export png err, %w", err)
	}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode png err, %w", err)
	}
	return img, nil
}

// CropFile crops region of the image at srcPath into a TIFF at dstPath,
// letting libvips stream from and to disk. region is clipped to the image.
func CropFile(srcPath, dstPath string, region image.Rectangle) error {
	bounds, err := fileBounds(srcPath)
	if err != nil {
		return err
	}
	region = region.Intersect(bounds)
	if region.Empty() {
		return ErrEmptyRegion
	}
	img, err := vipsimage.NewFromFile(srcPath)
	if err != nil {
		return fmt.Errorf("open %q err, %w", srcPath, err)
	}
	if err := img.Crop(region.Min.X, region.Min.Y, region.Dx(), region.Dy()); err != nil {
		return fmt.Errorf("crop err, %w", err)
	}
	if err := img.TIFFSave(dstPath); err != nil {
		return fmt.Errorf("save %q err, %w", dstPath, err)
	}
	return nil
}

func fileBounds(path string) (image.Rectangle, error) {
	ref, err := vips.NewImageFromFile(path)
	if err != nil {
		return image.Rectangle{}, fmt.Errorf("open %q err, %w", path, err)
	}
	defer ref.Close()
	return image.Rect(0, 0, ref.Width(), ref.Height()), nil
}
