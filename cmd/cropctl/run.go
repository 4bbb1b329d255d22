package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/bmpx"
	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/gesture"
	"github.com/sebnyberg/cropview/internal/config"
	"github.com/sebnyberg/cropview/internal/store"
	"github.com/sebnyberg/cropview/orient"
	"github.com/sebnyberg/cropview/pixel"
	"github.com/sebnyberg/cropview/render"
	"github.com/sebnyberg/cropview/tiffx"
	"github.com/sebnyberg/cropview/vipsx"
)

type params struct {
	configPath    string
	in, out       string
	view          string
	rect          string
	events        string
	orientation   string
	preview       string
	saveSelection bool
}

func run(p params, cfg *config.Config, logger *zap.Logger) (err error) {
	src, err := store.Open(p.in)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, src.Close()) }()

	o, err := sourceOrientation(src, p.orientation, logger)
	if err != nil {
		return err
	}
	native, err := nativeSize(src, cfg.Engine)
	if err != nil {
		return err
	}
	view := o.Dims(native)
	if p.view != "" {
		if view, err = parseSize(p.view); err != nil {
			return err
		}
	}

	res, err := cropview.ParseResolution(cfg.Resolution)
	if err != nil {
		return err
	}
	opts := cropview.DefaultOptions()
	opts.ShadedOpacity = cfg.ShadedOpacity
	opts.TransparentOpacity = cfg.TransparentOpacity
	opts.Slop = cfg.TapSlop
	opts.Resolution = res
	setPixels(&opts, cfg, logger)

	var img image.Image
	if config.InMemory(cfg.Engine) || p.preview != "" {
		if img, err = decode(src); err != nil {
			return err
		}
	}
	var preview *render.Preview
	if p.preview != "" {
		preview = render.NewPreview(orient.Apply(img, o))
		opts.Renderer = preview
	}

	var w *cropview.Widget
	if config.InMemory(cfg.Engine) {
		w = cropview.New(cropview.Bitmap{Image: img, Orientation: o}, view, opts, logger)
	} else {
		if res == cropview.Display {
			logger.Warn("display resolution needs an in-memory engine, using native", zap.String("engine", cfg.Engine))
		}
		w = cropview.NewForSize(native, o, view, opts, logger)
	}

	if err := selectRegion(w, p, cfg); err != nil {
		return err
	}

	if config.InMemory(cfg.Engine) {
		err = writeImage(w, p.out, cfg, logger)
	} else {
		err = writeStream(w, src, p, cfg, logger)
	}
	if err != nil {
		return err
	}

	if preview != nil {
		if err := imaging.Save(preview.Image(), p.preview); err != nil {
			return fmt.Errorf("save preview err, %w", err)
		}
	}
	if p.saveSelection {
		cfg.Selection = config.Selection{}
		if s := w.Session(); s.Visible {
			cfg.Selection = config.SelectionOf(s.Rect)
		}
		if err := cfg.Save(p.configPath); err != nil {
			return err
		}
	}
	return nil
}

func rewind(s io.Seeker) error {
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind input err, %w", err)
	}
	return nil
}

// sourceOrientation parses name, or reads the EXIF orientation when name is
// empty. Sources without EXIF are upright.
func sourceOrientation(src io.ReadSeeker, name string, logger *zap.Logger) (orient.Orientation, error) {
	if name != "" {
		o, ok := orient.Parse(name)
		if !ok {
			return orient.Identity, fmt.Errorf("unknown orientation %q", name)
		}
		return o, nil
	}
	o, err := orient.ReadEXIF(src)
	if err != nil {
		if !errors.Is(err, orient.ErrNoEXIF) {
			logger.Debug("read exif orientation", zap.Error(err))
		}
		o = orient.Identity
	}
	return o, rewind(src)
}

func nativeSize(src io.ReadSeeker, engine string) (geom.Size, error) {
	var size geom.Size
	if engine == config.EngineBMP {
		hdr, err := bmpx.ReadHeader(src)
		if err != nil {
			return size, fmt.Errorf("read bmp header err, %w", err)
		}
		size = hdr.Size()
	} else {
		c, _, err := image.DecodeConfig(src)
		if err != nil {
			return size, fmt.Errorf("decode image config err, %w", err)
		}
		size = geom.Sz(float64(c.Width), float64(c.Height))
	}
	return size, rewind(src)
}

func decode(src io.ReadSeeker) (image.Image, error) {
	img, err := imaging.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image err, %w", err)
	}
	return img, rewind(src)
}

func setPixels(opts *cropview.Options, cfg *config.Config, logger *zap.Logger) {
	switch cfg.Engine {
	case config.EngineImaging:
		f, ok := pixel.Filter(cfg.Filter)
		if !ok {
			logger.Warn("unknown filter, using lanczos", zap.String("filter", cfg.Filter))
			f = imaging.Lanczos
		}
		px := pixel.Imaging{Filter: f}
		opts.Resampler, opts.Extractor = px, px
	case config.EngineDraw:
		interp, ok := pixel.Interpolator(cfg.Filter)
		if !ok {
			logger.Warn("unknown interpolator, using catmullrom", zap.String("filter", cfg.Filter))
		}
		px := pixel.Scaler{Interp: interp}
		opts.Resampler, opts.Extractor = px, px
	case config.EngineVips:
		vipsx.Start()
		opts.Resampler, opts.Extractor = vipsx.Pixels{}, vipsx.Pixels{}
	case config.EngineVipsStream, config.EngineVipsFile:
		vipsx.Start()
	}
}

func selectRegion(w *cropview.Widget, p params, cfg *config.Config) error {
	switch {
	case p.events != "":
		b, err := os.ReadFile(p.events)
		if err != nil {
			return fmt.Errorf("read events err, %w", err)
		}
		var s gesture.Script
		if err := yaml.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("parse events %q err, %w", p.events, err)
		}
		return w.Run(&s)
	case p.rect != "":
		r, err := parseRect(p.rect)
		if err != nil {
			return err
		}
		w.Select(r)
	case !cfg.Selection.Empty():
		w.Select(cfg.Selection.Rect())
	}
	return nil
}

func outputFormat(path string, cfg *config.Config) (imaging.Format, error) {
	if cfg.Output.Format != "" {
		return imaging.FormatFromExtension(cfg.Output.Format)
	}
	if store.IsCompressed(path) {
		path = path[:len(path)-len(store.Ext)]
	}
	return imaging.FormatFromFilename(path)
}

// writeImage crops in memory and encodes the result upright, since the
// encoders drop EXIF.
func writeImage(w *cropview.Widget, path string, cfg *config.Config, logger *zap.Logger) (err error) {
	format, err := outputFormat(path, cfg)
	if err != nil {
		return err
	}
	b, ok := w.CropImage()
	if !ok {
		logger.Info("no valid selection, writing whole image")
	}
	out, written, err := store.Create(path, cfg.Output.Compress)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	upright := orient.Apply(b.Image, b.Orientation)
	if err := imaging.Encode(out, upright, format, imaging.JPEGQuality(cfg.Output.Quality)); err != nil {
		return fmt.Errorf("encode %q err, %w", written, err)
	}
	logger.Info("wrote crop", zap.String("path", written), zap.Stringer("size", geom.SizeOf(upright.Bounds())))
	return nil
}

// writeStream crops without decoding. The output keeps the stored
// orientation.
func writeStream(w *cropview.Widget, src io.ReadSeeker, p params, cfg *config.Config, logger *zap.Logger) (err error) {
	region, ok := w.Crop()
	if cfg.Engine == config.EngineVipsFile {
		if store.IsCompressed(p.in) {
			return errors.New("vips-file needs a plain input file")
		}
		if ok {
			if cfg.Output.Compress {
				logger.Warn("vips-file writes uncompressed output")
			}
			return vipsx.CropFile(p.in, p.out, region.Image())
		}
	}

	out, written, err := store.Create(p.out, cfg.Output.Compress)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, out.Close()) }()
	if !ok {
		logger.Info("no valid selection, copying whole image")
		if _, err := io.Copy(out, src); err != nil {
			return fmt.Errorf("copy input err, %w", err)
		}
		return nil
	}

	var c cropview.Cropper
	switch cfg.Engine {
	case config.EngineBMP:
		c = bmpx.NewCropper(src)
	case config.EngineTIFF:
		c = tiffx.NewCropper(src)
	case config.EngineVipsStream:
		c = vipsx.NewCropper(src)
	default:
		return fmt.Errorf("engine %q cannot stream", cfg.Engine)
	}
	if err := c.Crop(region.Image(), out); err != nil {
		return fmt.Errorf("crop err, %w", err)
	}
	logger.Info("wrote crop", zap.String("path", written), zap.Stringer("region", region))
	return nil
}

func parseSize(s string) (geom.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	w, err1 := strconv.ParseFloat(ws, 64)
	h, err2 := strconv.ParseFloat(hs, 64)
	if err := multierr.Combine(err1, err2); err != nil || w <= 0 || h <= 0 {
		return geom.Size{}, fmt.Errorf("invalid size %q, want WxH", s)
	}
	return geom.Sz(w, h), nil
}

func parseRect(s string) (geom.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("invalid rect %q, want x,y,w,h", s)
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geom.Rect{}, fmt.Errorf("invalid rect %q err, %w", s, err)
		}
		v[i] = f
	}
	return geom.Rc(v[0], v[1], v[2], v[3]), nil
}
