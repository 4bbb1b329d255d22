package cropview

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/sebnyberg/cropview/boundary"
	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/gesture"
	"github.com/sebnyberg/cropview/orient"
	"github.com/sebnyberg/cropview/pixel"
)

// Options tune a Widget. A nil Policy, Resampler or Extractor is replaced by
// the default; the opacities are taken as given, so start from
// DefaultOptions to get the shaded mask.
type Options struct {
	ShadedOpacity      float64
	TransparentOpacity float64
	// Slop is how far a press may travel before it counts as a pan.
	Slop       float64
	Resolution Resolution
	Policy     gesture.Policy
	Resampler  Resampler
	Extractor  Extractor
	Renderer   Renderer
}

// DefaultOptions returns the options of the original widget: a 0.65 black
// mask, native-resolution extraction and the default routing policy.
func DefaultOptions() Options {
	px := pixel.Imaging{Filter: imaging.Lanczos}
	return Options{
		ShadedOpacity:      ShadedOpacity,
		TransparentOpacity: TransparentOpacity,
		Slop:               gesture.DefaultSlop,
		Resolution:         Native,
		Policy:             gesture.DefaultPolicy(),
		Resampler:          px,
		Extractor:          px,
	}
}

// Widget is a crop view over one bitmap. It is not safe for concurrent use;
// pointer events arrive on a single thread.
type Widget struct {
	opts   Options
	logger *zap.Logger

	bitmap     Bitmap
	native     geom.Size
	session    Session
	recognizer *gesture.Recognizer
	draw       gesture.Draw
	move       gesture.Translate
	pan        gesture.Handler
	panning    bool
}

// New returns a widget for a bitmap shown aspect-fit inside a view of the
// given size.
func New(b Bitmap, view geom.Size, opts Options, logger *zap.Logger) *Widget {
	w := NewForSize(b.Size(), b.Orientation, view, opts, logger)
	w.bitmap = b
	return w
}

// NewForSize returns a widget for a bitmap known only by its stored size,
// such as one that is streamed from disk on commit. CropImage always falls
// back on such a widget; use Crop to get the region.
func NewForSize(native geom.Size, o orient.Orientation, view geom.Size, opts Options, logger *zap.Logger) *Widget {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Policy == nil {
		opts.Policy = gesture.DefaultPolicy()
	}
	if opts.Resampler == nil {
		opts.Resampler = pixel.Imaging{}
	}
	if opts.Extractor == nil {
		opts.Extractor = pixel.Imaging{}
	}
	frame := geom.ScaleSizeToFit(o.Dims(native), view)
	w := &Widget{
		opts:       opts,
		logger:     logger,
		bitmap:     Bitmap{Orientation: o},
		native:     native,
		session:    NewSession(frame),
		recognizer: gesture.NewRecognizer(opts.Slop),
	}
	w.logger.Debug("widget created",
		zap.Stringer("native", native),
		zap.Stringer("orientation", o),
		zap.Stringer("frame", frame),
	)
	w.render()
	return w
}

// Session returns the current crop session.
func (w *Widget) Session() Session { return w.session }

// Frame returns the size of the displayed image.
func (w *Widget) Frame() geom.Size { return w.session.Frame }

// Mask returns the overlay for the current session.
func (w *Widget) Mask() Mask {
	return w.session.Mask(w.opts.ShadedOpacity, w.opts.TransparentOpacity)
}

func (w *Widget) render() {
	if w.opts.Renderer != nil {
		w.opts.Renderer.Render(w.Mask())
	}
}

// BeginDraw starts defining a new rectangle anchored at p, which should be
// the point the finger first touched.
func (w *Widget) BeginDraw(p geom.Point) {
	r := w.draw.Begin(p, w.session.Frame)
	w.session = w.session.Show(p, r)
	w.logger.Debug("draw began", zap.Stringer("anchor", p))
	w.render()
}

// UpdateDraw resizes the rectangle to span the anchor and p.
func (w *Widget) UpdateDraw(p geom.Point) {
	if w.draw.State() != gesture.Drawing {
		return
	}
	w.session = w.session.WithRect(w.draw.Update(p, w.session.Frame))
	w.render()
}

// EndDraw finishes the define gesture, leaving the rectangle visible.
func (w *Widget) EndDraw() {
	if w.draw.State() != gesture.Drawing {
		return
	}
	r := w.draw.End()
	w.logger.Debug("draw ended", zap.Stringer("rect", r))
}

// BeginMove starts moving the visible rectangle. touch is where the finger
// went down.
func (w *Widget) BeginMove(touch geom.Point) {
	if !w.session.Visible {
		return
	}
	w.move.Begin(touch, w.session.Rect)
	w.logger.Debug("move began", zap.Stringer("touch", touch))
}

// UpdateMove slides the rectangle by the displacement from the touch point.
func (w *Widget) UpdateMove(p geom.Point) {
	if w.move.State() != gesture.Moving {
		return
	}
	w.session = w.session.WithRect(w.move.Update(p, w.session.Frame))
	w.render()
}

// EndMove finishes the move gesture.
func (w *Widget) EndMove() {
	if w.move.State() != gesture.Moving {
		return
	}
	r := w.move.End()
	w.logger.Debug("move ended", zap.Stringer("rect", r))
}

// TapOutside hides the rectangle if p falls outside it. Taps on the
// rectangle are swallowed.
func (w *Widget) TapOutside(p geom.Point) {
	if w.session.Hit(p) {
		return
	}
	w.hide()
}

func (w *Widget) hide() {
	if !w.session.Visible {
		return
	}
	w.session = w.session.Hide()
	w.logger.Debug("crop hidden")
	w.render()
}

// Select shows r as the crop rectangle, shrunk to fit the frame, as if it
// had just been drawn.
func (w *Widget) Select(r geom.Rect) {
	r = boundary.Shrink(r, w.session.Frame)
	w.session = w.session.Show(r.Origin, r)
	w.render()
}

// Handle feeds one raw pointer event through the recognizer and routes the
// resulting gesture.
func (w *Widget) Handle(p gesture.Pointer) {
	g, ok := w.recognizer.Feed(p)
	if !ok {
		return
	}
	switch g.Trigger {
	case gesture.TapTrigger:
		w.tap(g)
	case gesture.PanTrigger:
		w.panGesture(g)
	}
}

// Run handles every event of src until it returns io.EOF.
func (w *Widget) Run(src gesture.Source) error {
	for {
		p, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read pointer event err, %w", err)
		}
		w.Handle(p)
	}
}

func (w *Widget) tap(g gesture.Gesture) {
	for _, h := range w.opts.Policy.Route(gesture.TapTrigger, g.Location, w.session.Rect, w.session.Visible) {
		switch h {
		case gesture.HideHandler:
			w.hide()
		case gesture.SwallowHandler:
			w.logger.Debug("tap swallowed", zap.Stringer("at", g.Location))
		}
	}
}

func (w *Widget) panGesture(g gesture.Gesture) {
	switch g.State {
	case gesture.Began:
		// Route by where the finger landed, not where the slop was crossed.
		w.panning = false
		for _, h := range w.opts.Policy.Route(gesture.PanTrigger, g.TouchDown, w.session.Rect, w.session.Visible) {
			if h == gesture.DrawHandler || h == gesture.MoveHandler {
				w.pan, w.panning = h, true
			}
		}
		if !w.panning {
			return
		}
		if w.pan == gesture.DrawHandler {
			w.BeginDraw(g.TouchDown)
		} else {
			w.BeginMove(g.TouchDown)
		}
		w.panUpdate(g.Location)
	case gesture.Changed:
		w.panUpdate(g.Location)
	case gesture.Ended:
		w.panUpdate(g.Location)
		w.panEnd()
	case gesture.Cancelled:
		w.panEnd()
	}
}

func (w *Widget) panUpdate(p geom.Point) {
	if !w.panning {
		return
	}
	if w.pan == gesture.DrawHandler {
		w.UpdateDraw(p)
	} else {
		w.UpdateMove(p)
	}
}

func (w *Widget) panEnd() {
	if !w.panning {
		return
	}
	w.panning = false
	if w.pan == gesture.DrawHandler {
		w.EndDraw()
	} else {
		w.EndMove()
	}
}

// Plan validates the current rectangle and plans its extraction using the
// widget's resolution.
func (w *Widget) Plan() (Plan, bool) {
	if !w.session.Visible {
		return Plan{}, false
	}
	return Commit(w.session.Rect, w.session.Frame, w.bitmap.Orientation, w.native, w.opts.Resolution)
}

// Crop maps the current rectangle onto the stored bitmap's pixel grid. ok is
// false when there is nothing valid to crop and the whole image should be
// used.
func (w *Widget) Crop() (geom.Rect, bool) {
	if !w.session.Visible {
		return geom.Rect{}, false
	}
	return BitmapRect(w.session.Rect, w.session.Frame, w.bitmap.Orientation, w.native)
}

// CropImage extracts the current selection. When the rectangle is invalid or
// a pixel collaborator fails it returns the original bitmap and false.
// The orientation of the result is that of the source.
func (w *Widget) CropImage() (Bitmap, bool) {
	if w.bitmap.Image == nil {
		w.logger.Warn("crop requested without pixels")
		return w.bitmap, false
	}
	p, ok := w.Plan()
	if !ok {
		w.logger.Debug("crop rectangle invalid, using whole image",
			zap.Stringer("rect", w.session.Rect),
			zap.Stringer("frame", w.session.Frame),
		)
		return w.bitmap, false
	}
	src := w.bitmap.Image
	if !p.Resample.Empty() {
		size := p.Resample.Round()
		img, err := w.opts.Resampler.Resample(src, image.Pt(int(size.W), int(size.H)))
		if err != nil {
			w.logger.Warn("resample failed, using whole image", zap.Error(err))
			return w.bitmap, false
		}
		src = img
	}
	region := p.Region.Image().Add(src.Bounds().Min).Intersect(src.Bounds())
	if region.Empty() {
		w.logger.Debug("crop region empty, using whole image", zap.Stringer("region", p.Region))
		return w.bitmap, false
	}
	out, err := w.opts.Extractor.Extract(src, region)
	if err != nil {
		w.logger.Warn("extract failed, using whole image", zap.Error(err))
		return w.bitmap, false
	}
	w.logger.Info("cropped",
		zap.Stringer("region", region),
		zap.Stringer("resolution", w.opts.Resolution),
	)
	return Bitmap{Image: out, Orientation: w.bitmap.Orientation}, true
}
