// Package expander grows an image canvas for outpainting and builds the mask
// of the region the inpainting step has to fill.
//
// Two modes are supported. ExpandCenter shrinks the source by a scale factor
// and centers it on a canvas of the original size. ExpandDirectional keeps a
// fraction of the source, pastes it against one edge of a canvas enlarged
// along one axis and marks the vacated side as unknown.
//
// Expanders hold no mutable state: inputs are never modified and every call
// allocates its own canvas and mask, so one Expander can serve concurrent
// callers.
package expander

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/resize"
)

// DefaultReserve is the margin, in pixels, by which unknown regions overlap
// the kept content so the inpainting boundary does not leave a seam.
const DefaultReserve = 10

// DefaultBackground fills canvas pixels not covered by source content.
var DefaultBackground = color.NRGBA{255, 255, 255, 255}

// Options configures an Expander.
type Options struct {
	Reserve    int
	Background color.Color
	Convention MaskConvention
	Resampler  resize.Resampler
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		Reserve:    DefaultReserve,
		Background: DefaultBackground,
		Convention: ConventionOriginal,
		Resampler:  resize.Default,
	}
}

// Expander computes expanded canvases and their masks.
type Expander struct {
	opts Options
}

// New creates an Expander with default options.
func New() *Expander {
	return NewWithOptions(DefaultOptions())
}

// NewWithOptions creates an Expander with custom options. Missing colors and
// resamplers fall back to the defaults; a negative reserve is treated as 0.
func NewWithOptions(opts Options) *Expander {
	if opts.Reserve < 0 {
		opts.Reserve = 0
	}
	if opts.Background == nil {
		opts.Background = DefaultBackground
	}
	if opts.Resampler == nil {
		opts.Resampler = resize.Default
	}
	return &Expander{opts: opts}
}

// Options returns a copy of the expander options.
func (e *Expander) Options() Options {
	return e.opts
}

// Result is the output of an expansion. Width and Height always match the
// bounds of both Canvas and Mask.
type Result struct {
	Canvas *image.NRGBA
	Mask   *mask.Mask
	Width  int
	Height int

	Direction Direction
	Factor    float64

	// Retained is the part of the source that was kept, relative to the
	// source origin.
	Retained image.Rectangle
	// Content is where the kept (and possibly shrunk) source lies on the
	// canvas.
	Content image.Rectangle
	// Unknown lists the rectangles painted unknown, clipped to the canvas.
	Unknown []image.Rectangle
}

// Size returns the canvas dimensions.
func (r *Result) Size() (int, int) {
	return r.Width, r.Height
}

// Expand dispatches to ExpandCenter for Center and to ExpandDirectional for
// every other direction. factor is the shrink scale for Center and the crop
// fraction otherwise.
func (e *Expander) Expand(img image.Image, dir Direction, factor float64) (*Result, error) {
	if dir == Center {
		return e.ExpandCenter(img, factor)
	}
	return e.ExpandDirectional(img, dir, factor)
}

// ExpandCenter shrinks img by scale and centers it on a canvas of the
// original size. The border around the shrunk copy, inflated by the reserve
// margin, is marked unknown.
func (e *Expander) ExpandCenter(img image.Image, scale float64) (*Result, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 1 {
		return nil, errors.Wrapf(ErrInvalidScale, "scale %g must be at least 1", scale)
	}
	w, h, err := sourceSize(img)
	if err != nil {
		return nil, err
	}

	// Truncation, not rounding: the border math below depends on it.
	sw := int(float64(w) / scale)
	sh := int(float64(h) / scale)
	if sw == 0 || sh == 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "%dx%d shrunk by %g is %dx%d", w, h, scale, sw, sh)
	}

	left := (w - sw) / 2
	top := (h - sh) / 2
	right := w - sw - left
	bottom := h - sh - top

	shrunk := e.opts.Resampler.Resize(img, sw, sh)
	canvas := imaging.New(w, h, e.opts.Background)
	canvas = imaging.Paste(canvas, shrunk, image.Pt(left, top))

	r := e.opts.Reserve
	m := mask.New(w, h)
	unknown := paintAll(m,
		box(0, 0, w, top+r),
		box(0, h-bottom-r, w, h),
		box(0, 0, left+r, h),
		box(w-right-r, 0, w, h),
	)
	if len(unknown) == 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "scale %g with reserve %d leaves nothing to fill", scale, r)
	}

	Logger().Debug("expanded center",
		slog.Float64("scale", scale),
		slog.Int("width", w), slog.Int("height", h),
		slog.Int("shrunk_width", sw), slog.Int("shrunk_height", sh),
		slog.Int("unknown_area", m.UnknownArea()))

	return &Result{
		Canvas:    canvas,
		Mask:      m,
		Width:     w,
		Height:    h,
		Direction: Center,
		Factor:    scale,
		Retained:  image.Rect(0, 0, w, h),
		Content:   image.Rect(left, top, left+sw, top+sh),
		Unknown:   unknown,
	}, nil
}

// ExpandDirectional keeps the crop fraction of img opposite to dir, pastes it
// on a canvas grown by that fraction along the axis of dir and marks the rest
// of the canvas, overlapping the kept strip by the reserve margin, as unknown.
func (e *Expander) ExpandDirectional(img image.Image, dir Direction, crop float64) (*Result, error) {
	if !dir.Valid() || dir == Center {
		return nil, errors.Wrapf(ErrInvalidDirection, "%s is not a directional expansion", dir)
	}
	if math.IsNaN(crop) || crop <= 0 || crop >= 1 {
		return nil, errors.Wrapf(ErrInvalidCrop, "crop %g must be in (0, 1)", crop)
	}
	w, h, err := sourceSize(img)
	if err != nil {
		return nil, err
	}

	g := e.directionalGeometry(dir, w, h, crop)
	if g.cropLen == 0 || g.retained.Empty() {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "crop %g of %dx%d towards %s keeps nothing", crop, w, h, dir)
	}

	origin := img.Bounds().Min
	kept := imaging.Crop(img, g.retained.Add(origin))
	canvas := imaging.New(g.width, g.height, e.opts.Background)
	canvas = imaging.Paste(canvas, kept, g.anchor)

	m := mask.New(g.width, g.height)
	unknown := paintAll(m, e.directionalBox(dir, g, crop))
	if len(unknown) == 0 {
		return nil, errors.Wrapf(ErrDegenerateGeometry, "crop %g of %dx%d towards %s leaves nothing to fill", crop, w, h, dir)
	}

	Logger().Debug("expanded directional",
		slog.String("direction", dir.String()),
		slog.Float64("crop", crop),
		slog.Int("width", g.width), slog.Int("height", g.height),
		slog.String("convention", e.opts.Convention.String()),
		slog.Int("unknown_area", m.UnknownArea()))

	return &Result{
		Canvas:    canvas,
		Mask:      m,
		Width:     g.width,
		Height:    g.height,
		Direction: dir,
		Factor:    crop,
		Retained:  g.retained,
		Content:   g.retained.Sub(g.retained.Min).Add(g.anchor),
		Unknown:   unknown,
	}, nil
}

type geometry struct {
	retained image.Rectangle
	anchor   image.Point
	width    int
	height   int
	// cropLen is the kept length along the growth axis, int(dim*crop).
	cropLen int
}

// directionalGeometry places the kept strip flush against the canvas edge
// opposite to dir. ConventionLegacy keeps the original tool's retained boxes
// and anchors instead.
func (e *Expander) directionalGeometry(dir Direction, w, h int, crop float64) geometry {
	if e.opts.Convention == ConventionLegacy {
		return legacyGeometry(dir, w, h, crop)
	}

	fw, fh := float64(w), float64(h)
	cw, ch := int(fw*crop), int(fh*crop)
	W, H := int(fw*(1+crop)), int(fh*(1+crop))
	switch dir {
	case Left:
		return geometry{retained: image.Rect(w-cw, 0, w, h), anchor: image.Pt(W-cw, 0), width: W, height: h, cropLen: cw}
	case Right:
		return geometry{retained: image.Rect(0, 0, cw, h), anchor: image.Pt(0, 0), width: W, height: h, cropLen: cw}
	case Up:
		return geometry{retained: image.Rect(0, h-ch, w, h), anchor: image.Pt(0, H-ch), width: w, height: H, cropLen: ch}
	default: // Down
		return geometry{retained: image.Rect(0, 0, w, ch), anchor: image.Pt(0, 0), width: w, height: H, cropLen: ch}
	}
}

func legacyGeometry(dir Direction, w, h int, crop float64) geometry {
	fw, fh := float64(w), float64(h)
	cw, ch := int(fw*crop), int(fh*crop)
	W, H := int(fw*(1+crop)), int(fh*(1+crop))
	switch dir {
	case Left:
		return geometry{retained: image.Rect(int(fw*(1-crop)), 0, w, h), anchor: image.Pt(0, 0), width: W, height: h, cropLen: cw}
	case Right:
		return geometry{retained: image.Rect(0, 0, cw, h), anchor: image.Pt(w-cw, 0), width: W, height: h, cropLen: cw}
	case Up:
		return geometry{retained: image.Rect(0, int(fh*(1-crop)), w, h), anchor: image.Pt(0, 0), width: w, height: H, cropLen: ch}
	default: // Down
		return geometry{retained: image.Rect(0, 0, w, ch), anchor: image.Pt(0, h-ch), width: w, height: H, cropLen: ch}
	}
}

// directionalBox returns the unknown rectangle for dir on a canvas of the
// geometry's size. It may extend past the canvas; paintAll clips it.
func (e *Expander) directionalBox(dir Direction, g geometry, crop float64) image.Rectangle {
	W, H, r := g.width, g.height, e.opts.Reserve

	if e.opts.Convention == ConventionLegacy {
		// The original box marks the kept side; everything else is unknown.
		n := g.cropLen
		if dir != Left {
			if dir.Horizontal() {
				n = int(float64(W) * crop)
			} else {
				n = int(float64(H) * crop)
			}
		}
		switch dir {
		case Left:
			return box(n-r, 0, W, H)
		case Right:
			return box(0, 0, W-n+r, H)
		case Up:
			return box(0, n-r, W, H)
		default: // Down
			return box(0, 0, W, H-n+r)
		}
	}

	n := g.cropLen
	switch dir {
	case Left:
		return box(0, 0, W-n+r, H)
	case Right:
		return box(n-r, 0, W, H)
	case Up:
		return box(0, 0, W, H-n+r)
	default: // Down
		return box(0, n-r, W, H)
	}
}

func sourceSize(img image.Image) (int, int, error) {
	if img == nil {
		return 0, 0, errors.Wrap(ErrDegenerateGeometry, "nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return 0, 0, errors.Wrapf(ErrDegenerateGeometry, "empty source %dx%d", b.Dx(), b.Dy())
	}
	return b.Dx(), b.Dy(), nil
}

// box builds a rectangle without canonicalizing it, so boxes whose far edge
// falls before the near edge stay empty instead of being flipped.
func box(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rectangle{Min: image.Pt(x0, y0), Max: image.Pt(x1, y1)}
}

// paintAll paints every box on m and returns the non-empty ones clipped to m.
func paintAll(m *mask.Mask, boxes ...image.Rectangle) []image.Rectangle {
	var painted []image.Rectangle
	for _, b := range boxes {
		if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
			continue
		}
		c := b.Intersect(m.Bounds())
		if c.Empty() {
			continue
		}
		m.Paint(c)
		painted = append(painted, c)
	}
	return painted
}
