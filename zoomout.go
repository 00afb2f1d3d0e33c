// Package zoomout prepares images for outpainting.
//
// It expands the canvas of a source image, either symmetrically by shrinking
// the source toward the center or along one direction by shifting part of the
// source to the opposite edge, and builds the mask of the region a downstream
// inpainting model has to fill.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"log"
//
//		"github.com/menta2k/zoomout"
//		"github.com/menta2k/zoomout/pkg/expander"
//	)
//
//	func main() {
//		z := zoomout.New()
//
//		img, err := z.LoadImage("photo.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Grow the canvas to the right by half of the source width
//		req, err := z.Prepare(context.Background(), img, zoomout.Params{
//			Direction: expander.Right,
//			Factor:    0.5,
//		})
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		if err := z.SaveImage(req.Image, "photo_canvas.png"); err != nil {
//			log.Fatal(err)
//		}
//		if err := z.SaveImage(req.Mask, "photo_mask.png"); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// The package consists of these components:
//
// 1. Expander (pkg/expander): canvas sizing, crop/paste geometry and mask regions
// 2. Mask (pkg/mask): the known/unknown coverage map and its palettes
// 3. Resize (pkg/resize): normalization of the source to the working size
// 4. Inpaint (pkg/inpaint): the request handed to the generation pipeline
// 5. Caption (pkg/caption): optional prompt suggestions from a vision model
package zoomout

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/menta2k/zoomout/pkg/caption"
	"github.com/menta2k/zoomout/pkg/expander"
	"github.com/menta2k/zoomout/pkg/inpaint"
	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/processing"
	"github.com/menta2k/zoomout/pkg/resize"
)

// Version of the zoomout library
const Version = "1.0.0"

// Options configures a ZoomOut.
type Options struct {
	Expander expander.Options
	// Palette renders the mask in the request. The zero value is mask.Binary.
	Palette mask.Palette
	// Control supplies the inpaint control units; nil attaches none.
	Control inpaint.ControlProvider
	// Captioner suggests a prompt when Params.Prompt is empty; nil disables it.
	Captioner *caption.Captioner
}

// Params describes one expansion.
type Params struct {
	Direction expander.Direction
	// Factor is the shrink scale for Center and the crop fraction otherwise.
	Factor float64
	// Width and Height are the working size the source is resized to before
	// expansion. Zero keeps the source size.
	Width      int
	Height     int
	ResizeMode resize.Mode
	Prompt     string
}

// ZoomOut provides a high-level interface for canvas expansion
type ZoomOut struct {
	processor *processing.Processor
	expander  *expander.Expander
	resampler resize.Resampler
	palette   mask.Palette
	control   inpaint.ControlProvider
	captioner *caption.Captioner
}

// New creates a ZoomOut with default configuration and the default lama
// inpaint control unit
func New() *ZoomOut {
	return NewWithOptions(Options{
		Expander: expander.DefaultOptions(),
		Palette:  mask.Binary,
		Control:  inpaint.DefaultProvider{},
	})
}

// NewWithOptions creates a ZoomOut with custom options
func NewWithOptions(opts Options) *ZoomOut {
	e := expander.NewWithOptions(opts.Expander)
	palette := opts.Palette
	if palette.Known == nil || palette.Unknown == nil {
		palette = mask.Binary
	}
	return &ZoomOut{
		processor: processing.NewProcessor(),
		expander:  e,
		resampler: e.Options().Resampler,
		palette:   palette,
		control:   opts.Control,
		captioner: opts.Captioner,
	}
}

// SetLogger enables logging for zoomout and its packages. Logging is off by
// default; nil turns it off again.
func SetLogger(l *slog.Logger) {
	expander.SetLogger(l)
}

// LoadImage loads an image from a file path or an http(s) URL
func (z *ZoomOut) LoadImage(source string) (image.Image, error) {
	return z.processor.LoadImageSmart(source)
}

// SaveImage saves an image, picking the format from the file extension
func (z *ZoomOut) SaveImage(img image.Image, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return z.processor.SaveImage(img, path, format, 95, false)
}

// Expand runs the canvas expansion only
func (z *ZoomOut) Expand(img image.Image, dir expander.Direction, factor float64) (*expander.Result, error) {
	return z.expander.Expand(img, dir, factor)
}

// Prepare resizes the source to the working size, expands it and builds the
// inpaint request. Captioning failures are logged and leave the prompt empty.
func (z *ZoomOut) Prepare(ctx context.Context, img image.Image, p Params) (*inpaint.Request, error) {
	req, _, err := z.PrepareWithResult(ctx, img, p)
	return req, err
}

// PrepareWithResult is Prepare that also returns the expansion result the
// request was built from.
func (z *ZoomOut) PrepareWithResult(ctx context.Context, img image.Image, p Params) (*inpaint.Request, *expander.Result, error) {
	src := img
	if p.Width > 0 && p.Height > 0 {
		resized, err := resize.Image(p.ResizeMode, img, p.Width, p.Height, z.resampler)
		if err != nil {
			return nil, nil, fmt.Errorf("resize to working size failed: %w", err)
		}
		src = resized
	}

	res, err := z.expander.Expand(src, p.Direction, p.Factor)
	if err != nil {
		return nil, nil, fmt.Errorf("expansion failed: %w", err)
	}

	req := inpaint.NewRequest(res, p.ResizeMode, z.control, z.palette)
	req.Prompt = p.Prompt
	if req.Prompt == "" && z.captioner != nil {
		prompt, err := z.captioner.Suggest(ctx, src)
		if err != nil {
			expander.Logger().Warn("caption failed, continuing without prompt", slog.Any("error", err))
		} else {
			req.Prompt = prompt
		}
	}

	expander.Logger().Info("prepared expansion",
		slog.String("direction", p.Direction.String()),
		slog.Float64("factor", p.Factor),
		slog.Int("width", req.Width), slog.Int("height", req.Height))

	return req, res, nil
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
