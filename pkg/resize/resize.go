// Package resize normalizes a source image to the working size of the
// generation pipeline before the canvas is expanded.
package resize

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	nfnt "github.com/nfnt/resize"
)

// Mode selects how the source is fitted into the target size. The numeric
// values match the host pipeline's resize_mode field.
type Mode int

const (
	// JustResize stretches the source to the target size.
	JustResize Mode = iota
	// CropAndResize scales the source to cover the target and crops the
	// overflow around the center.
	CropAndResize
	// ResizeAndFill scales the source to fit inside the target and fills
	// the margins with a stretched copy of the source.
	ResizeAndFill
)

var modeNames = map[Mode]string{
	JustResize:    "just-resize",
	CropAndResize: "crop-and-resize",
	ResizeAndFill: "resize-and-fill",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// ParseMode accepts a mode name ("just-resize", "crop", "fill", ...) or the
// host's numeric value.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if m := Mode(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("unknown resize mode: %s", s)
	}
	switch s {
	case "", "just-resize", "just", "resize", "stretch":
		return JustResize, nil
	case "crop-and-resize", "crop":
		return CropAndResize, nil
	case "resize-and-fill", "fill":
		return ResizeAndFill, nil
	}
	return 0, fmt.Errorf("unknown resize mode: %s", s)
}

// Resampler resizes an image to exactly w×h.
type Resampler interface {
	Resize(img image.Image, w, h int) *image.NRGBA
}

// Imaging resamples with github.com/disintegration/imaging. The zero value
// uses nearest-neighbor sampling.
type Imaging struct {
	Filter imaging.ResampleFilter
}

// Resize implements Resampler.
func (r Imaging) Resize(img image.Image, w, h int) *image.NRGBA {
	return imaging.Resize(img, w, h, r.Filter)
}

// Nfnt resamples with github.com/nfnt/resize.
type Nfnt struct {
	Interp nfnt.InterpolationFunction
}

// Resize implements Resampler.
func (r Nfnt) Resize(img image.Image, w, h int) *image.NRGBA {
	out := nfnt.Resize(uint(w), uint(h), img, r.Interp)
	if nrgba, ok := out.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	return imaging.Clone(out)
}

// Default is the resampler used when none is configured.
var Default Resampler = Imaging{Filter: imaging.Lanczos}

var resamplers = map[string]Resampler{
	"lanczos":       Imaging{Filter: imaging.Lanczos},
	"catmullrom":    Imaging{Filter: imaging.CatmullRom},
	"linear":        Imaging{Filter: imaging.Linear},
	"box":           Imaging{Filter: imaging.Box},
	"nearest":       Imaging{Filter: imaging.NearestNeighbor},
	"nfnt-lanczos3": Nfnt{Interp: nfnt.Lanczos3},
	"nfnt-bicubic":  Nfnt{Interp: nfnt.Bicubic},
	"nfnt-bilinear": Nfnt{Interp: nfnt.Bilinear},
	"nfnt-mitchell": Nfnt{Interp: nfnt.MitchellNetravali},
	"nfnt-nearest":  Nfnt{Interp: nfnt.NearestNeighbor},
}

// ParseResampler looks up a resampler by name. An empty name yields Default.
func ParseResampler(name string) (Resampler, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default, nil
	}
	if r, ok := resamplers[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("unknown resampler: %s", name)
}

// Image fits img into w×h according to mode. A nil resampler uses Default.
func Image(mode Mode, img image.Image, w, h int, r Resampler) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid target size: %dx%d", w, h)
	}
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", sw, sh)
	}
	if r == nil {
		r = Default
	}

	switch mode {
	case JustResize:
		if sw == w && sh == h {
			return imaging.Clone(img), nil
		}
		return r.Resize(img, w, h), nil

	case CropAndResize:
		cw, ch := coverSize(sw, sh, w, h)
		scaled := r.Resize(img, cw, ch)
		return imaging.CropCenter(scaled, w, h), nil

	case ResizeAndFill:
		fw, fh := fitSize(sw, sh, w, h)
		background := r.Resize(img, w, h)
		return imaging.PasteCenter(background, r.Resize(img, fw, fh)), nil
	}
	return nil, fmt.Errorf("unknown resize mode: %d", int(mode))
}

// coverSize returns the smallest size with the source aspect ratio that
// covers w×h.
func coverSize(sw, sh, w, h int) (int, int) {
	if sw*h > sh*w {
		return max(w, roundDiv(sw*h, sh)), h
	}
	return w, max(h, roundDiv(sh*w, sw))
}

// fitSize returns the largest size with the source aspect ratio that fits
// inside w×h.
func fitSize(sw, sh, w, h int) (int, int) {
	if sw*h > sh*w {
		return w, max(1, min(h, roundDiv(sh*w, sw)))
	}
	return max(1, min(w, roundDiv(sw*h, sh))), h
}

func roundDiv(a, b int) int {
	return int(math.Round(float64(a) / float64(b)))
}
