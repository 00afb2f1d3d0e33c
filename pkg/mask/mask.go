// Package mask holds the coverage map that marks which canvas pixels are
// preserved and which ones a downstream inpainting step has to synthesize.
//
// A Mask has exactly two values, Known and Unknown. Colors only exist at the
// boundary: Render converts the coverage map into an RGBA image using a
// Palette, which is how the host pipeline expects masks to arrive.
package mask

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

const (
	// Known marks pixels whose source content is kept.
	Known uint8 = 0
	// Unknown marks pixels the inpainting step regenerates.
	Unknown uint8 = 255
)

// Mask is a single-channel coverage map with values Known or Unknown.
// It implements image.Image so it can be encoded directly as grayscale.
type Mask struct {
	gray *image.Gray
}

// New creates a w×h mask with every pixel Known.
func New(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	// image.NewGray zeroes its buffer, which is Known.
	return &Mask{gray: image.NewGray(image.Rect(0, 0, w, h))}
}

// Paint marks r as Unknown. The rectangle is clipped to the mask bounds;
// rectangles with a non-positive width or height paint nothing.
func (m *Mask) Paint(r image.Rectangle) {
	if r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y {
		return
	}
	r = r.Intersect(m.gray.Rect)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.gray.PixOffset(r.Min.X, y)
		row := m.gray.Pix[i : i+r.Dx()]
		for x := range row {
			row[x] = Unknown
		}
	}
}

// IsUnknown reports whether (x, y) is marked Unknown. Points outside the
// mask are Known.
func (m *Mask) IsUnknown(x, y int) bool {
	if !(image.Point{x, y}).In(m.gray.Rect) {
		return false
	}
	return m.gray.Pix[m.gray.PixOffset(x, y)] == Unknown
}

// UnknownArea returns the number of Unknown pixels.
func (m *Mask) UnknownArea() int {
	n := 0
	for _, v := range m.gray.Pix {
		if v == Unknown {
			n++
		}
	}
	return n
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.gray.Rect.Dx() }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.gray.Rect.Dy() }

// ColorModel returns color.GrayModel.
func (m *Mask) ColorModel() color.Model { return color.GrayModel }

// Bounds returns the mask rectangle.
func (m *Mask) Bounds() image.Rectangle { return m.gray.Rect }

// At returns Known or Unknown as a gray color.
func (m *Mask) At(x, y int) color.Color { return m.gray.At(x, y) }

// Gray returns a copy of the coverage map.
func (m *Mask) Gray() *image.Gray {
	out := image.NewGray(m.gray.Rect)
	copy(out.Pix, m.gray.Pix)
	return out
}

// Equal reports whether both masks have the same size and coverage.
func (m *Mask) Equal(other *Mask) bool {
	if other == nil || m.gray.Rect != other.gray.Rect {
		return false
	}
	for i, v := range m.gray.Pix {
		if other.gray.Pix[i] != v {
			return false
		}
	}
	return true
}

// Palette maps the two coverage values to output colors.
type Palette struct {
	Name    string
	Known   color.Color
	Unknown color.Color
}

var (
	// Binary is the default boundary format: known black, unknown white.
	Binary = Palette{
		Name:    "binary",
		Known:   color.NRGBA{0, 0, 0, 255},
		Unknown: color.NRGBA{255, 255, 255, 255},
	}

	// LegacyCenter reproduces the RGB mask of the original symmetric mode.
	LegacyCenter = Palette{
		Name:    "legacy-center",
		Known:   color.NRGBA{0, 0, 0, 255},
		Unknown: color.NRGBA{255, 255, 255, 255},
	}

	// LegacyDirectional reproduces the RGBA mask of the original directional
	// mode: a semi-transparent black box over the kept side on opaque white.
	LegacyDirectional = Palette{
		Name:    "legacy-directional",
		Known:   color.NRGBA{0, 0, 0, 100},
		Unknown: color.NRGBA{255, 255, 255, 255},
	}
)

// Palettes returns the built-in palettes.
func Palettes() []Palette {
	return []Palette{Binary, LegacyCenter, LegacyDirectional}
}

// PaletteByName looks up a built-in palette.
func PaletteByName(name string) (Palette, bool) {
	for _, p := range Palettes() {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// Render converts the mask to a freshly allocated NRGBA image.
func (m *Mask) Render(p Palette) *image.NRGBA {
	known := color.NRGBAModel.Convert(orDefault(p.Known, Binary.Known)).(color.NRGBA)
	unknown := color.NRGBAModel.Convert(orDefault(p.Unknown, Binary.Unknown)).(color.NRGBA)

	out := image.NewNRGBA(m.gray.Rect)
	draw.Draw(out, out.Rect, &image.Uniform{C: known}, image.Point{}, draw.Src)

	w, h := m.gray.Rect.Dx(), m.gray.Rect.Dy()
	for y := 0; y < h; y++ {
		src := m.gray.Pix[y*m.gray.Stride : y*m.gray.Stride+w]
		i := y * out.Stride
		for _, v := range src {
			if v == Unknown {
				out.Pix[i+0] = unknown.R
				out.Pix[i+1] = unknown.G
				out.Pix[i+2] = unknown.B
				out.Pix[i+3] = unknown.A
			}
			i += 4
		}
	}
	return out
}

func orDefault(c, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}
