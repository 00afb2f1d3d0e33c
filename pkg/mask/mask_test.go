package mask

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsAllKnown(t *testing.T) {
	m := New(20, 10)

	assert.Equal(t, 20, m.Width())
	assert.Equal(t, 10, m.Height())
	assert.Equal(t, image.Rect(0, 0, 20, 10), m.Bounds())
	assert.Zero(t, m.UnknownArea())
	assert.False(t, m.IsUnknown(5, 5))
}

func TestPaint(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		area int
	}{
		{"inside", image.Rect(2, 2, 6, 5), 12},
		{"clipped", image.Rect(-5, -5, 4, 3), 12},
		{"outside", image.Rect(30, 30, 40, 40), 0},
		{"inverted is empty", image.Rectangle{Min: image.Pt(8, 0), Max: image.Pt(2, 10)}, 0},
		{"zero width", image.Rect(3, 0, 3, 10), 0},
		{"full", image.Rect(0, 0, 20, 10), 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(20, 10)
			m.Paint(tt.rect)
			assert.Equal(t, tt.area, m.UnknownArea())
		})
	}
}

func TestPaintOverlapOnlyGrows(t *testing.T) {
	m := New(10, 10)
	m.Paint(image.Rect(0, 0, 10, 3))
	m.Paint(image.Rect(0, 0, 3, 10))
	// 30 + 30 - 9 overlapping pixels
	assert.Equal(t, 51, m.UnknownArea())
	assert.True(t, m.IsUnknown(0, 0))
	assert.True(t, m.IsUnknown(2, 9))
	assert.False(t, m.IsUnknown(5, 5))
	assert.False(t, m.IsUnknown(-1, 0))
}

func TestRenderPalettes(t *testing.T) {
	m := New(4, 4)
	m.Paint(image.Rect(0, 0, 2, 4))

	out := m.Render(LegacyDirectional)
	require.Equal(t, m.Bounds(), out.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 100}, out.NRGBAAt(3, 3))

	out = m.Render(Binary)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(1, 2))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(2, 2))
}

func TestRenderNilColorsFallBackToBinary(t *testing.T) {
	m := New(2, 1)
	m.Paint(image.Rect(0, 0, 1, 1))

	out := m.Render(Palette{})
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, out.NRGBAAt(1, 0))
}

func TestGrayIsACopy(t *testing.T) {
	m := New(3, 3)
	g := m.Gray()
	g.Pix[0] = Unknown

	assert.False(t, m.IsUnknown(0, 0))
	assert.Equal(t, color.Gray{Y: Known}, m.At(0, 0))
}

func TestEqual(t *testing.T) {
	a, b := New(5, 5), New(5, 5)
	assert.True(t, a.Equal(b))

	a.Paint(image.Rect(0, 0, 1, 1))
	assert.False(t, a.Equal(b))
	b.Paint(image.Rect(0, 0, 1, 1))
	assert.True(t, a.Equal(b))

	assert.False(t, a.Equal(New(5, 4)))
	assert.False(t, a.Equal(nil))
}

func TestPaletteByName(t *testing.T) {
	for _, p := range Palettes() {
		got, ok := PaletteByName(p.Name)
		require.True(t, ok, p.Name)
		assert.Equal(t, p, got)
	}

	_, ok := PaletteByName("sepia")
	assert.False(t, ok)
}
