package resize

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", JustResize},
		{"0", JustResize},
		{"just-resize", JustResize},
		{"Crop", CropAndResize},
		{"1", CropAndResize},
		{" fill ", ResizeAndFill},
		{"2", ResizeAndFill},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"3", "-1", "zoom"} {
		_, err := ParseMode(bad)
		assert.Error(t, err, bad)
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "crop-and-resize", CropAndResize.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
	assert.False(t, Mode(7).Valid())
}

func TestParseResampler(t *testing.T) {
	r, err := ParseResampler("")
	require.NoError(t, err)
	assert.IsType(t, Imaging{}, r)

	r, err = ParseResampler("NFNT-Lanczos3")
	require.NoError(t, err)
	assert.IsType(t, Nfnt{}, r)

	_, err = ParseResampler("sinc")
	assert.Error(t, err)
}

func TestImageModes(t *testing.T) {
	src := getTestImage(200, 100)

	for _, mode := range []Mode{JustResize, CropAndResize, ResizeAndFill} {
		for _, name := range []string{"lanczos", "nearest", "nfnt-bilinear"} {
			r, err := ParseResampler(name)
			require.NoError(t, err)

			out, err := Image(mode, src, 64, 96, r)
			require.NoError(t, err, "%s/%s", mode, name)
			assert.Equal(t, image.Rect(0, 0, 64, 96), out.Bounds(), "%s/%s", mode, name)
		}
	}
}

func TestImageSameSizeIsCopy(t *testing.T) {
	src := getTestImage(32, 16).(*image.NRGBA)

	out, err := Image(JustResize, src, 32, 16, nil)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, out.Pix)

	out.Pix[0] = 77
	assert.Equal(t, uint8(0), src.Pix[0], "source must not share the output buffer")
}

func TestImageInvalid(t *testing.T) {
	src := getTestImage(10, 10)

	_, err := Image(JustResize, src, 0, 10, nil)
	assert.Error(t, err)

	_, err = Image(Mode(9), src, 10, 10, nil)
	assert.Error(t, err)

	_, err = Image(JustResize, image.NewNRGBA(image.Rect(0, 0, 0, 5)), 10, 10, nil)
	assert.Error(t, err)
}

func TestCoverAndFitSize(t *testing.T) {
	w, h := coverSize(200, 100, 64, 96)
	assert.Equal(t, 192, w)
	assert.Equal(t, 96, h)

	w, h = fitSize(200, 100, 64, 96)
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	w, h = fitSize(100, 200, 96, 64)
	assert.Equal(t, 32, w)
	assert.Equal(t, 64, h)
}
