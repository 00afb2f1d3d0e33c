package inpaint

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/zoomout/pkg/expander"
	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/resize"
)

func expand(t *testing.T, dir expander.Direction, factor float64) *expander.Result {
	t.Helper()
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	res, err := expander.New().Expand(src, dir, factor)
	require.NoError(t, err)
	return res
}

func TestNewRequestFixedParameters(t *testing.T) {
	res := expand(t, expander.Right, 0.5)
	req := NewRequest(res, resize.CropAndResize, DefaultProvider{}, mask.Binary)

	require.NoError(t, req.Validate())
	assert.Equal(t, 150, req.Width)
	assert.Equal(t, 100, req.Height)
	assert.Equal(t, 1, req.MaskBlurX)
	assert.Equal(t, 1, req.MaskBlurY)
	assert.Equal(t, 32, req.FullResPadding)
	assert.Equal(t, InpaintMasked, req.MaskMode)
	assert.Equal(t, FillFill, req.Fill)
	assert.Equal(t, OnlyMasked, req.Region)
	assert.Equal(t, expander.Right, req.Direction)

	require.Len(t, req.ControlUnits, 1)
	unit := req.ControlUnits[0]
	assert.Equal(t, "control_v11p_sd15_inpaint", unit.Model)
	assert.Equal(t, "inpaint_only+lama", unit.Module)
	assert.Equal(t, 1.0, unit.Weight)
	assert.True(t, unit.PixelPerfect)
	assert.Equal(t, ControlImportant, unit.ControlMode)
	assert.Equal(t, 0.0, unit.GuidanceStart)
	assert.Equal(t, 1.0, unit.GuidanceEnd)
	assert.Equal(t, int(resize.CropAndResize), unit.ResizeMode)
}

func TestNewRequestMaskPalette(t *testing.T) {
	res := expand(t, expander.Left, 0.5)

	req := NewRequest(res, resize.JustResize, nil, mask.LegacyDirectional)
	assert.Empty(t, req.ControlUnits)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, req.Mask.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 100}, req.Mask.NRGBAAt(149, 0))

	req = NewRequest(res, resize.JustResize, NoControl{}, mask.Binary)
	assert.Empty(t, req.ControlUnits)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, req.Mask.NRGBAAt(0, 0))
}

func TestLegacyDirectionalMaskBytes(t *testing.T) {
	opts := expander.DefaultOptions()
	opts.Convention = expander.ConventionLegacy
	res, err := expander.NewWithOptions(opts).Expand(image.NewNRGBA(image.Rect(0, 0, 100, 100)), expander.Left, 0.5)
	require.NoError(t, err)

	// A semi-transparent black box over the kept 40 columns on opaque white.
	req := NewRequest(res, resize.JustResize, nil, mask.LegacyDirectional)
	for _, x := range []int{0, 39} {
		assert.Equal(t, color.NRGBA{0, 0, 0, 100}, req.Mask.NRGBAAt(x, 50), "x=%d", x)
	}
	for _, x := range []int{40, 149} {
		assert.Equal(t, color.NRGBA{255, 255, 255, 255}, req.Mask.NRGBAAt(x, 50), "x=%d", x)
	}
}

func TestCustomProvider(t *testing.T) {
	units := DefaultProvider{Model: "custom_inpaint", Module: "inpaint_only"}.Units(resize.ResizeAndFill)
	require.Len(t, units, 1)
	assert.Equal(t, "custom_inpaint", units[0].Model)
	assert.Equal(t, "inpaint_only", units[0].Module)
	assert.Equal(t, 2, units[0].ResizeMode)
}

func TestValidate(t *testing.T) {
	req := NewRequest(expand(t, expander.Center, 2), resize.JustResize, nil, mask.Binary)
	require.NoError(t, req.Validate())

	req.Width = 99
	assert.Error(t, req.Validate())

	req.Width = 100
	req.Mask = image.NewNRGBA(image.Rect(0, 0, 10, 10))
	assert.Error(t, req.Validate())

	req.Image = nil
	assert.Error(t, req.Validate())
}

func TestMarshalJSON(t *testing.T) {
	req := NewRequest(expand(t, expander.Down, 0.5), resize.JustResize, DefaultProvider{}, mask.Binary)
	req.Prompt = "snowy mountains"

	data, err := json.Marshal(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, float64(100), out["width"])
	assert.Equal(t, float64(150), out["height"])
	assert.Equal(t, "down", out["direction"])
	assert.Equal(t, "snowy mountains", out["prompt"])
	assert.Equal(t, float64(1), out["inpaint_full_res"])

	units := out["controlnet_units"].([]any)
	require.Len(t, units, 1)
	assert.Equal(t, "ControlNet is more important", units[0].(map[string]any)["control_mode"])

	raw, err := base64.StdEncoding.DecodeString(out["mask"].(string))
	require.NoError(t, err)
	m, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 150), m.Bounds())
}
