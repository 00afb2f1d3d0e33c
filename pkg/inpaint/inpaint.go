// Package inpaint describes what the host generation pipeline receives after
// a canvas expansion: the expanded image, its mask, the new size, the fixed
// inpainting parameters and the inpaint control units.
package inpaint

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/menta2k/zoomout/pkg/expander"
	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/processing"
	"github.com/menta2k/zoomout/pkg/resize"
)

// MaskMode selects which side of the mask is regenerated.
type MaskMode int

const (
	InpaintMasked MaskMode = iota
	InpaintNotMasked
)

// FillMode selects what the masked area is initialized with.
type FillMode int

const (
	FillFill FillMode = iota
	FillOriginal
	FillLatentNoise
	FillLatentNothing
)

// Region selects whether the whole picture or only the masked area is
// processed at full resolution.
type Region int

const (
	WholePicture Region = iota
	OnlyMasked
)

// Fixed parameters applied to every expansion request.
const (
	DefaultMaskBlur       = 1
	DefaultFullResPadding = 32
)

// Request is the configuration handed to the generation pipeline.
type Request struct {
	Image  *image.NRGBA
	Mask   *image.NRGBA
	Width  int
	Height int

	MaskBlurX      int
	MaskBlurY      int
	FullResPadding int
	MaskMode       MaskMode
	Fill           FillMode
	Region         Region
	ResizeMode     resize.Mode

	Direction expander.Direction
	Factor    float64
	Prompt    string

	ControlUnits []ControlUnit
}

// NewRequest builds a request from an expansion result. The mask is rendered
// with palette; a nil provider attaches no control units.
func NewRequest(res *expander.Result, mode resize.Mode, provider ControlProvider, palette mask.Palette) *Request {
	req := &Request{
		Image:          res.Canvas,
		Mask:           res.Mask.Render(palette),
		Width:          res.Width,
		Height:         res.Height,
		MaskBlurX:      DefaultMaskBlur,
		MaskBlurY:      DefaultMaskBlur,
		FullResPadding: DefaultFullResPadding,
		MaskMode:       InpaintMasked,
		Fill:           FillFill,
		Region:         OnlyMasked,
		ResizeMode:     mode,
		Direction:      res.Direction,
		Factor:         res.Factor,
	}
	if provider != nil {
		req.ControlUnits = provider.Units(mode)
	}
	return req
}

// Validate checks that the image, the mask and the reported size agree.
func (r *Request) Validate() error {
	if r.Image == nil || r.Mask == nil {
		return fmt.Errorf("request needs both an image and a mask")
	}
	want := image.Rect(0, 0, r.Width, r.Height)
	if r.Image.Bounds() != want {
		return fmt.Errorf("image bounds %v do not match %dx%d", r.Image.Bounds(), r.Width, r.Height)
	}
	if r.Mask.Bounds() != want {
		return fmt.Errorf("mask bounds %v do not match %dx%d", r.Mask.Bounds(), r.Width, r.Height)
	}
	return nil
}

type requestJSON struct {
	InitImage      string             `json:"init_image"`
	Mask           string             `json:"mask"`
	Width          int                `json:"width"`
	Height         int                `json:"height"`
	MaskBlurX      int                `json:"mask_blur_x"`
	MaskBlurY      int                `json:"mask_blur_y"`
	FullResPadding int                `json:"inpaint_full_res_padding"`
	MaskInvert     MaskMode           `json:"inpainting_mask_invert"`
	Fill           FillMode           `json:"inpainting_fill"`
	FullRes        Region             `json:"inpaint_full_res"`
	ResizeMode     int                `json:"resize_mode"`
	Direction      expander.Direction `json:"direction"`
	Factor         float64            `json:"factor"`
	Prompt         string             `json:"prompt,omitempty"`
	ControlUnits   []ControlUnit      `json:"controlnet_units,omitempty"`
}

// MarshalJSON encodes the request with both images as base64 PNG.
func (r *Request) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	p := processing.NewProcessor()
	img, err := p.EncodeBase64(r.Image, "png", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	m, err := p.EncodeBase64(r.Mask, "png", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mask: %w", err)
	}

	return json.Marshal(requestJSON{
		InitImage:      img,
		Mask:           m,
		Width:          r.Width,
		Height:         r.Height,
		MaskBlurX:      r.MaskBlurX,
		MaskBlurY:      r.MaskBlurY,
		FullResPadding: r.FullResPadding,
		MaskInvert:     r.MaskMode,
		Fill:           r.Fill,
		FullRes:        r.Region,
		ResizeMode:     int(r.ResizeMode),
		Direction:      r.Direction,
		Factor:         r.Factor,
		Prompt:         r.Prompt,
		ControlUnits:   r.ControlUnits,
	})
}
