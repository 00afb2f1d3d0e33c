package inpaint

import "github.com/menta2k/zoomout/pkg/resize"

// ControlMode weighs the control unit against the text prompt.
type ControlMode int

const (
	Balanced ControlMode = iota
	PromptImportant
	ControlImportant
)

func (m ControlMode) String() string {
	switch m {
	case Balanced:
		return "Balanced"
	case PromptImportant:
		return "My prompt is more important"
	case ControlImportant:
		return "ControlNet is more important"
	}
	return "Balanced"
}

func (m ControlMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

const (
	DefaultControlModel  = "control_v11p_sd15_inpaint"
	DefaultControlModule = "inpaint_only+lama"
)

// ControlUnit configures one unit of the inpainting-control extension.
type ControlUnit struct {
	Model         string      `json:"model"`
	Module        string      `json:"module"`
	Weight        float64     `json:"weight"`
	PixelPerfect  bool        `json:"pixel_perfect"`
	ControlMode   ControlMode `json:"control_mode"`
	GuidanceStart float64     `json:"guidance_start"`
	GuidanceEnd   float64     `json:"guidance_end"`
	ResizeMode    int         `json:"resize_mode"`
}

// ControlProvider supplies the control units attached to a request. It
// replaces discovering the extension at runtime.
type ControlProvider interface {
	Units(mode resize.Mode) []ControlUnit
}

// DefaultProvider attaches a single lama inpaint unit. Empty fields use
// DefaultControlModel and DefaultControlModule.
type DefaultProvider struct {
	Model  string
	Module string
}

// Units implements ControlProvider.
func (p DefaultProvider) Units(mode resize.Mode) []ControlUnit {
	model, module := p.Model, p.Module
	if model == "" {
		model = DefaultControlModel
	}
	if module == "" {
		module = DefaultControlModule
	}
	return []ControlUnit{{
		Model:         model,
		Module:        module,
		Weight:        1.0,
		PixelPerfect:  true,
		ControlMode:   ControlImportant,
		GuidanceStart: 0.0,
		GuidanceEnd:   1.0,
		ResizeMode:    int(mode),
	}}
}

// NoControl attaches no control units.
type NoControl struct{}

// Units implements ControlProvider.
func (NoControl) Units(resize.Mode) []ControlUnit { return nil }
