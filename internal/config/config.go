package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/menta2k/zoomout/pkg/expander"
	"github.com/menta2k/zoomout/pkg/mask"
	"github.com/menta2k/zoomout/pkg/resize"
)

// Config holds the application configuration
type Config struct {
	Expander ExpanderConfig `json:"expander"`
	Resize   ResizeConfig   `json:"resize"`
	Inpaint  InpaintConfig  `json:"inpaint"`
	Vision   VisionConfig   `json:"vision"`
	Output   OutputConfig   `json:"output"`
}

// ExpanderConfig holds configuration for canvas expansion
type ExpanderConfig struct {
	Direction      string  `json:"direction"`
	Scale          float64 `json:"scale"`
	Reserve        int     `json:"reserve"`
	Background     string  `json:"background"`
	MaskConvention string  `json:"mask_convention"`
	Resampler      string  `json:"resampler"`
}

// ResizeConfig holds the working size the source is normalized to before
// expansion. Zero width and height keep the source size.
type ResizeConfig struct {
	Mode   string `json:"mode"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// InpaintConfig holds configuration for the generated inpaint request
type InpaintConfig struct {
	MaskPalette   string `json:"mask_palette"`
	Control       bool   `json:"control"`
	ControlModel  string `json:"control_model"`
	ControlModule string `json:"control_module"`
}

// VisionConfig holds configuration for prompt captioning
type VisionConfig struct {
	Enabled bool   `json:"enabled"`
	URL     string `json:"url"`
	Model   string `json:"model"`
}

// OutputConfig holds configuration for output generation
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	OutputDir     string `json:"output_dir"`
	Prefix        string `json:"prefix"`
	Suffix        string `json:"suffix"`
	Quality       int    `json:"quality"`
	Lossless      bool   `json:"lossless"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Expander: ExpanderConfig{
			Direction:      "center",
			Scale:          2.0,
			Reserve:        expander.DefaultReserve,
			Background:     "#ffffff",
			MaskConvention: "original",
			Resampler:      "lanczos",
		},
		Resize: ResizeConfig{
			Mode: "just-resize",
		},
		Inpaint: InpaintConfig{
			MaskPalette: mask.Binary.Name,
			Control:     true,
		},
		Vision: VisionConfig{
			Enabled: false,
			URL:     "http://localhost:11434",
			Model:   "llava",
		},
		Output: OutputConfig{
			DefaultFormat: "png",
			OutputDir:     "./output",
			Prefix:        "",
			Suffix:        "_zoomout",
			Quality:       90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Missing fields keep
// their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	dir, err := expander.ParseDirection(c.Expander.Direction)
	if err != nil {
		return fmt.Errorf("expander.direction: %w", err)
	}
	if dir == expander.Center {
		if c.Expander.Scale < 1 {
			return fmt.Errorf("expander.scale must be at least 1 for center expansion")
		}
	} else if c.Expander.Scale <= 0 || c.Expander.Scale >= 1 {
		return fmt.Errorf("expander.scale must be between 0 and 1 for %s expansion", dir)
	}

	if c.Expander.Reserve < 0 {
		return fmt.Errorf("expander.reserve must not be negative")
	}

	if _, err := ParseColor(c.Expander.Background); err != nil {
		return fmt.Errorf("expander.background: %w", err)
	}

	if _, err := expander.ParseConvention(c.Expander.MaskConvention); err != nil {
		return fmt.Errorf("expander.mask_convention: %w", err)
	}

	if _, err := resize.ParseResampler(c.Expander.Resampler); err != nil {
		return fmt.Errorf("expander.resampler: %w", err)
	}

	if _, err := resize.ParseMode(c.Resize.Mode); err != nil {
		return fmt.Errorf("resize.mode: %w", err)
	}

	if c.Resize.Width < 0 || c.Resize.Height < 0 {
		return fmt.Errorf("resize.width and resize.height must not be negative")
	}

	if (c.Resize.Width == 0) != (c.Resize.Height == 0) {
		return fmt.Errorf("resize.width and resize.height must be set together")
	}

	if _, ok := mask.PaletteByName(c.Inpaint.MaskPalette); !ok {
		return fmt.Errorf("inpaint.mask_palette %q is not known", c.Inpaint.MaskPalette)
	}

	if c.Vision.Enabled && (c.Vision.URL == "" || c.Vision.Model == "") {
		return fmt.Errorf("vision.url and vision.model are required when vision is enabled")
	}

	switch strings.ToLower(c.Output.DefaultFormat) {
	case "jpg", "jpeg", "png", "webp":
	default:
		return fmt.Errorf("output.default_format must be jpg, png or webp")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	return nil
}

// ExpanderOptions converts the expander section into expander options.
func (c *Config) ExpanderOptions() (expander.Options, error) {
	opts := expander.DefaultOptions()
	opts.Reserve = c.Expander.Reserve

	bg, err := ParseColor(c.Expander.Background)
	if err != nil {
		return opts, err
	}
	opts.Background = bg

	if opts.Convention, err = expander.ParseConvention(c.Expander.MaskConvention); err != nil {
		return opts, err
	}
	if opts.Resampler, err = resize.ParseResampler(c.Expander.Resampler); err != nil {
		return opts, err
	}
	return opts, nil
}

// ParseColor parses "#rrggbb" or "#rrggbbaa". An empty string is white.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" {
		return color.NRGBA{255, 255, 255, 255}, nil
	}
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "zoomout", "config.json")
}
