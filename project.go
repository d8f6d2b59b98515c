package montage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportPreset pins a canvas size and frame rate for a delivery target.
type ExportPreset struct {
	Width  int
	Height int
	FPS    int
}

// Presets are the built-in delivery targets a project can name instead of
// spelling out dimensions.
var Presets = map[string]ExportPreset{
	"instagram": {Width: 1080, Height: 1080, FPS: 30},
	"youtube":   {Width: 1920, Height: 1080, FPS: 30},
	"tiktok":    {Width: 1080, Height: 1920, FPS: 60},
}

// ProjectConfig is the on-disk description of a composition. Either a
// preset or explicit dimensions must be given; explicit values override
// the preset's.
type ProjectConfig struct {
	Name       string  `yaml:"name"`
	Preset     string  `yaml:"preset,omitempty"`
	Width      int     `yaml:"width,omitempty"`
	Height     int     `yaml:"height,omitempty"`
	FPS        int     `yaml:"fps,omitempty"`
	Duration   float64 `yaml:"duration"`
	Background string  `yaml:"background,omitempty"` // hex, e.g. "#1a1a2e"
}

// LoadProjectConfig reads and validates a project file.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	return ParseProjectConfig(data)
}

// ParseProjectConfig parses YAML bytes into a validated config.
func ParseProjectConfig(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate resolves the preset into the config's zero fields and checks
// the result is a usable composition.
func (c *ProjectConfig) Validate() error {
	if c.Preset != "" {
		p, ok := Presets[c.Preset]
		if !ok {
			return fmt.Errorf("unknown preset %q", c.Preset)
		}
		if c.Width == 0 {
			c.Width = p.Width
		}
		if c.Height == 0 {
			c.Height = p.Height
		}
		if c.FPS == 0 {
			c.FPS = p.FPS
		}
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("project needs positive dimensions, got %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Duration <= 0 {
		return fmt.Errorf("project needs a positive duration, got %v", c.Duration)
	}
	if c.Background != "" {
		if _, err := parseHexColor(c.Background); err != nil {
			return err
		}
	}
	return nil
}

// NewSceneFromConfig builds an empty scene matching the config.
func NewSceneFromConfig(cfg *ProjectConfig) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := NewScene(cfg.Width, cfg.Height, cfg.FPS, cfg.Duration)
	if cfg.Background != "" {
		bg, err := parseHexColor(cfg.Background)
		if err != nil {
			return nil, err
		}
		s.ClearColor = bg
	}
	return s, nil
}

// parseHexColor parses "#rgb", "#rrggbb", or "#rrggbbaa".
func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	var r, g, b, a uint64
	a = 0xff
	var err error
	switch len(hex) {
	case 3:
		if r, err = strconv.ParseUint(strings.Repeat(hex[0:1], 2), 16, 8); err == nil {
			if g, err = strconv.ParseUint(strings.Repeat(hex[1:2], 2), 16, 8); err == nil {
				b, err = strconv.ParseUint(strings.Repeat(hex[2:3], 2), 16, 8)
			}
		}
	case 8:
		a, err = strconv.ParseUint(hex[6:8], 16, 8)
		fallthrough
	case 6:
		if err == nil {
			if r, err = strconv.ParseUint(hex[0:2], 16, 8); err == nil {
				if g, err = strconv.ParseUint(hex[2:4], 16, 8); err == nil {
					b, err = strconv.ParseUint(hex[4:6], 16, 8)
				}
			}
		}
	default:
		return Color{}, fmt.Errorf("bad hex color %q", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("bad hex color %q", s)
	}
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: float64(a) / 255,
	}, nil
}
