package montage

import "testing"

func TestParseProjectConfigExplicit(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(`
name: promo
width: 1280
height: 720
fps: 24
duration: 12.5
background: "#1a1a2e"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 1280 || cfg.Height != 720 || cfg.FPS != 24 {
		t.Errorf("canvas = %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	assertNear(t, "duration", cfg.Duration, 12.5)
}

func TestParseProjectConfigPreset(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(`
name: short
preset: tiktok
duration: 15
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 1080 || cfg.Height != 1920 || cfg.FPS != 60 {
		t.Errorf("canvas = %dx%d@%d, want tiktok preset", cfg.Width, cfg.Height, cfg.FPS)
	}
}

func TestParseProjectConfigExplicitOverridesPreset(t *testing.T) {
	cfg, err := ParseProjectConfig([]byte(`
name: custom
preset: youtube
fps: 25
duration: 30
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want preset's", cfg.Width, cfg.Height)
	}
	if cfg.FPS != 25 {
		t.Errorf("fps = %d, want explicit 25", cfg.FPS)
	}
}

func TestParseProjectConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown preset", "preset: vimeo\nduration: 5"},
		{"no dimensions", "duration: 5"},
		{"zero duration", "width: 100\nheight: 100"},
		{"negative duration", "width: 100\nheight: 100\nduration: -1"},
		{"bad background", "width: 100\nheight: 100\nduration: 5\nbackground: \"#zz\""},
		{"not yaml", ": ["},
	}
	for _, c := range cases {
		if _, err := ParseProjectConfig([]byte(c.yaml)); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestNewSceneFromConfig(t *testing.T) {
	cfg := &ProjectConfig{Preset: "instagram", Duration: 8, Background: "#ff0000"}
	s, err := NewSceneFromConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Width != 1080 || s.Height != 1080 || s.FPS != 30 {
		t.Errorf("scene canvas = %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	assertNear(t, "duration", s.Duration, 8)
	assertNear(t, "bg red", s.ClearColor.R, 1)
	assertNear(t, "bg green", s.ClearColor.G, 0)
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#336699")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertNear(t, "r", c.R, 0x33/255.0)
	assertNear(t, "g", c.G, 0x66/255.0)
	assertNear(t, "b", c.B, 0x99/255.0)
	assertNear(t, "a", c.A, 1)

	c, err = parseHexColor("#fff")
	if err != nil {
		t.Fatalf("short form: %v", err)
	}
	assertNear(t, "short white", c.R, 1)

	c, err = parseHexColor("00ff0080")
	if err != nil {
		t.Fatalf("alpha form: %v", err)
	}
	assertNear(t, "alpha", c.A, 0x80/255.0)

	if _, err := parseHexColor("#12345"); err == nil {
		t.Error("odd length accepted")
	}
	if _, err := parseHexColor("#gggggg"); err == nil {
		t.Error("non-hex accepted")
	}
}
