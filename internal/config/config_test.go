package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgraph/kg/internal/render"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a stray .env out of the test
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Graph.Threshold != 0.55 {
		t.Errorf("expected threshold 0.55, got %v", cfg.Graph.Threshold)
	}
	if cfg.Graph.HighlightSize != 50 || cfg.Graph.DefaultSize != 15 {
		t.Errorf("expected sizes 50/15, got %v/%v", cfg.Graph.HighlightSize, cfg.Graph.DefaultSize)
	}
	if cfg.Graph.ColorScale != "Picnic" {
		t.Errorf("expected Picnic, got %q", cfg.Graph.ColorScale)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRAPH_THRESHOLD", "0.7")
	t.Setenv("GRAPH_HIGHLIGHT_SIZE", "40")
	t.Setenv("GRAPH_LAYOUT_SEED", "9")
	t.Setenv("FOODGRAPH_WEIGHTS", "fasttext")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Graph.Threshold != 0.7 || cfg.Graph.HighlightSize != 40 || cfg.Graph.Layout.Seed != 9 {
		t.Errorf("env overrides not applied: %+v", cfg.Graph)
	}
	if cfg.Store.DefaultWeights != "fasttext" {
		t.Errorf("expected fasttext, got %q", cfg.Store.DefaultWeights)
	}
	if cfg.App.Env != Production || cfg.App.LogMode != "production" {
		t.Errorf("expected production env and log mode, got %q/%q", cfg.App.Env, cfg.App.LogMode)
	}
}

func TestLoad_BadNumberFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRAPH_THRESHOLD", "high")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Graph.Threshold != 0.55 {
		t.Errorf("unparseable value should keep default, got %v", cfg.Graph.Threshold)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "foodgraph.yaml")
	content := "graph:\n  threshold: 0.6\n  colorscale: Viridis\nrender:\n  width: 640\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOODGRAPH_CONFIG", path)
	t.Setenv("RENDER_HEIGHT", "480")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Graph.Threshold != 0.6 || cfg.Graph.ColorScale != "Viridis" {
		t.Errorf("yaml values not applied: %+v", cfg.Graph)
	}
	if cfg.Graph.DefaultSize != 15 {
		t.Errorf("keys missing from yaml should keep defaults, got %v", cfg.Graph.DefaultSize)
	}
	if cfg.Render.Width != 640 || cfg.Render.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", cfg.Render.Width, cfg.Render.Height)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"threshold too high", func(c *Config) { c.Graph.Threshold = 1.5 }},
		{"threshold too low", func(c *Config) { c.Graph.Threshold = -2 }},
		{"zero highlight size", func(c *Config) { c.Graph.HighlightSize = 0 }},
		{"negative default size", func(c *Config) { c.Graph.DefaultSize = -1 }},
		{"no iterations", func(c *Config) { c.Graph.Layout.Iterations = 0 }},
		{"empty render size", func(c *Config) { c.Render.Width = 0 }},
		{"no weights", func(c *Config) { c.Store.DefaultWeights = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_UnknownColorScale(t *testing.T) {
	cfg := Default()
	cfg.Graph.ColorScale = "Sparkles"
	err := cfg.Validate()
	if !errors.Is(err, render.ErrUnknownColorScale) {
		t.Fatalf("expected ErrUnknownColorScale, got %v", err)
	}
	if !strings.Contains(err.Error(), "picnic") {
		t.Errorf("error should list the known colorscales, got %v", err)
	}
}
