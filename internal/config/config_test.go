package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/skalibog/candleedit/internal/chart"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	opts, err := cfg.ChartOptions()
	if err != nil {
		t.Fatalf("ChartOptions: %v", err)
	}
	if opts != chart.DefaultOptions() {
		t.Fatalf("options = %+v, want %+v", opts, chart.DefaultOptions())
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
chart:
  height: 16
  glyphs: unicode
  resolution: coarse
source:
  type: random
  random:
    count: 40
storage:
  dir: /tmp/series
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chart.Height != 16 || cfg.Chart.CandleWidth != chart.DefaultCandleWidth {
		t.Fatalf("chart = %+v", cfg.Chart)
	}
	if cfg.Source.Random.Count != 40 || cfg.Source.Random.Start != 150 {
		t.Fatalf("random = %+v", cfg.Source.Random)
	}
	if cfg.Storage.Type != StorageCSV || cfg.Storage.Dir != "/tmp/series" {
		t.Fatalf("storage = %+v", cfg.Storage)
	}

	opts, err := cfg.ChartOptions()
	if err != nil {
		t.Fatalf("ChartOptions: %v", err)
	}
	if opts.Glyphs != chart.UnicodeGlyphs || opts.Resolution != chart.ResolutionCoarse {
		t.Fatalf("options = %+v", opts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "chart: [1, 2")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]func(*Config){
		"zero height":     func(c *Config) { c.Chart.Height = 0 },
		"zero width":      func(c *Config) { c.Chart.CandleWidth = 0 },
		"resolution":      func(c *Config) { c.Chart.Resolution = "ultra" },
		"glyphs":          func(c *Config) { c.Chart.Glyphs = "emoji" },
		"source":          func(c *Config) { c.Source.Type = "ftp" },
		"random count":    func(c *Config) { c.Source.Type = SourceRandom; c.Source.Random.Count = 0 },
		"storage":         func(c *Config) { c.Storage.Type = "redis" },
		"storage timeout": func(c *Config) { c.Storage.TimeoutSeconds = 0 },
		"sma period":      func(c *Config) { c.Analysis.SMAPeriod = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
