package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skalibog/candleedit/internal/chart"
	"github.com/skalibog/candleedit/internal/config"
)

func TestPrintChart(t *testing.T) {
	session, err := chart.NewSession(chart.SampleSeries(), chart.DefaultOptions())
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	var buf bytes.Buffer
	if err := printChart(&buf, session); err != nil {
		t.Fatalf("printChart: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != chart.DefaultHeight+1 {
		t.Fatalf("expected %d lines, got %d:\n%s", chart.DefaultHeight+1, len(lines), buf.String())
	}
	if lines[len(lines)-1] != "open:100.0,high:108.0,low:98.0,close:105.0" {
		t.Fatalf("legend line = %q", lines[len(lines)-1])
	}
	if !strings.Contains(buf.String(), "v") || !strings.Contains(buf.String(), "^") {
		t.Fatalf("chart has no bodies:\n%s", buf.String())
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Source.Type != config.SourceSample || cfg.Chart.Height != chart.DefaultHeight {
		t.Fatalf("config = %+v", cfg)
	}
}
