package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kakaromo/trace/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	def := DefaultConfig()
	if cfg.Parse.MinChunkSize != def.Parse.MinChunkSize {
		t.Errorf("min chunk size = %d, want default %d",
			cfg.Parse.MinChunkSize, def.Parse.MinChunkSize)
	}
	if cfg.Output.Dir != def.Output.Dir {
		t.Errorf("output dir = %q, want %q", cfg.Output.Dir, def.Output.Dir)
	}
	if cfg.Process.ContinuityThresholdMs != def.Process.ContinuityThresholdMs {
		t.Errorf("threshold = %f", cfg.Process.ContinuityThresholdMs)
	}
	if len(cfg.Stats.LatencyRangesMs) == 0 {
		t.Error("expected default latency ranges")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
parse:
  workers: 2
  streaming_window_lines: 1000
process:
  continuity_threshold_ms: 2.5
output:
  dir: /tmp/exports
  csv: true
stats:
  latency_ranges: [1, 10, 100]
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Parse.Workers != 2 {
		t.Errorf("workers = %d", cfg.Parse.Workers)
	}
	if cfg.Parse.StreamingWindowLines != 1000 {
		t.Errorf("window lines = %d", cfg.Parse.StreamingWindowLines)
	}
	if cfg.Process.ContinuityThresholdMs != 2.5 {
		t.Errorf("threshold = %f", cfg.Process.ContinuityThresholdMs)
	}
	if cfg.Output.Dir != "/tmp/exports" || !cfg.Output.CSV {
		t.Errorf("output = %+v", cfg.Output)
	}
	if len(cfg.Stats.LatencyRangesMs) != 3 || cfg.Stats.LatencyRangesMs[2] != 100 {
		t.Errorf("latency ranges = %v", cfg.Stats.LatencyRangesMs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Untouched sections keep their defaults.
	if cfg.Output.RowGroupSize != DefaultConfig().Output.RowGroupSize {
		t.Errorf("row group size = %d", cfg.Output.RowGroupSize)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TRACE_OUT", "/data/out")

	cfg, err := Load(writeConfig(t, "output:\n  dir: ${TRACE_OUT}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Dir != "/data/out" {
		t.Errorf("output dir = %q", cfg.Output.Dir)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidationErrorsCategorized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Dir = ""
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.IsValidation(err) {
		t.Errorf("expected a validation-category error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"negative workers", func(c *Config) { c.Parse.Workers = -1 }, false},
		{"streaming below sequential", func(c *Config) {
			c.Parse.StreamingThreshold = 1
			c.Parse.SequentialThreshold = 2
		}, false},
		{"negative threshold", func(c *Config) { c.Process.ContinuityThresholdMs = -1 }, false},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }, false},
		{"descending ranges", func(c *Config) { c.Stats.LatencyRangesMs = []float64{10, 1} }, false},
		{"accuracy out of range", func(c *Config) { c.Stats.SketchAccuracy = 1.5 }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, false},
		{"storage without keys", func(c *Config) {
			c.Storage.Endpoint = "minio:9000"
			c.Storage.Bucket = "traces"
		}, false},
		{"storage with keys", func(c *Config) {
			c.Storage.Endpoint = "minio:9000"
			c.Storage.Bucket = "traces"
			c.Storage.AccessKey = "ak"
			c.Storage.SecretKey = "sk"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
