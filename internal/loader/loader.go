// LOCATION: internal/loader/loader.go
//
// This file is responsible for:
//   - Loading YAML configuration files
//   - Expanding environment variables
//   - Validating loaded values against their constraints

package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kakaromo/trace/internal/errors"
)

// =============================================================================
// Load
// =============================================================================

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// =============================================================================
// Validate
// =============================================================================

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if cfg.Parse.Workers < 0 {
		return errors.NewValidation("parse.workers", "cannot be negative")
	}
	if cfg.Parse.MinChunkSize < 0 {
		return errors.NewValidation("parse.min_chunk_size", "cannot be negative")
	}
	if cfg.Parse.SequentialThreshold < 0 {
		return errors.NewValidation("parse.sequential_threshold", "cannot be negative")
	}
	if cfg.Parse.StreamingThreshold > 0 && cfg.Parse.StreamingThreshold < cfg.Parse.SequentialThreshold {
		return errors.NewValidation("parse.streaming_threshold",
			"must be at least parse.sequential_threshold")
	}
	if cfg.Parse.StreamingWindowLines < 0 {
		return errors.NewValidation("parse.streaming_window_lines", "cannot be negative")
	}

	if cfg.Process.ContinuityThresholdMs < 0 {
		return errors.NewValidation("process.continuity_threshold_ms", "cannot be negative")
	}
	if cfg.Process.AlignmentKB <= 0 {
		return errors.NewValidation("process.alignment_kb", "must be positive")
	}

	if cfg.Output.Dir == "" {
		return errors.NewMissingField("output.dir")
	}
	if cfg.Output.RowGroupSize <= 0 {
		return errors.NewValidation("output.row_group_size", "must be positive")
	}

	for i := 1; i < len(cfg.Stats.LatencyRangesMs); i++ {
		if cfg.Stats.LatencyRangesMs[i] <= cfg.Stats.LatencyRangesMs[i-1] {
			return errors.NewValidation("stats.latency_ranges", "must be strictly ascending")
		}
	}
	if len(cfg.Stats.LatencyRangesMs) > 0 && cfg.Stats.LatencyRangesMs[0] < 0 {
		return errors.NewValidation("stats.latency_ranges", "cannot be negative")
	}
	if cfg.Stats.SketchAccuracy <= 0 || cfg.Stats.SketchAccuracy >= 1 {
		return errors.NewValidation("stats.sketch_accuracy", "must be in (0, 1)")
	}

	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.NewValidation("log.level", "must be debug, info, warn or error")
	}

	if cfg.Storage.Enabled() {
		if cfg.Storage.AccessKey == "" {
			return errors.NewMissingField("storage.access_key")
		}
		if cfg.Storage.SecretKey == "" {
			return errors.NewMissingField("storage.secret_key")
		}
	}

	return nil
}
