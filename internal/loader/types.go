// Package loader handles configuration file loading and validation.
//
// LOCATION: internal/loader/types.go
//
// This file defines the YAML structure of trace.yaml. Every field has a
// documented default in the config package; an absent field keeps its
// default, so a minimal config file is valid.

package loader

import (
	"github.com/kakaromo/trace/config"
	"github.com/kakaromo/trace/internal/objstore"
)

// Config is the root of trace.yaml.
type Config struct {
	Parse   ParseConfig     `yaml:"parse"`
	Process ProcessConfig   `yaml:"process"`
	Output  OutputConfig    `yaml:"output"`
	Stats   StatsConfig     `yaml:"stats"`
	Storage objstore.Config `yaml:"storage"`
	Log     LogConfig       `yaml:"log"`
}

// ParseConfig controls the parse stage.
type ParseConfig struct {
	// Workers is the parallel parse degree. Zero means NumCPU.
	Workers int `yaml:"workers"`

	// MinChunkSize is the floor for parallel chunk sizes, in bytes.
	MinChunkSize int `yaml:"min_chunk_size"`

	// SequentialThreshold is the input size below which the whole file
	// is parsed in one pass, in bytes.
	SequentialThreshold int64 `yaml:"sequential_threshold"`

	// StreamingThreshold is the input size above which the
	// bounded-memory streaming strategy is used, in bytes.
	StreamingThreshold int64 `yaml:"streaming_threshold"`

	// StreamingWindowLines is the lines held per streaming window.
	StreamingWindowLines int `yaml:"streaming_window_lines"`
}

// ProcessConfig controls the enrichment stage.
type ProcessConfig struct {
	ContinuityThresholdMs float64 `yaml:"continuity_threshold_ms"`
	AlignmentKB           int     `yaml:"alignment_kb"`
}

// OutputConfig controls the export stage.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	Compression  string `yaml:"compression"`
	RowGroupSize int    `yaml:"row_group_size"`
	CSV          bool   `yaml:"csv"`
}

// StatsConfig controls the statistics layer.
type StatsConfig struct {
	// LatencyRangesMs are histogram bucket boundaries in milliseconds,
	// strictly ascending.
	LatencyRangesMs []float64 `yaml:"latency_ranges"`

	// SketchAccuracy is the DDSketch relative accuracy.
	SketchAccuracy float64 `yaml:"sketch_accuracy"`

	// IncludeSentinels counts zero-latency unmatched completions in
	// the aggregates when true.
	IncludeSentinels bool `yaml:"include_sentinels"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a config populated with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			Workers:              config.DefaultWorkers(),
			MinChunkSize:         config.DefaultMinChunkSize,
			SequentialThreshold:  config.DefaultSequentialThreshold,
			StreamingThreshold:   config.DefaultStreamingThreshold,
			StreamingWindowLines: config.DefaultStreamingWindowLines,
		},
		Process: ProcessConfig{
			ContinuityThresholdMs: config.DefaultContinuityThresholdMs,
			AlignmentKB:           config.DefaultAlignmentKB,
		},
		Output: OutputConfig{
			Dir:          config.DefaultOutputDir,
			Compression:  "zstd",
			RowGroupSize: config.DefaultParquetRowGroupSize,
		},
		Stats: StatsConfig{
			LatencyRangesMs: append([]float64(nil), config.DefaultLatencyRangesMs...),
			SketchAccuracy:  config.DefaultSketchAccuracy,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
