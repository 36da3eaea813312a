// Package config provides configuration defaults and utilities
// for the trace analyzer.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via trace.yaml or command-line flags.
package config

import "runtime"

// =============================================================================
// Parse Defaults
// =============================================================================

const (
	// DefaultMinChunkSize is the floor for parallel parse chunk sizes.
	// Chunks below this size are not worth the goroutine overhead.
	// Override via config: parse.min_chunk_size
	DefaultMinChunkSize = 64 * 1024 * 1024

	// DefaultSequentialThreshold is the input size below which the
	// whole-buffer sequential strategy is used instead of parallel parsing.
	// Override via config: parse.sequential_threshold
	DefaultSequentialThreshold = 16 * 1024 * 1024

	// DefaultStreamingThreshold is the input size above which the
	// bounded-memory streaming strategy is used. 1 GiB follows the
	// original tool's cutover point.
	// Override via config: parse.streaming_threshold
	DefaultStreamingThreshold = 1 * 1024 * 1024 * 1024

	// DefaultStreamingWindowLines is the number of lines held in memory
	// per streaming window before the parsed batch is spilled to disk.
	// Override via config: parse.streaming_window_lines
	DefaultStreamingWindowLines = 500000
)

// DefaultWorkers returns the default parse parallelism degree.
// Override via config: parse.workers
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// =============================================================================
// Processing Defaults
// =============================================================================

const (
	// DefaultContinuityThresholdMs is the maximum gap between two
	// address-adjacent dispatches for the later one to count as
	// continuous. Empirically chosen; tunable, not an invariant.
	// Override via config: process.continuity_threshold_ms
	DefaultContinuityThresholdMs = 1.0

	// DefaultAlignmentKB is the address alignment checked when setting
	// the per-record aligned flag. UFS LBAs are 4KB units, block sectors
	// are 512 bytes; both derive their unit count from this value.
	// Override via config: process.alignment_kb
	DefaultAlignmentKB = 64
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultOutputDir is where Parquet and CSV exports are written.
	// Override via config: output.dir
	DefaultOutputDir = "output"

	// DefaultParquetRowGroupSize is the target rows per Parquet row group.
	// Override via config: output.row_group_size
	DefaultParquetRowGroupSize = 100000
)

// =============================================================================
// Statistics Defaults
// =============================================================================

// DefaultLatencyRangesMs are the bucket boundaries (milliseconds) for the
// latency-range histograms printed by the statistics layer.
// Override via config: stats.latency_ranges or the -latency-ranges flag.
var DefaultLatencyRangesMs = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000}

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy used for
	// latency percentiles.
	// Override via config: stats.sketch_accuracy
	DefaultSketchAccuracy = 0.01
)
