package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/kakaromo/trace/config"
	"github.com/kakaromo/trace/internal/errors"
	"github.com/kakaromo/trace/internal/logging"
)

var log = logging.Component("parser")

// Strategy selects how the input is consumed.
type Strategy int

const (
	// StrategyAuto picks a strategy from the input size.
	StrategyAuto Strategy = iota
	// StrategySequential parses the whole buffer in one pass.
	StrategySequential
	// StrategyParallel splits the buffer into line-aligned ranges parsed
	// by concurrent workers.
	StrategyParallel
	// StrategyStreaming consumes fixed-size line windows, spilling
	// intermediate batches to temporary Parquet files.
	StrategyStreaming
)

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "auto", "":
		return StrategyAuto, nil
	case "sequential":
		return StrategySequential, nil
	case "parallel":
		return StrategyParallel, nil
	case "streaming":
		return StrategyStreaming, nil
	default:
		return 0, fmt.Errorf("unknown parse strategy %q", s)
	}
}

// Options holds coordinator tunables. Zero values fall back to the
// documented defaults.
type Options struct {
	// Workers is the parallelism degree for the parallel strategy.
	Workers int

	// MinChunkSize floors the per-range chunk size.
	MinChunkSize int

	// SequentialThreshold is the input size below which auto selects the
	// sequential strategy.
	SequentialThreshold int64

	// StreamingThreshold is the input size above which auto selects the
	// streaming strategy.
	StreamingThreshold int64

	// StreamingWindowLines is the window size for the streaming strategy.
	StreamingWindowLines int

	// AlignmentKB configures the extractor's alignment check.
	AlignmentKB int

	// TempDir receives streaming spill files. Empty means os.TempDir.
	TempDir string
}

// DefaultOptions returns coordinator defaults.
func DefaultOptions() Options {
	return Options{
		Workers:              config.DefaultWorkers(),
		MinChunkSize:         config.DefaultMinChunkSize,
		SequentialThreshold:  config.DefaultSequentialThreshold,
		StreamingThreshold:   config.DefaultStreamingThreshold,
		StreamingWindowLines: config.DefaultStreamingWindowLines,
		AlignmentKB:          config.DefaultAlignmentKB,
	}
}

func (o *Options) normalize() {
	def := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.MinChunkSize <= 0 {
		o.MinChunkSize = def.MinChunkSize
	}
	if o.SequentialThreshold <= 0 {
		o.SequentialThreshold = def.SequentialThreshold
	}
	if o.StreamingThreshold <= 0 {
		o.StreamingThreshold = def.StreamingThreshold
	}
	if o.StreamingWindowLines <= 0 {
		o.StreamingWindowLines = def.StreamingWindowLines
	}
	if o.AlignmentKB <= 0 {
		o.AlignmentKB = def.AlignmentKB
	}
}

// ParseFile parses the trace file at path. The strategy is chosen from
// the file size when StrategyAuto is given. Only an unreadable input is
// fatal; malformed content is counted and skipped.
func ParseFile(path string, strategy Strategy, opts Options) (*Batch, Stats, error) {
	opts.normalize()

	info, err := os.Stat(path)
	if err != nil {
		return nil, Stats{}, errors.NewInput("stat", path, err)
	}
	size := info.Size()

	if strategy == StrategyAuto {
		switch {
		case size >= opts.StreamingThreshold:
			strategy = StrategyStreaming
		case size <= opts.SequentialThreshold:
			strategy = StrategySequential
		default:
			strategy = StrategyParallel
		}
	}

	log.Info("parse starting",
		"path", path,
		"size_bytes", size,
		"strategy", strategyName(strategy))

	if strategy == StrategyStreaming {
		f, err := os.Open(path)
		if err != nil {
			return nil, Stats{}, errors.NewInput("open", path, err)
		}
		defer f.Close()
		return parseStreaming(f, opts)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, Stats{}, errors.NewInput("read", path, err)
	}
	return ParseBuffer(buf, strategy, opts)
}

// ParseBuffer parses an in-memory byte buffer with the given strategy.
// StrategyAuto and StrategyStreaming fall back to size-based selection
// between sequential and parallel (a resident buffer needs no spill).
func ParseBuffer(buf []byte, strategy Strategy, opts Options) (*Batch, Stats, error) {
	opts.normalize()

	if strategy == StrategyAuto || strategy == StrategyStreaming {
		if int64(len(buf)) <= opts.SequentialThreshold {
			strategy = StrategySequential
		} else {
			strategy = StrategyParallel
		}
	}

	ex := NewExtractor(opts.AlignmentKB)
	switch strategy {
	case StrategyParallel:
		batch, stats := parseParallel(buf, ex, opts)
		return batch, stats, nil
	default:
		batch, stats := parseRange(buf, ex)
		return batch, stats, nil
	}
}

func strategyName(s Strategy) string {
	switch s {
	case StrategySequential:
		return "sequential"
	case StrategyParallel:
		return "parallel"
	case StrategyStreaming:
		return "streaming"
	default:
		return "auto"
	}
}

// parseRange extracts every line of buf into a fresh batch. Used directly
// by the sequential strategy and per range by the parallel one.
func parseRange(buf []byte, ex *Extractor) (*Batch, Stats) {
	batch := &Batch{}
	var stats Stats

	for len(buf) > 0 {
		idx := bytes.IndexByte(buf, '\n')
		var line []byte
		if idx < 0 {
			line = buf
			buf = nil
		} else {
			line = buf[:idx]
			buf = buf[idx+1:]
		}
		ex.ExtractLine(line, batch, &stats)
	}
	return batch, stats
}

// parseParallel runs one worker per line-aligned range over the shared
// read-only buffer. Per-range outputs stay thread-local until the single
// join point, then are concatenated in range order so within-range
// encounter order is preserved.
func parseParallel(buf []byte, ex *Extractor, opts Options) (*Batch, Stats) {
	ranges := ScanRanges(buf, ChunkSize(len(buf), opts.Workers, opts.MinChunkSize))
	if len(ranges) <= 1 {
		return parseRange(buf, ex)
	}

	log.Debug("parallel parse", "ranges", len(ranges), "workers", opts.Workers)

	batches := make([]*Batch, len(ranges))
	statsPer := make([]Stats, len(ranges))

	var wg sync.WaitGroup
	sem := make(chan struct{}, opts.Workers)
	for i, rng := range ranges {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rng Range) {
			defer wg.Done()
			defer func() { <-sem }()
			batches[i], statsPer[i] = parseRange(buf[rng.Start:rng.End], ex)
		}(i, rng)
	}
	wg.Wait()

	merged := &Batch{}
	var stats Stats
	for i := range batches {
		merged.Append(batches[i])
		stats.Merge(&statsPer[i])
		batches[i] = nil
	}
	return merged, stats
}

// parseStreaming consumes the reader in fixed-size line windows. Each
// window's batch is spilled to temporary Parquet files so memory stays
// bounded by the window size; the spill files are merged back into one
// batch at the end and removed.
func parseStreaming(f *os.File, opts Options) (*Batch, Stats, error) {
	spill, err := newSpill(opts.TempDir)
	if err != nil {
		return nil, Stats{}, err
	}
	defer spill.cleanup()

	ex := NewExtractor(opts.AlignmentKB)
	window := &Batch{}
	var stats Stats
	lines := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		ex.ExtractLine(scanner.Bytes(), window, &stats)
		lines++
		if lines >= opts.StreamingWindowLines {
			if err := spill.write(window); err != nil {
				return nil, stats, err
			}
			window = &Batch{}
			lines = 0
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, errors.NewInput("scan", f.Name(), err)
	}
	if err := spill.write(window); err != nil {
		return nil, stats, err
	}

	batch, err := spill.merge()
	if err != nil {
		return nil, stats, err
	}

	log.Info("streaming parse complete",
		"lines", stats.LinesSeen,
		"windows", spill.windows,
		"records", stats.Records())
	return batch, stats, nil
}
