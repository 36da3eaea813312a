// traced parses kernel storage I/O traces (UFS, block, UFSCUSTOM),
// enriches them with latency and queue-depth metrics, and exports the
// results to Parquet (and optionally CSV) for SQL analysis.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/kakaromo/trace/internal/loader"
	"github.com/kakaromo/trace/internal/logging"
	"github.com/kakaromo/trace/internal/objstore"
	"github.com/kakaromo/trace/internal/parser"
	"github.com/kakaromo/trace/internal/processor"
	"github.com/kakaromo/trace/internal/query"
	"github.com/kakaromo/trace/internal/stats"
	"github.com/kakaromo/trace/internal/storage/csvout"
	"github.com/kakaromo/trace/internal/storage/parquet"
	"github.com/kakaromo/trace/internal/types"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// CLI flags
	cfgPath := flag.String("config", "trace.yaml", "config file path")
	input := flag.String("input", "", "trace file to analyze (or an object key with -fetch)")
	output := flag.String("output", "", "output directory (overrides config)")
	mode := flag.String("mode", "auto", "parse strategy: auto, sequential, parallel, streaming")
	workers := flag.Int("workers", 0, "parse workers (overrides config)")
	chunkMB := flag.Int("chunk-mb", 0, "minimum parallel chunk size in MiB (overrides config)")
	thresholdMs := flag.Float64("threshold-ms", 0, "continuity gap threshold in ms (overrides config)")
	ranges := flag.String("latency-ranges", "", "comma-separated latency bucket bounds in ms (overrides config)")
	csvOut := flag.Bool("csv", false, "also export CSV alongside Parquet")
	printStats := flag.Bool("stats", true, "print per-family statistics")
	queryStmt := flag.String("query", "", "run one SQL statement over the exported Parquet and exit")
	interactive := flag.Bool("interactive", false, "open an interactive SQL shell after the run")
	fetch := flag.Bool("fetch", false, "download the input from the configured object store first")
	upload := flag.Bool("upload", false, "upload the export directory to the configured object store")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("traced %s starting...", Version)

	// Load config
	cfg, err := loader.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("No config file found, using defaults")
			cfg = loader.DefaultConfig()
		} else {
			log.Fatalf("Load config: %v", err)
		}
	}

	// CLI overrides
	if *output != "" {
		cfg.Output.Dir = *output
	}
	if *workers > 0 {
		cfg.Parse.Workers = *workers
	}
	if *chunkMB > 0 {
		cfg.Parse.MinChunkSize = *chunkMB * 1024 * 1024
	}
	if *thresholdMs > 0 {
		cfg.Process.ContinuityThresholdMs = *thresholdMs
	}
	if *csvOut {
		cfg.Output.CSV = true
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *ranges != "" {
		bounds, err := stats.ParseLatencyRanges(*ranges)
		if err != nil {
			log.Fatalf("Parse latency ranges: %v", err)
		}
		cfg.Stats.LatencyRangesMs = bounds
	}

	logging.Init(logging.ParseLevel(cfg.Log.Level), false)

	strategy, err := parser.ParseStrategy(*mode)
	if err != nil {
		log.Fatalf("Parse mode: %v", err)
	}

	if *input == "" {
		log.Fatal("An input trace file is required (use -input)")
	}

	// Cancel the run on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Fetch input from object store (optional)
	// =========================================================================

	inputPath := *input
	if *fetch {
		if !cfg.Storage.Enabled() {
			log.Fatal("-fetch requires storage.endpoint and storage.bucket in config")
		}
		client, err := objstore.New(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Connect object store: %v", err)
		}
		inputPath = filepath.Join(os.TempDir(), filepath.Base(*input))
		log.Printf("Fetching %s from bucket %s", *input, cfg.Storage.Bucket)
		if err := client.Download(ctx, *input, inputPath); err != nil {
			log.Fatalf("Download input: %v", err)
		}
		defer os.Remove(inputPath)
	}

	// =========================================================================
	// Parse
	// =========================================================================

	parseOpts := parser.Options{
		Workers:              cfg.Parse.Workers,
		MinChunkSize:         cfg.Parse.MinChunkSize,
		SequentialThreshold:  cfg.Parse.SequentialThreshold,
		StreamingThreshold:   cfg.Parse.StreamingThreshold,
		StreamingWindowLines: cfg.Parse.StreamingWindowLines,
		AlignmentKB:          cfg.Process.AlignmentKB,
	}

	batch, parseStats, err := parser.ParseFile(inputPath, strategy, parseOpts)
	if err != nil {
		log.Fatalf("Parse %s: %v", inputPath, err)
	}
	log.Printf("Parsed %d lines: %d ufs, %d block, %d ufscustom (%d skipped)",
		parseStats.LinesSeen, parseStats.UFSRecords, parseStats.BlockRecords,
		parseStats.CustomRecords, parseStats.Skipped())
	if parseStats.Records() == 0 {
		log.Fatal("No trace records recognized in input")
	}

	// =========================================================================
	// Process (sort, latency, queue depth, continuity)
	// =========================================================================

	result, report, err := processor.Run(ctx, batch, processor.Options{
		ContinuityThresholdMs: cfg.Process.ContinuityThresholdMs,
	})
	if err != nil {
		log.Fatalf("Process: %v", err)
	}
	if report.UnmatchedUFSCompletes > 0 || report.UnmatchedBlockCompletes > 0 {
		log.Printf("Unmatched completions: %d ufs, %d block",
			report.UnmatchedUFSCompletes, report.UnmatchedBlockCompletes)
	}
	if report.DuplicateBlockEvents > 0 {
		log.Printf("Dropped %d duplicate block events", report.DuplicateBlockEvents)
	}

	// =========================================================================
	// Export
	// =========================================================================

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		log.Fatalf("Create output dir: %v", err)
	}

	pqOpts := parquet.Options{
		Compression:  parquet.ParseCompressionType(cfg.Output.Compression),
		RowGroupSize: cfg.Output.RowGroupSize,
	}
	if err := export(cfg, result, pqOpts); err != nil {
		log.Fatalf("Export: %v", err)
	}

	// =========================================================================
	// Statistics
	// =========================================================================

	if *printStats {
		ts := stats.Collect(result, stats.Options{
			LatencyRangesMs:  cfg.Stats.LatencyRangesMs,
			SketchAccuracy:   cfg.Stats.SketchAccuracy,
			IncludeSentinels: cfg.Stats.IncludeSentinels,
		})
		stats.Print(os.Stdout, ts)
	}

	// =========================================================================
	// Query
	// =========================================================================

	if *queryStmt != "" || *interactive {
		svc, err := query.New(cfg.Output.Dir)
		if err != nil {
			log.Fatalf("Open query service: %v", err)
		}
		defer svc.Close()

		views, err := svc.RegisterViews(ctx)
		if err != nil {
			log.Fatalf("Register views: %v", err)
		}
		log.Printf("Query views ready: %v", views)

		if *queryStmt != "" {
			res, err := svc.Query(ctx, *queryStmt)
			if err != nil {
				log.Fatalf("Query: %v", err)
			}
			renderResult(os.Stdout, res)
		}
		if *interactive {
			runShell(ctx, svc)
		}
	}

	// =========================================================================
	// Upload exports (optional)
	// =========================================================================

	if *upload {
		if !cfg.Storage.Enabled() {
			log.Fatal("-upload requires storage.endpoint and storage.bucket in config")
		}
		client, err := objstore.New(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("Connect object store: %v", err)
		}
		prefix := filepath.Base(inputPath)
		if err := client.UploadDir(ctx, prefix, cfg.Output.Dir); err != nil {
			log.Fatalf("Upload exports: %v", err)
		}
		log.Printf("Exports uploaded under %s/", prefix)
	}

	log.Printf("Done")
}

// export writes every non-empty family to Parquet, plus CSV when enabled.
func export(cfg *loader.Config, result *types.Result, pqOpts parquet.Options) error {
	out := func(t types.TraceType, ext string) string {
		return filepath.Join(cfg.Output.Dir, t.String()+ext)
	}

	if len(result.UFS) > 0 {
		if _, err := parquet.WriteUFS(out(types.TraceUFS, ".parquet"), result.UFS, pqOpts); err != nil {
			return fmt.Errorf("write ufs parquet: %w", err)
		}
		if cfg.Output.CSV {
			if err := csvout.WriteUFS(out(types.TraceUFS, ".csv"), result.UFS); err != nil {
				return fmt.Errorf("write ufs csv: %w", err)
			}
		}
		log.Printf("Exported %d ufs records", len(result.UFS))
	}
	if len(result.Block) > 0 {
		if _, err := parquet.WriteBlock(out(types.TraceBlock, ".parquet"), result.Block, pqOpts); err != nil {
			return fmt.Errorf("write block parquet: %w", err)
		}
		if cfg.Output.CSV {
			if err := csvout.WriteBlock(out(types.TraceBlock, ".csv"), result.Block); err != nil {
				return fmt.Errorf("write block csv: %w", err)
			}
		}
		log.Printf("Exported %d block records", len(result.Block))
	}
	if len(result.UFSCustom) > 0 {
		if _, err := parquet.WriteCustom(out(types.TraceUFSCustom, ".parquet"), result.UFSCustom, pqOpts); err != nil {
			return fmt.Errorf("write ufscustom parquet: %w", err)
		}
		if cfg.Output.CSV {
			if err := csvout.WriteCustom(out(types.TraceUFSCustom, ".csv"), result.UFSCustom); err != nil {
				return fmt.Errorf("write ufscustom csv: %w", err)
			}
		}
		log.Printf("Exported %d ufscustom records", len(result.UFSCustom))
	}
	return nil
}
