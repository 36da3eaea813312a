// Package processor computes latency, queue-depth and continuity metrics
// over the parsed trace collections.
//
// Each family runs one sequential state machine over its time-ordered
// sequence; running counters and pending-request state make the pass
// inherently sequential, but the three families are mutually independent
// and run concurrently.
package processor

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kakaromo/trace/config"
	"github.com/kakaromo/trace/internal/logging"
	"github.com/kakaromo/trace/internal/parser"
	"github.com/kakaromo/trace/internal/types"
)

var log = logging.Component("processor")

// Options holds processing tunables.
type Options struct {
	// ContinuityThresholdMs is the maximum gap (ms) between two
	// address-adjacent dispatches for the later to count as continuous.
	ContinuityThresholdMs float64
}

// DefaultOptions returns processing defaults.
func DefaultOptions() Options {
	return Options{
		ContinuityThresholdMs: config.DefaultContinuityThresholdMs,
	}
}

func (o *Options) normalize() {
	if o.ContinuityThresholdMs <= 0 {
		o.ContinuityThresholdMs = config.DefaultContinuityThresholdMs
	}
}

// Report accumulates the anomalies observed during a processing run.
// None of them abort the run; they are surfaced to the caller alongside
// the result.
type Report struct {
	// Completions with no pending dispatch for their key. Retained with
	// dtoc at the sentinel, never dropped.
	UnmatchedUFSCompletes   int64
	UnmatchedBlockCompletes int64

	// Dispatches still pending when the sequence ended.
	PendingUFSDispatches   int
	PendingBlockDispatches int

	// Exact-duplicate block events collapsed before processing.
	DuplicateBlockEvents int64
}

// Merge adds other's counters into r.
func (r *Report) Merge(other *Report) {
	r.UnmatchedUFSCompletes += other.UnmatchedUFSCompletes
	r.UnmatchedBlockCompletes += other.UnmatchedBlockCompletes
	r.PendingUFSDispatches += other.PendingUFSDispatches
	r.PendingBlockDispatches += other.PendingBlockDispatches
	r.DuplicateBlockEvents += other.DuplicateBlockEvents
}

// Run sorts and processes all three families of the parsed batch,
// returning the finalized, time-ordered, enriched collections. The
// family passes run concurrently; each pass is single-writer over its
// own slice and no state is shared between them.
func Run(ctx context.Context, batch *parser.Batch, opts Options) (*types.Result, Report, error) {
	opts.normalize()

	result := &types.Result{}
	var ufsReport, blockReport Report

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		result.UFS, ufsReport = ProcessUFS(batch.UFS, opts)
		return nil
	})
	g.Go(func() error {
		result.Block, blockReport = ProcessBlock(batch.Block, opts)
		return nil
	})
	g.Go(func() error {
		result.UFSCustom = ProcessCustom(batch.UFSCustom)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, Report{}, err
	}

	var report Report
	report.Merge(&ufsReport)
	report.Merge(&blockReport)

	log.Info("processing complete",
		"ufs", len(result.UFS),
		"block", len(result.Block),
		"ufscustom", len(result.UFSCustom),
		"unmatched_completes", report.UnmatchedUFSCompletes+report.UnmatchedBlockCompletes,
		"duplicate_block_events", report.DuplicateBlockEvents)

	return result, report, nil
}
