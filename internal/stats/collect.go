package stats

import (
	"github.com/kakaromo/trace/config"
	"github.com/kakaromo/trace/internal/types"
)

// Options configures statistics collection.
type Options struct {
	// LatencyRangesMs are the histogram bucket boundaries.
	LatencyRangesMs []float64

	// SketchAccuracy is the DDSketch relative accuracy.
	SketchAccuracy float64

	// IncludeSentinels counts zero-valued latencies (unmatched
	// completions, first-in-scope events) in the aggregates.
	IncludeSentinels bool
}

// DefaultOptions returns statistics defaults.
func DefaultOptions() Options {
	return Options{
		LatencyRangesMs: config.DefaultLatencyRangesMs,
		SketchAccuracy:  config.DefaultSketchAccuracy,
	}
}

// FamilyStats aggregates one family's enriched collection.
type FamilyStats struct {
	Family  types.TraceType
	Records int

	DToC *Summary
	CToC *Summary
	CToD *Summary

	DToCRanges *RangeHistogram

	MaxQD      uint32
	Continuous int64
}

// TraceStats aggregates all three families. A family with no records has
// a nil entry.
type TraceStats struct {
	UFS    *FamilyStats
	Block  *FamilyStats
	Custom *FamilyStats
}

func newFamilyStats(t types.TraceType, opts Options) *FamilyStats {
	return &FamilyStats{
		Family:     t,
		DToC:       NewSummary("dtoc", opts.SketchAccuracy),
		CToC:       NewSummary("ctoc", opts.SketchAccuracy),
		CToD:       NewSummary("ctod", opts.SketchAccuracy),
		DToCRanges: NewRangeHistogram(opts.LatencyRangesMs),
	}
}

func (f *FamilyStats) addLatency(s *Summary, v float64, opts Options) {
	if v == 0 && !opts.IncludeSentinels {
		return
	}
	s.Add(v)
}

// Collect builds statistics over the finalized collections.
func Collect(result *types.Result, opts Options) *TraceStats {
	if len(opts.LatencyRangesMs) == 0 {
		opts.LatencyRangesMs = config.DefaultLatencyRangesMs
	}

	ts := &TraceStats{}

	if len(result.UFS) > 0 {
		f := newFamilyStats(types.TraceUFS, opts)
		f.Records = len(result.UFS)
		for i := range result.UFS {
			ev := &result.UFS[i]
			if ev.IsComplete() {
				f.addLatency(f.DToC, ev.DToC, opts)
				f.addLatency(f.CToC, ev.CToC, opts)
				if ev.DToC != 0 || opts.IncludeSentinels {
					f.DToCRanges.Add(ev.DToC)
				}
			} else if ev.IsDispatch() {
				f.addLatency(f.CToD, ev.CToD, opts)
			}
			if ev.QD > f.MaxQD {
				f.MaxQD = ev.QD
			}
			if ev.Continuous {
				f.Continuous++
			}
		}
		ts.UFS = f
	}

	if len(result.Block) > 0 {
		f := newFamilyStats(types.TraceBlock, opts)
		f.Records = len(result.Block)
		for i := range result.Block {
			ev := &result.Block[i]
			if ev.IsComplete() {
				f.addLatency(f.DToC, ev.DToC, opts)
				f.addLatency(f.CToC, ev.CToC, opts)
				if ev.DToC != 0 || opts.IncludeSentinels {
					f.DToCRanges.Add(ev.DToC)
				}
			} else if ev.IsDispatch() {
				f.addLatency(f.CToD, ev.CToD, opts)
			}
			if ev.QD > f.MaxQD {
				f.MaxQD = ev.QD
			}
			if ev.Continuous {
				f.Continuous++
			}
		}
		ts.Block = f
	}

	if len(result.UFSCustom) > 0 {
		f := newFamilyStats(types.TraceUFSCustom, opts)
		f.Records = len(result.UFSCustom)
		for i := range result.UFSCustom {
			ev := &result.UFSCustom[i]
			f.addLatency(f.DToC, ev.DToC, opts)
			if ev.DToC != 0 || opts.IncludeSentinels {
				f.DToCRanges.Add(ev.DToC)
			}
		}
		ts.Custom = f
	}

	return ts
}
