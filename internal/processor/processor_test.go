package processor

import (
	"context"
	"testing"

	"github.com/kakaromo/trace/internal/parser"
	"github.com/kakaromo/trace/internal/types"
)

func TestProcessCustom_SortsOnly(t *testing.T) {
	events := []types.UFSCustom{
		{Opcode: "0x2a", LBA: 100, Size: 8, StartTime: 2.0, EndTime: 2.001, DToC: 1.0},
		{Opcode: "0x28", LBA: 50, Size: 8, StartTime: 1.0, EndTime: 1.002, DToC: 2.0},
	}

	out := ProcessCustom(events)

	if out[0].StartTime != 1.0 {
		t.Errorf("expected start-time order, got %f first", out[0].StartTime)
	}
	// dtoc was computed at parse time and must pass through untouched.
	approx(t, "dtoc[0]", out[0].DToC, 2.0)
	approx(t, "dtoc[1]", out[1].DToC, 1.0)
}

func TestRun_AllFamilies(t *testing.T) {
	batch := &parser.Batch{
		UFS: []types.UFS{
			ufsDispatch(1.0, 1, 0, 8),
			ufsComplete(1.002, 1),
		},
		Block: []types.Block{
			blockIssue(1.0, 8, 0, 100, 8, "R"),
			blockComplete(1.003, 8, 0, 100, "R"),
		},
		UFSCustom: []types.UFSCustom{
			{Opcode: "0x2a", LBA: 0, Size: 8, StartTime: 1.0, EndTime: 1.004, DToC: 4.0},
		},
	}

	result, report, err := Run(context.Background(), batch, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.UFS) != 2 || len(result.Block) != 2 || len(result.UFSCustom) != 1 {
		t.Fatalf("counts = %d/%d/%d", len(result.UFS), len(result.Block), len(result.UFSCustom))
	}
	approx(t, "ufs dtoc", result.UFS[1].DToC, 2.0)
	approx(t, "block dtoc", result.Block[1].DToC, 3.0)
	if report != (Report{}) {
		t.Errorf("report = %+v, want zero", report)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	result, report, err := Run(context.Background(), &parser.Batch{}, DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Empty() {
		t.Error("expected empty result")
	}
	if report != (Report{}) {
		t.Errorf("report = %+v, want zero", report)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context may or may not interrupt the tiny batch before
	// the workers finish; either way Run must not panic or deadlock.
	batch := &parser.Batch{UFS: []types.UFS{ufsDispatch(1.0, 1, 0, 8)}}
	_, _, _ = Run(ctx, batch, DefaultOptions())
}

func TestReport_Merge(t *testing.T) {
	a := Report{UnmatchedUFSCompletes: 1, DuplicateBlockEvents: 2}
	b := Report{UnmatchedUFSCompletes: 3, UnmatchedBlockCompletes: 4, PendingUFSDispatches: 5}

	a.Merge(&b)

	if a.UnmatchedUFSCompletes != 4 || a.UnmatchedBlockCompletes != 4 ||
		a.DuplicateBlockEvents != 2 || a.PendingUFSDispatches != 5 {
		t.Errorf("merged report = %+v", a)
	}
}
