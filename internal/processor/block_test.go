package processor

import (
	"testing"

	"github.com/kakaromo/trace/internal/constants"
	"github.com/kakaromo/trace/internal/types"
)

func blockIssue(time float64, major, minor uint32, sector uint64, size uint32, ioType string) types.Block {
	return types.Block{
		Time: time, Action: constants.BlockActionDispatch,
		DevMajor: major, DevMinor: minor,
		Sector: sector, Size: size, IOType: ioType,
	}
}

func blockComplete(time float64, major, minor uint32, sector uint64, ioType string) types.Block {
	return types.Block{
		Time: time, Action: constants.BlockActionComplete,
		DevMajor: major, DevMinor: minor,
		Sector: sector, IOType: ioType,
	}
}

func TestProcessBlock_DispatchCompletePair(t *testing.T) {
	events := []types.Block{
		blockIssue(1.0, 8, 0, 4096, 8, "W"),
		blockComplete(1.002, 8, 0, 4096, "W"),
	}

	out, report := ProcessBlock(events, DefaultOptions())
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if out[0].QD != 1 || out[1].QD != 0 {
		t.Errorf("qd = %d, %d, want 1, 0", out[0].QD, out[1].QD)
	}
	approx(t, "dtoc", out[1].DToC, 2.0)
	if report.UnmatchedBlockCompletes != 0 {
		t.Errorf("unmatched = %d", report.UnmatchedBlockCompletes)
	}
}

func TestProcessBlock_PerDevicePartitioning(t *testing.T) {
	// Two devices with interleaved traffic. Depth, latency matching and
	// completion gaps must stay within each device.
	events := []types.Block{
		blockIssue(1.0, 8, 0, 100, 8, "R"),
		blockIssue(1.001, 259, 1, 100, 8, "R"), // same sector, other device
		blockComplete(1.005, 8, 0, 100, "R"),
		blockComplete(1.010, 259, 1, 100, "R"),
	}

	out, report := ProcessBlock(events, DefaultOptions())

	// Each device's dispatch raises only its own depth.
	if out[0].QD != 1 {
		t.Errorf("dev 8:0 dispatch qd = %d, want 1", out[0].QD)
	}
	if out[1].QD != 1 {
		t.Errorf("dev 259:1 dispatch qd = %d, want 1", out[1].QD)
	}

	// dtoc matches within the device despite the shared sector.
	approx(t, "dev 8:0 dtoc", out[2].DToC, 5.0)
	approx(t, "dev 259:1 dtoc", out[3].DToC, 9.0)

	// The second device's first completion has no predecessor on that
	// device, so its ctoc stays at the sentinel.
	if out[3].CToC != 0 {
		t.Errorf("dev 259:1 ctoc = %f, want 0", out[3].CToC)
	}
	if report.UnmatchedBlockCompletes != 0 || report.PendingBlockDispatches != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestProcessBlock_DuplicatesCollapsed(t *testing.T) {
	events := []types.Block{
		blockIssue(1.0, 8, 0, 100, 8, "R"),
		blockIssue(1.0, 8, 0, 100, 8, "R"), // exact duplicate
		blockComplete(1.002, 8, 0, 100, "R"),
	}

	out, report := ProcessBlock(events, DefaultOptions())

	if len(out) != 2 {
		t.Fatalf("expected duplicate collapsed to 2 records, got %d", len(out))
	}
	if report.DuplicateBlockEvents != 1 {
		t.Errorf("duplicates = %d, want 1", report.DuplicateBlockEvents)
	}
	// With the duplicate gone the depth peaks at 1.
	if out[0].QD != 1 || out[1].QD != 0 {
		t.Errorf("qd = %d, %d, want 1, 0", out[0].QD, out[1].QD)
	}
}

func TestProcessBlock_SameTimeDifferentActionKept(t *testing.T) {
	// Identical time and sector but different actions are distinct events.
	events := []types.Block{
		blockIssue(1.0, 8, 0, 100, 8, "R"),
		blockComplete(1.0, 8, 0, 100, "R"),
	}

	out, report := ProcessBlock(events, DefaultOptions())
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}
	if report.DuplicateBlockEvents != 0 {
		t.Errorf("duplicates = %d, want 0", report.DuplicateBlockEvents)
	}
}

func TestProcessBlock_UnknownSectorNormalized(t *testing.T) {
	ev := blockIssue(1.0, 8, 0, constants.UnknownSector, 0, "F")
	out, _ := ProcessBlock([]types.Block{ev}, DefaultOptions())

	if out[0].Sector != 0 {
		t.Errorf("sector = %d, want 0", out[0].Sector)
	}
}

func TestProcessBlock_UnmatchedCompletionRetained(t *testing.T) {
	events := []types.Block{
		blockComplete(1.0, 8, 0, 500, "R"),
	}

	out, report := ProcessBlock(events, DefaultOptions())

	if len(out) != 1 {
		t.Fatal("unmatched completion must be retained")
	}
	if out[0].DToC != 0 {
		t.Errorf("dtoc = %f, want sentinel 0", out[0].DToC)
	}
	if report.UnmatchedBlockCompletes != 1 {
		t.Errorf("unmatched = %d, want 1", report.UnmatchedBlockCompletes)
	}
}

func TestProcessBlock_ContinuityPerClassAndDevice(t *testing.T) {
	events := []types.Block{
		blockIssue(1.0, 8, 0, 100, 8, "R"),
		blockIssue(1.0002, 8, 0, 108, 8, "RA"), // adjacent read on same device
		blockIssue(1.0004, 8, 0, 116, 8, "W"),  // adjacent address, write class
		blockIssue(1.0006, 259, 1, 116, 8, "R"),
	}

	out, _ := ProcessBlock(events, DefaultOptions())

	if out[0].Continuous {
		t.Error("first dispatch cannot be continuous")
	}
	// RA classifies as read, so it continues the read stream.
	if !out[1].Continuous {
		t.Error("adjacent read must be continuous")
	}
	if out[2].Continuous {
		t.Error("write must not continue the read stream")
	}
	// Same class and address as the device-8 write stream, but another
	// device has no history.
	if out[3].Continuous {
		t.Error("continuity must not cross devices")
	}
}

func TestProcessBlock_OtherClassSkipsContinuity(t *testing.T) {
	events := []types.Block{
		blockIssue(1.0, 8, 0, 100, 8, "F"),
		blockIssue(1.0002, 8, 0, 108, 8, "F"),
	}

	out, _ := ProcessBlock(events, DefaultOptions())
	if out[0].Continuous || out[1].Continuous {
		t.Error("flush/other events carry no continuity")
	}
}

func TestProcessBlock_Empty(t *testing.T) {
	out, report := ProcessBlock(nil, DefaultOptions())
	if len(out) != 0 || report != (Report{}) {
		t.Errorf("expected zero output, got %d records, report %+v", len(out), report)
	}
}
