package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/kakaromo/trace/internal/constants"
	"github.com/kakaromo/trace/internal/types"
)

func TestParseLatencyRanges(t *testing.T) {
	got, err := ParseLatencyRanges("0.1, 0.5,1,5")
	if err != nil {
		t.Fatalf("ParseLatencyRanges: %v", err)
	}
	want := []float64{0.1, 0.5, 1, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestParseLatencyRanges_Invalid(t *testing.T) {
	for _, s := range []string{"", "abc", "1,1", "5,1", "-1,2"} {
		if _, err := ParseLatencyRanges(s); err == nil {
			t.Errorf("ParseLatencyRanges(%q): expected error", s)
		}
	}
}

func TestRangeHistogram(t *testing.T) {
	h := NewRangeHistogram([]float64{1, 10, 100})

	h.Add(0.5)  // <= 1
	h.Add(1.0)  // boundary counts into its bucket
	h.Add(5)    // 1-10
	h.Add(50)   // 10-100
	h.Add(5000) // overflow

	want := []int64{2, 1, 1, 1}
	for i, w := range want {
		if h.Counts[i] != w {
			t.Errorf("bucket %d (%s) = %d, want %d", i, h.Label(i), h.Counts[i], w)
		}
	}
	if h.Total() != 5 {
		t.Errorf("total = %d", h.Total())
	}
	if h.Label(0) != "<= 1ms" {
		t.Errorf("label 0 = %q", h.Label(0))
	}
	if h.Label(3) != "> 100ms" {
		t.Errorf("overflow label = %q", h.Label(3))
	}
}

func TestSummary(t *testing.T) {
	s := NewSummary("dtoc", 0.01)

	for _, v := range []float64{2, 4, 6} {
		s.Add(v)
	}

	if s.Count() != 3 {
		t.Errorf("count = %d", s.Count())
	}
	if s.Min() != 2 || s.Max() != 6 {
		t.Errorf("min=%f max=%f", s.Min(), s.Max())
	}
	if math.Abs(s.Avg()-4) > 1e-9 {
		t.Errorf("avg = %f", s.Avg())
	}
	// DDSketch guarantees relative accuracy around the true value.
	if p := s.Quantile(0.5); math.Abs(p-4) > 4*0.02 {
		t.Errorf("p50 = %f, want ~4", p)
	}
}

func TestSummary_Empty(t *testing.T) {
	s := NewSummary("ctoc", 0.01)
	if s.Min() != 0 || s.Max() != 0 || s.Avg() != 0 || s.Quantile(0.99) != 0 {
		t.Error("empty summary must report zeros")
	}
}

func collectInput() *types.Result {
	return &types.Result{
		UFS: []types.UFS{
			{Time: 1.0, Action: constants.UFSActionDispatch, QD: 1, Continuous: true},
			{Time: 1.002, Action: constants.UFSActionComplete, DToC: 2.0, QD: 0},
			{Time: 1.005, Action: constants.UFSActionDispatch, CToD: 3.0, QD: 1},
			{Time: 1.010, Action: constants.UFSActionComplete, DToC: 5.0, CToC: 8.0, QD: 0},
			// Unmatched completion: dtoc stays at the sentinel.
			{Time: 1.020, Action: constants.UFSActionComplete, DToC: 0, CToC: 10.0, QD: 0},
		},
		UFSCustom: []types.UFSCustom{
			{Opcode: "0x2a", DToC: 1.5},
			{Opcode: "0x28", DToC: 0.2},
		},
	}
}

func TestCollect_ExcludesSentinelsByDefault(t *testing.T) {
	ts := Collect(collectInput(), DefaultOptions())

	if ts.UFS == nil {
		t.Fatal("expected ufs stats")
	}
	if ts.Block != nil {
		t.Error("no block records, stats must be nil")
	}

	// Two real dtoc samples; the sentinel from the unmatched completion
	// is excluded.
	if ts.UFS.DToC.Count() != 2 {
		t.Errorf("dtoc count = %d, want 2", ts.UFS.DToC.Count())
	}
	if ts.UFS.DToCRanges.Total() != 2 {
		t.Errorf("range total = %d, want 2", ts.UFS.DToCRanges.Total())
	}
	// ctoc: 8.0 and 10.0; the first completion's sentinel is excluded.
	if ts.UFS.CToC.Count() != 2 {
		t.Errorf("ctoc count = %d, want 2", ts.UFS.CToC.Count())
	}
	// ctod counted on dispatches only.
	if ts.UFS.CToD.Count() != 1 {
		t.Errorf("ctod count = %d, want 1", ts.UFS.CToD.Count())
	}
	if ts.UFS.MaxQD != 1 {
		t.Errorf("max qd = %d, want 1", ts.UFS.MaxQD)
	}
	if ts.UFS.Continuous != 1 {
		t.Errorf("continuous = %d, want 1", ts.UFS.Continuous)
	}
	if ts.UFS.Records != 5 {
		t.Errorf("records = %d, want 5", ts.UFS.Records)
	}

	if ts.Custom == nil || ts.Custom.DToC.Count() != 2 {
		t.Fatal("expected 2 custom dtoc samples")
	}
}

func TestCollect_IncludeSentinels(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeSentinels = true

	ts := Collect(collectInput(), opts)

	// The unmatched completion's sentinel dtoc is now counted.
	if ts.UFS.DToC.Count() != 3 {
		t.Errorf("dtoc count = %d, want 3", ts.UFS.DToC.Count())
	}
	if ts.UFS.DToCRanges.Total() != 3 {
		t.Errorf("range total = %d, want 3", ts.UFS.DToCRanges.Total())
	}
}

func TestPrint_PlainOutput(t *testing.T) {
	ts := Collect(collectInput(), DefaultOptions())

	var buf bytes.Buffer
	Print(&buf, ts)

	out := buf.String()
	if !strings.Contains(out, "ufs") {
		t.Errorf("output missing family name:\n%s", out)
	}
	if !strings.Contains(out, "dtoc") {
		t.Errorf("output missing metric name:\n%s", out)
	}
}
