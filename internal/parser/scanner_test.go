package parser

import (
	"bytes"
	"strings"
	"testing"
)

func TestScanRanges_Empty(t *testing.T) {
	if got := ScanRanges(nil, 10); got != nil {
		t.Errorf("expected nil for empty buffer, got %v", got)
	}
}

func TestScanRanges_SingleRangeWhenChunkCoversBuffer(t *testing.T) {
	buf := []byte("one\ntwo\nthree\n")

	for _, chunk := range []int{0, -1, len(buf), len(buf) * 2} {
		ranges := ScanRanges(buf, chunk)
		if len(ranges) != 1 {
			t.Fatalf("chunk=%d: expected 1 range, got %d", chunk, len(ranges))
		}
		if ranges[0].Start != 0 || ranges[0].End != len(buf) {
			t.Errorf("chunk=%d: expected [0,%d), got [%d,%d)",
				chunk, len(buf), ranges[0].Start, ranges[0].End)
		}
	}
}

func TestScanRanges_ContiguousAndComplete(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("some trace line with a bit of content\n")
	}
	buf := []byte(sb.String())

	ranges := ScanRanges(buf, 100)
	if len(ranges) < 2 {
		t.Fatalf("expected multiple ranges, got %d", len(ranges))
	}

	// Ranges must tile the buffer exactly: first starts at 0, each
	// starts where the previous ended, last ends at len(buf).
	if ranges[0].Start != 0 {
		t.Errorf("first range starts at %d", ranges[0].Start)
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Start != ranges[i-1].End {
			t.Errorf("range %d starts at %d, previous ended at %d",
				i, ranges[i].Start, ranges[i-1].End)
		}
	}
	if last := ranges[len(ranges)-1]; last.End != len(buf) {
		t.Errorf("last range ends at %d, want %d", last.End, len(buf))
	}
}

func TestScanRanges_BoundariesFallAfterNewlines(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("abcdefghij\n")
	}
	buf := []byte(sb.String())

	ranges := ScanRanges(buf, 25)
	for i, r := range ranges[:len(ranges)-1] {
		if buf[r.End-1] != '\n' {
			t.Errorf("range %d ends at %d, byte before boundary is %q not newline",
				i, r.End, buf[r.End-1])
		}
	}
}

func TestScanRanges_NoTrailingNewline(t *testing.T) {
	buf := []byte("first line\nsecond line without terminator")
	ranges := ScanRanges(buf, 5)

	if last := ranges[len(ranges)-1]; last.End != len(buf) {
		t.Errorf("last range ends at %d, want %d", last.End, len(buf))
	}

	// Reassembling the ranges must reproduce the buffer byte for byte.
	var out []byte
	for _, r := range ranges {
		out = append(out, buf[r.Start:r.End]...)
	}
	if !bytes.Equal(out, buf) {
		t.Error("reassembled ranges differ from input buffer")
	}
}

func TestScanRanges_NeverSplitsLines(t *testing.T) {
	buf := []byte("aaaa\nbbbbbbbbbbbbbbbbbbbbbbbbbbbb\ncc\ndddd\n")
	ranges := ScanRanges(buf, 3)

	for i, r := range ranges {
		chunk := buf[r.Start:r.End]
		// Every non-final byte run between newlines must be whole: a
		// chunk never starts mid-line.
		if r.Start > 0 && buf[r.Start-1] != '\n' {
			t.Errorf("range %d starts mid-line at %d", i, r.Start)
		}
		if i < len(ranges)-1 && chunk[len(chunk)-1] != '\n' {
			t.Errorf("range %d ends mid-line at %d", i, r.End)
		}
	}
}

func TestChunkSize(t *testing.T) {
	tests := []struct {
		name     string
		fileSize int
		workers  int
		minChunk int
		want     int
	}{
		{"floored at min", 100, 4, 64, 64},
		{"large file divides", 64 * 16, 4, 1, 64},
		{"zero workers treated as one", 400, 0, 1, 100},
		{"exact multiple", 1 << 30, 8, 1 << 20, 1 << 30 / 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChunkSize(tt.fileSize, tt.workers, tt.minChunk); got != tt.want {
				t.Errorf("ChunkSize(%d, %d, %d) = %d, want %d",
					tt.fileSize, tt.workers, tt.minChunk, got, tt.want)
			}
		})
	}
}
