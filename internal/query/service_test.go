package query

import (
	"path/filepath"
	"testing"

	"github.com/kakaromo/trace/internal/types"
)

func TestParquetPath(t *testing.T) {
	s := &Service{dir: "/data/out"}

	tests := map[types.TraceType]string{
		types.TraceUFS:       filepath.Join("/data/out", "ufs.parquet"),
		types.TraceBlock:     filepath.Join("/data/out", "block.parquet"),
		types.TraceUFSCustom: filepath.Join("/data/out", "ufscustom.parquet"),
	}
	for tt, want := range tests {
		if got := s.ParquetPath(tt); got != want {
			t.Errorf("ParquetPath(%s) = %q, want %q", tt, got, want)
		}
	}
}

func TestRenderValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{"text", "text"},
		{[]byte("bytes"), "bytes"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := renderValue(tt.in); got != tt.want {
			t.Errorf("renderValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
