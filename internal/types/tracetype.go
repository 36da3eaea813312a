package types

import (
	"fmt"
	"strings"
)

// TraceType identifies one of the three recognized trace families.
type TraceType int

const (
	TraceUFS TraceType = iota
	TraceBlock
	TraceUFSCustom
)

// ParseTraceType parses a trace type name ("ufs", "block", "ufscustom").
func ParseTraceType(s string) (TraceType, error) {
	switch strings.ToLower(s) {
	case "ufs":
		return TraceUFS, nil
	case "block":
		return TraceBlock, nil
	case "ufscustom":
		return TraceUFSCustom, nil
	default:
		return 0, fmt.Errorf("unknown trace type %q", s)
	}
}

// String returns the canonical lowercase name.
func (t TraceType) String() string {
	switch t {
	case TraceUFS:
		return "ufs"
	case TraceBlock:
		return "block"
	case TraceUFSCustom:
		return "ufscustom"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for console output.
func (t TraceType) DisplayName() string {
	switch t {
	case TraceUFS:
		return "UFS"
	case TraceBlock:
		return "Block I/O"
	case TraceUFSCustom:
		return "UFSCustom"
	default:
		return "Unknown"
	}
}
