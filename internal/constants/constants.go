// Package constants provides centralized domain-specific constants
// for the trace analyzer.
//
// This file consolidates all magic strings and values that were
// previously scattered across multiple packages.
package constants

// =============================================================================
// Time Conversion
// =============================================================================

const (
	// MillisecondsPerSecond converts trace timestamps (float seconds)
	// into the millisecond latencies stored on each record.
	MillisecondsPerSecond = 1000.0
)

// =============================================================================
// Address Sentinels
// =============================================================================

const (
	// UFSDebugLBA is the debug marker LBA (2^61 - 1) emitted by some UFS
	// drivers. Records carrying it are normalized to LBA 0.
	UFSDebugLBA uint64 = 2305843009213693951

	// MaxValidUFSLBA is the upper bound (about 2^48) for plausible UFS
	// LBAs. Anything above it is treated as unknown and normalized to 0.
	MaxValidUFSLBA uint64 = 1 << 48

	// UnknownSector is the all-ones sector value some block traces emit
	// for requests without a meaningful address. Normalized to 0 before
	// latency or continuity computation.
	UnknownSector uint64 = ^uint64(0)
)

// =============================================================================
// UFS Actions
// =============================================================================

const (
	// UFSActionDispatch is the ftrace action for a UFS command submission.
	UFSActionDispatch = "send_req"

	// UFSActionComplete is the ftrace action for a UFS command completion.
	UFSActionComplete = "complete_rsp"
)

// =============================================================================
// Block Actions
// =============================================================================

const (
	// BlockActionDispatch is the ftrace action for a block request issue.
	BlockActionDispatch = "block_rq_issue"

	// BlockActionComplete is the ftrace action for a block request completion.
	BlockActionComplete = "block_rq_complete"
)

// =============================================================================
// Block I/O Direction Classes
// =============================================================================

const (
	IOClassRead    = "read"
	IOClassWrite   = "write"
	IOClassDiscard = "discard"
	IOClassOther   = "other"
)

// ClassifyIOType maps a raw block io_type string (RWBS flags like "WS",
// "RA", "D") to its direction class.
func ClassifyIOType(ioType string) string {
	if ioType == "" {
		return IOClassOther
	}
	switch ioType[0] {
	case 'R':
		return IOClassRead
	case 'W':
		return IOClassWrite
	case 'D':
		return IOClassDiscard
	default:
		return IOClassOther
	}
}
