package processor

import (
	"slices"

	"github.com/kakaromo/trace/internal/types"
)

// The sorters produce the deterministic time-ascending sequence each
// family's state machine consumes. All sorts are stable and fully
// determined by their explicit keys, so re-sorting a sorted sequence is
// the identity.

// SortUFS orders flash-storage events by time. On equal timestamps,
// completions sort before dispatches (so a completion and the next
// dispatch sharing a timestamp never produce a transient negative queue
// depth), then ascending tag.
func SortUFS(events []types.UFS) {
	slices.SortStableFunc(events, func(a, b types.UFS) int {
		if a.Time != b.Time {
			return cmpFloat(a.Time, b.Time)
		}
		if ra, rb := ufsActionRank(&a), ufsActionRank(&b); ra != rb {
			return ra - rb
		}
		return cmpUint64(uint64(a.Tag), uint64(b.Tag))
	})
}

func ufsActionRank(u *types.UFS) int {
	if u.IsComplete() {
		return 0
	}
	return 1
}

// SortBlock orders block events by time; ties break on ascending sector,
// then ascending size.
func SortBlock(events []types.Block) {
	slices.SortStableFunc(events, func(a, b types.Block) int {
		if a.Time != b.Time {
			return cmpFloat(a.Time, b.Time)
		}
		if a.Sector != b.Sector {
			return cmpUint64(a.Sector, b.Sector)
		}
		return cmpUint64(uint64(a.Size), uint64(b.Size))
	})
}

// SortCustom orders pre-paired requests by start time; ties break on
// ascending LBA, then size.
func SortCustom(events []types.UFSCustom) {
	slices.SortStableFunc(events, func(a, b types.UFSCustom) int {
		if a.StartTime != b.StartTime {
			return cmpFloat(a.StartTime, b.StartTime)
		}
		if a.LBA != b.LBA {
			return cmpUint64(a.LBA, b.LBA)
		}
		return cmpUint64(uint64(a.Size), uint64(b.Size))
	})
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
