package processor

import (
	"github.com/kakaromo/trace/internal/constants"
	"github.com/kakaromo/trace/internal/types"
)

// addrState remembers the end address and time of the most recent
// dispatch in one I/O direction, for continuity checks.
type addrState struct {
	end  uint64
	time float64
}

// ProcessUFS runs the sequential latency and queue-depth pass over the
// flash-storage family. The input is sorted in place; computed fields
// are filled in place and the same slice is returned.
//
// State machine per event, in time order:
//   - dispatch: queue depth increments and the post-increment value is
//     recorded; the dispatch time is stored under its tag for dtoc
//     matching; ctod is the gap to the previous completion; continuity is
//     checked against the previous dispatch of the same opcode.
//   - complete: dtoc resolves against the pending dispatch for the tag
//     (an unmatched completion keeps the sentinel and is counted, never
//     dropped); ctoc is the gap to the previous completion; queue depth
//     decrements (never below zero) and the post-decrement value is
//     recorded.
func ProcessUFS(events []types.UFS, opts Options) ([]types.UFS, Report) {
	var report Report
	if len(events) == 0 {
		return events, report
	}

	SortUFS(events)

	pending := make(map[uint32]float64, len(events)/3)
	prevDispatch := make(map[string]addrState, 8)

	var qd uint32
	var lastComplete float64
	haveComplete := false

	for i := range events {
		ev := &events[i]

		switch {
		case ev.IsDispatch():
			if prev, ok := prevDispatch[ev.Opcode]; ok {
				gap := (ev.Time - prev.time) * constants.MillisecondsPerSecond
				ev.Continuous = prev.end == ev.LBA &&
					gap >= 0 && gap <= opts.ContinuityThresholdMs
			}
			prevDispatch[ev.Opcode] = addrState{
				end:  ev.LBA + uint64(ev.Size),
				time: ev.Time,
			}

			if haveComplete {
				ev.CToD = (ev.Time - lastComplete) * constants.MillisecondsPerSecond
			}

			pending[ev.Tag] = ev.Time
			qd++
			ev.QD = qd

		case ev.IsComplete():
			if dispatchTime, ok := pending[ev.Tag]; ok {
				ev.DToC = (ev.Time - dispatchTime) * constants.MillisecondsPerSecond
				delete(pending, ev.Tag)
			} else {
				report.UnmatchedUFSCompletes++
				log.Debug("unmatched ufs completion", "tag", ev.Tag, "time", ev.Time)
			}

			if haveComplete {
				ev.CToC = (ev.Time - lastComplete) * constants.MillisecondsPerSecond
			}
			lastComplete = ev.Time
			haveComplete = true

			if qd > 0 {
				qd--
			}
			ev.QD = qd

		default:
			// Unknown action: metrics stay at their sentinels.
			ev.QD = qd
		}
	}

	report.PendingUFSDispatches = len(pending)
	if report.PendingUFSDispatches > 0 {
		log.Debug("dispatches still pending at end of ufs sequence",
			"count", report.PendingUFSDispatches)
	}
	return events, report
}
