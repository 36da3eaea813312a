package processor

import (
	"github.com/kakaromo/trace/internal/constants"
	"github.com/kakaromo/trace/internal/types"
)

// devState carries all per-device processing state. Queue depth, pending
// requests, completion times and continuity are partitioned by device
// major/minor and never mixed across devices.
type devState struct {
	pending      map[uint64]float64   // sector -> dispatch time
	prevDispatch map[string]addrState // io class -> last dispatch
	qd           uint32
	lastComplete float64
	haveComplete bool
}

func newDevState() *devState {
	return &devState{
		pending:      make(map[uint64]float64),
		prevDispatch: make(map[string]addrState, 4),
	}
}

// blockDupKey identifies an exact-duplicate block event.
type blockDupKey struct {
	time   float64
	sector uint64
	action string
}

// ProcessBlock runs the sequential latency and queue-depth pass over the
// block family. Sector sentinels are normalized and exact duplicates
// collapsed before the state machine runs; the returned slice may be
// shorter than the input.
func ProcessBlock(events []types.Block, opts Options) ([]types.Block, Report) {
	var report Report
	if len(events) == 0 {
		return events, report
	}

	// The all-ones sector means "unknown"; normalize before any
	// continuity or latency computation sees it.
	for i := range events {
		if events[i].Sector == constants.UnknownSector {
			events[i].Sector = 0
		}
	}

	SortBlock(events)

	// Collapse exact duplicates (identical time, sector and action).
	seen := make(map[blockDupKey]struct{}, len(events))
	deduped := events[:0]
	for i := range events {
		key := blockDupKey{time: events[i].Time, sector: events[i].Sector, action: events[i].Action}
		if _, dup := seen[key]; dup {
			report.DuplicateBlockEvents++
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, events[i])
	}
	if report.DuplicateBlockEvents > 0 {
		log.Debug("collapsed duplicate block events", "count", report.DuplicateBlockEvents)
	}

	devices := make(map[types.DevKey]*devState, 4)
	state := func(ev *types.Block) *devState {
		key := ev.Dev()
		st, ok := devices[key]
		if !ok {
			st = newDevState()
			devices[key] = st
		}
		return st
	}

	for i := range deduped {
		ev := &deduped[i]
		st := state(ev)
		class := ev.IOClass()

		switch {
		case ev.IsDispatch():
			if class != constants.IOClassOther {
				if prev, ok := st.prevDispatch[class]; ok {
					gap := (ev.Time - prev.time) * constants.MillisecondsPerSecond
					ev.Continuous = prev.end == ev.Sector &&
						gap >= 0 && gap <= opts.ContinuityThresholdMs
				}
				st.prevDispatch[class] = addrState{
					end:  ev.Sector + uint64(ev.Size),
					time: ev.Time,
				}
			}

			if st.haveComplete {
				ev.CToD = (ev.Time - st.lastComplete) * constants.MillisecondsPerSecond
			}

			st.pending[ev.Sector] = ev.Time
			st.qd++
			ev.QD = st.qd

		case ev.IsComplete():
			if dispatchTime, ok := st.pending[ev.Sector]; ok {
				ev.DToC = (ev.Time - dispatchTime) * constants.MillisecondsPerSecond
				delete(st.pending, ev.Sector)
			} else {
				report.UnmatchedBlockCompletes++
				log.Debug("unmatched block completion",
					"devmajor", ev.DevMajor, "devminor", ev.DevMinor,
					"sector", ev.Sector, "time", ev.Time)
			}

			if st.haveComplete {
				ev.CToC = (ev.Time - st.lastComplete) * constants.MillisecondsPerSecond
			}
			st.lastComplete = ev.Time
			st.haveComplete = true

			if st.qd > 0 {
				st.qd--
			}
			ev.QD = st.qd

		default:
			ev.QD = st.qd
		}
	}

	for _, st := range devices {
		report.PendingBlockDispatches += len(st.pending)
	}
	if report.PendingBlockDispatches > 0 {
		log.Debug("dispatches still pending at end of block sequence",
			"count", report.PendingBlockDispatches)
	}
	return deduped, report
}
