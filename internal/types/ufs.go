package types

import "github.com/kakaromo/trace/internal/constants"

// UFS represents one flash-storage command trace event.
//
// Time, Process, CPU, Action, Tag, Opcode, LBA, Size, GroupID and HWQID
// come from the trace line. QD, DToC, CToC, CToD and Continuous are filled
// by the processor. A tag uniquely identifies one in-flight request within
// its dispatch-to-complete window.
type UFS struct {
	Time    float64 // Event time in seconds
	Process string  // Issuing process name
	CPU     uint32
	Action  string // send_req or complete_rsp
	Tag     uint32
	Opcode  string // Stored verbatim (e.g. "0x2a")
	LBA     uint64
	Size    uint32 // Request size in 4KB units
	GroupID uint32
	HWQID   uint32

	// Computed by the processor
	QD         uint32  // Queue depth observed at this event
	DToC       float64 // Dispatch-to-complete latency (ms)
	CToC       float64 // Complete-to-complete latency (ms)
	CToD       float64 // Complete-to-dispatch latency (ms)
	Continuous bool    // Address-adjacent to the previous same-opcode dispatch
	Aligned    bool    // LBA alignment check
}

// IsDispatch returns true for command submission events.
func (u *UFS) IsDispatch() bool { return u.Action == constants.UFSActionDispatch }

// IsComplete returns true for command completion events.
func (u *UFS) IsComplete() bool { return u.Action == constants.UFSActionComplete }
