package types

import "github.com/kakaromo/trace/internal/constants"

// DevKey identifies a block device by its major/minor pair.
// All processor state (queue depth, pending requests, continuity) is
// partitioned by DevKey and never mixed across devices.
type DevKey struct {
	Major uint32
	Minor uint32
}

// Block represents one generic block-I/O trace event.
type Block struct {
	Time     float64
	Process  string
	CPU      uint32
	Flags    string // ftrace irq/preempt flags column
	Action   string // block_rq_issue or block_rq_complete
	DevMajor uint32
	DevMinor uint32
	IOType   string // RWBS flags, stored verbatim (e.g. "WS", "RA")
	Extra    uint32
	Sector   uint64
	Size     uint32 // Request size in sectors
	Comm     string

	// Computed by the processor
	QD         uint32
	DToC       float64
	CToC       float64
	CToD       float64
	Continuous bool
	Aligned    bool // Sector alignment check
}

// Dev returns the device key for state partitioning.
func (b *Block) Dev() DevKey { return DevKey{Major: b.DevMajor, Minor: b.DevMinor} }

// IOClass returns the direction class (read/write/discard/other) of the event.
func (b *Block) IOClass() string { return constants.ClassifyIOType(b.IOType) }

// IsDispatch returns true for request issue events.
func (b *Block) IsDispatch() bool { return b.Action == constants.BlockActionDispatch }

// IsComplete returns true for request completion events.
func (b *Block) IsComplete() bool { return b.Action == constants.BlockActionComplete }
