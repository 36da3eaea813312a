// Package types defines the record families produced by the trace parser
// and enriched by the latency processor.
//
// The family set is closed: UFS (flash-storage command traces), Block
// (generic block-I/O traces), and UFSCustom (pre-paired CSV traces).
// Dispatch over the families is done with explicit switches on TraceType
// rather than through an interface, keeping the set statically checkable.
//
// A record is immutable after extraction except for the computed fields
// (QD, DToC, CToC, CToD, Continuous), which the processor fills in place
// during its single sequential pass. After that pass the record is final.
package types
