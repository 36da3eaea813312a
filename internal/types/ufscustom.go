package types

// UFSCustom represents one pre-paired request from the simplified CSV
// format. The dispatch/complete pair arrives on a single line, so DToC is
// computed at parse time and no queue-depth or continuity state applies.
type UFSCustom struct {
	Opcode    string
	LBA       uint64
	Size      uint32
	StartTime float64 // Dispatch time in seconds
	EndTime   float64 // Completion time in seconds
	DToC      float64 // (EndTime - StartTime) * 1000, set at parse time
	Aligned   bool
}
