package parser

// Stats accumulates per-run line and record counters. Workers each fill a
// private Stats which are merged at the join barrier, so no counter is
// ever shared between goroutines.
type Stats struct {
	LinesSeen int64

	// Skipped lines, by reason
	SkippedUnknown   int64 // matched no family pattern
	SkippedEncoding  int64 // invalid byte encoding
	SkippedMalformed int64 // matched a quick check but failed full extraction

	// Records produced per family
	UFSRecords    int64
	BlockRecords  int64
	CustomRecords int64
}

// Skipped returns the total number of skipped lines.
func (s *Stats) Skipped() int64 {
	return s.SkippedUnknown + s.SkippedEncoding + s.SkippedMalformed
}

// Records returns the total number of records produced.
func (s *Stats) Records() int64 {
	return s.UFSRecords + s.BlockRecords + s.CustomRecords
}

// Merge adds other's counters into s.
func (s *Stats) Merge(other *Stats) {
	s.LinesSeen += other.LinesSeen
	s.SkippedUnknown += other.SkippedUnknown
	s.SkippedEncoding += other.SkippedEncoding
	s.SkippedMalformed += other.SkippedMalformed
	s.UFSRecords += other.UFSRecords
	s.BlockRecords += other.BlockRecords
	s.CustomRecords += other.CustomRecords
}
