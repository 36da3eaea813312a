package types

// Result holds the finalized, time-ordered, enriched collections for the
// three families. It is the sole surface handed to the export, statistics
// and query layers, which treat it as read-only.
type Result struct {
	UFS       []UFS
	Block     []Block
	UFSCustom []UFSCustom
}

// Counts returns the per-family record counts.
func (r *Result) Counts() (ufs, block, custom int) {
	return len(r.UFS), len(r.Block), len(r.UFSCustom)
}

// Empty returns true if no family produced any record.
func (r *Result) Empty() bool {
	return len(r.UFS) == 0 && len(r.Block) == 0 && len(r.UFSCustom) == 0
}
