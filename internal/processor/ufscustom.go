package processor

import "github.com/kakaromo/trace/internal/types"

// ProcessCustom finalizes the custom family. Requests arrive pre-paired
// with dtoc already computed at parse time, so no state machine applies;
// only the deterministic ordering pass runs.
func ProcessCustom(events []types.UFSCustom) []types.UFSCustom {
	if len(events) == 0 {
		return events
	}
	SortCustom(events)
	return events
}
