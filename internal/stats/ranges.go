package stats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kakaromo/trace/internal/errors"
)

// ParseLatencyRanges parses comma-separated millisecond bucket boundaries
// for the latency-range histograms. Values must be non-negative and
// strictly ascending.
func ParseLatencyRanges(s string) ([]float64, error) {
	var ranges []float64

	for _, field := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("latency range %q: %w", field, errors.ErrInvalidRange)
		}
		if v < 0 {
			return nil, fmt.Errorf("latency range values must be non-negative: %w", errors.ErrInvalidRange)
		}
		ranges = append(ranges, v)
	}

	for i := 1; i < len(ranges); i++ {
		if ranges[i] <= ranges[i-1] {
			return nil, fmt.Errorf("latency range values must be ascending: %w", errors.ErrInvalidRange)
		}
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no latency range values: %w", errors.ErrInvalidRange)
	}

	return ranges, nil
}

// RangeHistogram counts latencies into user-defined millisecond buckets.
// Counts has one entry per boundary ("<= bound") plus a final overflow
// bucket.
type RangeHistogram struct {
	BoundsMs []float64
	Counts   []int64
}

// NewRangeHistogram creates a histogram over the given ascending bounds.
func NewRangeHistogram(boundsMs []float64) *RangeHistogram {
	return &RangeHistogram{
		BoundsMs: boundsMs,
		Counts:   make([]int64, len(boundsMs)+1),
	}
}

// Add counts one latency value.
func (h *RangeHistogram) Add(ms float64) {
	for i, bound := range h.BoundsMs {
		if ms <= bound {
			h.Counts[i]++
			return
		}
	}
	h.Counts[len(h.Counts)-1]++
}

// Total returns the number of values counted.
func (h *RangeHistogram) Total() int64 {
	var total int64
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// Label returns the human-readable label of bucket i.
func (h *RangeHistogram) Label(i int) string {
	if i == 0 {
		return fmt.Sprintf("<= %gms", h.BoundsMs[0])
	}
	if i == len(h.Counts)-1 {
		return fmt.Sprintf("> %gms", h.BoundsMs[len(h.BoundsMs)-1])
	}
	return fmt.Sprintf("%g-%gms", h.BoundsMs[i-1], h.BoundsMs[i])
}
