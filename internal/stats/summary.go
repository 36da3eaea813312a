// Package stats computes console statistics over the finalized trace
// collections: running min/max/avg plus DDSketch-based percentiles per
// latency metric, and user-configurable latency-range histograms.
//
// The collections are treated as read-only; sentinel-valued latencies
// (unmatched completions, first-in-scope events) are excluded from the
// aggregates unless IncludeSentinels is set.
package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"

	"github.com/kakaromo/trace/config"
)

// Summary maintains running statistics for one latency metric.
type Summary struct {
	Name string

	count int64
	sum   float64
	min   float64
	max   float64

	sketch *ddsketch.DDSketch
}

// NewSummary creates a Summary with the given DDSketch relative accuracy.
func NewSummary(name string, accuracy float64) *Summary {
	if accuracy <= 0 {
		accuracy = config.DefaultSketchAccuracy
	}
	s := &Summary{
		Name: name,
		min:  math.MaxFloat64,
		max:  -math.MaxFloat64,
	}
	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err == nil {
		s.sketch = sketch
	}
	return s
}

// Add adds a value to the summary.
func (s *Summary) Add(v float64) {
	s.count++
	s.sum += v
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
	if s.sketch != nil {
		s.sketch.Add(v)
	}
}

// Count returns the number of values added.
func (s *Summary) Count() int64 { return s.count }

// Sum returns the sum of the added values.
func (s *Summary) Sum() float64 { return s.sum }

// Min returns the smallest value added, or 0 for an empty summary.
func (s *Summary) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

// Max returns the largest value added, or 0 for an empty summary.
func (s *Summary) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Avg returns the mean of the added values, or 0 for an empty summary.
func (s *Summary) Avg() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / float64(s.count)
}

// Quantile returns the value at quantile q (0..1), or 0 if the sketch is
// unavailable or empty.
func (s *Summary) Quantile(q float64) float64 {
	if s.sketch == nil || s.count == 0 {
		return 0
	}
	v, err := s.sketch.GetValueAtQuantile(q)
	if err != nil {
		return 0
	}
	return v
}
