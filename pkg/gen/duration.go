// Package gen implements the stochastic event-log generator: per-case
// stage traversal, dual-regime duration sampling, noise injection,
// labeling, and whole-log assembly.
package gen

import (
	"math"
	"math/rand"
	"time"
)

// Duration regimes in milliseconds. The two ranges are deliberately
// disjoint so threshold-based bottleneck detectors downstream have a
// clean ground truth to recover.
const (
	normalMinMS     = 1.0
	normalMaxMS     = 50.0
	bottleneckMinMS = 100.0
	bottleneckMaxMS = 1000.0
)

// DurationModel samples event durations from one of two regimes.
// Regime selection is purely activity-driven: whether the activity was
// reached via its stage or via noise injection does not matter.
type DurationModel struct {
	rng *rand.Rand
}

// NewDurationModel creates a duration model drawing from rng.
func NewDurationModel(rng *rand.Rand) *DurationModel {
	return &DurationModel{rng: rng}
}

// Sample returns a duration in milliseconds, rounded to 2 decimals.
// Bottleneck draws are uniform over [100,1000), normal draws over [1,50).
func (m *DurationModel) Sample(isBottleneck bool) float64 {
	lo, hi := normalMinMS, normalMaxMS
	if isBottleneck {
		lo, hi = bottleneckMinMS, bottleneckMaxMS
	}
	return round2(lo + m.rng.Float64()*(hi-lo))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// msToDuration converts a 2-decimal millisecond value to a time.Duration
// without floating point drift (2 decimals of a millisecond = 10µs units).
func msToDuration(ms float64) time.Duration {
	return time.Duration(math.Round(ms*100)) * 10 * time.Microsecond
}
