// Package rating accumulates per-fish ratings and maps the session average to an outcome.
package rating

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hangry/config"
)

// Outcome is the end-of-session review bucket.
type Outcome uint8

const (
	Worst Outcome = iota
	Bad
	Average
	Good
	Best
)

func (o Outcome) String() string {
	switch o {
	case Worst:
		return "worst"
	case Bad:
		return "bad"
	case Average:
		return "average"
	case Good:
		return "good"
	case Best:
		return "best"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// OutcomeFor buckets an average rating: [0,1) [1,2) [2,3) [3,4] (4,5].
func OutcomeFor(avg float64) Outcome {
	switch {
	case avg < 1:
		return Worst
	case avg < 2:
		return Bad
	case avg < 3:
		return Average
	case avg <= 4:
		return Good
	default:
		return Best
	}
}

// Tracker is the session-wide rating accumulator.
type Tracker struct {
	max     float64
	samples []float64
}

// NewTracker creates a tracker that clamps contributions to [0, max].
func NewTracker(max float64) *Tracker {
	return &Tracker{max: max}
}

// ChangeRating records one contribution.
func (t *Tracker) ChangeRating(v float64) {
	if v < 0 {
		v = 0
	}
	if v > t.max {
		v = t.max
	}
	t.samples = append(t.samples, v)
}

// Average returns the mean contribution, or 0 when nothing was recorded.
func (t *Tracker) Average() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	return stat.Mean(t.samples, nil)
}

// Count returns the number of contributions.
func (t *Tracker) Count() int {
	return len(t.samples)
}

// Samples returns a copy of every recorded contribution.
func (t *Tracker) Samples() []float64 {
	out := make([]float64, len(t.samples))
	copy(out, t.samples)
	return out
}

// Outcome returns the bucket for the current average.
func (t *Tracker) Outcome() Outcome {
	return OutcomeFor(t.Average())
}

// Reset clears every contribution.
func (t *Tracker) Reset() {
	t.samples = t.samples[:0]
}

// PenaltyFunc builds the hangry-departure penalty from config.
// "random" draws uniformly in [0, random_max); "fixed" always returns fixed_penalty.
func PenaltyFunc(cfg config.RatingConfig, rng *rand.Rand) func() float64 {
	if cfg.HangryPenalty == "fixed" {
		v := cfg.FixedPenalty
		return func() float64 { return v }
	}
	hi := cfg.RandomMax
	return func() float64 { return rng.Float64() * hi }
}
