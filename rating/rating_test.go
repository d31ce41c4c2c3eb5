package rating

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/hangry/config"
)

func TestOutcomeFor(t *testing.T) {
	tests := []struct {
		avg  float64
		want Outcome
	}{
		{0, Worst},
		{0.99, Worst},
		{1, Bad},
		{1.5, Bad},
		{2, Average},
		{2.99, Average},
		{3, Good},
		{4, Good},
		{4.01, Best},
		{5, Best},
	}
	for _, tt := range tests {
		if got := OutcomeFor(tt.avg); got != tt.want {
			t.Errorf("OutcomeFor(%g) = %s, want %s", tt.avg, got, tt.want)
		}
	}
}

func TestTrackerAverage(t *testing.T) {
	tr := NewTracker(5)
	if tr.Average() != 0 {
		t.Errorf("empty average = %g, want 0", tr.Average())
	}
	if tr.Outcome() != Worst {
		t.Errorf("empty outcome = %s, want worst", tr.Outcome())
	}

	for _, v := range []float64{5, 3, 1, -2, 9} {
		tr.ChangeRating(v)
	}
	// -2 clamps to 0, 9 clamps to 5
	want := (5.0 + 3 + 1 + 0 + 5) / 5
	if got := tr.Average(); math.Abs(got-want) > 1e-12 {
		t.Errorf("average = %g, want %g", got, want)
	}
	if tr.Count() != 5 {
		t.Errorf("count = %d, want 5", tr.Count())
	}
	if tr.Outcome() != Average {
		t.Errorf("outcome = %s, want average", tr.Outcome())
	}

	tr.Reset()
	if tr.Count() != 0 {
		t.Errorf("count after reset = %d", tr.Count())
	}
}

func TestPenaltyFunc(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		fn := PenaltyFunc(config.RatingConfig{HangryPenalty: "fixed", FixedPenalty: 1}, nil)
		for range 10 {
			if v := fn(); v != 1 {
				t.Fatalf("fixed penalty = %g, want 1", v)
			}
		}
	})

	t.Run("random", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		fn := PenaltyFunc(config.RatingConfig{HangryPenalty: "random", RandomMax: 0.99}, rng)
		for range 10000 {
			v := fn()
			if v < 0 || v >= 0.99 {
				t.Fatalf("random penalty %g outside [0, 0.99)", v)
			}
		}
	})
}
