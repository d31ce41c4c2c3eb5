package telemetry

import (
	"math"
	"testing"
)

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 10, "salmon")

	if got := lt.Get(7).WaitSec(0.5); got != 0 {
		t.Errorf("wait before hungry = %v, want 0", got)
	}

	lt.MarkHungry(7, 100)
	lt.MarkHungry(7, 150) // ignored
	wait := lt.MarkServed(7, 160, 4.2, "high", 0.5)
	if math.Abs(wait-30) > 1e-9 {
		t.Errorf("wait = %v, want 30", wait)
	}

	s := lt.Remove(7)
	if s == nil || s.Archetype != "salmon" || s.Verdict != "high" {
		t.Fatalf("removed stats = %+v", s)
	}
	if lt.Count() != 0 || lt.Get(7) != nil {
		t.Error("fish still tracked after Remove")
	}
}

func TestLifetimeTrackerUnknownFish(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.MarkHungry(1, 5)
	lt.MarkCooked(1, 5, 3)
	if wait := lt.MarkServed(1, 10, 3, "mid", 1); wait != 0 {
		t.Errorf("wait for unknown fish = %v, want 0", wait)
	}
	if lt.Remove(1) != nil {
		t.Error("Remove of unknown fish should return nil")
	}
}
