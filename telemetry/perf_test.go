package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances by a fixed step on every read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := &fakeClock{t: time.Unix(0, 0), step: 100 * time.Microsecond}
	pc.now = clock.now

	for range 5 {
		pc.StartTick()
		pc.StartPhase(PhaseSpawner)
		pc.StartPhase(PhaseMoods)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTick != 300*time.Microsecond {
		t.Errorf("AvgTick = %v, want 300µs", stats.AvgTick)
	}
	if stats.PhaseAvg[PhaseSpawner] != 100*time.Microsecond {
		t.Errorf("spawner avg = %v, want 100µs", stats.PhaseAvg[PhaseSpawner])
	}
	if stats.PhaseAvg[PhaseMoods] != 100*time.Microsecond {
		t.Errorf("moods avg = %v, want 100µs", stats.PhaseAvg[PhaseMoods])
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Millisecond}
	pc.now = clock.now

	for range 10 {
		pc.StartTick()
		pc.StartPhase(PhaseKitchen)
		pc.EndTick()
	}
	if pc.count != 5 {
		t.Errorf("sample count = %d, want window size 5", pc.count)
	}
	stats := pc.Stats()
	if stats.MinTick != stats.MaxTick {
		t.Errorf("uniform ticks: min %v != max %v", stats.MinTick, stats.MaxTick)
	}
	if stats.P99Tick != stats.MaxTick {
		t.Errorf("P99 = %v, want %v", stats.P99Tick, stats.MaxTick)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)
	base := time.Unix(0, 0)
	// tick start, kitchen start, cleanup start, end
	offsets := []time.Duration{0, 0, 10 * time.Microsecond, 100 * time.Microsecond}
	var i int
	pc.now = func() time.Time {
		t := base.Add(offsets[i%len(offsets)])
		i++
		return t
	}

	for range 5 {
		pc.StartTick()
		pc.StartPhase(PhaseKitchen)
		pc.StartPhase(PhaseCleanup)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseCleanup] <= stats.PhasePct[PhaseKitchen] {
		t.Errorf("cleanup %.1f%% should exceed kitchen %.1f%%",
			stats.PhasePct[PhaseCleanup], stats.PhasePct[PhaseKitchen])
	}
	csv := stats.ToCSV(42)
	if csv.WindowEnd != 42 || csv.CleanupPct != stats.PhasePct[PhaseCleanup] {
		t.Errorf("ToCSV = %+v", csv)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTick != 0 {
		t.Error("expected zero avg tick for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}
