package spawner

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hangry/config"
)

func defaultSpawner(t *testing.T) config.SpawnerConfig {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg.Spawner
}

func alwaysSpawn(int, Position) bool { return true }

func TestInitialInterval(t *testing.T) {
	cfg := defaultSpawner(t)
	for seed := range int64(200) {
		s := New(cfg, 3, rand.New(rand.NewSource(seed)))
		if iv := s.Interval(); iv < 5 || iv > 15 {
			t.Fatalf("seed %d: initial interval %g outside [5,15]", seed, iv)
		}
		if s.Phase() != PhaseInitial {
			t.Fatalf("initial phase = %s", s.Phase())
		}
	}
}

func TestPopulationInvariant(t *testing.T) {
	cfg := defaultSpawner(t)
	cfg.PopulationCap = 5
	cfg.InitialMin, cfg.InitialMax = 0.5, 0.5
	cfg.StopSpawningAt = 1e9
	cfg.GameTime = 1e9
	rng := rand.New(rand.NewSource(42))
	s := New(cfg, 3, rng)

	spawns, releases := 0, 0
	for range 20000 {
		if s.Update(0.25, alwaysSpawn) {
			spawns++
		}
		if rng.Float64() < 0.3 {
			if s.Population() > 0 {
				releases++
			}
			s.Release()
		}
		if p := s.Population(); p < 0 || p > cfg.PopulationCap {
			t.Fatalf("population %d outside [0,%d]", p, cfg.PopulationCap)
		}
	}
	if spawns == 0 || releases == 0 {
		t.Fatalf("degenerate run: %d spawns, %d releases", spawns, releases)
	}
	if got, want := s.Population(), spawns-releases; got != want {
		t.Errorf("population = %d, want spawns-releases = %d", got, want)
	}
}

func TestReleaseNeverNegative(t *testing.T) {
	s := New(defaultSpawner(t), 3, rand.New(rand.NewSource(1)))
	s.Release()
	s.Release()
	if s.Population() != 0 {
		t.Errorf("population = %d, want 0", s.Population())
	}
}

func TestFailedSpawnDoesNotCount(t *testing.T) {
	cfg := defaultSpawner(t)
	cfg.InitialMin, cfg.InitialMax = 1, 1
	s := New(cfg, 3, rand.New(rand.NewSource(1)))

	attempts := 0
	for range 100 {
		s.Update(0.5, func(int, Position) bool {
			attempts++
			return false
		})
	}
	if attempts == 0 {
		t.Fatal("spawn callback never invoked")
	}
	if s.Population() != 0 {
		t.Errorf("population = %d after failed spawns, want 0", s.Population())
	}
}

func TestPopulationCapBlocksSpawns(t *testing.T) {
	cfg := defaultSpawner(t)
	cfg.PopulationCap = 2
	cfg.InitialMin, cfg.InitialMax = 0.5, 0.5
	s := New(cfg, 3, rand.New(rand.NewSource(1)))

	for range 200 {
		s.Update(0.5, alwaysSpawn)
	}
	if s.Population() != 2 {
		t.Errorf("population = %d, want cap 2", s.Population())
	}
}

func TestWeightedSelection(t *testing.T) {
	weights := SlotWeights(3, []float64{0.6, 0.3}, 0.1)
	rng := rand.New(rand.NewSource(7))
	const draws = 10000

	counts := make([]float64, len(weights))
	total := sum(weights)
	for range draws {
		counts[PickSlot(weights, rng.Float64()*total)]++
	}

	expected := make([]float64, len(weights))
	for i, w := range weights {
		expected[i] = w / total * draws
		if got := counts[i] / draws; math.Abs(got-w/total) > 0.02 {
			t.Errorf("slot %d frequency %.3f, want %.2f +/- 0.02", i, got, w/total)
		}
	}

	// df=2, p=0.001
	if chi := stat.ChiSquare(counts, expected); chi > 13.82 {
		t.Errorf("chi-square %.2f exceeds critical value", chi)
	}
}

func TestSlotWeights(t *testing.T) {
	got := SlotWeights(5, []float64{0.6, 0.3}, 0.1)
	want := []float64{0.6, 0.3, 0.1, 0.1, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("weight[%d] = %g, want %g", i, got[i], want[i])
		}
	}
	if PickSlot(nil, 0) != -1 {
		t.Error("PickSlot(nil) should be -1")
	}
	if PickSlot(want, 0) != 0 {
		t.Error("PickSlot(r=0) should pick the first slot")
	}
	if PickSlot(want, sum(want)) != 4 {
		t.Error("PickSlot(r=total) should pick the last slot")
	}
}

func TestPhasesAndDecay(t *testing.T) {
	cfg := defaultSpawner(t)
	cfg.StopSpawningAt = 1000
	cfg.GameTime = 1000
	s := New(cfg, 3, rand.New(rand.NewSource(5)))
	never := func(int, Position) bool { return false }

	run := func(until float64) {
		for s.Elapsed() < until {
			s.Update(0.5, never)
		}
	}

	run(200)
	if s.Phase() != PhaseInitial {
		t.Fatalf("phase at 200s = %s, want initial", s.Phase())
	}
	if s.UpperBound() != 8 {
		t.Errorf("upper bound at 200s = %g, want 8", s.UpperBound())
	}

	run(250)
	if s.Phase() != PhaseOne {
		t.Fatalf("phase at 250s = %s, want phase_one", s.Phase())
	}
	if iv := s.Interval(); iv < 1 || iv > 8 {
		t.Errorf("phase one interval %g outside [1,8]", iv)
	}
	if s.UpperBound() != 5 {
		t.Errorf("upper bound at 250s = %g, want 5", s.UpperBound())
	}

	run(370)
	if s.UpperBound() != 2 {
		t.Errorf("upper bound at 370s = %g, want 2", s.UpperBound())
	}

	run(485)
	if s.UpperBound() != 1 {
		t.Errorf("upper bound at 485s = %g, want clamp to 1", s.UpperBound())
	}
	if s.Phase() != PhaseTwo {
		t.Fatalf("phase at 485s = %s, want phase_two", s.Phase())
	}
	if iv := s.Interval(); iv < 1 || iv > 5 {
		t.Errorf("phase two interval %g outside [1,5]", iv)
	}
}

func TestPhaseRerollHappensOnce(t *testing.T) {
	cfg := defaultSpawner(t)
	s := New(cfg, 3, rand.New(rand.NewSource(9)))
	never := func(int, Position) bool { return false }

	for s.Elapsed() < 241 {
		s.Update(0.5, never)
	}
	iv := s.Interval()
	for s.Elapsed() < 250 {
		s.Update(0.5, never)
	}
	if s.Interval() != iv {
		t.Errorf("interval re-rolled without a spawn: %g -> %g", iv, s.Interval())
	}
}

func TestSpawningStopsAndClockRunsOut(t *testing.T) {
	cfg := defaultSpawner(t)
	cfg.InitialMin, cfg.InitialMax = 1, 1
	s := New(cfg, 3, rand.New(rand.NewSource(2)))

	var lastSpawnAt float64
	for range 2000 {
		if s.Update(0.5, alwaysSpawn) {
			lastSpawnAt = s.Elapsed()
		}
		if s.Population() > 0 {
			s.Release()
		}
	}
	if lastSpawnAt >= cfg.StopSpawningAt {
		t.Errorf("spawned at %gs, after the %gs cutoff", lastSpawnAt, cfg.StopSpawningAt)
	}
	if s.Elapsed() > cfg.GameTime+0.5 {
		t.Errorf("elapsed %g ran past game time", s.Elapsed())
	}
	if s.Clock() != "00:00:00" {
		t.Errorf("clock = %q, want 00:00:00", s.Clock())
	}
}

func TestShouldEnd(t *testing.T) {
	cfg := defaultSpawner(t)
	tests := []struct {
		name       string
		elapsed    float64
		cookable   bool
		wantEnding bool
	}{
		{"early, nothing cookable", 100, false, false},
		{"at stop, nothing cookable", 300, false, false},
		{"after stop, cookable left", 301, true, false},
		{"after stop, nothing cookable", 301, false, true},
		{"clock out, cookable left", 390, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(cfg, 3, rand.New(rand.NewSource(1)))
			s.elapsed = tt.elapsed
			if got := s.ShouldEnd(tt.cookable); got != tt.wantEnding {
				t.Errorf("ShouldEnd = %v, want %v", got, tt.wantEnding)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{390, "00:06:30"},
		{389.9, "00:06:29"},
		{3725, "01:02:05"},
		{0, "00:00:00"},
		{-4, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%g) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestPlacement(t *testing.T) {
	t.Run("single re-roll accepts a blocked point", func(t *testing.T) {
		cfg := defaultSpawner(t)
		cfg.Bounds = config.Bounds{MinX: 0, MaxX: 0.5, MinZ: 0, MaxZ: 0.5}
		cfg.Obstacles = []config.Point{{X: 0.25, Z: 0.25}}
		cfg.PlacementRetries = 1
		s := New(cfg, 3, rand.New(rand.NewSource(1)))

		pos := s.Place()
		if !s.Blocked(pos) {
			t.Fatal("expected the only reachable point to be blocked")
		}
		if pos.X < 0 || pos.X > 0.5 || pos.Z < 0 || pos.Z > 0.5 {
			t.Errorf("position %+v outside bounds", pos)
		}
	})

	t.Run("bounded retry avoids obstacles", func(t *testing.T) {
		cfg := defaultSpawner(t)
		cfg.Bounds = config.Bounds{MinX: 0, MaxX: 10, MinZ: 0, MaxZ: 10}
		cfg.Obstacles = []config.Point{{X: 5, Z: 5}}
		cfg.PlacementRetries = 50
		s := New(cfg, 3, rand.New(rand.NewSource(1)))

		for range 1000 {
			if pos := s.Place(); s.Blocked(pos) {
				t.Fatalf("placed on obstacle at %+v", pos)
			}
		}
	})

	t.Run("stays in bounds", func(t *testing.T) {
		cfg := defaultSpawner(t)
		s := New(cfg, 3, rand.New(rand.NewSource(1)))
		b := cfg.Bounds
		for range 1000 {
			pos := s.Place()
			if pos.X < b.MinX || pos.X > b.MaxX || pos.Z < b.MinZ || pos.Z > b.MaxZ {
				t.Fatalf("position %+v outside bounds", pos)
			}
		}
	})
}
