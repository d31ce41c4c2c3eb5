// Package spawner decides when new fish enter the restaurant, which species
// they are, and where they appear.
package spawner

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"github.com/pthm-cable/hangry/config"
)

// Phase is a stage of the spawn-interval schedule.
type Phase uint8

const (
	PhaseInitial Phase = iota // interval fixed from the initial draw
	PhaseOne                  // interval redrawn from a decaying range
	PhaseTwo                  // interval redrawn from the late range
)

func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseOne:
		return "phase_one"
	case PhaseTwo:
		return "phase_two"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Position is a spawn point on the floor plane.
type Position struct {
	X, Z float64
}

// SpawnFunc creates a fish of the given archetype slot at pos and reports
// whether the fish was actually created.
type SpawnFunc func(slot int, pos Position) bool

// Scheduler owns the population count and the spawn-interval policy.
type Scheduler struct {
	cfg     config.SpawnerConfig
	rng     *rand.Rand
	weights []float64

	population int
	elapsed    float64
	timer      float64
	interval   float64
	phase      Phase
	upper      float64 // decaying upper bound of the phase-one range
	sinceDecay float64
}

// New creates a scheduler for the given number of archetype slots.
func New(cfg config.SpawnerConfig, slots int, rng *rand.Rand) *Scheduler {
	s := &Scheduler{
		cfg:     cfg,
		rng:     rng,
		weights: SlotWeights(slots, cfg.SlotWeights, cfg.TailWeight),
		upper:   cfg.PhaseOneMax,
	}
	s.interval = s.uniform(cfg.InitialMin, cfg.InitialMax)
	return s
}

// Update advances the schedule by dt and spawns at most one fish.
// It returns true when a fish was created.
func (s *Scheduler) Update(dt float64, spawn SpawnFunc) bool {
	if s.elapsed > s.cfg.GameTime {
		return false
	}
	s.elapsed += dt

	if s.population >= s.cfg.PopulationCap {
		return false
	}

	spawned := false
	s.timer += dt
	if s.timer >= s.interval && s.elapsed < s.cfg.StopSpawningAt {
		spawned = s.spawnOne(spawn)
		s.timer = 0
		if spawned {
			s.redraw()
		}
	}

	if s.elapsed >= s.cfg.RampStart && s.elapsed < s.cfg.StopSpawningAt {
		s.adjust(dt)
	}
	return spawned
}

func (s *Scheduler) spawnOne(spawn SpawnFunc) bool {
	slot := PickSlot(s.weights, s.rng.Float64()*sum(s.weights))
	if slot < 0 {
		return false
	}
	pos := s.Place()
	if !spawn(slot, pos) {
		slog.Warn("spawn_failed", "slot", slot, "x", pos.X, "z", pos.Z)
		return false
	}
	s.population++
	return true
}

// redraw picks the next interval from the active phase range.
func (s *Scheduler) redraw() {
	switch s.phase {
	case PhaseOne:
		s.interval = s.uniform(s.cfg.PhaseOneMin, s.upper)
	case PhaseTwo:
		s.interval = s.uniform(s.cfg.PhaseTwoMin, s.cfg.PhaseTwoMax)
	}
}

// adjust enters later phases once each and decays the phase-one upper bound.
func (s *Scheduler) adjust(dt float64) {
	switch {
	case s.phase < PhaseTwo && s.elapsed >= s.cfg.PhaseTwoAt:
		s.enterPhase(PhaseTwo, s.cfg.PhaseTwoMin, s.cfg.PhaseTwoMax)
	case s.phase < PhaseOne && s.elapsed >= s.cfg.PhaseOneAt:
		s.enterPhase(PhaseOne, s.cfg.PhaseOneMin, s.upper)
	}

	s.sinceDecay += dt
	if s.sinceDecay >= s.cfg.DecayEvery {
		s.upper -= s.cfg.DecayStep
		s.sinceDecay = 0
	}
	if s.upper < s.cfg.PhaseOneMin {
		s.upper = s.cfg.PhaseOneMin
	}
}

func (s *Scheduler) enterPhase(p Phase, lo, hi float64) {
	s.phase = p
	s.interval = s.uniform(lo, hi)
	slog.Info("spawn_phase", "phase", p.String(), "elapsed", s.elapsed, "interval", s.interval)
}

func (s *Scheduler) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Float64()*(hi-lo)
}

// Release records that a fish left. The count never drops below zero.
func (s *Scheduler) Release() {
	if s.population == 0 {
		slog.Error("population_underflow", "elapsed", s.elapsed)
		return
	}
	s.population--
}

// Place draws a spawn point. A point within probe radius of an obstacle is
// re-rolled up to PlacementRetries times; the last draw is accepted as is.
func (s *Scheduler) Place() Position {
	pos := s.randomPosition()
	for i := 0; i < s.cfg.PlacementRetries && s.Blocked(pos); i++ {
		pos = s.randomPosition()
	}
	return pos
}

func (s *Scheduler) randomPosition() Position {
	b := s.cfg.Bounds
	return Position{
		X: s.uniform(b.MinX, b.MaxX),
		Z: s.uniform(b.MinZ, b.MaxZ),
	}
}

// Blocked reports whether pos overlaps a reserved obstacle.
func (s *Scheduler) Blocked(pos Position) bool {
	r2 := s.cfg.ProbeRadius * s.cfg.ProbeRadius
	for _, o := range s.cfg.Obstacles {
		dx, dz := pos.X-o.X, pos.Z-o.Z
		if dx*dx+dz*dz <= r2 {
			return true
		}
	}
	return false
}

// SpawningStopped reports whether the spawn window has closed.
func (s *Scheduler) SpawningStopped() bool {
	return s.elapsed >= s.cfg.StopSpawningAt
}

// ShouldEnd reports whether the session is over: the game clock ran out, or
// spawning has stopped and no live fish can still be cooked.
func (s *Scheduler) ShouldEnd(anyCookable bool) bool {
	if s.elapsed >= s.cfg.GameTime {
		return true
	}
	return s.elapsed > s.cfg.StopSpawningAt && !anyCookable
}

// Remaining returns the game time left, never negative.
func (s *Scheduler) Remaining() float64 {
	return math.Max(0, s.cfg.GameTime-s.elapsed)
}

// Clock formats the remaining game time as HH:MM:SS.
func (s *Scheduler) Clock() string {
	return FormatClock(s.Remaining())
}

// FormatClock formats seconds as HH:MM:SS, truncating fractions.
func FormatClock(seconds float64) string {
	total := int(math.Floor(math.Max(0, seconds)))
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Population returns the live fish count.
func (s *Scheduler) Population() int { return s.population }

// Cap returns the population cap.
func (s *Scheduler) Cap() int { return s.cfg.PopulationCap }

// Elapsed returns the session time in seconds.
func (s *Scheduler) Elapsed() float64 { return s.elapsed }

// Interval returns the current spawn interval.
func (s *Scheduler) Interval() float64 { return s.interval }

// Phase returns the current schedule phase.
func (s *Scheduler) Phase() Phase { return s.phase }

// UpperBound returns the decaying upper bound of the phase-one range.
func (s *Scheduler) UpperBound() float64 { return s.upper }

// Weights returns the per-slot selection weights.
func (s *Scheduler) Weights() []float64 { return s.weights }
