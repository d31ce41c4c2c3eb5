package telemetry

// LifetimeStats tracks one fish from spawn to departure.
type LifetimeStats struct {
	SpawnTick int32
	Archetype string

	HungryTick int32 // -1 until the fish first gets hungry
	ServedTick int32 // -1 until a meal is handed over
	CookedTick int32 // -1 unless the fish itself was cooked

	Quality float64
	Verdict string
}

// WaitSec returns the seconds between getting hungry and being served, or 0
// if either moment has not happened.
func (ls *LifetimeStats) WaitSec(dt float64) float64 {
	if ls == nil || ls.HungryTick < 0 || ls.ServedTick < ls.HungryTick {
		return 0
	}
	return float64(ls.ServedTick-ls.HungryTick) * dt
}

// LifetimeTracker manages per-fish lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register starts tracking a newly spawned fish.
func (lt *LifetimeTracker) Register(id uint32, tick int32, archetype string) {
	lt.stats[id] = &LifetimeStats{
		SpawnTick:  tick,
		Archetype:  archetype,
		HungryTick: -1,
		ServedTick: -1,
		CookedTick: -1,
	}
}

// Get returns the stats for a fish, or nil if not tracked.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove stops tracking a fish and returns its stats.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// MarkHungry records the tick a fish became hungry. Only the first call
// counts so a paused and resumed fish keeps its original wait.
func (lt *LifetimeTracker) MarkHungry(id uint32, tick int32) {
	if s := lt.stats[id]; s != nil && s.HungryTick < 0 {
		s.HungryTick = tick
	}
}

// MarkCooked records the tick a fish came off the grill and its quality.
func (lt *LifetimeTracker) MarkCooked(id uint32, tick int32, quality float64) {
	if s := lt.stats[id]; s != nil {
		s.CookedTick = tick
		s.Quality = quality
	}
}

// MarkServed records a served meal and returns the wait in seconds.
func (lt *LifetimeTracker) MarkServed(id uint32, tick int32, quality float64, verdict string, dt float64) float64 {
	s := lt.stats[id]
	if s == nil {
		return 0
	}
	s.ServedTick = tick
	s.Quality = quality
	s.Verdict = verdict
	return s.WaitSec(dt)
}

// All returns all tracked stats.
func (lt *LifetimeTracker) All() map[uint32]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked fish.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
