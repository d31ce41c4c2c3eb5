package telemetry

import "github.com/pthm-cable/hangry/fish"

// Census is a count of live fish by mood, sampled at window end.
type Census struct {
	Population int
	Chilling   int
	Hungry     int
	Cooking    int
	Served     int
	Leaving    int
}

// Add counts one fish in state s.
func (c *Census) Add(s fish.MoodState) {
	c.Population++
	switch s {
	case fish.Chilling:
		c.Chilling++
	case fish.Hungry:
		c.Hungry++
	case fish.Cooking:
		c.Cooking++
	case fish.Served:
		c.Served++
	case fish.LeavingHangry:
		c.Leaving++
	}
}

// Schedule describes the spawner state at window end.
type Schedule struct {
	Phase    string
	Interval float64
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	spawns     int
	cooked     int
	meals      int
	judged     int
	hangry     int
	consumed   int
	verdicts   [3]int
	qualities  []float64
	waits      []float64
	hungryPeak int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec/dt + 0.5)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts a session event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawned:
		c.spawns++
	case EventCooked:
		c.cooked++
	case EventServed:
		c.meals++
		c.qualities = append(c.qualities, ev.Quality)
		c.waits = append(c.waits, ev.Wait)
		switch ev.Verdict {
		case fish.VerdictLow.String():
			c.verdicts[fish.VerdictLow]++
		case fish.VerdictMid.String():
			c.verdicts[fish.VerdictMid]++
		case fish.VerdictHigh.String():
			c.verdicts[fish.VerdictHigh]++
		}
	case EventJudged:
		c.judged++
	case EventDeparted:
		switch ev.Reason {
		case fish.DepartureHangry.String():
			c.hangry++
		case fish.DepartureConsumed.String():
			c.consumed++
		}
	}
}

// ObserveHungry tracks the peak number of simultaneously hungry fish.
func (c *Collector) ObserveHungry(n int) {
	if n > c.hungryPeak {
		c.hungryPeak = n
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, census Census, ratingAvg float64, ratingCount int, sched Schedule) WindowStats {
	qMean, qP10, qP50, qP90 := ComputeStats(c.qualities)
	wMean, _, wP50, wP90 := ComputeStats(c.waits)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Population: census.Population,
		Chilling:   census.Chilling,
		Hungry:     census.Hungry,
		Cooking:    census.Cooking,
		Served:     census.Served,
		Leaving:    census.Leaving,
		HungryPeak: max(c.hungryPeak, census.Hungry),

		Spawns:   c.spawns,
		Cooked:   c.cooked,
		Meals:    c.meals,
		Judged:   c.judged,
		Hangry:   c.hangry,
		Consumed: c.consumed,

		VerdictLow:  c.verdicts[fish.VerdictLow],
		VerdictMid:  c.verdicts[fish.VerdictMid],
		VerdictHigh: c.verdicts[fish.VerdictHigh],

		QualityMean: qMean,
		QualityP10:  qP10,
		QualityP50:  qP50,
		QualityP90:  qP90,

		WaitMean: wMean,
		WaitP50:  wP50,
		WaitP90:  wP90,

		RatingAvg:   ratingAvg,
		RatingCount: ratingCount,

		SpawnPhase:    sched.Phase,
		SpawnInterval: sched.Interval,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.cooked = 0
	c.meals = 0
	c.judged = 0
	c.hangry = 0
	c.consumed = 0
	c.verdicts = [3]int{}
	c.qualities = c.qualities[:0]
	c.waits = c.waits[:0]
	c.hungryPeak = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
