package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for a session step.
const (
	PhaseSpawner   = "spawner"
	PhaseMoods     = "moods"
	PhaseKitchen   = "kitchen"
	PhaseCleanup   = "cleanup"
	PhaseTelemetry = "telemetry"
)

// Phases lists step phases in execution order.
var Phases = []string{PhaseSpawner, PhaseMoods, PhaseKitchen, PhaseCleanup, PhaseTelemetry}

type perfSample struct {
	tick   time.Duration
	phases map[string]time.Duration
}

// PerfCollector times session steps over a rolling window of ticks.
type PerfCollector struct {
	samples []perfSample
	next    int
	count   int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]perfSample, windowSize),
		current: make(map[string]time.Duration),
		now:     time.Now,
	}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.phase = phase
}

// EndTick closes the running phase and stores the sample.
func (p *PerfCollector) EndTick() {
	now := p.now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
	p.samples[p.next] = perfSample{tick: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
	p.phase = ""
}

// PerfStats holds aggregated step timing.
type PerfStats struct {
	AvgTick time.Duration
	MinTick time.Duration
	MaxTick time.Duration
	P99Tick time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.count == 0 {
		return out
	}

	ticks := make([]float64, p.count)
	phaseSum := make(map[string]time.Duration)
	for i := range p.count {
		s := p.samples[i]
		ticks[i] = float64(s.tick)
		for name, d := range s.phases {
			phaseSum[name] += d
		}
	}
	sort.Float64s(ticks)

	out.AvgTick = time.Duration(stat.Mean(ticks, nil))
	out.MinTick = time.Duration(ticks[0])
	out.MaxTick = time.Duration(ticks[len(ticks)-1])
	out.P99Tick = time.Duration(stat.Quantile(0.99, stat.Empirical, ticks, nil))

	for name, sum := range phaseSum {
		avg := sum / time.Duration(p.count)
		out.PhaseAvg[name] = avg
		if out.AvgTick > 0 {
			out.PhasePct[name] = float64(avg) / float64(out.AvgTick) * 100
		}
	}
	if out.AvgTick > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTick)
	}
	return out
}

// LogStats logs step timing.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTick.Microseconds(),
		"min_tick_us", s.MinTick.Microseconds(),
		"max_tick_us", s.MaxTick.Microseconds(),
		"p99_tick_us", s.P99Tick.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTick.Microseconds()),
		slog.Int64("p99_tick_us", s.P99Tick.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is the flat perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P99TickUS    int64   `csv:"p99_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	SpawnerPct   float64 `csv:"spawner_pct"`
	MoodsPct     float64 `csv:"moods_pct"`
	KitchenPct   float64 `csv:"kitchen_pct"`
	CleanupPct   float64 `csv:"cleanup_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens PerfStats into a CSV row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTick.Microseconds(),
		MinTickUS:    s.MinTick.Microseconds(),
		MaxTickUS:    s.MaxTick.Microseconds(),
		P99TickUS:    s.P99Tick.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		SpawnerPct:   s.PhasePct[PhaseSpawner],
		MoodsPct:     s.PhasePct[PhaseMoods],
		KitchenPct:   s.PhasePct[PhaseKitchen],
		CleanupPct:   s.PhasePct[PhaseCleanup],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
