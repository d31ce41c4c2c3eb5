package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated service statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Census at window end
	Population int `csv:"population"`
	Chilling   int `csv:"chilling"`
	Hungry     int `csv:"hungry"`
	Cooking    int `csv:"cooking"`
	Served     int `csv:"served"`
	Leaving    int `csv:"leaving"`
	HungryPeak int `csv:"hungry_peak"`

	// Events during window
	Spawns   int `csv:"spawns"`
	Cooked   int `csv:"cooked"`
	Meals    int `csv:"meals"`
	Judged   int `csv:"judged"`
	Hangry   int `csv:"hangry"`
	Consumed int `csv:"consumed"`

	VerdictLow  int `csv:"verdict_low"`
	VerdictMid  int `csv:"verdict_mid"`
	VerdictHigh int `csv:"verdict_high"`

	// Meal quality distribution
	QualityMean float64 `csv:"quality_mean"`
	QualityP10  float64 `csv:"quality_p10"`
	QualityP50  float64 `csv:"quality_p50"`
	QualityP90  float64 `csv:"quality_p90"`

	// Hungry-to-served wait distribution (seconds)
	WaitMean float64 `csv:"wait_mean"`
	WaitP50  float64 `csv:"wait_p50"`
	WaitP90  float64 `csv:"wait_p90"`

	// Running session rating
	RatingAvg   float64 `csv:"rating_avg"`
	RatingCount int     `csv:"rating_count"`

	// Spawn schedule
	SpawnPhase    string  `csv:"spawn_phase"`
	SpawnInterval float64 `csv:"spawn_interval"`
}

// Percentile returns the p-th empirical quantile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeStats calculates mean and percentiles of values.
func ComputeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("hungry", s.Hungry),
		slog.Int("hungry_peak", s.HungryPeak),
		slog.Int("spawns", s.Spawns),
		slog.Int("meals", s.Meals),
		slog.Int("hangry", s.Hangry),
		slog.Float64("quality_mean", s.QualityMean),
		slog.Float64("wait_mean", s.WaitMean),
		slog.Float64("rating_avg", s.RatingAvg),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"chilling", s.Chilling,
		"hungry", s.Hungry,
		"cooking", s.Cooking,
		"served", s.Served,
		"leaving", s.Leaving,
		"hungry_peak", s.HungryPeak,
		"spawns", s.Spawns,
		"cooked", s.Cooked,
		"meals", s.Meals,
		"judged", s.Judged,
		"hangry", s.Hangry,
		"consumed", s.Consumed,
		"verdict_low", s.VerdictLow,
		"verdict_mid", s.VerdictMid,
		"verdict_high", s.VerdictHigh,
		"quality_mean", s.QualityMean,
		"quality_p10", s.QualityP10,
		"quality_p50", s.QualityP50,
		"quality_p90", s.QualityP90,
		"wait_mean", s.WaitMean,
		"wait_p50", s.WaitP50,
		"wait_p90", s.WaitP90,
		"rating_avg", s.RatingAvg,
		"rating_count", s.RatingCount,
		"spawn_phase", s.SpawnPhase,
		"spawn_interval", s.SpawnInterval,
	)
}
