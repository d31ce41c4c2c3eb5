package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/game"
	"github.com/pthm-cable/hangry/telemetry"
)

// FitnessEvaluator runs headless sessions and scores how close the
// autopilot kitchen lands to a target rating.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	target     float64
	maxTicks   int32

	mu          sync.Mutex
	bestFitness float64
	bestSummary game.Summary
	lastAverage float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, seeds []int64, baseCfg *config.Config, target float64, maxTicks int32) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		target:      target,
		maxTicks:    maxTicks,
		bestFitness: math.Inf(1),
	}
}

// BestSummary returns a session summary from the best evaluation.
func (fe *FitnessEvaluator) BestSummary() game.Summary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// LastAverage returns the mean rating of the most recent evaluation.
func (fe *FitnessEvaluator) LastAverage() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastAverage
}

// runResult holds the results from a single session.
type runResult struct {
	summary game.Summary
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSession(x, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	averages := make([]float64, len(results))
	best := 0
	for i, r := range results {
		fitness[i] = fe.computeFitness(r)
		averages[i] = r.summary.Average
		if fitness[i] < fitness[best] {
			best = i
		}
	}
	avgFitness := stat.Mean(fitness, nil)

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSummary = results[best].summary
	}
	fe.lastAverage = stat.Mean(averages, nil)
	fe.mu.Unlock()

	return avgFitness
}

// runSession plays one session to the end with the chef on autopilot.
func (fe *FitnessEvaluator) runSession(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	var result runResult
	g := game.NewGameWithOptions(game.Options{
		Config:         cfg,
		Seed:           seed,
		StepsPerUpdate: 1,
		AutoStart:      true,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	defer g.Close()

	for g.State() != game.StateOver && g.Tick() < fe.maxTicks {
		g.Update()
	}
	if g.State() != game.StateOver {
		_ = g.End()
	}
	result.summary, _ = g.Summary()
	return result
}

// copyConfig returns a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Archetypes = append([]config.ArchetypeConfig(nil), fe.baseConfig.Archetypes...)
	cfg.Spawner.SlotWeights = append([]float64(nil), fe.baseConfig.Spawner.SlotWeights...)
	cfg.Spawner.Obstacles = append([]config.Point(nil), fe.baseConfig.Spawner.Obstacles...)
	return &cfg
}

// Fitness component weights.
const (
	weightRating = 1.0
	weightHangry = 2.0
	weightWait   = 0.02
)

// computeFitness scores a session (lower = better): squared distance of
// the average from the target, plus penalties for hangry departures and
// long waits.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	s := r.summary
	if s.Ratings == 0 {
		return fe.target * fe.target * weightRating
	}
	d := s.Average - fe.target
	hangryFrac := float64(s.Hangry) / float64(s.Ratings)

	var waits []float64
	for _, w := range r.windows {
		if w.Meals > 0 {
			waits = append(waits, w.WaitMean)
		}
	}
	var wait float64
	if len(waits) > 0 {
		wait = stat.Mean(waits, nil)
	}
	return weightRating*d*d + weightHangry*hangryFrac + weightWait*wait
}
