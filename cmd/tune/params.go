// Package main tunes session difficulty by searching kitchen and spawner
// parameters with CMA-ES.
package main

import (
	"math"

	"github.com/pthm-cable/hangry/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded when applied
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Kitchen
			{Name: "chef_target_cook", Path: "chef.target_cook", Min: 1, Max: 10, Default: 5},
			{Name: "chef_reaction", Path: "chef.reaction", Min: 0.1, Max: 5, Default: 0.5},
			{Name: "chef_grills", Path: "chef.grills", Min: 1, Max: 4, Default: 1, Integer: true},
			// Diners
			{Name: "feeding_duration", Path: "fish.feeding_duration", Min: 20, Max: 120, Default: 60},
			// Spawner
			{Name: "phase_one_max", Path: "spawner.phase_one_max", Min: 2, Max: 15, Default: 8},
			{Name: "population_cap", Path: "spawner.population_cap", Min: 10, Max: 60, Default: 40, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp bounds every value and rounds integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := math.Min(math.Max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes parameter values into cfg. Order matches Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	cfg.Chef.Enabled = true
	cfg.Chef.TargetCook = c[0]
	cfg.Chef.Reaction = c[1]
	cfg.Chef.Grills = int(c[2])
	cfg.Fish.FeedingDuration = c[3]
	cfg.Spawner.PhaseOneMax = math.Max(c[4], cfg.Spawner.PhaseOneMin)
	cfg.Spawner.PopulationCap = int(c[5])
}

// ExtractFromConfig reads the current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Chef.TargetCook,
		cfg.Chef.Reaction,
		float64(cfg.Chef.Grills),
		cfg.Fish.FeedingDuration,
		cfg.Spawner.PhaseOneMax,
		float64(cfg.Spawner.PopulationCap),
	}
}
