// Package config provides configuration loading and access for the restaurant simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Sim        SimConfig         `yaml:"sim"`
	Fish       FishConfig        `yaml:"fish"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"`
	Spawner    SpawnerConfig     `yaml:"spawner"`
	Rating     RatingConfig      `yaml:"rating"`
	Chef       ChefConfig        `yaml:"chef"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Bookmarks  BookmarksConfig   `yaml:"bookmarks"`
	Server     ServerConfig      `yaml:"server"`
	Storage    StorageConfig     `yaml:"storage"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimConfig holds the fixed timestep settings.
type SimConfig struct {
	DT        float64 `yaml:"dt"`         // Seconds per tick
	TargetTPS int     `yaml:"target_tps"` // Real-time host ticks per second
}

// FishConfig holds per-fish mood timings and judgement thresholds.
type FishConfig struct {
	HungerMin       float64 `yaml:"hunger_min"`       // Lower bound of the chilling countdown
	HungerMax       float64 `yaml:"hunger_max"`       // Upper bound of the chilling countdown
	FeedingDuration float64 `yaml:"feeding_duration"` // Hungry patience before leaving hangry
	JudgeDelay      float64 `yaml:"judge_delay"`      // Served -> judged
	HangryDelay     float64 `yaml:"hangry_delay"`     // LeavingHangry -> removed
	CookReference   float64 `yaml:"cook_reference"`   // Cook seconds that map to full quality for coef 1
	MaxQuality      float64 `yaml:"max_quality"`
	VerdictLow      float64 `yaml:"verdict_low"`  // quality < this is a low verdict
	VerdictHigh     float64 `yaml:"verdict_high"` // quality >= this is a high verdict
}

// ArchetypeConfig defines one fish species.
type ArchetypeConfig struct {
	Name               string  `yaml:"name"`
	QualityCoefficient float64 `yaml:"quality_coefficient"`
}

// SpawnerConfig holds the spawn schedule and placement parameters.
type SpawnerConfig struct {
	PopulationCap    int       `yaml:"population_cap"`
	InitialMin       float64   `yaml:"initial_min"`
	InitialMax       float64   `yaml:"initial_max"`
	RampStart        float64   `yaml:"ramp_start"` // Elapsed seconds before decay begins
	PhaseOneAt       float64   `yaml:"phase_one_at"`
	PhaseOneMin      float64   `yaml:"phase_one_min"`
	PhaseOneMax      float64   `yaml:"phase_one_max"`
	PhaseTwoAt       float64   `yaml:"phase_two_at"`
	PhaseTwoMin      float64   `yaml:"phase_two_min"`
	PhaseTwoMax      float64   `yaml:"phase_two_max"`
	DecayEvery       float64   `yaml:"decay_every"`
	DecayStep        float64   `yaml:"decay_step"`
	StopSpawningAt   float64   `yaml:"stop_spawning_at"`
	GameTime         float64   `yaml:"game_time"`
	SlotWeights      []float64 `yaml:"slot_weights"`
	TailWeight       float64   `yaml:"tail_weight"` // Weight for every slot past SlotWeights
	PlacementRetries int       `yaml:"placement_retries"`
	ProbeRadius      float64   `yaml:"probe_radius"`
	Bounds           Bounds    `yaml:"bounds"`
	Obstacles        []Point   `yaml:"obstacles"`
}

// Bounds is an axis-aligned rectangle on the floor plane.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinZ float64 `yaml:"min_z"`
	MaxZ float64 `yaml:"max_z"`
}

// Point is a floor-plane coordinate.
type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// RatingConfig holds the rating range and hangry penalty policy.
type RatingConfig struct {
	Max           float64 `yaml:"max"`
	HangryPenalty string  `yaml:"hangry_penalty"` // "random" or "fixed"
	RandomMax     float64 `yaml:"random_max"`     // Upper bound (exclusive) of the random penalty
	FixedPenalty  float64 `yaml:"fixed_penalty"`
}

// ChefConfig holds the scripted kitchen parameters.
type ChefConfig struct {
	Enabled    bool    `yaml:"enabled"`
	Grills     int     `yaml:"grills"`      // Concurrent cooking slots
	TargetCook float64 `yaml:"target_cook"` // Seconds on the grill
	Reaction   float64 `yaml:"reaction"`    // Seconds between kitchen decisions
	Station    Point   `yaml:"station"`     // Chilling fish nearest here are cooked first
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	HallOfFameSize      int     `yaml:"hall_of_fame_size"` // Best meals kept per archetype
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	Rush     RushConfig     `yaml:"rush"`
	Meltdown MeltdownConfig `yaml:"meltdown"`
	Flawless FlawlessConfig `yaml:"flawless"`
}

// RushConfig flags windows where the hungry peak jumps well above recent history.
type RushConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinHungry  int     `yaml:"min_hungry"`
}

// MeltdownConfig flags windows with a burst of hangry departures.
type MeltdownConfig struct {
	MinHangry int `yaml:"min_hangry"`
}

// FlawlessConfig flags windows where every judgement was high.
type FlawlessConfig struct {
	MinServed int `yaml:"min_served"`
}

// ServerConfig holds the realtime control server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StorageConfig holds session result persistence settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int              // Telemetry.StatsWindow / Sim.DT
	ArchetypeIndex   map[string]uint8 // name -> index for archetype lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects configurations whose ranges cannot drive a session.
func (c *Config) Validate() error {
	var errs []error
	if c.Sim.DT <= 0 {
		errs = append(errs, errors.New("sim.dt must be positive"))
	}
	if c.Fish.HungerMin < 0 || c.Fish.HungerMax < c.Fish.HungerMin {
		errs = append(errs, fmt.Errorf("fish.hunger range [%g,%g] is invalid", c.Fish.HungerMin, c.Fish.HungerMax))
	}
	if c.Fish.CookReference <= 0 {
		errs = append(errs, errors.New("fish.cook_reference must be positive"))
	}
	if c.Fish.VerdictHigh < c.Fish.VerdictLow {
		errs = append(errs, errors.New("fish.verdict_high must not be below verdict_low"))
	}
	if len(c.Archetypes) == 0 {
		errs = append(errs, errors.New("at least one archetype is required"))
	}
	s := c.Spawner
	if s.PopulationCap <= 0 {
		errs = append(errs, errors.New("spawner.population_cap must be positive"))
	}
	if s.InitialMax < s.InitialMin || s.PhaseOneMax < s.PhaseOneMin || s.PhaseTwoMax < s.PhaseTwoMin {
		errs = append(errs, errors.New("spawner interval ranges must have max >= min"))
	}
	if s.PlacementRetries < 0 {
		errs = append(errs, errors.New("spawner.placement_retries must not be negative"))
	}
	if s.Bounds.MaxX < s.Bounds.MinX || s.Bounds.MaxZ < s.Bounds.MinZ {
		errs = append(errs, errors.New("spawner.bounds are inverted"))
	}
	switch c.Rating.HangryPenalty {
	case "random", "fixed":
	default:
		errs = append(errs, fmt.Errorf("rating.hangry_penalty %q must be random or fixed", c.Rating.HangryPenalty))
	}
	if c.Chef.Enabled && c.Chef.Grills <= 0 {
		errs = append(errs, errors.New("chef.grills must be positive when the chef is enabled"))
	}
	if c.Telemetry.StatsWindow <= 0 {
		errs = append(errs, errors.New("telemetry.stats_window must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StatsWindowTicks = int(math.Round(c.Telemetry.StatsWindow / c.Sim.DT))
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}

	c.Derived.ArchetypeIndex = make(map[string]uint8, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		c.Derived.ArchetypeIndex[arch.Name] = uint8(i)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
