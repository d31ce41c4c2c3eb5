package fish

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/hangry/config"
)

// Archetype is a fish species index into Params.Archetypes.
type Archetype uint8

const (
	Anchovy Archetype = iota
	Tuna
	Salmon
)

var defaultArchetypeNames = []string{"anchovy", "tuna", "salmon"}

func (a Archetype) String() string {
	if int(a) < len(defaultArchetypeNames) {
		return defaultArchetypeNames[a]
	}
	return fmt.Sprintf("archetype(%d)", uint8(a))
}

// MarshalText encodes the archetype by name.
func (a Archetype) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ArchetypeParams is one species' judgement data.
type ArchetypeParams struct {
	Name        string
	Coefficient float64
}

// Params holds the timings and thresholds shared by every controller.
type Params struct {
	HungerMin       float64
	HungerMax       float64
	FeedingDuration float64
	JudgeDelay      float64
	HangryDelay     float64
	CookReference   float64
	MaxQuality      float64
	VerdictLow      float64
	VerdictHigh     float64
	Archetypes      []ArchetypeParams
}

// ParamsFromConfig extracts controller parameters from the loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	p := Params{
		HungerMin:       cfg.Fish.HungerMin,
		HungerMax:       cfg.Fish.HungerMax,
		FeedingDuration: cfg.Fish.FeedingDuration,
		JudgeDelay:      cfg.Fish.JudgeDelay,
		HangryDelay:     cfg.Fish.HangryDelay,
		CookReference:   cfg.Fish.CookReference,
		MaxQuality:      cfg.Fish.MaxQuality,
		VerdictLow:      cfg.Fish.VerdictLow,
		VerdictHigh:     cfg.Fish.VerdictHigh,
		Archetypes:      make([]ArchetypeParams, len(cfg.Archetypes)),
	}
	for i, a := range cfg.Archetypes {
		p.Archetypes[i] = ArchetypeParams{Name: a.Name, Coefficient: a.QualityCoefficient}
	}
	return p
}

// ArchetypeName returns the configured name for a, falling back to the built-in names.
func (p Params) ArchetypeName(a Archetype) string {
	if int(a) < len(p.Archetypes) {
		return p.Archetypes[a].Name
	}
	return a.String()
}

// Quality maps a cook duration to a meal quality for the archetype.
// ok is false when the archetype is not configured.
func (p Params) Quality(a Archetype, cookTime float64) (q float64, ok bool) {
	if int(a) >= len(p.Archetypes) {
		return 0, false
	}
	fraction := cookTime / p.CookReference
	q = fraction * p.MaxQuality * p.Archetypes[a].Coefficient
	return clamp(q, 0, p.MaxQuality), true
}

// Verdict buckets a quality value.
func (p Params) Verdict(quality float64) Verdict {
	switch {
	case quality < p.VerdictLow:
		return VerdictLow
	case quality < p.VerdictHigh:
		return VerdictMid
	default:
		return VerdictHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func logUnknownArchetype(id uint32, a Archetype) {
	slog.Error("unknown_archetype", "fish_id", id, "archetype", uint8(a))
}
