// Package fish implements the per-fish mood state machine and food judgement.
package fish

import "fmt"

// MoodState is a fish's behavioural phase.
type MoodState uint8

const (
	Chilling MoodState = iota
	Hungry
	Cooking
	Served
	LeavingHangry

	numMoodStates
)

var moodNames = [numMoodStates]string{
	Chilling:      "chilling",
	Hungry:        "hungry",
	Cooking:       "cooking",
	Served:        "served",
	LeavingHangry: "leaving_hangry",
}

func (s MoodState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("mood(%d)", uint8(s))
	}
	return moodNames[s]
}

// Valid reports whether s is one of the known mood states.
func (s MoodState) Valid() bool {
	return s < numMoodStates
}

// MarshalText encodes the state by name for JSON and logs.
func (s MoodState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseMoodState maps a state name back to its value.
func ParseMoodState(name string) (MoodState, bool) {
	for i, n := range moodNames {
		if n == name {
			return MoodState(i), true
		}
	}
	return 0, false
}

// transitions lists every legal edge. Anything else is rejected.
var transitions = map[MoodState][]MoodState{
	Chilling: {Hungry, Cooking},
	Hungry:   {Served, LeavingHangry, Cooking},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to MoodState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state ends with the fish leaving the restaurant.
func (s MoodState) Terminal() bool {
	return s == Served || s == LeavingHangry
}

// Departure says why a fish left the world.
type Departure uint8

const (
	DepartureServed   Departure = iota // judged a meal and left
	DepartureHangry                    // gave up waiting
	DepartureConsumed                  // eaten by another fish
	DepartureCleanup                   // removed at session end
)

func (d Departure) String() string {
	switch d {
	case DepartureServed:
		return "served"
	case DepartureHangry:
		return "hangry"
	case DepartureConsumed:
		return "consumed"
	case DepartureCleanup:
		return "cleanup"
	default:
		return fmt.Sprintf("departure(%d)", uint8(d))
	}
}

// MarshalText encodes the departure by name.
func (d Departure) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Verdict is the quality bucket a diner assigns to a meal.
type Verdict uint8

const (
	VerdictLow Verdict = iota
	VerdictMid
	VerdictHigh
)

func (v Verdict) String() string {
	switch v {
	case VerdictLow:
		return "low"
	case VerdictMid:
		return "mid"
	case VerdictHigh:
		return "high"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// MarshalText encodes the verdict by name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
