// Package telemetry provides service tracking, bookmarking, and snapshots for a restaurant session.
package telemetry

import (
	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/rating"
)

// EventType identifies session events.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSpawned        EventType = "spawned"
	EventStateChanged   EventType = "state_changed"
	EventCooked         EventType = "cooked"
	EventServed         EventType = "served"
	EventJudged         EventType = "judged"
	EventDeparted       EventType = "departed"
	EventPaused         EventType = "paused"
	EventResumed        EventType = "resumed"
	EventSessionOver    EventType = "session_over"
)

// Event is a single session event. It is the unit broadcast to observers
// and counted by the Collector.
type Event struct {
	Seq  int       `json:"seq"`
	Type EventType `json:"type"`
	Tick int32     `json:"tick"`
	Time float64   `json:"time"`

	FishID    uint32  `json:"fish_id,omitempty"`
	Archetype string  `json:"archetype,omitempty"`
	From      string  `json:"from,omitempty"`
	To        string  `json:"to,omitempty"`
	X         float64 `json:"x,omitempty"`
	Z         float64 `json:"z,omitempty"`

	// served / departed
	FoodID  uint32  `json:"food_id,omitempty"`
	Verdict string  `json:"verdict,omitempty"`
	Quality float64 `json:"quality,omitempty"`
	Wait    float64 `json:"wait,omitempty"` // seconds between hungry and served
	Reason  string  `json:"reason,omitempty"`
	Rating  float64 `json:"rating,omitempty"`

	// session_over
	Average float64 `json:"average,omitempty"`
	Outcome string  `json:"outcome,omitempty"`
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int32, t float64, id uint32, archetype string, x, z float64) Event {
	return Event{Type: EventSpawned, Tick: tick, Time: t, FishID: id, Archetype: archetype, X: x, Z: z}
}

// NewStateEvent creates a mood transition event.
func NewStateEvent(tick int32, t float64, id uint32, from, to fish.MoodState) Event {
	return Event{Type: EventStateChanged, Tick: tick, Time: t, FishID: id, From: from.String(), To: to.String()}
}

// NewCookedEvent creates an event for a fish coming off the grill.
func NewCookedEvent(tick int32, t float64, id uint32, quality float64) Event {
	return Event{Type: EventCooked, Tick: tick, Time: t, FishID: id, Quality: quality}
}

// NewServedEvent creates an event for a meal handed to a hungry fish.
func NewServedEvent(tick int32, t float64, dinerID, foodID uint32, v fish.Verdict, quality, wait float64) Event {
	return Event{
		Type:    EventServed,
		Tick:    tick,
		Time:    t,
		FishID:  dinerID,
		FoodID:  foodID,
		Verdict: v.String(),
		Quality: quality,
		Wait:    wait,
	}
}

// NewJudgedEvent creates an event for a diner rating its meal.
func NewJudgedEvent(tick int32, t float64, id uint32, v fish.Verdict, ratingDelta float64) Event {
	return Event{Type: EventJudged, Tick: tick, Time: t, FishID: id, Verdict: v.String(), Rating: ratingDelta}
}

// NewDepartedEvent creates an event for a fish leaving the world.
func NewDepartedEvent(tick int32, t float64, id uint32, reason fish.Departure, ratingDelta float64) Event {
	return Event{Type: EventDeparted, Tick: tick, Time: t, FishID: id, Reason: reason.String(), Rating: ratingDelta}
}

// NewSessionEvent creates a start, pause or resume event.
func NewSessionEvent(typ EventType, tick int32, t float64) Event {
	return Event{Type: typ, Tick: tick, Time: t}
}

// NewSessionOverEvent creates the final event of a session.
func NewSessionOverEvent(tick int32, t, avg float64, o rating.Outcome) Event {
	return Event{Type: EventSessionOver, Tick: tick, Time: t, Average: avg, Outcome: o.String()}
}
