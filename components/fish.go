// Package components defines ECS components for the restaurant floor.
package components

// Fish identifies a diner entity. Mood and timers live in its controller,
// keyed by ID.
type Fish struct {
	ID        uint32
	Archetype uint8
	SpawnTick int32
}
