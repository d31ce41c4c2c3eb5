package game

import (
	"log/slog"

	"github.com/pthm-cable/hangry/components"
	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/spawner"
	"github.com/pthm-cable/hangry/telemetry"
)

// spawnFish creates a diner entity and its controller. It is the scheduler's
// spawn callback and reports whether a fish was created.
func (g *Game) spawnFish(slot int, pos spawner.Position) bool {
	if slot < 0 || slot >= len(g.params.Archetypes) {
		slog.Error("spawn_unknown_archetype", "slot", slot)
		return false
	}
	arch := fish.Archetype(slot)

	id := g.nextID
	g.nextID++

	p := components.Position{X: pos.X, Z: pos.Z}
	f := components.Fish{ID: id, Archetype: uint8(slot), SpawnTick: g.tick}
	entity := g.fishMapper.NewEntity(&p, &f)

	e := &fishEntry{g: g, entity: entity}
	e.ctrl = fish.NewController(id, arch, g.params, fish.Deps{
		Rating:  e,
		Remover: g,
		Penalty: g.penalty,
		Rng:     g.rng,
	})
	e.ctrl.Subscribe(g.onStateChange)

	g.fish[id] = e
	g.order = append(g.order, id)
	g.counts.spawned++

	name := g.params.ArchetypeName(arch)
	g.lifetimeTracker.Register(id, g.tick, name)
	slog.Debug("fish_spawned", "fish_id", id, "archetype", name, "x", pos.X, "z", pos.Z)
	g.emit(telemetry.NewSpawnEvent(g.tick, g.clock, id, name, pos.X, pos.Z))
	return true
}

func (g *Game) onStateChange(id uint32, from, to fish.MoodState) {
	if to == fish.Hungry {
		g.lifetimeTracker.MarkHungry(id, g.tick)
	}
	slog.Debug("fish_state", "fish_id", id, "from", from, "to", to)
	g.emit(telemetry.NewStateEvent(g.tick, g.clock, id, from, to))
}
