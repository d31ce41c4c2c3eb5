package game

import (
	"log/slog"

	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/telemetry"
)

// step runs a single tick of the session.
func (g *Game) step() {
	dt := g.cfg.Sim.DT
	g.perfCollector.StartTick()

	// 1. Spawn
	g.perfCollector.StartPhase(telemetry.PhaseSpawner)
	g.scheduler.Update(dt, g.spawnFish)

	// 2. Moods
	g.perfCollector.StartPhase(telemetry.PhaseMoods)
	g.updateMoods(dt)

	// 3. Kitchen
	g.perfCollector.StartPhase(telemetry.PhaseKitchen)
	if g.chef != nil {
		g.chef.Update(g, dt)
	}

	// 4. Remove departed fish from the world
	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.flushRemovals()
	g.collector.ObserveHungry(g.countState(fish.Hungry))

	g.tick++
	g.clock += dt

	// 5. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()

	if g.scheduler.ShouldEnd(g.anyCookable()) {
		if err := g.End(); err != nil {
			slog.Error("session_end_failed", "error", err)
		}
	}
}

// updateMoods advances every controller. Fish removed during the loop stay
// in order until flushRemovals, so indices are stable.
func (g *Game) updateMoods(dt float64) {
	for _, id := range g.order {
		e := g.fish[id]
		if e.removed {
			continue
		}
		e.ctrl.Update(dt)
	}
}

// flushRemovals deletes removed fish from the world. It must not run during a query.
func (g *Game) flushRemovals() {
	if len(g.pending) == 0 {
		return
	}
	for _, id := range g.pending {
		e := g.fish[id]
		if g.world.Alive(e.entity) {
			g.world.RemoveEntity(e.entity)
		}
		delete(g.fish, id)
	}
	g.pending = g.pending[:0]

	live := g.order[:0]
	for _, id := range g.order {
		if _, ok := g.fish[id]; ok {
			live = append(live, id)
		}
	}
	g.order = live
}
