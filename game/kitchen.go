package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/telemetry"
)

func (g *Game) requirePlaying(op string) error {
	if g.state != StatePlaying {
		return fmt.Errorf("%s: %w (is %s)", op, ErrNotPlaying, g.state)
	}
	return nil
}

// Cook puts a fish on the grill.
func (g *Game) Cook(id uint32) error {
	if err := g.requirePlaying("cook"); err != nil {
		return err
	}
	e, err := g.lookup(id)
	if err != nil {
		return err
	}
	return e.ctrl.StartCooking()
}

// Done takes a fish off the grill and fixes its quality.
func (g *Game) Done(id uint32) error {
	if err := g.requirePlaying("done"); err != nil {
		return err
	}
	e, err := g.lookup(id)
	if err != nil {
		return err
	}
	if !e.ctrl.Cooking() {
		return fmt.Errorf("fish %d: %w", id, ErrNotOnGrill)
	}
	e.ctrl.StopCooking()
	q := e.ctrl.Quality()
	g.lifetimeTracker.MarkCooked(id, g.tick, q)
	slog.Debug("fish_cooked", "fish_id", id, "cook_time", e.ctrl.CookTime(), "quality", q)
	g.emit(telemetry.NewCookedEvent(g.tick, g.clock, id, q))
	return nil
}

// Serve feeds cooked food to a hungry diner. The food is consumed.
func (g *Game) Serve(foodID, dinerID uint32) error {
	if err := g.requirePlaying("serve"); err != nil {
		return err
	}
	if foodID == dinerID {
		return fmt.Errorf("fish %d: %w", foodID, ErrSameFish)
	}
	food, err := g.lookup(foodID)
	if err != nil {
		return err
	}
	diner, err := g.lookup(dinerID)
	if err != nil {
		return err
	}

	verdict, err := diner.ctrl.Serve(food.ctrl)
	if err != nil {
		return err
	}
	quality := diner.ctrl.Meal()
	wait := g.lifetimeTracker.MarkServed(dinerID, g.tick, quality, verdict.String(), g.cfg.Sim.DT)
	g.counts.served++

	g.emit(telemetry.NewServedEvent(g.tick, g.clock, dinerID, foodID, verdict, quality, wait))
	g.hallOfFame.Consider(g.params.ArchetypeName(food.ctrl.Archetype()), telemetry.HallEntry{
		FishID:  foodID,
		Tick:    g.tick,
		Quality: quality,
		Wait:    wait,
		Verdict: verdict.String(),
	})
	g.Remove(foodID, fish.DepartureConsumed)
	return nil
}

// Grab picks a fish up. A held hungry fish does not lose patience.
func (g *Game) Grab(id uint32) error {
	if err := g.requirePlaying("grab"); err != nil {
		return err
	}
	e, err := g.lookup(id)
	if err != nil {
		return err
	}
	return e.ctrl.SetDragged(true)
}

// Drop releases a held fish.
func (g *Game) Drop(id uint32) error {
	e, err := g.lookup(id)
	if err != nil {
		return err
	}
	return e.ctrl.SetDragged(false)
}
