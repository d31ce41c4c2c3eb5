package game

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/hangry/components"
	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/fish"
)

// Chef is a scripted kitchen. Every Reaction seconds it takes finished fish
// off the grills, serves waiting food to the most impatient diner, and fires
// new fish while diners outnumber food in progress.
type Chef struct {
	cfg     config.ChefConfig
	station components.Position
	grills  []uint32 // fish id per grill, 0 when free
	timer   float64
}

// NewChef creates a chef with cfg.Grills grills.
func NewChef(cfg config.ChefConfig) *Chef {
	return &Chef{
		cfg:     cfg,
		station: components.Position{X: cfg.Station.X, Z: cfg.Station.Z},
		grills:  make([]uint32, max(cfg.Grills, 1)),
	}
}

// Update runs one kitchen decision when the reaction timer elapses.
func (c *Chef) Update(g *Game, dt float64) {
	c.timer += dt
	if c.timer < c.cfg.Reaction {
		return
	}
	c.timer = 0

	c.tend(g)
	c.serve(g)
	c.fire(g)
}

// tend takes fish off the grill once they reach the target cook time.
func (c *Chef) tend(g *Game) {
	for i, id := range c.grills {
		if id == 0 {
			continue
		}
		ctrl, ok := g.Controller(id)
		if !ok || !ctrl.Cooking() {
			c.grills[i] = 0
			continue
		}
		if ctrl.CookTime() >= c.cfg.TargetCook {
			if err := g.Done(id); err != nil {
				slog.Warn("chef_done_failed", "fish_id", id, "error", err)
			}
			c.grills[i] = 0
		}
	}
}

func (c *Chef) serve(g *Game) {
	for _, food := range g.cookedFood() {
		diner, ok := g.hungriest()
		if !ok {
			return
		}
		if err := g.Serve(food, diner); err != nil {
			slog.Warn("chef_serve_failed", "food_id", food, "diner_id", diner, "error", err)
			return
		}
	}
}

func (c *Chef) fire(g *Game) {
	inProgress := len(g.cookedFood()) + c.busy()
	hungry := g.countState(fish.Hungry)
	for inProgress < hungry {
		slot := c.freeGrill()
		if slot < 0 {
			return
		}
		id, ok := g.nearestChilling(c.station)
		if !ok {
			return
		}
		if err := g.Cook(id); err != nil {
			if !errors.Is(err, ErrNotPlaying) {
				slog.Warn("chef_cook_failed", "fish_id", id, "error", err)
			}
			return
		}
		c.grills[slot] = id
		inProgress++
	}
}

func (c *Chef) busy() int {
	n := 0
	for _, id := range c.grills {
		if id != 0 {
			n++
		}
	}
	return n
}

func (c *Chef) freeGrill() int {
	for i, id := range c.grills {
		if id == 0 {
			return i
		}
	}
	return -1
}

// Grills returns the fish id on each grill, 0 for free grills.
func (c *Chef) Grills() []uint32 {
	out := make([]uint32, len(c.grills))
	copy(out, c.grills)
	return out
}
