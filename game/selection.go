package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/hangry/components"
	"github.com/pthm-cable/hangry/fish"
)

// lookup returns a live fish or ErrUnknownFish.
func (g *Game) lookup(id uint32) (*fishEntry, error) {
	e, ok := g.fish[id]
	if !ok || e.removed {
		return nil, fmt.Errorf("fish %d: %w", id, ErrUnknownFish)
	}
	return e, nil
}

// countState counts live fish in state s.
func (g *Game) countState(s fish.MoodState) int {
	n := 0
	for _, id := range g.order {
		if e := g.fish[id]; !e.removed && e.ctrl.State() == s {
			n++
		}
	}
	return n
}

// anyCookable reports whether a live fish could still become food.
func (g *Game) anyCookable() bool {
	for _, id := range g.order {
		if e := g.fish[id]; !e.removed && e.ctrl.CanCook() {
			return true
		}
	}
	return false
}

// hungriest returns the hungry fish closest to leaving, skipping held fish.
func (g *Game) hungriest() (uint32, bool) {
	var best uint32
	bestLeft := math.Inf(1)
	for _, id := range g.order {
		e := g.fish[id]
		if e.removed || e.ctrl.State() != fish.Hungry || e.ctrl.Dragged() {
			continue
		}
		if left := e.ctrl.FeedingRemaining(); left < bestLeft {
			best, bestLeft = id, left
		}
	}
	return best, !math.IsInf(bestLeft, 1)
}

// cookedFood returns finished food waiting to be served, oldest first.
func (g *Game) cookedFood() []uint32 {
	var out []uint32
	for _, id := range g.order {
		if e := g.fish[id]; !e.removed && e.ctrl.Cooked() {
			out = append(out, id)
		}
	}
	return out
}

// nearestChilling returns the cookable chilling fish closest to p.
func (g *Game) nearestChilling(p components.Position) (uint32, bool) {
	var best uint32
	bestDist := math.Inf(1)

	query := g.fishFilter.Query()
	for query.Next() {
		pos, f := query.Get()
		e, ok := g.fish[f.ID]
		if !ok || e.removed || e.ctrl.Dragged() {
			continue
		}
		if e.ctrl.State() != fish.Chilling || !e.ctrl.CanCook() {
			continue
		}
		// ties go to the lower id so query order does not matter
		if d := pos.DistSq(p); d < bestDist || (d == bestDist && f.ID < best) {
			best, bestDist = f.ID, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

// FishAt returns the live fish nearest to p within radius.
func (g *Game) FishAt(p components.Position, radius float64) (uint32, bool) {
	var best uint32
	bestDist := radius * radius
	found := false

	query := g.fishFilter.Query()
	for query.Next() {
		pos, f := query.Get()
		if e, ok := g.fish[f.ID]; !ok || e.removed {
			continue
		}
		if d := pos.DistSq(p); d <= bestDist {
			best, bestDist, found = f.ID, d, true
		}
	}
	return best, found
}
