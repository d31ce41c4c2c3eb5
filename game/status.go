package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pthm-cable/hangry/fish"
)

// FishView is the public view of one live fish.
type FishView struct {
	ID               uint32  `json:"id"`
	Archetype        string  `json:"archetype"`
	State            string  `json:"state"`
	X                float64 `json:"x"`
	Z                float64 `json:"z"`
	FeedingRemaining float64 `json:"feeding_remaining"`
	HungerRemaining  float64 `json:"hunger_remaining"`
	CookTime         float64 `json:"cook_time"`
	Quality          float64 `json:"quality"`
	Cooked           bool    `json:"cooked"`
	Dragged          bool    `json:"dragged"`
}

// Status is a point-in-time view of the session.
type Status struct {
	SessionID  string     `json:"session_id"`
	State      string     `json:"state"`
	Tick       int32      `json:"tick"`
	Clock      string     `json:"clock"`
	Elapsed    float64    `json:"elapsed"`
	Population int        `json:"population"`
	Cap        int        `json:"cap"`
	Phase      string     `json:"spawn_phase"`
	Interval   float64    `json:"spawn_interval"`
	RatingAvg  float64    `json:"rating_avg"`
	Ratings    int        `json:"ratings"`
	Outcome    string     `json:"outcome"`
	Fish       []FishView `json:"fish"`
}

// Status builds a view of the session from the world.
func (g *Game) Status() Status {
	s := Status{
		SessionID:  g.id,
		State:      g.state.String(),
		Tick:       g.tick,
		Clock:      g.scheduler.Clock(),
		Elapsed:    g.clock,
		Population: g.scheduler.Population(),
		Cap:        g.scheduler.Cap(),
		Phase:      g.scheduler.Phase().String(),
		Interval:   g.scheduler.Interval(),
		RatingAvg:  g.tracker.Average(),
		Ratings:    g.tracker.Count(),
		Outcome:    g.tracker.Outcome().String(),
		Fish:       []FishView{},
	}

	query := g.fishFilter.Query()
	for query.Next() {
		pos, f := query.Get()
		e, ok := g.fish[f.ID]
		if !ok || e.removed {
			continue
		}
		c := e.ctrl
		s.Fish = append(s.Fish, FishView{
			ID:               f.ID,
			Archetype:        g.params.ArchetypeName(fish.Archetype(f.Archetype)),
			State:            c.State().String(),
			X:                pos.X,
			Z:                pos.Z,
			FeedingRemaining: c.FeedingRemaining(),
			HungerRemaining:  c.HungerRemaining(),
			CookTime:         c.CookTime(),
			Quality:          c.Quality(),
			Cooked:           c.Cooked(),
			Dragged:          c.Dragged(),
		})
	}
	sort.Slice(s.Fish, func(i, j int) bool { return s.Fish[i].ID < s.Fish[j].ID })
	return s
}

// String renders the status for a terminal.
func (s Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s left  rating %.2f (%d, %s)  fish %d/%d  spawn %s every %.1fs\n",
		s.State, s.Clock, s.RatingAvg, s.Ratings, s.Outcome, s.Population, s.Cap, s.Phase, s.Interval)
	for _, f := range s.Fish {
		fmt.Fprintf(&b, "  #%-3d %-8s %-14s", f.ID, f.Archetype, f.State)
		switch {
		case f.Cooked:
			fmt.Fprintf(&b, " cooked q=%.2f", f.Quality)
		case f.State == fish.Cooking.String():
			fmt.Fprintf(&b, " grill %.1fs", f.CookTime)
		case f.State == fish.Hungry.String():
			fmt.Fprintf(&b, " patience %.1fs", f.FeedingRemaining)
		case f.State == fish.Chilling.String():
			fmt.Fprintf(&b, " hungry in %.1fs", f.HungerRemaining)
		}
		if f.Dragged {
			b.WriteString(" (held)")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
