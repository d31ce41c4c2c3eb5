package fish

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
)

var (
	ErrUnknownState      = errors.New("unknown mood state")
	ErrIllegalTransition = errors.New("illegal mood transition")
	ErrNotHungry         = errors.New("fish is not hungry")
	ErrNotCooked         = errors.New("food is not cooked")
	ErrNotCookable       = errors.New("fish cannot be cooked")
	ErrNotDraggable      = errors.New("fish cannot be dragged")
)

// RatingSink receives one rating contribution per judged or hangry fish.
type RatingSink interface {
	ChangeRating(v float64)
}

// Remover takes a fish out of the world. It is called exactly once per
// controller, when the fish's terminal countdown expires.
type Remover interface {
	Remove(id uint32, reason Departure)
}

// StateObserver is notified synchronously after each accepted state change.
type StateObserver func(id uint32, from, to MoodState)

// Deps are the collaborators injected into every controller.
type Deps struct {
	Rating  RatingSink
	Remover Remover
	Penalty func() float64 // rating applied when a fish leaves hangry
	Rng     *rand.Rand
}

// Controller owns one fish's mood state machine.
type Controller struct {
	id        uint32
	archetype Archetype
	state     MoodState
	params    Params
	deps      Deps

	hunger  countdown
	feeding countdown
	judge   countdown
	hangry  countdown

	cooking  bool
	canCook  bool
	cookTime float64
	quality  float64

	meal    float64 // quality of the food this fish was served
	verdict Verdict

	dragged  bool
	paused   bool
	pausedAt float64
	departed bool

	observers []StateObserver
}

// NewController creates a chilling fish. The initial state does not notify.
func NewController(id uint32, archetype Archetype, params Params, deps Deps) *Controller {
	c := &Controller{
		id:        id,
		archetype: archetype,
		state:     Chilling,
		params:    params,
		deps:      deps,
		canCook:   true,
	}
	c.feeding.remaining = params.FeedingDuration
	c.rollHunger()
	return c
}

// Subscribe adds an observer for state changes.
func (c *Controller) Subscribe(fn StateObserver) {
	c.observers = append(c.observers, fn)
}

// SetState moves the fish to next. Setting the current state is a no-op.
func (c *Controller) SetState(next MoodState) error {
	if !next.Valid() {
		slog.Error("unknown_mood_state", "fish_id", c.id, "state", uint8(next))
		return fmt.Errorf("%w: %d", ErrUnknownState, uint8(next))
	}
	if next == c.state {
		return nil
	}
	if !CanTransition(c.state, next) {
		slog.Warn("illegal_mood_transition", "fish_id", c.id, "from", c.state, "to", next)
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.state, next)
	}

	prev := c.state
	c.state = next
	for _, fn := range c.observers {
		fn(c.id, prev, next)
	}
	c.enter(next)
	return nil
}

// enter runs the entry actions for a freshly entered state.
func (c *Controller) enter(s MoodState) {
	switch s {
	case Hungry:
		c.feeding.resume()
	case Cooking:
		c.cancelTimers()
	case Served:
		c.feeding.cancel()
		c.judge.arm(c.params.JudgeDelay)
	case LeavingHangry:
		c.feeding.cancel()
		c.hangry.arm(c.params.HangryDelay)
	}
}

func (c *Controller) cancelTimers() {
	c.hunger.cancel()
	c.feeding.cancel()
	c.judge.cancel()
	c.hangry.cancel()
}

func (c *Controller) rollHunger() {
	d := c.params.HungerMin
	if span := c.params.HungerMax - c.params.HungerMin; span > 0 {
		d += c.deps.Rng.Float64() * span
	}
	c.hunger.arm(d)
}

// Update advances the countdown of the current state by dt seconds.
func (c *Controller) Update(dt float64) {
	if c.paused || c.departed {
		return
	}

	switch c.state {
	case Chilling:
		if c.hunger.tick(dt) {
			c.SetState(Hungry)
		}
	case Hungry:
		if c.dragged {
			return
		}
		if c.feeding.tick(dt) {
			c.SetState(LeavingHangry)
		}
	case Cooking:
		if c.cooking {
			c.cookTime += dt
		}
	case Served:
		if c.judge.tick(dt) {
			c.depart(c.meal, DepartureServed)
		}
	case LeavingHangry:
		if c.hangry.tick(dt) {
			var penalty float64
			if c.deps.Penalty != nil {
				penalty = c.deps.Penalty()
			}
			c.depart(penalty, DepartureHangry)
		}
	}
}

func (c *Controller) depart(rating float64, reason Departure) {
	c.departed = true
	if c.deps.Rating != nil {
		c.deps.Rating.ChangeRating(rating)
	}
	if c.deps.Remover != nil {
		c.deps.Remover.Remove(c.id, reason)
	}
}

// Serve feeds cooked food to a hungry fish and starts its judgement.
func (c *Controller) Serve(food *Controller) (Verdict, error) {
	if c.state != Hungry {
		return 0, fmt.Errorf("fish %d: %w (is %s)", c.id, ErrNotHungry, c.state)
	}
	if food == nil || !food.Cooked() {
		return 0, ErrNotCooked
	}

	c.meal = food.quality
	c.verdict = c.params.Verdict(c.meal)
	c.dragged = false
	if err := c.SetState(Served); err != nil {
		return 0, err
	}
	slog.Debug("fish_served", "fish_id", c.id, "food_id", food.id, "quality", c.meal, "verdict", c.verdict)
	return c.verdict, nil
}

// StartCooking puts the fish on the grill. All pending timers are cancelled.
func (c *Controller) StartCooking() error {
	if !c.canCook {
		return fmt.Errorf("fish %d: %w", c.id, ErrNotCookable)
	}
	if err := c.SetState(Cooking); err != nil {
		return err
	}
	c.cooking = true
	return nil
}

// StopCooking takes the fish off the grill and fixes its quality.
func (c *Controller) StopCooking() {
	if c.state != Cooking || !c.cooking {
		return
	}
	c.cooking = false
	c.canCook = false
	c.DetermineQuality()
}

// DetermineQuality recomputes quality from the accumulated cook time.
// An unknown archetype leaves quality untouched.
func (c *Controller) DetermineQuality() {
	q, ok := c.params.Quality(c.archetype, c.cookTime)
	if !ok {
		logUnknownArchetype(c.id, c.archetype)
		return
	}
	c.quality = q
}

// SetDragged marks the fish as held by the player. A held hungry fish does
// not lose patience.
func (c *Controller) SetDragged(dragged bool) error {
	if dragged && !c.Draggable() {
		return fmt.Errorf("fish %d: %w", c.id, ErrNotDraggable)
	}
	c.dragged = dragged
	return nil
}

// Draggable reports whether the fish can be picked up.
func (c *Controller) Draggable() bool {
	return c.state != Served && !c.departed
}

// Pause freezes every countdown. now is the host game clock.
func (c *Controller) Pause(now float64) {
	if c.paused {
		return
	}
	c.paused = true
	c.pausedAt = now
}

// Resume unfreezes the countdowns. The host-clock time spent paused is
// charged to the feeding countdown. A chilling fish rolls a new hunger
// countdown.
func (c *Controller) Resume(now float64) {
	if !c.paused {
		return
	}
	c.paused = false

	if d := now - c.pausedAt; d > 0 {
		c.feeding.remaining -= d
		if c.feeding.remaining < 0 {
			c.feeding.remaining = 0
		}
	}

	switch c.state {
	case Chilling:
		c.rollHunger()
	case Hungry:
		if c.feeding.remaining <= 0 {
			c.SetState(LeavingHangry)
		}
	}
}

// ID returns the fish id.
func (c *Controller) ID() uint32 { return c.id }

// Archetype returns the species.
func (c *Controller) Archetype() Archetype { return c.archetype }

// State returns the current mood.
func (c *Controller) State() MoodState { return c.state }

// FeedingRemaining returns the seconds of patience left.
func (c *Controller) FeedingRemaining() float64 { return c.feeding.remaining }

// HungerRemaining returns the seconds until a chilling fish gets hungry.
func (c *Controller) HungerRemaining() float64 { return c.hunger.remaining }

// Quality returns the fish's quality as food.
func (c *Controller) Quality() float64 { return c.quality }

// CookTime returns the seconds spent on the grill.
func (c *Controller) CookTime() float64 { return c.cookTime }

// Cooking reports whether the fish is on the grill right now.
func (c *Controller) Cooking() bool { return c.cooking }

// CanCook reports whether the fish can still become food.
func (c *Controller) CanCook() bool { return c.canCook }

// Cooked reports whether the fish is finished food.
func (c *Controller) Cooked() bool { return c.state == Cooking && !c.canCook && !c.departed }

// Verdict returns the verdict of the meal this fish was served.
func (c *Controller) Verdict() Verdict { return c.verdict }

// Meal returns the quality of the meal this fish was served.
func (c *Controller) Meal() float64 { return c.meal }

// Paused reports whether the countdowns are frozen.
func (c *Controller) Paused() bool { return c.paused }

// Dragged reports whether the fish is held.
func (c *Controller) Dragged() bool { return c.dragged }

// Departed reports whether the fish has left through a terminal countdown.
func (c *Controller) Departed() bool { return c.departed }

// MarkDeparted stops the controller without rating, for fish removed from outside.
func (c *Controller) MarkDeparted() {
	c.cancelTimers()
	c.cooking = false
	c.departed = true
}
