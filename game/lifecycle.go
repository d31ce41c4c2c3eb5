package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/storage"
	"github.com/pthm-cable/hangry/telemetry"
)

// Remove takes a fish out of the session. It is the only place the
// population is released and is idempotent per fish id. The entity itself
// leaves the world at the end of the step.
func (g *Game) Remove(id uint32, reason fish.Departure) {
	e, ok := g.fish[id]
	if !ok || e.removed {
		slog.Debug("remove_ignored", "fish_id", id, "reason", reason)
		return
	}
	e.removed = true
	e.ctrl.MarkDeparted()
	g.scheduler.Release()

	switch reason {
	case fish.DepartureServed:
		g.emit(telemetry.NewJudgedEvent(g.tick, g.clock, id, e.ctrl.Verdict(), e.rating))
	case fish.DepartureHangry:
		g.counts.hangry++
	case fish.DepartureConsumed:
		g.counts.consumed++
	}

	g.lifetimeTracker.Remove(id)
	g.pending = append(g.pending, id)
	slog.Debug("fish_departed", "fish_id", id, "reason", reason, "rating", e.rating)
	g.emit(telemetry.NewDepartedEvent(g.tick, g.clock, id, reason, e.rating))
}

// End stops the session: every live fish is cleaned up without rating, the
// outcome is fixed from the rating average and the result is stored.
func (g *Game) End() error {
	if g.state != StatePlaying && g.state != StatePaused {
		return fmt.Errorf("end: %w (is %s)", ErrNotPlaying, g.state)
	}

	for _, id := range g.order {
		g.Remove(id, fish.DepartureCleanup)
	}
	g.flushRemovals()
	g.state = StateOver

	summary := g.buildSummary()
	g.summary = &summary
	slog.Info("session_over", "summary", summary)
	g.emit(telemetry.NewSessionOverEvent(g.tick, g.clock, summary.Average, g.tracker.Outcome()))

	if err := g.outputManager.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	if err := g.saveSession(summary); err != nil {
		slog.Error("failed to save session", "session_id", g.id, "error", err)
	}
	return nil
}

func (g *Game) saveSession(s Summary) error {
	if g.sessions == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return g.sessions.Save(ctx, &storage.Session{
		ID:        s.SessionID,
		Seed:      s.Seed,
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Ticks:     s.Ticks,
		SimTime:   s.SimTime,
		Average:   s.Average,
		Ratings:   s.Ratings,
		Outcome:   s.Outcome,
		Spawned:   s.Spawned,
		Served:    s.Served,
		Hangry:    s.Hangry,
	})
}
