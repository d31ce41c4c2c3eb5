package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/hangry/telemetry"
)

// Summary is the final record of a session.
type Summary struct {
	SessionID string    `json:"session_id"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Ticks     int32     `json:"ticks"`
	SimTime   float64   `json:"sim_time"`
	Average   float64   `json:"average"`
	Ratings   int       `json:"ratings"`
	Outcome   string    `json:"outcome"`
	Spawned   int       `json:"spawned"`
	Served    int       `json:"served"`
	Hangry    int       `json:"hangry"`
	Consumed  int       `json:"consumed"`
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session_id", s.SessionID),
		slog.Int("ticks", int(s.Ticks)),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("average", s.Average),
		slog.Int("ratings", s.Ratings),
		slog.String("outcome", s.Outcome),
		slog.Int("spawned", s.Spawned),
		slog.Int("served", s.Served),
		slog.Int("hangry", s.Hangry),
	)
}

func (g *Game) buildSummary() Summary {
	return Summary{
		SessionID: g.id,
		Seed:      g.seed,
		StartedAt: g.startedAt,
		EndedAt:   time.Now(),
		Ticks:     g.tick,
		SimTime:   g.clock,
		Average:   g.tracker.Average(),
		Ratings:   g.tracker.Count(),
		Outcome:   g.tracker.Outcome().String(),
		Spawned:   g.counts.spawned,
		Served:    g.counts.served,
		Hangry:    g.counts.hangry,
		Consumed:  g.counts.consumed,
	}
}

// census counts live fish by mood.
func (g *Game) census() telemetry.Census {
	var c telemetry.Census
	query := g.fishFilter.Query()
	for query.Next() {
		_, f := query.Get()
		e, ok := g.fish[f.ID]
		if !ok || e.removed {
			continue
		}
		c.Add(e.ctrl.State())
	}
	return c
}

// logSessionState logs the floor at the current tick.
func (g *Game) logSessionState(msg string) {
	c := g.census()
	slog.Info(msg,
		"session_id", g.id,
		"tick", g.tick,
		"clock", g.scheduler.Clock(),
		"population", c.Population,
		"chilling", c.Chilling,
		"hungry", c.Hungry,
		"cooking", c.Cooking,
		"served", c.Served,
		"leaving", c.Leaving,
		"rating_avg", g.tracker.Average(),
		"spawn_phase", g.scheduler.Phase().String(),
	)
}
