package game

import (
	"log/slog"

	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/telemetry"
)

// flushTelemetry closes the stats window when due and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.census(), g.tracker.Average(), g.tracker.Count(), telemetry.Schedule{
		Phase:    g.scheduler.Phase().String(),
		Interval: g.scheduler.Interval(),
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// createSnapshot builds a snapshot from the current floor.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		RNGSeed:    g.seed,
		Tick:       g.tick,
		Elapsed:    g.clock,
		Clock:      g.scheduler.Clock(),
		SpawnPhase: g.scheduler.Phase().String(),
		RatingAvg:  g.tracker.Average(),
		Bookmark:   bookmark,
	}

	query := g.fishFilter.Query()
	for query.Next() {
		pos, f := query.Get()
		e, ok := g.fish[f.ID]
		if !ok || e.removed {
			continue
		}
		c := e.ctrl

		var lifetime *telemetry.LifetimeStatsJSON
		if ls := g.lifetimeTracker.Get(f.ID); ls != nil {
			lifetime = ls.ToJSON()
		}

		snapshot.Fish = append(snapshot.Fish, telemetry.FishState{
			ID:               f.ID,
			Archetype:        g.params.ArchetypeName(fish.Archetype(f.Archetype)),
			State:            c.State().String(),
			X:                pos.X,
			Z:                pos.Z,
			FeedingRemaining: c.FeedingRemaining(),
			HungerRemaining:  c.HungerRemaining(),
			CookTime:         c.CookTime(),
			Quality:          c.Quality(),
			Paused:           c.Paused(),
			Dragged:          c.Dragged(),
			Lifetime:         lifetime,
		})
	}
	return snapshot
}
