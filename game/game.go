// Package game runs a restaurant session: spawning diners, ticking their
// moods, the kitchen, and session flow.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hangry/components"
	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/fish"
	"github.com/pthm-cable/hangry/rating"
	"github.com/pthm-cable/hangry/spawner"
	"github.com/pthm-cable/hangry/storage"
	"github.com/pthm-cable/hangry/telemetry"
)

var (
	ErrUnknownFish = errors.New("unknown fish")
	ErrNotPlaying  = errors.New("session is not playing")
	ErrNotOnGrill  = errors.New("fish is not on the grill")
	ErrSameFish    = errors.New("a fish cannot eat itself")
)

// SessionState is the top-level flow of a session.
type SessionState uint8

const (
	StateMenu SessionState = iota
	StatePlaying
	StatePaused
	StateOver
)

func (s SessionState) String() string {
	switch s {
	case StateMenu:
		return "menu"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateOver:
		return "over"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// MarshalText encodes the state by name.
func (s SessionState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// fishEntry ties a floor entity to its controller. It is also the
// controller's rating sink so the departure event can carry the delta.
type fishEntry struct {
	g       *Game
	entity  ecs.Entity
	ctrl    *fish.Controller
	removed bool
	rating  float64
}

func (e *fishEntry) ChangeRating(v float64) {
	e.g.tracker.ChangeRating(v)
	e.rating = v
}

type sessionCounts struct {
	spawned  int
	served   int
	hangry   int
	consumed int
}

// Game holds the complete session state.
type Game struct {
	cfg    *config.Config
	params fish.Params
	rng    *rand.Rand
	seed   int64
	id     string

	world      *ecs.World
	fishMapper *ecs.Map2[components.Position, components.Fish]
	fishFilter *ecs.Filter2[components.Position, components.Fish]

	fish    map[uint32]*fishEntry
	order   []uint32 // live fish in spawn order
	pending []uint32 // removed this step, still in the world
	nextID  uint32

	scheduler *spawner.Scheduler
	tracker   *rating.Tracker
	penalty   func() float64
	chef      *Chef

	state          SessionState
	tick           int32
	clock          float64 // session seconds, frozen while paused
	startedAt      time.Time
	stepsPerUpdate int
	counts         sessionCounts
	summary        *Summary

	subscribers []EventHandler
	seq         int

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string

	sessions storage.SessionRepository
}

// NewGame creates a session with default options.
func NewGame() *Game {
	return NewGameWithOptions(DefaultOptions())
}

// NewGameWithOptions creates a session in the menu state.
func NewGameWithOptions(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	world := ecs.NewWorld()
	rng := rand.New(rand.NewSource(opts.Seed))

	g := &Game{
		cfg:            cfg,
		params:         fish.ParamsFromConfig(cfg),
		rng:            rng,
		seed:           opts.Seed,
		id:             uuid.NewString(),
		world:          world,
		fishMapper:     ecs.NewMap2[components.Position, components.Fish](world),
		fishFilter:     ecs.NewFilter2[components.Position, components.Fish](world),
		fish:           make(map[uint32]*fishEntry),
		nextID:         1,
		scheduler:      spawner.New(cfg.Spawner, len(cfg.Archetypes), rng),
		tracker:        rating.NewTracker(cfg.Rating.Max),
		penalty:        rating.PenaltyFunc(cfg.Rating, rng),
		stepsPerUpdate: steps,

		collector:        telemetry.NewCollector(statsWindow, cfg.Sim.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		sessions:         opts.Sessions,
	}
	if cfg.Chef.Enabled {
		g.chef = NewChef(cfg.Chef)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if opts.AutoStart {
		g.Start()
	}
	return g
}

// Update runs StepsPerUpdate steps while the session is playing.
func (g *Game) Update() {
	for range g.stepsPerUpdate {
		if g.state != StatePlaying {
			return
		}
		g.step()
	}
}

// Start leaves the menu and begins spawning.
func (g *Game) Start() error {
	if g.state != StateMenu {
		return fmt.Errorf("start: %w (is %s)", ErrNotPlaying, g.state)
	}
	g.state = StatePlaying
	g.startedAt = time.Now()
	slog.Info("session_started", "session_id", g.id, "seed", g.seed)
	g.emit(telemetry.NewSessionEvent(telemetry.EventSessionStarted, g.tick, g.clock))
	return nil
}

// Pause freezes every fish.
func (g *Game) Pause() error {
	if g.state != StatePlaying {
		return fmt.Errorf("pause: %w (is %s)", ErrNotPlaying, g.state)
	}
	g.state = StatePaused
	for _, id := range g.order {
		g.fish[id].ctrl.Pause(g.clock)
	}
	g.emit(telemetry.NewSessionEvent(telemetry.EventPaused, g.tick, g.clock))
	g.logSessionState("session_paused")
	return nil
}

// Resume unfreezes every fish.
func (g *Game) Resume() error {
	if g.state != StatePaused {
		return fmt.Errorf("resume: session is %s, not paused", g.state)
	}
	g.state = StatePlaying
	for _, id := range g.order {
		g.fish[id].ctrl.Resume(g.clock)
	}
	g.emit(telemetry.NewSessionEvent(telemetry.EventResumed, g.tick, g.clock))
	return nil
}

// ID returns the session id.
func (g *Game) ID() string { return g.id }

// Seed returns the RNG seed.
func (g *Game) Seed() int64 { return g.seed }

// Tick returns the number of steps run.
func (g *Game) Tick() int32 { return g.tick }

// State returns the session state.
func (g *Game) State() SessionState { return g.state }

// Clock returns the session time in seconds.
func (g *Game) Clock() float64 { return g.clock }

// Population returns the scheduler's live fish count.
func (g *Game) Population() int { return g.scheduler.Population() }

// Rating returns the session rating tracker.
func (g *Game) Rating() *rating.Tracker { return g.tracker }

// Scheduler returns the spawn scheduler.
func (g *Game) Scheduler() *spawner.Scheduler { return g.scheduler }

// Summary returns the final summary once the session is over.
func (g *Game) Summary() (Summary, bool) {
	if g.summary == nil {
		return Summary{}, false
	}
	return *g.summary, true
}

// Controller returns the controller of a live fish.
func (g *Game) Controller(id uint32) (*fish.Controller, bool) {
	e, ok := g.fish[id]
	if !ok || e.removed {
		return nil, false
	}
	return e.ctrl, true
}

// FishIDs returns the live fish in spawn order.
func (g *Game) FishIDs() []uint32 {
	ids := make([]uint32, 0, len(g.order))
	for _, id := range g.order {
		if !g.fish[id].removed {
			ids = append(ids, id)
		}
	}
	return ids
}

// Close flushes output files.
func (g *Game) Close() error {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	return g.outputManager.Close()
}
