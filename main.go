package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/console"
	"github.com/pthm-cable/hangry/game"
	"github.com/pthm-cable/hangry/server"
	"github.com/pthm-cable/hangry/storage"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop a headless session after N ticks (0 = run to closing)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Session ticks per update call (higher = faster headless runs)")
	serve := flag.Bool("serve", false, "Run in real time behind the HTTP/websocket API")
	addr := flag.String("addr", "", "Listen address (empty = use config)")
	dbPath := flag.String("db", "", "SQLite database for session results (empty = use config)")
	useConsole := flag.Bool("console", false, "Read kitchen commands from stdin in real time")

	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// The console owns stdout, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Config:         cfg,
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	path := cfg.Storage.Path
	if *dbPath != "" {
		path = *dbPath
	}
	var db *sql.DB
	if path != "" {
		var err error
		db, err = storage.InitSQLite(path)
		if err != nil {
			slog.Error("failed to open storage", "path", path, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		opts.Sessions = storage.NewSQLiteSessionRepository(db)
	}

	realtime := *serve || *useConsole
	if !realtime {
		opts.AutoStart = true
	}

	g := game.NewGameWithOptions(opts)
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("failed to close outputs", "error", err)
		}
	}()
	if db != nil {
		g.LogEventsTo(storage.NewSQLiteEventRepository(db))
	}

	if !realtime {
		runHeadless(g, *maxTicks)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runRealtime(ctx, g, cfg, opts.Sessions, *serve, *useConsole, *addr); err != nil {
		slog.Error("session ended with error", "error", err)
		os.Exit(1)
	}
}

// runHeadless plays a session with the configured kitchen until closing
// time or maxTicks.
func runHeadless(g *game.Game, maxTicks int) {
	slog.Info("starting headless session",
		"session_id", g.ID(),
		"seed", g.Seed(),
		"max_ticks", maxTicks,
	)
	for g.State() != game.StateOver {
		g.Update()
		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			if err := g.End(); err != nil {
				slog.Error("failed to end session", "error", err)
			}
			break
		}
	}
	if s, ok := g.Summary(); ok {
		slog.Info("session_summary", "summary", s)
	}
}

// runRealtime drives the session on a wall-clock loop, behind the API,
// the console, or both.
func runRealtime(ctx context.Context, g *game.Game, cfg *config.Config, sessions storage.SessionRepository, serve, useConsole bool, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp, ctx := errgroup.WithContext(ctx)

	var loop *server.Loop
	if serve {
		srv := server.New(g, cfg.Sim.TargetTPS, sessions)
		loop = srv.Loop()
		if addr == "" {
			addr = cfg.Server.Addr
		}
		grp.Go(func() error {
			return srv.ListenAndServe(ctx, addr)
		})
	} else {
		loop = server.NewLoop(g, cfg.Sim.TargetTPS)
		grp.Go(func() error {
			loop.Run(ctx)
			return nil
		})
	}

	if useConsole {
		grp.Go(func() error {
			defer cancel()
			return console.New(loop, os.Stdin, os.Stdout).Run(ctx)
		})
	}

	err := grp.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
