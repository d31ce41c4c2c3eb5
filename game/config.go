package game

import (
	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/storage"
	"github.com/pthm-cable/hangry/telemetry"
)

// Options configures a session.
type Options struct {
	Config         *config.Config // nil uses config.Cfg()
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses the configured window
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int
	AutoStart      bool // skip the menu and start playing immediately

	Sessions storage.SessionRepository // optional result store

	StatsCallback func(telemetry.WindowStats)
}

// DefaultOptions returns options for a single-step, manually started session.
func DefaultOptions() Options {
	return Options{
		Seed:           1,
		StepsPerUpdate: 1,
	}
}
