package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pthm-cable/hangry/game"
)

// ErrStopped is returned for work submitted after the loop exited.
var ErrStopped = errors.New("session loop stopped")

// Loop owns a session and advances it in real time. Every access to the
// session goes through the loop goroutine.
type Loop struct {
	g    *game.Game
	tick time.Duration
	work chan func(*game.Game)
	done chan struct{}
}

// NewLoop creates a loop running g at tps updates per second.
func NewLoop(g *game.Game, tps int) *Loop {
	if tps < 1 {
		tps = 60
	}
	return &Loop{
		g:    g,
		tick: time.Second / time.Duration(tps),
		work: make(chan func(*game.Game)),
		done: make(chan struct{}),
	}
}

// Run ticks the session until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	over := false
	for {
		select {
		case <-ctx.Done():
			slog.Info("session loop stopped", "session_id", l.g.ID(), "tick", l.g.Tick())
			return
		case fn := <-l.work:
			fn(l.g)
		case <-ticker.C:
			l.g.Update()
			if !over && l.g.State() == game.StateOver {
				over = true
				slog.Info("session finished", "session_id", l.g.ID())
			}
		}
	}
}

// Do runs fn on the loop goroutine and waits for it.
func (l *Loop) Do(fn func(*game.Game)) error {
	finished := make(chan struct{})
	select {
	case l.work <- func(g *game.Game) {
		fn(g)
		close(finished)
	}:
	case <-l.done:
		return ErrStopped
	}
	<-finished
	return nil
}

// Apply runs a player command.
func (l *Loop) Apply(cmd game.Command) (string, error) {
	var (
		reply  string
		cmdErr error
	)
	if err := l.Do(func(g *game.Game) { reply, cmdErr = g.Apply(cmd) }); err != nil {
		return "", err
	}
	return reply, cmdErr
}

// Status returns a view of the session.
func (l *Loop) Status() (game.Status, error) {
	var s game.Status
	err := l.Do(func(g *game.Game) { s = g.Status() })
	return s, err
}
