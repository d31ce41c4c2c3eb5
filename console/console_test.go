package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pthm-cable/hangry/config"
	"github.com/pthm-cable/hangry/game"
)

type recorder struct {
	cmds []game.Command
	err  error
}

func (r *recorder) Apply(cmd game.Command) (string, error) {
	r.cmds = append(r.cmds, cmd)
	if r.err != nil {
		return "", r.err
	}
	return "ok: " + string(cmd.Verb), nil
}

func TestRunStopsOnQuit(t *testing.T) {
	exec := &recorder{}
	in := strings.NewReader("start\ncook 2\nhelp\nquit\nserve 2 to 1\n")
	var out bytes.Buffer

	if err := New(exec, in, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(exec.cmds) != 2 {
		t.Fatalf("commands = %+v, want start and cook", exec.cmds)
	}
	if exec.cmds[1] != (game.Command{Verb: game.VerbCook, Fish: 2}) {
		t.Errorf("second command = %+v", exec.cmds[1])
	}
	if !strings.Contains(out.String(), "serve <food> to <diner>") {
		t.Errorf("help output missing serve usage:\n%s", out.String())
	}
}

func TestRunReturnsAtEOF(t *testing.T) {
	exec := &recorder{err: errors.New("session is not playing")}
	var out bytes.Buffer
	if err := New(exec, strings.NewReader("pause\nblorp\n"), &out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "error: session is not playing") {
		t.Errorf("missing executor error in output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `unknown command "blorp"`) {
		t.Errorf("missing parse error in output:\n%s", out.String())
	}
}

func TestConsoleDrivesGame(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	g := game.NewGameWithOptions(game.Options{Seed: 1, StepsPerUpdate: 1, Config: cfg})
	defer g.Close()

	c := New(g, strings.NewReader(""), &bytes.Buffer{})
	if c.Handle("begin") {
		t.Fatal("begin should not quit")
	}
	if g.State() != game.StatePlaying {
		t.Errorf("state = %s, want playing", g.State())
	}
	c.Handle("p")
	if g.State() != game.StatePaused {
		t.Errorf("state = %s, want paused", g.State())
	}
}
