package game

import (
	"errors"
	"fmt"
)

// Verb names a player command.
type Verb string

const (
	VerbStart  Verb = "start"
	VerbPause  Verb = "pause"
	VerbResume Verb = "resume"
	VerbCook   Verb = "cook"
	VerbDone   Verb = "done"
	VerbServe  Verb = "serve"
	VerbGrab   Verb = "grab"
	VerbDrop   Verb = "drop"
	VerbStatus Verb = "status"
	VerbEnd    Verb = "end"
)

// Verbs lists every command verb.
var Verbs = []Verb{VerbStart, VerbPause, VerbResume, VerbCook, VerbDone, VerbServe, VerbGrab, VerbDrop, VerbStatus, VerbEnd}

// Arity returns how many fish ids a verb takes.
func (v Verb) Arity() int {
	switch v {
	case VerbCook, VerbDone, VerbGrab, VerbDrop:
		return 1
	case VerbServe:
		return 2
	default:
		return 0
	}
}

// ErrUnknownVerb is returned by Apply for verbs it does not handle.
var ErrUnknownVerb = errors.New("unknown command")

// Command is one player action. Serve takes Fish as the food and Target as the diner.
type Command struct {
	Verb   Verb
	Fish   uint32
	Target uint32
}

// Apply runs a command and returns a short reply for the player.
func (g *Game) Apply(cmd Command) (string, error) {
	var err error
	switch cmd.Verb {
	case VerbStart:
		err = g.Start()
	case VerbPause:
		err = g.Pause()
	case VerbResume:
		err = g.Resume()
	case VerbEnd:
		err = g.End()
	case VerbCook:
		err = g.Cook(cmd.Fish)
	case VerbDone:
		if err = g.Done(cmd.Fish); err == nil {
			ctrl, _ := g.Controller(cmd.Fish)
			return fmt.Sprintf("fish %d is cooked (quality %.2f)", cmd.Fish, ctrl.Quality()), nil
		}
	case VerbServe:
		if err = g.Serve(cmd.Fish, cmd.Target); err == nil {
			ctrl, _ := g.Controller(cmd.Target)
			return fmt.Sprintf("served fish %d to fish %d: %s", cmd.Fish, cmd.Target, ctrl.Verdict()), nil
		}
	case VerbGrab:
		err = g.Grab(cmd.Fish)
	case VerbDrop:
		err = g.Drop(cmd.Fish)
	case VerbStatus:
		return g.Status().String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerb, cmd.Verb)
	}
	if err != nil {
		return "", err
	}
	return "ok: " + string(cmd.Verb), nil
}
