// Package console turns typed lines into session commands.
package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/hangry/game"
)

var (
	ErrEmpty     = errors.New("empty command")
	ErrArity     = errors.New("wrong number of fish")
	ErrBadFishID = errors.New("bad fish id")
)

// minScore is the lowest match score accepted as a command.
const minScore = 0.5

// UnknownCommandError is returned when no verb matches well enough.
type UnknownCommandError struct {
	Input       string
	Suggestions []string
}

func (e *UnknownCommandError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown command %q, try help", e.Input)
	}
	return fmt.Sprintf("unknown command %q, did you mean %s?", e.Input, strings.Join(e.Suggestions, " or "))
}

// Intent is a parsed line.
type Intent struct {
	Verb  string
	Fish  []uint32
	Score float64
}

// Local reports whether the console handles the intent itself.
func (i Intent) Local() bool {
	return i.Verb == VerbHelp || i.Verb == VerbQuit
}

// Command converts the intent to a session command.
func (i Intent) Command() game.Command {
	cmd := game.Command{Verb: game.Verb(i.Verb)}
	if len(i.Fish) > 0 {
		cmd.Fish = i.Fish[0]
	}
	if len(i.Fish) > 1 {
		cmd.Target = i.Fish[1]
	}
	return cmd
}

// fillers may appear between fish ids and are ignored.
var fillers = map[string]bool{
	"fish": true, "to": true, "the": true, "on": true, "off": true,
	"onto": true, "for": true, "number": true, "no": true,
}

type Parser struct {
	registry *Registry
}

func NewParser(r *Registry) *Parser {
	if r == nil {
		r = DefaultRegistry()
	}
	return &Parser{registry: r}
}

// Registry returns the parser's verb registry.
func (p *Parser) Registry() *Registry { return p.registry }

// Parse reads one line. Fish ids may be written as 3, #3 or "fish 3".
func (p *Parser) Parse(raw string) (Intent, error) {
	tokens := tokenise(normalise(raw))
	if len(tokens) == 0 {
		return Intent{}, ErrEmpty
	}

	best, alts := p.registry.match(tokens)
	if best.verb == "" || best.score < minScore {
		e := &UnknownCommandError{Input: tokens[0]}
		for _, c := range append([]candidate{best}, alts...) {
			if c.verb != "" {
				e.Suggestions = append(e.Suggestions, c.verb)
			}
		}
		return Intent{}, e
	}

	def, _ := p.registry.Def(best.verb)
	intent := Intent{Verb: best.verb, Score: best.score}
	for _, tok := range tokens[best.consumed:] {
		if fillers[tok] {
			continue
		}
		id, err := strconv.ParseUint(tok, 10, 32)
		if err != nil || id == 0 {
			return Intent{}, fmt.Errorf("%w: %q", ErrBadFishID, tok)
		}
		intent.Fish = append(intent.Fish, uint32(id))
	}
	if len(intent.Fish) != def.Arity {
		return Intent{}, fmt.Errorf("%w: usage %s", ErrArity, def.Usage)
	}
	return intent, nil
}

func normalise(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	var b strings.Builder
	lastSpace := true
	for _, r := range raw {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '-' || r == '_' || r == ',':
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenise(normalised string) []string {
	return strings.Fields(normalised)
}
