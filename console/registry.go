package console

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/hangry/game"
)

// Local verbs are handled by the console itself and never reach the session.
const (
	VerbHelp = "help"
	VerbQuit = "quit"
)

// Def describes one console verb.
type Def struct {
	Verb    string
	Aliases []string
	Usage   string
	Arity   int
}

type phrase struct {
	verb   string
	alias  string
	tokens []string
}

// Registry maps typed phrases to verbs.
type Registry struct {
	defs    map[string]Def
	order   []string
	phrases []phrase
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Def)}
}

// Register adds a verb and its aliases. Later registrations of the same verb replace the definition.
func (r *Registry) Register(d Def) {
	d.Verb = normalise(d.Verb)
	if d.Verb == "" {
		return
	}
	if _, ok := r.defs[d.Verb]; !ok {
		r.order = append(r.order, d.Verb)
	}
	r.defs[d.Verb] = d

	r.phrases = append(r.phrases, phrase{verb: d.Verb, alias: d.Verb, tokens: tokenise(d.Verb)})
	for _, a := range d.Aliases {
		n := normalise(a)
		if n == "" {
			continue
		}
		r.phrases = append(r.phrases, phrase{verb: d.Verb, alias: n, tokens: tokenise(n)})
	}
}

// Def returns the definition of verb.
func (r *Registry) Def(verb string) (Def, bool) {
	d, ok := r.defs[normalise(verb)]
	return d, ok
}

// Defs returns every definition in registration order.
func (r *Registry) Defs() []Def {
	out := make([]Def, 0, len(r.order))
	for _, v := range r.order {
		out = append(out, r.defs[v])
	}
	return out
}

type candidate struct {
	verb     string
	alias    string
	consumed int
	score    float64
}

// match scores every phrase against the leading tokens. The best candidate
// comes first, followed by up to three alternatives for other verbs.
func (r *Registry) match(tokens []string) (candidate, []candidate) {
	if len(tokens) == 0 {
		return candidate{}, nil
	}
	var cands []candidate
	for _, p := range r.phrases {
		consumed := min(len(tokens), len(p.tokens))
		prefix := strings.Join(tokens[:consumed], " ")

		switch {
		case consumed == len(p.tokens) && prefix == p.alias:
			score := 1.0
			if p.alias != p.verb {
				score = 0.97
			}
			cands = append(cands, candidate{p.verb, p.alias, consumed, score})
		case len(p.tokens) == 1 && len(tokens[0]) >= 2 && strings.HasPrefix(p.alias, tokens[0]):
			cands = append(cands, candidate{p.verb, p.alias, 1, 0.9})
		case len(prefix) >= 3:
			dist := levenshtein.ComputeDistance(prefix, p.alias)
			if dist > distanceLimit(len(p.alias)) {
				continue
			}
			score := 0.72 - 0.08*float64(dist)
			if p.alias != p.verb {
				score += 0.03
			}
			cands = append(cands, candidate{p.verb, p.alias, consumed, score})
		}
	}
	if len(cands) == 0 {
		return candidate{}, nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score == cands[j].score {
			if cands[i].consumed == cands[j].consumed {
				return cands[i].verb < cands[j].verb
			}
			return cands[i].consumed > cands[j].consumed
		}
		return cands[i].score > cands[j].score
	})

	best := cands[0]
	seen := map[string]bool{best.verb: true}
	var alts []candidate
	for _, c := range cands[1:] {
		if seen[c.verb] {
			continue
		}
		seen[c.verb] = true
		alts = append(alts, c)
		if len(alts) == 3 {
			break
		}
	}
	return best, alts
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// DefaultRegistry registers every session verb plus help and quit.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	defs := []Def{
		{Verb: string(game.VerbStart), Aliases: []string{"begin", "open"}, Usage: "start"},
		{Verb: string(game.VerbPause), Aliases: []string{"p", "wait"}, Usage: "pause"},
		{Verb: string(game.VerbResume), Aliases: []string{"continue", "unpause"}, Usage: "resume"},
		{Verb: string(game.VerbCook), Aliases: []string{"grill", "fire"}, Usage: "cook <fish>"},
		{Verb: string(game.VerbDone), Aliases: []string{"plate", "take off", "finish"}, Usage: "done <fish>"},
		{Verb: string(game.VerbServe), Aliases: []string{"give"}, Usage: "serve <food> to <diner>"},
		{Verb: string(game.VerbGrab), Aliases: []string{"pick up", "pickup", "hold"}, Usage: "grab <fish>"},
		{Verb: string(game.VerbDrop), Aliases: []string{"release", "put down"}, Usage: "drop <fish>"},
		{Verb: string(game.VerbStatus), Aliases: []string{"s", "look", "floor"}, Usage: "status"},
		{Verb: string(game.VerbEnd), Aliases: []string{"close", "close up"}, Usage: "end"},
		{Verb: VerbHelp, Aliases: []string{"h", "commands"}, Usage: "help"},
		{Verb: VerbQuit, Aliases: []string{"q", "exit"}, Usage: "quit"},
	}
	for _, d := range defs {
		d.Arity = game.Verb(d.Verb).Arity()
		r.Register(d)
	}
	return r
}
