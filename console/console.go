package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm-cable/hangry/game"
)

// Executor runs session commands. *game.Game and the server loop both satisfy it.
type Executor interface {
	Apply(cmd game.Command) (string, error)
}

// Console reads commands line by line and prints replies.
type Console struct {
	parser *Parser
	exec   Executor
	in     io.Reader
	out    io.Writer
	prompt string
}

func New(exec Executor, in io.Reader, out io.Writer) *Console {
	return &Console{
		parser: NewParser(nil),
		exec:   exec,
		in:     in,
		out:    out,
		prompt: "> ",
	}
}

// Run reads until EOF, quit, or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(c.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	fmt.Fprint(c.out, c.prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			if c.Handle(line) {
				return nil
			}
			fmt.Fprint(c.out, c.prompt)
		}
	}
}

// Handle runs one line and reports whether the console should exit.
func (c *Console) Handle(line string) (quit bool) {
	intent, err := c.parser.Parse(line)
	if errors.Is(err, ErrEmpty) {
		return false
	}
	if err != nil {
		fmt.Fprintln(c.out, err)
		return false
	}
	slog.Debug("console_command", "verb", intent.Verb, "fish", intent.Fish, "score", intent.Score)

	switch intent.Verb {
	case VerbQuit:
		return true
	case VerbHelp:
		fmt.Fprintln(c.out, c.Help())
		return false
	}

	reply, err := c.exec.Apply(intent.Command())
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return false
	}
	fmt.Fprintln(c.out, reply)
	return false
}

// Help lists every verb with its aliases.
func (c *Console) Help() string {
	var b strings.Builder
	for _, d := range c.parser.Registry().Defs() {
		fmt.Fprintf(&b, "  %-26s", d.Usage)
		if len(d.Aliases) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(d.Aliases, ", "))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
