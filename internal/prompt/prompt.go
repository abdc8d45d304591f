// Package prompt asks the wizard's questions. LinePrompter speaks the plain
// numbered-menu protocol on any reader/writer pair; FormPrompter uses huh
// forms when attached to a terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steinwurf/wafconf/internal/ui"
)

// ErrAborted is returned when the user leaves a form with ctrl+c or esc.
var ErrAborted = errors.New("aborted by user")

// InvalidIndexMessage is printed before a single-choice menu asks again.
const InvalidIndexMessage = "Please respond with a valid index!"

// Prompter asks one question at a time.
type Prompter interface {
	// Select returns one entry of options; def is the default index.
	Select(question string, options []string, def int) (string, error)
	// MultiSelect returns the picked entries, possibly none.
	MultiSelect(question string, options []string, def int) ([]string, error)
	// Input returns a free-form answer; an empty answer yields def.
	Input(question, def string) (string, error)
	// Wait shows message and blocks until the user presses ENTER.
	Wait(message string) error
}

// LinePrompter reads answers line by line.
type LinePrompter struct {
	ctx context.Context
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing to out.
func NewLinePrompter(ctx context.Context, in io.Reader, out io.Writer) *LinePrompter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &LinePrompter{ctx: ctx, in: bufio.NewReader(in), out: out}
}

// Select prints the menu and repeats the question until the answer is valid.
func (p *LinePrompter) Select(question string, options []string, def int) (string, error) {
	fmt.Fprint(p.out, ui.RenderMenu(options))
	for {
		fmt.Fprintf(p.out, "%s [%d] ", question, def)
		line, err := p.readLine()
		if err != nil {
			return "", err
		}
		c := ParseChoice(line, len(options), def, false)
		if c.Valid {
			return options[c.Indices[0]], nil
		}
		fmt.Fprintln(p.out, InvalidIndexMessage)
	}
}

// MultiSelect prints the menu and accepts a comma separated list of indices.
func (p *LinePrompter) MultiSelect(question string, options []string, def int) ([]string, error) {
	fmt.Fprint(p.out, ui.RenderMenu(options))
	for {
		fmt.Fprintf(p.out, "%s [%d] ", question, def)
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		c := ParseChoice(line, len(options), def, true)
		if c.Valid {
			return Pick(options, c.Indices), nil
		}
		fmt.Fprintln(p.out, InvalidIndexMessage)
	}
}

// Input asks question, showing def when set.
func (p *LinePrompter) Input(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [\"%s\"]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", question)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Wait prints message and consumes one line.
func (p *LinePrompter) Wait(message string) error {
	fmt.Fprint(p.out, message)
	_, err := p.readLine()
	return err
}

// readLine returns the next line without its line ending. A final line
// without newline is returned normally; io.EOF only surfaces when nothing
// was read.
func (p *LinePrompter) readLine() (string, error) {
	if err := p.ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	resultCh := make(chan result, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		resultCh <- result{line: line, err: err}
	}()

	select {
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	case res := <-resultCh:
		if res.err != nil && !(errors.Is(res.err, io.EOF) && res.line != "") {
			return "", res.err
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}

// IsInteractive reports whether both in and out are terminals.
func IsInteractive(in, out *os.File) bool {
	return ui.IsTerminal(in) && ui.IsTerminal(out)
}

// New returns a FormPrompter on a terminal unless plain is set, otherwise a
// LinePrompter on stdin/stdout.
func New(ctx context.Context, plain bool) Prompter {
	line := NewLinePrompter(ctx, os.Stdin, os.Stdout)
	if plain || !IsInteractive(os.Stdin, os.Stdout) {
		return line
	}
	return &FormPrompter{ctx: ctx, line: line}
}
