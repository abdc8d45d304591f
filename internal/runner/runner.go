// Package runner executes the assembled configure command through an
// embedded POSIX shell interpreter, so the same command line behaves alike
// on every platform.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/steinwurf/wafconf/internal/debug"
)

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Shell runs commands in Dir with Env.
type Shell struct {
	Dir string
	// Env is a KEY=value list; nil inherits the process environment.
	Env    []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New returns a Shell in dir wired to the process stdio.
func New(dir string) *Shell {
	return &Shell{
		Dir:    dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Parse checks that command is valid shell syntax.
func Parse(command string) (*syntax.File, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return nil, fmt.Errorf("parsing command: %w", err)
	}
	return file, nil
}

// Format returns command in canonical single-line form.
func Format(command string) (string, error) {
	file, err := Parse(command)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := syntax.NewPrinter(syntax.Minify(true)).Print(&sb, file); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

// Run parses and executes command. A non-zero exit surfaces as *ExitError.
func (s *Shell) Run(ctx context.Context, command string) error {
	file, err := Parse(command)
	if err != nil {
		return err
	}

	env := s.Env
	if env == nil {
		env = os.Environ()
	}
	r, err := interp.New(
		interp.Dir(s.Dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(s.Stdin, s.Stdout, s.Stderr),
	)
	if err != nil {
		return fmt.Errorf("initializing shell: %w", err)
	}

	debug.Logger().Debug().Str("dir", s.Dir).Msg(command)

	if err := r.Run(ctx, file); err != nil {
		if code, ok := interp.IsExitStatus(err); ok {
			return &ExitError{Code: int(code)}
		}
		return fmt.Errorf("running command: %w", err)
	}
	return nil
}
