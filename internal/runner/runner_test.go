package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	return &Shell{
		Dir:    t.TempDir(),
		Env:    []string{"WAFCONF_TEST=yes"},
		Stdin:  strings.NewReader(""),
		Stdout: &out,
		Stderr: &errOut,
	}, &out, &errOut
}

func TestRun(t *testing.T) {
	s, out, _ := newShell(t)

	require.NoError(t, s.Run(context.Background(), `echo --foo_path="../foo" --cxx_mkspec=cxx_default`))
	assert.Equal(t, "--foo_path=../foo --cxx_mkspec=cxx_default\n", out.String())
}

func TestRunUsesEnvAndDir(t *testing.T) {
	s, out, _ := newShell(t)

	require.NoError(t, s.Run(context.Background(), `echo "$WAFCONF_TEST"; pwd`))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "yes", lines[0])
	assert.Equal(t, s.Dir, lines[1])
}

func TestRunExitStatus(t *testing.T) {
	s, _, _ := newShell(t)

	err := s.Run(context.Background(), "exit 3")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "got %v", err)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "command exited with status 3", exitErr.Error())
}

func TestRunParseError(t *testing.T) {
	s, _, _ := newShell(t)

	err := s.Run(context.Background(), `echo "unterminated`)
	assert.ErrorContains(t, err, "parsing command")
}

func TestFormat(t *testing.T) {
	got, err := Format("python   waf configure  --cxx_mkspec=cxx_default")
	require.NoError(t, err)
	assert.Equal(t, "python waf configure --cxx_mkspec=cxx_default", got)

	_, err = Format("(")
	assert.Error(t, err)
}
