// Package debug provides verbose and quiet-aware output for wafconf, plus a
// structured zerolog logger for non-fatal failures (config load, manifest fetch).
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	enabled     = os.Getenv("WAFCONF_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	logMutex sync.Mutex
	logger   *zerolog.Logger
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	logMutex.Lock()
	verboseMode = verbose
	logger = nil
	logMutex.Unlock()
}

// SetQuiet enables quiet mode (suppress non-essential output)
func SetQuiet(quiet bool) {
	logMutex.Lock()
	quietMode = quiet
	logger = nil
	logMutex.Unlock()
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects normal and diagnostic output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	logger = nil
}

func Logf(format string, args ...interface{}) {
	if Enabled() {
		fmt.Fprintf(stderr, format, args...)
	}
}

// PrintNormal prints output unless quiet mode is enabled
// Use this for normal informational output that should be suppressed in quiet mode
func PrintNormal(format string, args ...interface{}) {
	if !quietMode {
		fmt.Fprintf(stdout, format, args...)
	}
}

// Logger returns the structured logger, writing to standard output next to
// the wizard's own messages. Debug level when verbose, warnings otherwise;
// quiet mode raises it to errors only.
func Logger() *zerolog.Logger {
	logMutex.Lock()
	defer logMutex.Unlock()

	if logger != nil {
		return logger
	}

	level := zerolog.WarnLevel
	switch {
	case enabled || verboseMode:
		level = zerolog.DebugLevel
	case quietMode:
		level = zerolog.ErrorLevel
	}

	l := zerolog.New(zerolog.ConsoleWriter{Out: stdout, NoColor: true, PartsExclude: []string{zerolog.TimestampFieldName}}).
		Level(level)
	logger = &l
	return logger
}
