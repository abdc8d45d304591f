package debug

import (
	"bytes"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	oldOut, oldErr := stdout, stderr
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(oldOut, oldErr) })
	return &out, &errOut
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		verbose  bool
		want     bool
	}{
		{"enabled with value", "1", false, true},
		{"enabled with any value", "true", false, true},
		{"disabled when empty", "", false, false},
		{"enabled by verbose flag", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() {
				enabled = oldEnabled
				SetVerbose(false)
			}()

			enabled = tt.envValue != ""
			SetVerbose(tt.verbose)

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		format     string
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "outputs when enabled",
			enabled:    true,
			format:     "test message: %s\n",
			args:       []interface{}{"hello"},
			wantOutput: "test message: hello\n",
		},
		{
			name:       "no output when disabled",
			enabled:    false,
			format:     "test message: %s\n",
			args:       []interface{}{"hello"},
			wantOutput: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() { enabled = oldEnabled }()
			enabled = tt.enabled

			_, errOut := captureOutput(t)
			Logf(tt.format, tt.args...)

			if got := errOut.String(); got != tt.wantOutput {
				t.Errorf("Logf() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestPrintNormalRespectsQuiet(t *testing.T) {
	out, _ := captureOutput(t)
	defer SetQuiet(false)

	PrintNormal("shown %d\n", 1)
	SetQuiet(true)
	PrintNormal("hidden %d\n", 2)
	SetQuiet(false)
	PrintNormal("shown %d\n", 3)

	if got, want := out.String(), "shown 1\nshown 3\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if IsQuiet() {
		t.Error("IsQuiet() = true after SetQuiet(false)")
	}
}

func TestLoggerLevels(t *testing.T) {
	oldEnabled := enabled
	defer func() {
		enabled = oldEnabled
		SetVerbose(false)
		SetQuiet(false)
	}()
	enabled = false

	out, errOut := captureOutput(t)

	Logger().Debug().Msg("debug hidden")
	Logger().Warn().Str("path", "fabric_user_config.yaml").Msg("config load failed")
	if got := out.String(); strings.Contains(got, "debug hidden") || !strings.Contains(got, "config load failed") {
		t.Fatalf("default level output = %q", got)
	}
	if !strings.Contains(out.String(), "path=fabric_user_config.yaml") {
		t.Errorf("structured field missing from %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q, want warnings on stdout", errOut.String())
	}

	out.Reset()
	SetVerbose(true)
	Logger().Debug().Msg("debug shown")
	if !strings.Contains(out.String(), "debug shown") {
		t.Errorf("verbose output = %q, want debug line", out.String())
	}
}
