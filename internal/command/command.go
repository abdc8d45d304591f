// Package command assembles the waf configure command line from the
// choices made in the wizard. Everything here is pure: the same Options
// always produce the same string.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultBase is the configure invocation every command starts with.
const DefaultBase = "python waf configure"

// NoneOption is the menu entry that selects nothing.
const NoneOption = "None"

// BuildOptions is the extra build variant menu.
var BuildOptions = []string{NoneOption, "cxx_debug", "cxx_nodebug"}

// IDETargets is the project generator menu.
var IDETargets = []string{NoneOption, "Visual Studio 2008", "Visual Studio 2010", "Visual Studio 2012"}

var ideTokens = map[string]string{
	"Visual Studio 2008": "msvs2008",
	"Visual Studio 2010": "msvs2010",
	"Visual Studio 2012": "msvs2012",
}

// Grammar selects how dependency and bundle flags are spelled. waf-tools
// changed the spelling over time, so each grammar is versioned by name.
type Grammar string

const (
	// GrammarResolve: --<name>_path="..." and --resolve_path="...".
	GrammarResolve Grammar = "resolve"
	// GrammarBundlePath: --<name>-path="..." and --bundle-path="...".
	GrammarBundlePath Grammar = "bundle-path"
	// GrammarBundle: --bundle=ALL,-<name> followed by the bundle-path flags.
	GrammarBundle Grammar = "bundle"
)

// ErrUnknownGrammar is returned by ParseGrammar.
var ErrUnknownGrammar = errors.New("unknown flag grammar")

// Grammars lists the accepted grammar names.
func Grammars() []Grammar {
	return []Grammar{GrammarResolve, GrammarBundlePath, GrammarBundle}
}

// ParseGrammar maps a name to a Grammar; "" means GrammarResolve.
func ParseGrammar(s string) (Grammar, error) {
	switch g := Grammar(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GrammarResolve, nil
	case GrammarResolve, GrammarBundlePath, GrammarBundle:
		return g, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownGrammar)
}

// DependencyFlag spells the flag pointing waf at a local checkout.
func (g Grammar) DependencyFlag(name, path string) string {
	if g == GrammarResolve || g == "" {
		return fmt.Sprintf("--%s_path=\"%s\"", name, path)
	}
	return fmt.Sprintf("--%s-path=\"%s\"", name, path)
}

// BaseFlag spells the flag naming the directory for everything else.
func (g Grammar) BaseFlag(path string) string {
	if g == GrammarResolve || g == "" {
		return fmt.Sprintf("--resolve_path=\"%s\"", path)
	}
	return fmt.Sprintf("--bundle-path=\"%s\"", path)
}

// Dependency is a selected local checkout.
type Dependency struct {
	Name string
	// Path is emitted verbatim, normally relative to the working directory.
	Path string
}

// Options are the resolved wizard choices.
type Options struct {
	Base    string
	Grammar Grammar

	Mkspec        string
	AndroidSDKDir string
	AndroidNDKDir string
	// Toolchain holds extra key/dir pairs for the mkspec family.
	Toolchain [][2]string
	// Extra is an entry of BuildOptions; NoneOption or "" adds nothing.
	Extra string
	// IDE holds generator tokens such as msvs2010.
	IDE []string

	Dependencies []Dependency
	// All disables the base path flag.
	All bool
	// BasePath is the bundle/resolve directory; "" adds nothing.
	BasePath string
}

// Build returns the full command: base, dependency fragment, mkspec
// fragment and IDE fragment, separated by single spaces.
func Build(opts Options) string {
	base := opts.Base
	if base == "" {
		base = DefaultBase
	}
	parts := []string{
		base,
		DependencyFragment(opts),
		ToolFragment(opts),
		strings.Join(opts.IDE, " "),
	}
	return join(parts...)
}

// DependencyFragment renders the dependency and bundle flags.
func DependencyFragment(opts Options) string {
	var parts []string
	if opts.Grammar == GrammarBundle && len(opts.Dependencies) > 0 {
		bundle := []string{"ALL"}
		for _, d := range opts.Dependencies {
			bundle = append(bundle, "-"+d.Name)
		}
		parts = append(parts, "--bundle="+strings.Join(bundle, ","))
	}
	for _, d := range opts.Dependencies {
		parts = append(parts, opts.Grammar.DependencyFlag(d.Name, d.Path))
	}
	if !opts.All && opts.BasePath != "" {
		parts = append(parts, opts.Grammar.BaseFlag(opts.BasePath))
	}
	return join(parts...)
}

// ToolFragment renders the mkspec flag and its sub-flags followed by the
// extra build option.
func ToolFragment(opts Options) string {
	if opts.Mkspec == "" {
		return ""
	}
	parts := []string{"--cxx_mkspec=" + opts.Mkspec}
	if opts.AndroidSDKDir != "" {
		parts = append(parts, "--android_sdk_dir="+opts.AndroidSDKDir)
	}
	if opts.AndroidNDKDir != "" {
		parts = append(parts, "--android_ndk_dir="+opts.AndroidNDKDir)
	}
	for _, kv := range opts.Toolchain {
		if kv[0] != "" && kv[1] != "" {
			parts = append(parts, "--"+kv[0]+"="+kv[1])
		}
	}
	if opts.Extra != "" && opts.Extra != NoneOption {
		parts = append(parts, "--"+opts.Extra)
	}
	return join(parts...)
}

// IDETokens maps IDETargets picks to generator tokens in menu order.
// NoneOption anywhere in picks yields nil.
func IDETokens(picks []string) []string {
	picked := make(map[string]bool, len(picks))
	for _, p := range picks {
		if p == NoneOption {
			return nil
		}
		picked[p] = true
	}
	var out []string
	for _, target := range IDETargets {
		if tok, ok := ideTokens[target]; ok && picked[target] {
			out = append(out, tok)
		}
	}
	return out
}

func join(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
