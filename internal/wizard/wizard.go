// Package wizard runs the interactive configure flow: pick a mkspec, build
// variant, IDE targets and local dependencies, then assemble, save and run
// the waf configure command.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/steinwurf/wafconf/internal/command"
	"github.com/steinwurf/wafconf/internal/configfile"
	"github.com/steinwurf/wafconf/internal/debug"
	"github.com/steinwurf/wafconf/internal/manifest"
	"github.com/steinwurf/wafconf/internal/mkspec"
	"github.com/steinwurf/wafconf/internal/prompt"
	"github.com/steinwurf/wafconf/internal/registry"
	"github.com/steinwurf/wafconf/internal/resolver"
	"github.com/steinwurf/wafconf/internal/runner"
	"github.com/steinwurf/wafconf/internal/script"
	"github.com/steinwurf/wafconf/internal/ui"
)

// Title is shown in the banner.
const Title = "Steinwurf Smart Project Config Tool"

// Executor runs the assembled command.
type Executor interface {
	Run(ctx context.Context, command string) error
}

// Wizard holds everything one run needs. Prompter, Out, Fs, Cwd, GOOS and
// Registry are required.
type Wizard struct {
	Prompter prompt.Prompter
	Out      io.Writer
	Fs       afero.Fs
	// Cwd is the absolute working directory.
	Cwd      string
	GOOS     string
	Registry *registry.Registry
	// Override is the user override file, nil when there is none.
	Override *configfile.Config
	Settings *Settings

	// Manifest is consulted when Project is set.
	Manifest manifest.Fetcher
	Project  string
	// Deps is the caller-supplied dependency list, used when no manifest
	// answer is available. DepsDeclared distinguishes an empty list from
	// no list.
	Deps         []string
	DepsDeclared bool

	// ProjectPath prefixes the suggested bundle directory.
	ProjectPath string
	Base        string
	Grammar     command.Grammar
	ScriptName  string

	// DryRun writes the script without running it.
	DryRun bool
	Runner Executor
}

// Result describes a finished run.
type Result struct {
	Supported  bool
	Command    string
	ScriptPath string
	Executed   bool
	// ExitCode is the configure exit status when it ran and failed.
	ExitCode int
}

// Run walks through every question and executes the command.
func (w *Wizard) Run(ctx context.Context) (*Result, error) {
	w.printf("\n%s\n", ui.RenderTitle(Title))

	specs, ok := mkspec.ForPlatform(w.GOOS)
	if !ok {
		w.printf("%s %s\n", ui.RenderFailIcon(), ui.RenderFail(fmt.Sprintf("Platform %q is not supported.", w.GOOS)))
		return &Result{}, nil
	}
	if w.Settings == nil {
		w.Settings = NewSettings("", "")
		if w.Override != nil {
			w.Settings = NewSettings(w.Override.AndroidSDKDir, w.Override.AndroidNDKDir)
		}
	}

	opts := command.Options{Base: w.Base, Grammar: w.Grammar}

	if err := w.chooseMkspec(specs, &opts); err != nil {
		return nil, err
	}
	if err := w.chooseExtra(&opts); err != nil {
		return nil, err
	}
	if err := w.chooseIDE(&opts); err != nil {
		return nil, err
	}
	if err := w.chooseDependencies(ctx, &opts); err != nil {
		return nil, err
	}
	if err := w.chooseBasePath(&opts); err != nil {
		return nil, err
	}

	res := &Result{Supported: true, Command: command.Build(opts)}
	fmt.Fprintf(w.Out, "\nFULL CONFIGURE COMMAND:\n%s\n", ui.RenderCommand(res.Command))

	path, err := script.Write(w.Fs, w.Cwd, w.ScriptName, script.KindFor(w.GOOS), res.Command)
	if err != nil {
		return nil, err
	}
	res.ScriptPath = path
	debug.Logf("wrote %s\n", path)

	if w.DryRun || w.Runner == nil {
		return res, nil
	}
	res.Executed = true
	if err := w.Runner.Run(ctx, res.Command); err != nil {
		var exitErr *runner.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		res.ExitCode = exitErr.Code
		debug.Logger().Warn().Int("status", exitErr.Code).Msg("configure failed")
		w.printf("%s %s\n", ui.RenderWarnIcon(), ui.RenderWarn(fmt.Sprintf("configure exited with status %d", exitErr.Code)))
	}
	return res, nil
}

func (w *Wizard) chooseMkspec(specs []string, opts *command.Options) error {
	w.printf("\nSelect mkspec for %s:\n", w.GOOS)
	spec, err := w.Prompter.Select("Choose option:", specs, 0)
	if err != nil {
		return err
	}
	w.printf("Selected mkspec: %s\n", spec)
	opts.Mkspec = spec

	if mkspec.IsAndroid(spec) {
		if opts.AndroidSDKDir, err = w.Settings.AndroidSDKDir(w.Prompter); err != nil {
			return err
		}
		if opts.AndroidNDKDir, err = w.Settings.AndroidNDKDir(w.Prompter); err != nil {
			return err
		}
	}
	opts.Toolchain = w.Override.ToolchainOptions(mkspec.Family(spec))
	return nil
}

func (w *Wizard) chooseExtra(opts *command.Options) error {
	w.printf("\nSelect additional build options:\n")
	extra, err := w.Prompter.Select("Choose option:", command.BuildOptions, 0)
	if err != nil {
		return err
	}
	w.printf("Selected build option: %s\n", extra)
	opts.Extra = extra
	return nil
}

func (w *Wizard) chooseIDE(opts *command.Options) error {
	w.printf("\nGenerate project files for the following IDEs?:\n")
	picks, err := w.Prompter.MultiSelect(`Choose options (e.g. "1,2,3"):`, command.IDETargets, 0)
	if err != nil {
		return err
	}
	w.printf("Selected options: %v\n", picks)
	opts.IDE = command.IDETokens(picks)
	return nil
}

// dependencies returns the declared dependency list. A manifest failure, or
// a manifest answer without a dependency list, falls back to the
// caller-supplied list.
func (w *Wizard) dependencies(ctx context.Context) ([]string, bool) {
	if w.Manifest == nil || w.Project == "" {
		return w.Deps, w.DepsDeclared
	}
	deps, err := w.Manifest.Fetch(ctx, w.Project)
	if err == nil && deps == nil {
		err = manifest.ErrNoDependencies
	}
	if err != nil {
		debug.Logger().Warn().Err(err).Str("project", w.Project).Msg("dependency manifest unavailable, using fallback list")
		return w.Deps, w.DepsDeclared
	}
	debug.Logf("manifest for %s: %v\n", w.Project, deps)
	return deps, true
}

func (w *Wizard) chooseDependencies(ctx context.Context, opts *command.Options) error {
	deps, declared := w.dependencies(ctx)

	res := resolver.New(w.Fs, w.Registry, w.Cwd)
	candidates := res.Candidates(deps, declared)
	menu := resolver.Menu(candidates, declared)
	if menu == nil {
		return nil
	}

	w.printf("\nThe following project folders were found on your computer.\n" +
		"Which folders should be used as bundle dependencies?:\n")
	picks, err := w.Prompter.MultiSelect(`Choose projects (e.g. "1,2,3"):`, menu, 0)
	if err != nil {
		return err
	}
	w.printf("Selected projects: %v\n", picks)

	sel := resolver.Select(candidates, picks, deps, declared)
	opts.All = sel.All
	for _, name := range sel.Names {
		opts.Dependencies = append(opts.Dependencies, command.Dependency{Name: name, Path: res.RelPath(name)})
	}
	return nil
}

func (w *Wizard) chooseBasePath(opts *command.Options) error {
	if opts.All {
		return nil
	}
	if base, ok := w.Override.DependencyBase(); ok {
		w.printf("\nUsing bundle path from %s: %s\n", w.Override.Path(), base)
		opts.BasePath = registry.Rel(w.Cwd, base)
		return nil
	}

	w.printf("\n")
	base, err := w.Prompter.Input("Enter bundle path", registry.DefaultBundlePath(w.ProjectPath))
	if err != nil {
		return err
	}
	opts.BasePath = base
	return nil
}

// printf writes progress output unless quiet mode is on.
func (w *Wizard) printf(format string, args ...interface{}) {
	if debug.IsQuiet() {
		return
	}
	fmt.Fprintf(w.Out, format, args...)
}
