package main

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/steinwurf/wafconf/internal/command"
	"github.com/steinwurf/wafconf/internal/config"
	"github.com/steinwurf/wafconf/internal/debug"
	"github.com/steinwurf/wafconf/internal/manifest"
	"github.com/steinwurf/wafconf/internal/prompt"
	"github.com/steinwurf/wafconf/internal/runner"
	"github.com/steinwurf/wafconf/internal/telemetry"
	"github.com/steinwurf/wafconf/internal/wizard"
)

func runWizard(ctx context.Context, depsDeclared bool) error {
	grammar, err := command.ParseGrammar(grammarFlag)
	if err != nil {
		return err
	}
	cwd, err := workingDir()
	if err != nil {
		return err
	}

	env := loadEnvironment(afero.NewOsFs(), cwd)
	project := projectName(env, projectFlag)
	p := prompt.New(ctx, plainFlag)

	w := &wizard.Wizard{
		Prompter:     p,
		Out:          os.Stdout,
		Fs:           env.fs,
		Cwd:          env.cwd,
		GOOS:         runtime.GOOS,
		Registry:     env.registry,
		Override:     env.override,
		Project:      project,
		Deps:         cleanDeps(depsFlag),
		DepsDeclared: depsDeclared,
		ProjectPath:  config.GetString(config.KeyProjectPath),
		Base:         config.GetString(config.KeyCommandBase),
		Grammar:      grammar,
		ScriptName:   config.GetString(config.KeyScriptName),
		DryRun:       dryRunFlag,
		Runner:       telemetry.WrapRunner(runner.New(cwd)),
	}
	if project != "" {
		w.Manifest = newManifestClient()
	}

	res, err := w.Run(ctx)
	if err != nil {
		return err
	}
	configureExitCode = res.ExitCode
	if res.ScriptPath != "" {
		debug.PrintNormal("Command saved to %s\n", res.ScriptPath)
	}

	if noPauseFlag {
		return nil
	}
	if err := p.Wait("Press ENTER to exit..."); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// cleanDeps trims "--deps a, b" entries and drops empty ones.
func cleanDeps(raw []string) []string {
	deps := make([]string, 0, len(raw))
	for _, d := range raw {
		if d = strings.TrimSpace(d); d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}

// projectName picks the manifest project. "." detects it from the git
// remote or directory name; an empty flag falls back to project_name in the
// override file.
func projectName(env *environment, flag string) string {
	switch flag {
	case ".":
		return env.override.GetProjectName(env.cwd)
	case "":
		if env.override != nil {
			return env.override.ProjectName
		}
		return ""
	default:
		return flag
	}
}

// newManifestClient returns nil when the configured endpoint is unusable,
// which the wizard treats as no manifest.
func newManifestClient() manifest.Fetcher {
	c, err := manifest.New(manifest.Options{
		URL:       config.GetString(config.KeyManifestURL),
		Timeout:   config.GetDuration(config.KeyManifestTimeout),
		Retries:   config.GetInt(config.KeyManifestRetries),
		CacheSize: config.GetInt(config.KeyManifestCacheSize),
	})
	if err != nil {
		debug.Logger().Warn().Err(err).Msg("manifest disabled")
		return nil
	}
	return telemetry.WrapFetcher(c)
}
