package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/steinwurf/wafconf/internal/config"
	"github.com/steinwurf/wafconf/internal/configfile"
	"github.com/steinwurf/wafconf/internal/debug"
	"github.com/steinwurf/wafconf/internal/registry"
)

// environment is what every command knows about the working directory.
type environment struct {
	cwd      string
	fs       afero.Fs
	override *configfile.Config
	registry *registry.Registry
}

// loadEnvironment reads the override file and builds the project registry.
// A broken override file or an unreadable parent directory only warns.
func loadEnvironment(fs afero.Fs, cwd string) *environment {
	env := &environment{cwd: cwd, fs: fs}

	override, err := configfile.Load(configSearchDirs(cwd)...)
	if err != nil {
		debug.Logger().Warn().Err(err).Msg("ignoring user config, using defaults")
	}
	env.override = override

	var overrides map[string]string
	if override != nil {
		overrides = override.Projects
	}
	reg, err := registry.Build(fs, registry.BuildOptions{
		Overrides:  overrides,
		Defaults:   registry.Defaults(config.GetString(config.KeyProjectPath)),
		ScanDir:    filepath.Dir(cwd),
		ScanPrefix: "../",
	})
	if err != nil {
		debug.Logger().Warn().Err(err).Msg("sibling scan failed")
	}
	env.registry = reg
	debug.Logf("registry: %d projects\n", reg.Len())
	return env
}

// configSearchDirs lists where the override file is looked for: the working
// directory, then its parent.
func configSearchDirs(cwd string) []string {
	return []string{cwd, filepath.Dir(cwd)}
}

func workingDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return cwd, nil
}
