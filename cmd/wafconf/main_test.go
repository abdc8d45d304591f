package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steinwurf/wafconf/internal/config"
	"github.com/steinwurf/wafconf/internal/configfile"
	"github.com/steinwurf/wafconf/internal/debug"
)

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "wafconf-cmd-test-*")
	if err != nil {
		panic(err)
	}
	os.Setenv("HOME", tmp)
	os.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "xdg"))
	if err := config.Initialize(); err != nil {
		panic(err)
	}
	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func TestLoadEnvironment(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, d := range []string{"/src/app", "/src/kodo", "/src/custom", "/src/.hidden", "/opt/fifi"} {
		require.NoError(t, fs.MkdirAll(d, 0755))
	}

	env := loadEnvironment(fs, "/src/app")
	e, ok := env.registry.Lookup("kodo")
	require.True(t, ok)
	assert.Equal(t, "../kodo", e.Path)

	e, ok = env.registry.Lookup("custom")
	require.True(t, ok)
	assert.Equal(t, "sibling", e.Source.String())

	_, ok = env.registry.Lookup(".hidden")
	assert.False(t, ok)
}

func TestPrintProjects(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/app", 0755))
	require.NoError(t, fs.MkdirAll("/src/sak", 0755))

	env := loadEnvironment(fs, "/src/app")

	var all, existing bytes.Buffer
	printProjects(&all, env, false)
	printProjects(&existing, env, true)

	assert.Contains(t, all.String(), "kodo-rlnc")
	assert.Contains(t, existing.String(), "sak")
	assert.NotContains(t, existing.String(), "kodo-rlnc")
	assert.Less(t, strings.Count(existing.String(), "\n"), strings.Count(all.String(), "\n"))
}

func TestPrintMkspecs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printMkspecs(&buf, "darwin"))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 10)
	assert.True(t, strings.HasPrefix(lines[0], "cxx_default"))
	assert.Contains(t, buf.String(), "cxx_ios70_apple_llvm_arm64")

	assert.Error(t, printMkspecs(&buf, "plan9"))
}

func TestConfigSetAndShow(t *testing.T) {
	parent := t.TempDir()
	cwd := filepath.Join(parent, "app")
	require.NoError(t, os.Mkdir(cwd, 0750))

	var out bytes.Buffer
	require.NoError(t, runConfigSet(&out, cwd, "android_sdk_dir", "/opt/sdk"))
	require.NoError(t, runConfigSet(&out, cwd, "waf_projects.kodo", "../kodo-dev"))
	assert.Contains(t, out.String(), "android_sdk_dir = /opt/sdk")

	cfg, err := configfile.LoadFile(filepath.Join(cwd, "fabric_user_config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/opt/sdk", cfg.AndroidSDKDir)
	assert.Equal(t, "../kodo-dev", cfg.Projects["kodo"])

	out.Reset()
	require.NoError(t, runConfigShow(&out, cwd))
	assert.Contains(t, out.String(), "waf_projects.kodo = ../kodo-dev")
	assert.Contains(t, out.String(), "manifest.url = ")
}

func TestConfigSetUsesParentFile(t *testing.T) {
	parent := t.TempDir()
	cwd := filepath.Join(parent, "app")
	require.NoError(t, os.Mkdir(cwd, 0750))
	existing := filepath.Join(parent, "fabric_user_config.toml")
	require.NoError(t, os.WriteFile(existing, []byte("bundle_path = \"../deps\"\n"), 0600))

	var out bytes.Buffer
	require.NoError(t, runConfigSet(&out, cwd, "resolve_path", "../resolved"))

	cfg, err := configfile.LoadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "../resolved", cfg.ResolvePath)
	assert.Equal(t, "../deps", cfg.BundlePath)
	_, err = os.Stat(filepath.Join(cwd, "fabric_user_config.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestConfigShowWithoutFile(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runConfigShow(&out, t.TempDir()))
	assert.Contains(t, out.String(), "none found")
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	err := runConfigSet(&bytes.Buffer{}, t.TempDir(), "colour", "blue")
	assert.ErrorIs(t, err, configfile.ErrUnknownKey)
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.True(t, strings.HasPrefix(buf.String(), "wafconf version "+Version))
}

func TestProjectName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kodo-rlnc")
	require.NoError(t, os.Mkdir(dir, 0750))

	bare := &environment{cwd: dir}
	assert.Equal(t, "", projectName(bare, ""))
	assert.Equal(t, "fifi", projectName(bare, "fifi"))
	assert.Equal(t, "kodo-rlnc", projectName(bare, "."))

	configured := &environment{cwd: dir, override: &configfile.Config{ProjectName: "score"}}
	assert.Equal(t, "score", projectName(configured, ""))
	assert.Equal(t, "score", projectName(configured, "."))
	assert.Equal(t, "fifi", projectName(configured, "fifi"))
}

func TestCleanDeps(t *testing.T) {
	assert.Equal(t, []string{"fifi", "sak"}, cleanDeps([]string{"fifi", " sak "}))
	assert.Equal(t, []string{"kodo"}, cleanDeps([]string{"", "  ", "kodo"}))
	assert.Empty(t, cleanDeps(nil))
}

func TestLoadEnvironmentWarnsOnStdout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.Mkdir(dir, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fabric_user_config.yaml"), []byte("waf_projects: [broken\n"), 0600))

	var out, errOut bytes.Buffer
	debug.SetOutput(&out, &errOut)
	t.Cleanup(func() { debug.SetOutput(os.Stdout, os.Stderr) })

	env := loadEnvironment(afero.NewOsFs(), dir)
	assert.Nil(t, env.override)
	assert.NotNil(t, env.registry)
	assert.Contains(t, out.String(), "ignoring user config")
	assert.Empty(t, errOut.String())
}
