package configfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadNonexistent(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() returned error for nonexistent config: %v", err)
	}
	if cfg != nil {
		t.Errorf("Load() = %+v, want nil", cfg)
	}
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "fabric_user_config.yaml",
			content: `
waf_projects:
  kodo: ../kodo-custom
  fifi: /abs/fifi
android_sdk_dir: /opt/android-sdk
android_ndk_dir: /opt/android-ndk
bundle_path: ../bundle
toolchains:
  ios:
    ios_sdk_dir: /opt/ios
`,
		},
		{
			name: "toml",
			file: "fabric_user_config.toml",
			content: `
android_sdk_dir = "/opt/android-sdk"
android_ndk_dir = "/opt/android-ndk"
bundle_path = "../bundle"

[waf_projects]
kodo = "../kodo-custom"
fifi = "/abs/fifi"

[toolchains.ios]
ios_sdk_dir = "/opt/ios"
`,
		},
		{
			name: "json",
			file: "fabric_user_config.json",
			content: `{
  "waf_projects": {"kodo": "../kodo-custom", "fifi": "/abs/fifi"},
  "android_sdk_dir": "/opt/android-sdk",
  "android_ndk_dir": "/opt/android-ndk",
  "bundle_path": "../bundle",
  "toolchains": {"ios": {"ios_sdk_dir": "/opt/ios"}}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			cfg, err := Load(dir)
			require.NoError(t, err)
			require.NotNil(t, cfg)

			assert.Equal(t, map[string]string{"kodo": "../kodo-custom", "fifi": "/abs/fifi"}, cfg.Projects)
			assert.Equal(t, "/opt/android-sdk", cfg.AndroidSDKDir)
			assert.Equal(t, "/opt/android-ndk", cfg.AndroidNDKDir)
			assert.Equal(t, filepath.Join(dir, tt.file), cfg.Path())
			assert.Equal(t, [][2]string{{"ios_sdk_dir", "/opt/ios"}}, cfg.ToolchainOptions("ios"))

			base, ok := cfg.DependencyBase()
			assert.True(t, ok)
			assert.Equal(t, "../bundle", base)
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	cwd := t.TempDir()
	parent := t.TempDir()
	writeFile(t, filepath.Join(parent, "fabric_user_config.yaml"), "bundle_path: parent\n")

	cfg, err := Load(cwd, parent)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "parent", cfg.BundlePath)

	writeFile(t, filepath.Join(cwd, "fabric_user_config.toml"), "bundle_path = \"cwd\"\n")
	cfg, err = Load(cwd, parent)
	require.NoError(t, err)
	assert.Equal(t, "cwd", cfg.BundlePath)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fabric_user_config.yaml"), "waf_projects: [not, a, map]\n")

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabric_user_config.ini")
	writeFile(t, path, "x=1")

	_, err := LoadFile(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadFile(.ini) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDependencyBase(t *testing.T) {
	var nilCfg *Config
	if _, ok := nilCfg.DependencyBase(); ok {
		t.Error("nil config reported a dependency base")
	}
	if _, ok := Default().DependencyBase(); ok {
		t.Error("default config reported a dependency base")
	}

	cfg := &Config{BundlePath: "../deps", ResolvePath: "../resolved"}
	if got, _ := cfg.DependencyBase(); got != "../resolved" {
		t.Errorf("DependencyBase() = %q, want resolve_path to win", got)
	}
}

func TestToolchainOptionsSorted(t *testing.T) {
	cfg := &Config{Toolchains: map[string]map[string]string{
		"cross": {"toolchain_dir": "/b", "sysroot": "/a"},
	}}
	got := cfg.ToolchainOptions("cross")
	want := [][2]string{{"sysroot", "/a"}, {"toolchain_dir", "/b"}}
	assert.Equal(t, want, got)
	assert.Empty(t, cfg.ToolchainOptions("android"))
}

func TestGetProjectNameConfigured(t *testing.T) {
	cfg := &Config{ProjectName: "kodo-rlnc"}
	if got := cfg.GetProjectName(t.TempDir()); got != "kodo-rlnc" {
		t.Errorf("GetProjectName() = %q, want kodo-rlnc", got)
	}
}

func TestGetProjectNameFallsBackToDirName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fifi")
	require.NoError(t, os.Mkdir(dir, 0750))

	// Not a git repo, so the directory name is used.
	if got := Default().GetProjectName(dir); got != "fifi" {
		t.Errorf("GetProjectName() = %q, want fifi", got)
	}
}

func TestSetYAMLPreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabric_user_config.yaml")
	writeFile(t, path, "# my settings\nbundle_path: ../deps\nwaf_projects:\n  kodo: ../kodo\n")

	require.NoError(t, Set(path, "android_sdk_dir", "/opt/sdk"))
	require.NoError(t, Set(path, "waf_projects.fifi", "../fifi"))
	require.NoError(t, Set(path, "bundle_path", "../bundle"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# my settings")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/sdk", cfg.AndroidSDKDir)
	assert.Equal(t, "../bundle", cfg.BundlePath)
	assert.Equal(t, map[string]string{"kodo": "../kodo", "fifi": "../fifi"}, cfg.Projects)
}

func TestSetCreatesFile(t *testing.T) {
	for _, ext := range []string{".yaml", ".toml", ".json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), BaseName+ext)

			require.NoError(t, Set(path, "android_ndk_dir", "/opt/ndk"))
			require.NoError(t, Set(path, "toolchains.ios.ios_sdk_dir", "/opt/ios"))
			require.NoError(t, Set(path, "waf_projects.kodo", "../kodo"))

			cfg, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "/opt/ndk", cfg.AndroidNDKDir)
			assert.Equal(t, "../kodo", cfg.Projects["kodo"])
			assert.Equal(t, [][2]string{{"ios_sdk_dir", "/opt/ios"}}, cfg.ToolchainOptions("ios"))
		})
	}
}

func TestSetRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabric_user_config.yaml")
	for _, key := range []string{"", "colour", "waf_projects", "android_sdk_dir.x", "toolchains.ios"} {
		err := Set(path, key, "v")
		if !errors.Is(err, ErrUnknownKey) {
			t.Errorf("Set(%q) error = %v, want ErrUnknownKey", key, err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected Set() must not create the file")
	}
}

func TestSetUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fabric_user_config.ini")
	err := Set(path, "bundle_path", "x")
	if err == nil || !strings.Contains(err.Error(), ErrUnsupportedFormat.Error()) {
		t.Errorf("Set(.ini) error = %v", err)
	}
}
