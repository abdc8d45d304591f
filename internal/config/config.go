// Package config holds wafconf's own settings (manifest endpoint, command
// grammar, script name, ...). Values come from defaults, an optional
// wafconf.yaml, a .env file and WAFCONF_* environment variables, in increasing
// order of precedence. The user override file with project paths lives in
// internal/configfile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "WAFCONF"

// Setting keys
const (
	KeyManifestURL       = "manifest.url"
	KeyManifestTimeout   = "manifest.timeout"
	KeyManifestRetries   = "manifest.retries"
	KeyManifestCacheSize = "manifest.cache-size"
	KeyCommandBase       = "command.base"
	KeyCommandGrammar    = "command.grammar"
	KeyScriptName        = "script.name"
	KeyProjectPath       = "project-path"
	KeyNoExec            = "no-exec"
	KeyNoPause           = "no-pause"
	KeyProject           = "project"
	KeyPlain             = "plain"
	KeyOtelEnabled       = "otel.enabled"
	KeyOtelStdout        = "otel.stdout"
)

// DefaultManifestURL is the dependency registry endpoint; {project} is
// replaced with the project name.
const DefaultManifestURL = "https://api.steinwurf.com/dependencies/{project}"

var v *viper.Viper

// Initialize sets up the viper singleton. Safe to call more than once; each
// call starts from a fresh instance.
func Initialize() error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v = viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	path := findConfigFile()
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyManifestURL, DefaultManifestURL)
	v.SetDefault(KeyManifestTimeout, time.Duration(0))
	v.SetDefault(KeyManifestRetries, 0)
	v.SetDefault(KeyManifestCacheSize, 32)
	v.SetDefault(KeyCommandBase, "python waf configure")
	v.SetDefault(KeyCommandGrammar, "resolve")
	v.SetDefault(KeyScriptName, "last_config")
	v.SetDefault(KeyProjectPath, "../")
	v.SetDefault(KeyNoExec, false)
	v.SetDefault(KeyNoPause, false)
	v.SetDefault(KeyProject, "")
	v.SetDefault(KeyPlain, false)
	v.SetDefault(KeyOtelEnabled, false)
	v.SetDefault(KeyOtelStdout, false)
}

// findConfigFile looks for wafconf.yaml in the working directory, then in
// $XDG_CONFIG_HOME/wafconf (or ~/.config/wafconf).
func findConfigFile() string {
	var dirs []string
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "wafconf"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "wafconf"))
	}

	for _, dir := range dirs {
		for _, name := range []string{"wafconf.yaml", "wafconf.yml"} {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}
	return ""
}

// ConfigFileUsed returns the settings file that was read, if any.
func ConfigFileUsed() string {
	if v == nil {
		return ""
	}
	return v.ConfigFileUsed()
}

// ResetForTesting drops the singleton so tests start from a clean state.
func ResetForTesting() {
	v = nil
}

func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

func GetStringSlice(key string) []string {
	if v == nil {
		return []string{}
	}
	return v.GetStringSlice(key)
}

// Set overrides a value for the rest of the process (flags use this).
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}

// AllSettings returns the merged settings map.
func AllSettings() map[string]interface{} {
	if v == nil {
		return map[string]interface{}{}
	}
	return v.AllSettings()
}
