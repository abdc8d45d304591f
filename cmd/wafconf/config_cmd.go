package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/steinwurf/wafconf/internal/config"
	"github.com/steinwurf/wafconf/internal/configfile"
	"github.com/steinwurf/wafconf/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the user override file (fabric_user_config)",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write a value into the override file",
	Long: `Write a value into the override file, creating fabric_user_config.yaml in the
working directory when no override file exists yet.

Keys:
  android_sdk_dir, android_ndk_dir, bundle_path, resolve_path, project_name
  waf_projects.<name>          path of a local checkout
  toolchains.<family>.<key>    extra --<key>=<dir> flag for a mkspec family`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}
		return runConfigSet(cmd.OutOrStdout(), cwd, args[0], args[1])
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective override values and settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}
		return runConfigShow(cmd.OutOrStdout(), cwd)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configShowCmd)
}

func runConfigSet(w io.Writer, cwd, key, value string) error {
	path := configfile.FindPath(configSearchDirs(cwd)...)
	if path == "" {
		path = filepath.Join(cwd, configfile.BaseName+".yaml")
	}
	if err := configfile.Set(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Set %s = %s in %s\n", ui.RenderPassIcon(), key, value, path)
	return nil
}

func runConfigShow(w io.Writer, cwd string) error {
	cfg, err := configfile.Load(configSearchDirs(cwd)...)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, ui.RenderCategory("Override file"))
	if cfg == nil {
		fmt.Fprintf(w, "  %s none found, defaults in use\n", ui.RenderSkipIcon())
	} else {
		fmt.Fprintf(w, "  %s\n", cfg.Path())
		printValue(w, "android_sdk_dir", cfg.AndroidSDKDir)
		printValue(w, "android_ndk_dir", cfg.AndroidNDKDir)
		printValue(w, "bundle_path", cfg.BundlePath)
		printValue(w, "resolve_path", cfg.ResolvePath)
		printValue(w, "project_name", cfg.ProjectName)
		for _, name := range sortedKeys(cfg.Projects) {
			printValue(w, "waf_projects."+name, cfg.Projects[name])
		}
		families := make([]string, 0, len(cfg.Toolchains))
		for fam := range cfg.Toolchains {
			families = append(families, fam)
		}
		sort.Strings(families)
		for _, fam := range families {
			for _, kv := range cfg.ToolchainOptions(fam) {
				printValue(w, "toolchains."+fam+"."+kv[0], kv[1])
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.RenderCategory("Settings"))
	if used := config.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "  %s\n", used)
	}
	settings := make(map[string]interface{})
	flatten("", config.AllSettings(), settings)
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "  %s = %v\n", key, settings[key])
	}
	return nil
}

func printValue(w io.Writer, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "  %s = %s\n", key, value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flatten turns nested viper maps into dotted keys.
func flatten(prefix string, in, out map[string]interface{}) {
	for k, v := range in {
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(prefix+k+".", nested, out)
			continue
		}
		out[prefix+k] = v
	}
}
