package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/steinwurf/wafconf/internal/config"
	"github.com/steinwurf/wafconf/internal/debug"
	"github.com/steinwurf/wafconf/internal/prompt"
	"github.com/steinwurf/wafconf/internal/telemetry"
)

const exitCodeCanceled = 130

var (
	verboseFlag bool // Enable verbose/debug output
	quietFlag   bool // Suppress non-essential output

	projectFlag string
	depsFlag    []string
	grammarFlag string
	dryRunFlag  bool
	noPauseFlag bool
	plainFlag   bool

	// configureExitCode is the exit status of the configure command, passed
	// on as the process exit status.
	configureExitCode int
)

func init() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize config: %v\n", err)
	}

	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")

	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
	rootCmd.Flags().StringVar(&projectFlag, "project", "", "Project name used to fetch the dependency manifest, \".\" to detect it (config: project)")
	rootCmd.Flags().StringSliceVar(&depsFlag, "deps", nil, "Declared dependencies, comma separated (used when no manifest is available)")
	rootCmd.Flags().StringVar(&grammarFlag, "grammar", "", "Dependency flag grammar: resolve, bundle-path or bundle (config: command.grammar)")
	rootCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Write the script but do not run the configure command (config: no-exec)")
	rootCmd.Flags().BoolVar(&noPauseFlag, "no-pause", false, "Do not wait for ENTER before exiting (config: no-pause)")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "Use numbered menus even on a terminal (config: plain)")

	rootCmd.AddCommand(versionCmd, configCmd, projectsCmd, mkspecsCmd)
}

var rootCmd = &cobra.Command{
	Use:   "wafconf",
	Short: "wafconf - interactive waf configure wizard",
	Long: `Asks for a mkspec, build variant, IDE targets and local dependency checkouts,
then writes and runs the matching "python waf configure" command.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		applyViperOverrides(cmd)
		return runWizard(cmd.Context(), cmd.Flags().Changed("deps"))
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		return telemetry.Init(cmd.Context(), telemetry.Options{
			Enabled:     config.GetBool(config.KeyOtelEnabled),
			Stdout:      config.GetBool(config.KeyOtelStdout),
			ServiceName: "wafconf",
			Version:     Version,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		telemetry.Shutdown(ctx)
	},
}

// applyViperOverrides fills flags that were not given on the command line
// from the settings file and WAFCONF_* environment.
func applyViperOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("project") {
		projectFlag = config.GetString(config.KeyProject)
	}
	if !flags.Changed("grammar") {
		grammarFlag = config.GetString(config.KeyCommandGrammar)
	}
	if !flags.Changed("dry-run") {
		dryRunFlag = config.GetBool(config.KeyNoExec)
	}
	if !flags.Changed("no-pause") {
		noPauseFlag = config.GetBool(config.KeyNoPause)
	}
	if !flags.Changed("plain") {
		plainFlag = config.GetBool(config.KeyPlain)
	}
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, prompt.ErrAborted)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if isCanceled(err) {
			os.Exit(exitCodeCanceled)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if configureExitCode != 0 {
		os.Exit(configureExitCode)
	}
}
