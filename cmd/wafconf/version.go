package main

import (
	"fmt"
	"io"
	rtdebug "runtime/debug"

	"github.com/spf13/cobra"
)

var (
	// Version is the current version of wafconf (overridden by ldflags at build time)
	Version = "0.1.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	if commit := resolveCommitHash(); commit != "" {
		fmt.Fprintf(w, "wafconf version %s (%s: %s)\n", Version, Build, shortCommit(commit))
		return
	}
	fmt.Fprintf(w, "wafconf version %s (%s)\n", Version, Build)
}

// resolveCommitHash prefers the ldflag and falls back to the VCS stamp
// embedded by the go tool.
func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	info, ok := rtdebug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
