package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/steinwurf/wafconf/internal/mkspec"
)

var mkspecsCmd = &cobra.Command{
	Use:   "mkspecs",
	Short: "List the mkspecs offered on a platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, _ := cmd.Flags().GetString("platform")
		return printMkspecs(cmd.OutOrStdout(), platform)
	},
}

func init() {
	mkspecsCmd.Flags().String("platform", runtime.GOOS, "Platform to list (darwin, linux, windows)")
}

func printMkspecs(w io.Writer, platform string) error {
	specs, ok := mkspec.ForPlatform(platform)
	if !ok {
		return fmt.Errorf("platform %q is not supported (supported: %v)", platform, mkspec.Platforms())
	}
	for _, s := range specs {
		fam := mkspec.Family(s)
		if fam == "" {
			fam = "-"
		}
		fmt.Fprintf(w, "%-36s %s\n", s, fam)
	}
	return nil
}
