package main

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/steinwurf/wafconf/internal/registry"
	"github.com/steinwurf/wafconf/internal/ui"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List known projects with their path and source",
	Long: `List the merged project registry. Entries come from the override file,
the built-in defaults and the directories next to the working directory,
in that priority. Paths that do not exist are never offered by the wizard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := workingDir()
		if err != nil {
			return err
		}
		existingOnly, _ := cmd.Flags().GetBool("existing")
		env := loadEnvironment(afero.NewOsFs(), cwd)
		printProjects(cmd.OutOrStdout(), env, existingOnly)
		return nil
	},
}

func init() {
	projectsCmd.Flags().Bool("existing", false, "Only list projects whose path exists")
}

func printProjects(w io.Writer, env *environment, existingOnly bool) {
	for _, e := range env.registry.Entries() {
		exists := registry.Exists(env.fs, env.cwd, e.Path)
		if existingOnly && !exists {
			continue
		}
		icon := ui.RenderSkipIcon()
		if exists {
			icon = ui.RenderPassIcon()
		}
		fmt.Fprintf(w, "%s %-14s %-28s %s\n", icon, e.Name, e.Path, ui.RenderMuted(e.Source.String()))
	}
}
