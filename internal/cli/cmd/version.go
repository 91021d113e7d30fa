package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/domain/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Run: func(cmd *cobra.Command, _ []string) {
		theme := styles.NewTheme(nil)
		info := buildInfo
		if info.Version == "" {
			info.Version = "dev"
		}
		if info.GoVersion == "" {
			info.GoVersion = runtime.Version()
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s %s\n", theme.Highlight.Render(styles.IconVersion), theme.Title.Render("cinefill"), info.Version)
		if info.Commit != "" {
			fmt.Fprintf(out, "  %s %s\n", theme.Subtle.Render("commit"), info.Commit)
		}
		if info.BuildDate != "" {
			fmt.Fprintf(out, "  %s %s\n", theme.Subtle.Render("built "), info.BuildDate)
		}
		fmt.Fprintf(out, "  %s %s\n", theme.Subtle.Render("go    "), info.GoVersion)
		fmt.Fprintf(out, "  %s %s\n", theme.Subtle.Render("repo  "), build.RepoURL())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
