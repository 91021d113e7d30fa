// Package cmd provides Cobra CLI commands for cinefill.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli"
	"github.com/jayseik/cinefill/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "cinefill",
		Short: "Fill ultrawide screens with 16:9 video",
		Long: `cinefill - zoom and crop web video to fill a 21:9 display.

cinefill drives a Chromium browser over the DevTools protocol and scales the
main video of every page by a configurable factor, hiding the overflow so the
letterbox bars disappear.

Use 'cinefill run' to start the daemon, then control it with the other
subcommands or the interactive 'cinefill popup'. Settings live in a local
SQLite store shared by the daemon and the CLI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "version", "schema":
				return nil
			}

			var err error
			app, err = cli.NewApp(configFile)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/cinefill/config.toml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
