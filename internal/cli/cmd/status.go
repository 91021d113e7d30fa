package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/domain/entity"
	"github.com/jayseik/cinefill/internal/logging"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show settings and the daemon's tabs",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	ctx := a.Ctx()
	log := logging.FromContext(ctx)
	renderer := styles.NewSettingsCLIRenderer(a.Theme())

	global, err := a.Settings.Global(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}
	dark, err := a.Settings.DarkMode(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("failed to read dark mode")
	}

	view := styles.StatusView{Global: global, DarkMode: dark}

	tabs, err := a.Control.Tabs(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("daemon not reachable")
	} else {
		view.Daemon = true
		view.Tabs = tabs
		if active, ok := entity.ActiveTab(tabs); ok && active.Domain != "" {
			view.Site, err = a.Settings.SiteOverride(ctx, active.Domain)
			if err != nil {
				log.Debug().Err(err).Str("domain", active.Domain).Msg("failed to read site override")
			}
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderStatus(view))
	return nil
}
