package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli/styles"
)

var (
	siteEnabled bool
	siteZoom    float64
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Manage per-site overrides",
	Long: `Per-site overrides replace the global enabled flag and zoom for one domain.
Domains are normalized: "https://www.youtube.com/watch" and "youtube.com" name
the same site.`,
}

var siteSetCmd = &cobra.Command{
	Use:   "set <domain>",
	Short: "Create or update the override for a domain",
	Long: `Create or update the override for a domain.

Flags that are not given keep the current override values, or the global ones
when the domain has no override yet.

Examples:
  cinefill site set youtube.com --zoom 1.78
  cinefill site set netflix.com --enabled=false`,
	Args: cobra.ExactArgs(1),
	RunE: runSiteSet,
}

var siteClearCmd = &cobra.Command{
	Use:     "clear <domain>",
	Aliases: []string{"rm"},
	Short:   "Remove the override for a domain",
	Args:    cobra.ExactArgs(1),
	RunE:    runSiteClear,
}

var siteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List every site override",
	Args:    cobra.NoArgs,
	RunE:    runSiteList,
}

func init() {
	rootCmd.AddCommand(siteCmd)
	siteCmd.AddCommand(siteSetCmd)
	siteCmd.AddCommand(siteClearCmd)
	siteCmd.AddCommand(siteListCmd)

	siteSetCmd.Flags().BoolVar(&siteEnabled, "enabled", true, "enable zoom on this site")
	siteSetCmd.Flags().Float64Var(&siteZoom, "zoom", 0, "zoom factor for this site")
}

func runSiteSet(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())
	ctx := a.Ctx()

	base, err := a.Settings.Resolve(ctx, args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}
	enabled, zoom := base.Enabled, base.Zoom
	if cmd.Flags().Changed("enabled") {
		enabled = siteEnabled
	}
	if cmd.Flags().Changed("zoom") {
		zoom = siteZoom
	}

	override, err := a.Settings.SetSiteOverride(ctx, args[0], enabled, zoom)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSiteSet(*override))
	a.Page.PushResolved(ctx)
	return nil
}

func runSiteClear(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())
	ctx := a.Ctx()

	if err := a.Settings.ClearSiteOverride(ctx, args[0]); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSiteCleared(args[0]))
	a.Page.PushResolved(ctx)
	return nil
}

func runSiteList(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())

	overrides, err := a.Settings.ListSiteOverrides(a.Ctx())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderSiteList(overrides))
	return nil
}
