package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli"
	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/domain/entity"
)

var toggleCmd = &cobra.Command{
	Use:       "toggle [on|off]",
	Short:     "Turn ultrawide zoom on or off",
	Long:      `Flip the global enabled flag, or set it explicitly, and tell the active tab.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runToggle,
}

var zoomCmd = &cobra.Command{
	Use:   "zoom <value|preset>",
	Short: "Set the global zoom factor",
	Long: `Set the global zoom factor and push it to the active tab.

The value is a factor between 1.00 and 3.00, optionally suffixed with "x".
Presets p1 to p4 select 1.00x, 1.33x, 1.50x and 1.78x.

Examples:
  cinefill zoom 1.33
  cinefill zoom 1.5x
  cinefill zoom p4`,
	Args: cobra.ExactArgs(1),
	RunE: runZoom,
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|auto]",
	Short:     "Show or set the popup theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "auto"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(zoomCmd)
	rootCmd.AddCommand(themeCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())
	out := cmd.OutOrStdout()

	var enabled bool
	if len(args) == 0 {
		enabled, err = a.Settings.ToggleEnabled(a.Ctx())
	} else {
		enabled, err = parseOnOff(args[0])
		if err == nil {
			err = a.Settings.SetEnabled(a.Ctx(), enabled)
		}
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	fmt.Fprintln(out, renderer.RenderToggled(enabled))
	notifyActiveTab(cmd, a, renderer)
	return nil
}

func runZoom(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())

	zoom, err := parseZoomArg(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	zoom, err = a.Settings.SetZoom(a.Ctx(), zoom)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderZoom(zoom))
	notifyActiveTab(cmd, a, renderer)
	return nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	renderer := styles.NewSettingsCLIRenderer(a.Theme())

	if len(args) == 0 {
		dark, err := a.Settings.DarkMode(a.Ctx())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderTheme(dark))
		return nil
	}

	dark, err := parseTheme(args[0])
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}
	if err := a.Settings.SetDarkMode(a.Ctx(), dark); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), renderer.RenderError(err))
		return err
	}

	// Re-render in the theme that was just chosen.
	renderer = styles.NewSettingsCLIRenderer(styles.NewTheme(dark))
	fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderTheme(dark))
	return nil
}

// notifyActiveTab pushes the settings resolved for the active tab's domain, so
// a site override keeps precedence over the global value just written. A
// missing engine or daemon only prints a hint.
func notifyActiveTab(cmd *cobra.Command, a *cli.App, renderer *styles.SettingsCLIRenderer) {
	if _, ok := a.Page.PushResolved(a.Ctx()); !ok {
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderNoEngine())
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "enable", "enabled":
		return true, nil
	case "off", "false", "0", "disable", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func parseZoomArg(s string) (float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if rest, ok := strings.CutPrefix(s, "p"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 || n > len(entity.ZoomPresets) {
			return 0, fmt.Errorf("unknown preset %q (use p1 to p%d)", s, len(entity.ZoomPresets))
		}
		return entity.ZoomPresets[n-1], nil
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid zoom %q: %w", s, err)
	}
	if v < entity.ZoomMin || v > entity.ZoomMax {
		return 0, fmt.Errorf("zoom %.2f out of range [%.2f, %.2f]", v, entity.ZoomMin, entity.ZoomMax)
	}
	return v, nil
}

func parseTheme(s string) (*bool, error) {
	switch strings.ToLower(s) {
	case "auto":
		return nil, nil
	case "dark":
		v := true
		return &v, nil
	case "light":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("expected dark, light or auto, got %q", s)
}
