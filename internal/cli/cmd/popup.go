package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli/model"
)

var popupInline bool

var popupCmd = &cobra.Command{
	Use:   "popup",
	Short: "Interactive control panel",
	Long: `Open the interactive control panel for the active tab.

Keys:
  space    turn zoom on or off
  ←/→      zoom by 0.01
  1-4      zoom presets
  s        apply to this site only
  d        cycle dark, light and auto theme
  q        quit`,
	Args: cobra.NoArgs,
	RunE: runPopup,
}

func init() {
	rootCmd.AddCommand(popupCmd)
	popupCmd.Flags().BoolVar(&popupInline, "inline", false, "render below the prompt instead of the alternate screen")
}

func runPopup(_ *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}

	dark, _ := a.Settings.DarkMode(a.Ctx())
	m := model.NewPopupModel(a.Ctx(), model.PopupModelConfig{
		Settings: a.Settings,
		Page:     a.Page,
		DarkMode: dark,
	})

	var opts []tea.ProgramOption
	if !popupInline {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("popup: %w", err)
	}
	return nil
}
