package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jayseik/cinefill/internal/cli/styles"
	"github.com/jayseik/cinefill/internal/infrastructure/config"
)

var configEffective bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long:  `Show where the config file lives, print it as TOML, or emit its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		renderer := styles.NewConfigRenderer(styles.NewTheme(nil))
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderConfigInfo(a.Manager.ConfigFile()))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the loaded configuration as TOML",
	Long: `Print the configuration after defaults and environment overrides are applied.

With --effective the raw viper view is printed instead, which shows exactly
which keys came from CINEFILL_* environment variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		var out []byte
		if configEffective {
			out, err = config.RenderMap(a.Manager.Effective())
		} else {
			out, err = config.Render(a.Config)
		}
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.NewConfigRenderer(styles.NewTheme(nil)).RenderError(err))
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSchemaCmd)
	configShowCmd.Flags().BoolVar(&configEffective, "effective", false, "print the raw merged settings")
}
