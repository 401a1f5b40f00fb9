package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/lineal/kinsim/config"
	"github.com/lineal/kinsim/display"
)

// ConfigCmd shows or initializes configuration.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
	Long: `Show or initialize configuration.

Configuration is resolved from KINSIM_ environment variables, a
kinsim.toml found by walking up from the working directory, then
~/.kinsim/kinsim.toml, then built-in defaults.

Examples:
  kinsim config show           # Print the resolved configuration
  kinsim config init           # Write a starter kinsim.toml here
  kinsim config init --user    # Write ~/.kinsim/kinsim.toml instead`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as JSON",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter kinsim.toml with the default values",
	RunE:  runConfigInit,
}

var configInitUserFlag bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitUserFlag, "user", false, "Write the per-user config (~/.kinsim/kinsim.toml)")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return display.OutputJSON(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := "kinsim.toml"
	if configInitUserFlag {
		path = config.UserConfigPath()
	}

	if err := config.WriteStarter(path); err != nil {
		return err
	}
	pterm.Success.Printf("Wrote starter config to %s\n", path)
	return nil
}
