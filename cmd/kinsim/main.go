package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineal/kinsim/cmd/kinsim/commands"
	"github.com/lineal/kinsim/config"
	"github.com/lineal/kinsim/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kinsim",
	Short: "kinsim - deterministic family tree generator",
	Long: `kinsim - Deterministic family tree generation and querying.

kinsim grows a simulated family tree from two individuals born in 1950,
driven by CSV tables of name frequencies, birth/marriage rates and life
expectancy. A fixed seed reproduces an identical tree.

Available commands:
  generate - Build a tree from the catalog tables
  query    - Query a stored run (total, decades, years, duplicates)
  repl     - Interactive query session over a freshly generated tree
  tables   - Validate and summarize the catalog tables
  config   - Show or initialize configuration
  version  - Show version information

Examples:
  kinsim generate --seed 42 --save   # Build and persist a reproducible tree
  kinsim query total                 # Population of the latest stored run
  kinsim query decades               # Birth counts per decade
  kinsim repl                        # Interactive T/D/Y/N-style session`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")

		jsonLogs := false
		if cfg, err := config.Load(); err == nil {
			jsonLogs = cfg.Log.JSON
		}

		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.ReplCmd)
	rootCmd.AddCommand(commands.TablesCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
