package cmd

import (
	"github.com/spf13/cobra"

	"mspro-labs/fdc-seed/internal/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "fdc-seed",
	Short: "Build the bundled default food library from USDA FoodData Central",
	Long: `fdc-seed searches USDA FoodData Central for a curated list of foods,
extracts per-100g macros and writes a deterministic JSON catalog that can be
merged with a previous run.

Set FDC_API_KEY in the environment (or in a .env file) before running generate.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Human-readable debug logging")
}

// Execute runs the root command.
func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}
