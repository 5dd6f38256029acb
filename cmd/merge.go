package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/fdc-seed/internal/catalog"
	"mspro-labs/fdc-seed/internal/config"
	"mspro-labs/fdc-seed/internal/logger"
)

var (
	mergeExisting  string
	mergeGenerated string
	mergeOut       string
	mergeMode      string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two catalog files offline",
	Long: `Combines a previously generated catalog into an existing one using the same
overwrite/append/refresh rules as generate. No network access is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := catalog.ParseMode(mergeMode)
		if err != nil {
			return config.NewConfigError("bad --mode", err)
		}
		out := mergeOut
		if out == "" {
			out = mergeExisting
		}

		existing, err := catalog.LoadExisting(mergeExisting)
		if err != nil {
			return err
		}
		generated, err := catalog.LoadCatalog(mergeGenerated)
		if err != nil {
			return err
		}
		catalog.SortEntries(generated)

		final := catalog.Merge(existing, generated, mode)
		if err := catalog.Write(out, final); err != nil {
			return fmt.Errorf("failed to write catalog: %w", err)
		}

		logger.Get().Info("merged catalogs",
			zap.Int("existing", len(existing)),
			zap.Int("generated", len(generated)),
			zap.Int("count", len(final)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d foods to %s (mode=%s)\n", len(final), out, mode)
		return nil
	},
}

func init() {
	f := mergeCmd.Flags()
	f.StringVar(&mergeExisting, "existing", "", "Existing catalog JSON")
	f.StringVar(&mergeGenerated, "generated", "", "Catalog JSON to merge in")
	f.StringVar(&mergeOut, "out", "", "Output path (defaults to --existing)")
	f.StringVar(&mergeMode, "mode", string(catalog.ModeAppend), "Merge mode: overwrite, append or refresh")
	_ = mergeCmd.MarkFlagRequired("existing")
	_ = mergeCmd.MarkFlagRequired("generated")

	rootCmd.AddCommand(mergeCmd)
}
