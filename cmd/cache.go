package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mspro-labs/fdc-seed/internal/config"
	"mspro-labs/fdc-seed/internal/db"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local search response cache",
	Long: `Manages the SQLite cache filled by 'generate --cache'.

Examples:
  fdc-seed cache history
  fdc-seed cache clear "apple raw"
  fdc-seed cache clear all`,
}

var cacheHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List cached queries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.GetAppConfig()
		if err != nil {
			return err
		}
		database, err := db.Connect(appCfg.CacheDBPath)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer database.Close()

		entries, err := db.ListSearchHistory(database)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Cached FDC searches")
		fmt.Fprintln(out, "-------------------")
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history found.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "[%s] %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.QueryText)
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear <query>|all",
	Short: "Remove one cached query, or everything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.GetAppConfig()
		if err != nil {
			return err
		}
		database, err := db.Connect(appCfg.CacheDBPath)
		if err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		defer database.Close()

		target := strings.TrimSpace(strings.Join(args, " "))
		var affected int64
		if strings.EqualFold(target, "all") {
			affected, err = db.ClearAllSearchHistory(database)
		} else {
			affected, err = db.ClearSearchHistory(database, target)
		}
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached search(es).\n", affected)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheHistoryCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
