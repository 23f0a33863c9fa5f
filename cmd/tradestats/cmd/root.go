package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradestats",
	Short: "Analytics for an options trade journal",
	Long: `Tradestats computes dashboard analytics from an options trade journal.

It provides tools for:
  - Importing broker CSV exports into a SQLite journal
  - Building analysis snapshots: equity curve, drawdowns, rolling metrics,
    calendar return grids, streaks, VIX regimes and MFE/MAE stats
  - Filtering by date range and strategy without equity leakage
  - Querying journal records

Complete documentation is available at https://github.com/rustyeddy/tradestats`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
