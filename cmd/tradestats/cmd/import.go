package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/journal"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import broker CSV exports into the SQLite journal",
	Long: `Import trade-log and daily-log CSV files into the SQLite journal.

Rows without a trade ID are assigned a fresh ULID, so re-importing the
same file updates rows in place instead of duplicating them only when the
export carries stable IDs.

Examples:
  tradestats import --db journal.sqlite --trades trade-log.csv
  tradestats import --db journal.sqlite --daily daily-log.csv`,
	RunE: runImport,
}

var (
	importDBPath    string
	importTradesCSV string
	importDailyCSV  string
)

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importDBPath, "db", "d", "./tradestats.sqlite", "path to SQLite journal DB")
	importCmd.Flags().StringVar(&importTradesCSV, "trades", "", "trade-log CSV to import")
	importCmd.Flags().StringVar(&importDailyCSV, "daily", "", "daily-log CSV to import")
}

func runImport(cmd *cobra.Command, args []string) error {
	if importTradesCSV == "" && importDailyCSV == "" {
		return fmt.Errorf("nothing to import: pass --trades and/or --daily")
	}

	j, err := journal.NewSQLite(importDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	if importTradesCSV != "" {
		trades, err := journal.ImportTrades(importTradesCSV)
		if err != nil {
			return fmt.Errorf("import trades: %w", err)
		}
		for _, t := range trades {
			if err := j.RecordTrade(t); err != nil {
				return fmt.Errorf("record trade %s: %w", t.ID, err)
			}
		}
		fmt.Printf("imported %d trades from %s\n", len(trades), importTradesCSV)
	}

	if importDailyCSV != "" {
		logs, err := journal.ImportDailyLogs(importDailyCSV)
		if err != nil {
			return fmt.Errorf("import daily log: %w", err)
		}
		for _, e := range logs {
			if err := j.RecordDailyLog(e); err != nil {
				return fmt.Errorf("record daily log %s: %w", e.Date.Format("2006-01-02"), err)
			}
		}
		fmt.Printf("imported %d daily-log entries from %s\n", len(logs), importDailyCSV)
	}

	return nil
}
