package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query trade journal data",
	Long: `Query and display journal records from the SQLite database.

Subcommands:
  trades     - List trades, optionally for one strategy
  strategies - List distinct strategy labels
  export     - Write trades back out as CSV

Examples:
  tradestats journal trades --db journal.sqlite
  tradestats journal trades --strategy "Iron Condor"
  tradestats journal export --out trades.csv`,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List trades in the journal",
	Args:  cobra.NoArgs,
	RunE:  runJournalTrades,
}

var journalStrategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List distinct strategy labels",
	Args:  cobra.NoArgs,
	RunE:  runJournalStrategies,
}

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV",
	Args:  cobra.NoArgs,
	RunE:  runJournalExport,
}

var (
	journalDBPath    string
	journalStrategy  string
	journalExportOut string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalStrategiesCmd)
	journalCmd.AddCommand(journalExportCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./tradestats.sqlite", "path to SQLite journal DB")
	journalTradesCmd.Flags().StringVarP(&journalStrategy, "strategy", "s", "", "only list trades with this strategy label")
	journalExportCmd.Flags().StringVarP(&journalExportOut, "out", "o", "trades.csv", "output CSV path")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return err
	}
	if journalStrategy != "" {
		trades, err = j.ListTradesByStrategy(journalStrategy)
		if err != nil {
			return err
		}
	}

	fmt.Printf("%-28s %-16s %-10s %-10s %12s %10s\n",
		"TRADE", "STRATEGY", "OPENED", "CLOSED", "P/L", "CONTRACTS")
	for _, t := range trades {
		closed := "open"
		if t.Closed() {
			closed = t.DateClosed.Format("2006-01-02")
		}
		fmt.Printf("%-28s %-16s %-10s %-10s %12.2f %10d\n",
			t.ID, t.Strategy, t.DateOpened.Format("2006-01-02"), closed, t.PL, t.NumContracts)
	}
	fmt.Printf("\n%d trades\n", len(trades))
	return nil
}

func runJournalStrategies(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	names, err := j.Strategies()
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return err
	}

	f, err := os.Create(journalExportOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := journal.WriteTrades(f, trades); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	fmt.Printf("wrote %d trades to %s at %s\n", len(trades), journalExportOut, time.Now().Format(time.RFC3339))
	return nil
}
