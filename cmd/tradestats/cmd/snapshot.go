package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradestats/config"
	"github.com/rustyeddy/tradestats/journal"
	"github.com/rustyeddy/tradestats/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build an analysis snapshot from the journal",
	Long: `Build a full analysis snapshot: portfolio stats, equity curve and
drawdowns, calendar grids, rolling metrics, streaks, VIX regimes and
MFE/MAE excursion stats.

When a strategy filter or one-lot normalization is applied, the equity
curve is reconstructed purely from the filtered trades' P/L; whole-account
balances are only trusted for the complete, unfiltered account view.

Ctrl-C cancels a long-running build cleanly.

Examples:
  tradestats snapshot --db journal.sqlite
  tradestats snapshot --strategy "Iron Condor" --from 2024-01-01 --to 2024-12-31
  tradestats snapshot --config tradestats.yaml --one-lot`,
	RunE: runSnapshot,
}

var (
	snapDBPath     string
	snapConfigPath string
	snapStrategies []string
	snapFrom       string
	snapTo         string
	snapOneLot     bool
	snapRiskFree   float64
	snapCapital    float64
	snapQuiet      bool
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapDBPath, "db", "d", "./tradestats.sqlite", "path to SQLite journal DB")
	snapshotCmd.Flags().StringVarP(&snapConfigPath, "config", "f", "", "config file overriding the flags")
	snapshotCmd.Flags().StringSliceVarP(&snapStrategies, "strategy", "s", nil, "strategy label(s) to include")
	snapshotCmd.Flags().StringVar(&snapFrom, "from", "", "start date (YYYY-MM-DD)")
	snapshotCmd.Flags().StringVar(&snapTo, "to", "", "end date (YYYY-MM-DD, inclusive)")
	snapshotCmd.Flags().BoolVar(&snapOneLot, "one-lot", false, "normalize every trade to one contract")
	snapshotCmd.Flags().Float64Var(&snapRiskFree, "rf", snapshot.DefaultRiskFreeRate, "annual risk-free rate in percent")
	snapshotCmd.Flags().Float64Var(&snapCapital, "capital", 0, "override the reconstructed starting capital")
	snapshotCmd.Flags().BoolVarP(&snapQuiet, "quiet", "q", false, "suppress progress output")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	opts := snapshot.Options{
		RiskFreeRate:      snapRiskFree,
		NormalizeToOneLot: snapOneLot,
		InitialCapital:    snapCapital,
		Filters:           snapshot.Filters{Strategies: snapStrategies},
	}

	var err error
	if opts.Filters.DateRange.From, opts.Filters.DateRange.To, err = parseRange(snapFrom, snapTo); err != nil {
		return err
	}

	trades, logs, err := loadRecords()
	if err != nil {
		return err
	}

	if !snapQuiet {
		opts.Progress = func(e snapshot.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", e.Percent, e.Step)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snap, err := snapshot.Build(ctx, trades, logs, opts)
	if errors.Is(err, context.Canceled) {
		// a cancelled build is a silent stop, not a failure
		fmt.Fprintln(os.Stderr, "snapshot cancelled")
		return nil
	}
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	printSnapshot(snap)
	return nil
}

// loadRecords pulls trades and daily logs from the configured journal; a
// config file, when given, wins over the individual flags.
func loadRecords() ([]snapshot.Trade, []snapshot.DailyLogEntry, error) {
	if snapConfigPath == "" {
		return loadSQLite(snapDBPath)
	}

	cfg, err := config.LoadFromFile(snapConfigPath)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Journal.Type == "csv" {
		trades, err := journal.ImportTrades(cfg.Journal.TradesCSV)
		if err != nil {
			return nil, nil, fmt.Errorf("load trades csv: %w", err)
		}
		var logs []snapshot.DailyLogEntry
		if cfg.Journal.DailyLogCSV != "" {
			if logs, err = journal.ImportDailyLogs(cfg.Journal.DailyLogCSV); err != nil {
				return nil, nil, fmt.Errorf("load daily-log csv: %w", err)
			}
		}
		return trades, logs, nil
	}
	return loadSQLite(cfg.Journal.DBPath)
}

func loadSQLite(path string) ([]snapshot.Trade, []snapshot.DailyLogEntry, error) {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.ListTrades()
	if err != nil {
		return nil, nil, err
	}
	logs, err := j.ListDailyLogs()
	if err != nil {
		return nil, nil, err
	}
	return trades, logs, nil
}

func parseRange(from, to string) (f, t time.Time, err error) {
	if from != "" {
		if f, err = time.Parse("2006-01-02", from); err != nil {
			return f, t, fmt.Errorf("bad --from: %w", err)
		}
	}
	if to != "" {
		if t, err = time.Parse("2006-01-02", to); err != nil {
			return f, t, fmt.Errorf("bad --to: %w", err)
		}
	}
	return f, t, nil
}

func printSnapshot(snap *snapshot.Snapshot) {
	s := snap.Stats

	fmt.Println("Portfolio")
	fmt.Printf("  Trades:         %d (%d open)\n", s.TotalTrades, s.OpenTrades)
	fmt.Printf("  Win rate:       %.1f%% (%d W / %d L)\n", s.WinRate, s.Wins, s.Losses)
	fmt.Printf("  Net P/L:        %.2f\n", s.NetPL)
	fmt.Printf("  Profit factor:  %.2f\n", s.ProfitFactor)
	fmt.Printf("  Expectancy:     %.2f per trade\n", s.Expectancy)
	fmt.Printf("  Avg win/loss:   %.2f / %.2f\n", s.AvgWin, s.AvgLoss)
	fmt.Printf("  Max drawdown:   %.2f%%\n", s.MaxDrawdownPct)
	fmt.Printf("  Sharpe:         %.2f\n", s.SharpeRatio)

	if n := len(snap.Charts.EquityCurve); n > 0 {
		last := snap.Charts.EquityCurve[n-1]
		fmt.Printf("\nEquity: %.2f (high water %.2f) over %d points\n",
			last.Equity, last.HighWater, n)
	}

	st := snap.Charts.Streaks
	fmt.Printf("\nStreaks: max %d wins, max %d losses\n", st.MaxWinStreak, st.MaxLossStreak)

	fmt.Println("\nVIX regimes")
	for _, r := range snap.Charts.Regimes {
		fmt.Printf("  %-5s %4d trades  win %.1f%%  avg ROM %.2f%%\n",
			r.Band, r.Trades, r.WinRate, r.AvgROM)
	}

	if snap.Charts.Excursions.Stats.Count > 0 {
		ex := snap.Charts.Excursions.Stats
		fmt.Printf("\nExcursions: avg MFE %.1f%%, avg MAE %.1f%%, edge ratio %.2f\n",
			ex.AvgMFE, ex.AvgMAE, ex.EdgeRatio)
	}
}
