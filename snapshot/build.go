package snapshot

import (
	"context"

	"github.com/rustyeddy/tradestats/excursion"
)

// Build runs the full snapshot pipeline over the raw journal records and
// returns one immutable Snapshot. Filters are applied exactly once, up
// front; every stage after that reads the same normalized slices.
//
// Cancellation is cooperative: ctx is polled before each stage and every
// few iterations inside hot loops. A cancelled run returns ctx.Err()
// (context.Canceled or context.DeadlineExceeded) and never a partial
// Snapshot; callers should treat that as a silent stop, not a failure.
//
// Empty or degenerate inputs produce a valid zeroed Snapshot, not an
// error.
func Build(ctx context.Context, trades []Trade, logs []DailyLogEntry, opts Options) (*Snapshot, error) {
	if opts.RiskFreeRate == 0 {
		opts.RiskFreeRate = DefaultRiskFreeRate
	}

	prog := newProgressReporter(opts.Progress)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Filtering trades", 5)

	filtered := normalizeTrades(trades, opts.Filters, opts.NormalizeToOneLot)
	filteredLogs := normalizeDailyLogs(logs, opts.Filters)

	// Ledger balances describe the whole account. They are only a valid
	// equity source when nothing has reshaped the trade set: a strategy
	// subset or one-lot normalization forces pure P/L reconstruction so
	// other strategies' balance moves cannot leak into this view.
	useLedger := !opts.NormalizeToOneLot && !opts.Filters.StrategyActive()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Calculating portfolio stats", 10)

	stats := portfolioStats(filtered, opts.RiskFreeRate, opts.InitialCapital)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Building equity curve", 25)

	ledgerForEquity := filteredLogs
	if !useLedger {
		ledgerForEquity = nil
	}
	curve, drawdowns, err := buildEquityCurve(ctx, filtered, ledgerForEquity, useLedger, opts.InitialCapital)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Calculating day of week stats", 30)

	dow := dayOfWeekStats(filtered)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Computing monthly returns", 40)

	plGrid := monthlyPL(filtered)
	pctLogs := filteredLogs
	if !useLedger {
		pctLogs = nil
	}
	pctGrid := monthlyPercent(plGrid, filtered, pctLogs, opts.InitialCapital)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Calculating rolling metrics", 50)

	rolling, err := rollingMetrics(ctx, filtered)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Analyzing volatility regimes", 70)

	regimes := volatilityRegimes(filtered)
	streaks := analyzeStreaks(filtered)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Calculating MFE/MAE analysis", 90)

	exc := excursion.Analyze(excursionInput(filtered))

	// the collaborator has no cancellation hook of its own, so re-check
	// after the heavy call before assembling the result
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Finalizing", 95)

	snap := &Snapshot{
		Trades:    filtered,
		DailyLogs: filteredLogs,
		Stats:     stats,
		Charts: ChartData{
			EquityCurve:   curve,
			Drawdowns:     drawdowns,
			DayOfWeek:     dow,
			MonthlyPL:     plGrid,
			MonthlyPct:    pctGrid,
			TradeSequence: tradeSequence(filtered),
			ROMTimeline:   romTimeline(filtered),
			StrategyPL:    strategyPL(filtered),
			Rolling:       rolling,
			Streaks:       streaks,
			Regimes:       regimes,
			Excursions:    exc,
		},
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prog.emit("Complete", 100)
	return snap, nil
}

func excursionInput(trades []Trade) []excursion.Trade {
	out := make([]excursion.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, excursion.Trade{
			ID:        t.ID,
			PL:        t.PL,
			MarginReq: t.MarginReq,
			MaxProfit: t.MaxProfit,
			MaxLoss:   t.MaxLoss,
		})
	}
	return out
}

// progressReporter keeps the advisory percent monotonically non-decreasing
// within one run and swallows a nil callback.
type progressReporter struct {
	fn   ProgressFunc
	last int
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn}
}

func (p *progressReporter) emit(step string, percent int) {
	if percent < p.last {
		percent = p.last
	}
	p.last = percent
	if p.fn != nil {
		p.fn(ProgressEvent{Step: step, Percent: percent})
	}
}
