// Package snapshot computes derived analytics views from an options trade
// journal: equity curve, drawdowns, rolling metrics, calendar grids, streak
// distributions, VIX regime buckets and MFE/MAE excursion stats. The whole
// pipeline is a pure function of its inputs with cooperative, poll-based
// cancellation via context.Context.
package snapshot

import (
	"math"
	"sort"
	"time"
)

// Trade is one opened (optionally closed) option position.
//
// Numeric fields use zero or non-finite values to mean "not reported";
// helpers below apply that convention so a missing margin or VIX excludes
// the trade from the metrics that need it instead of corrupting them.
type Trade struct {
	ID       string
	Strategy string // empty is coerced to "Unknown" during normalization

	DateOpened time.Time // required; canonical sort key
	TimeOpened string    // "15:04:05", tie-break on equal dates
	DateClosed time.Time // zero means the position is still open
	TimeClosed string

	PL           float64 // realized profit/loss, signed
	MarginReq    float64 // capital at risk; <= 0 means unknown
	Premium      float64
	NumContracts int
	Commissions  float64

	// FundsAtClose is the whole-account balance as reported when the trade
	// closed. It is only a trustworthy equity source for the full,
	// unfiltered account view.
	FundsAtClose float64

	OpeningVIX float64 // <= 0 means not recorded
	ClosingVIX float64

	// Excursion extremes observed during the trade's life, when the
	// broker export carries them.
	MaxProfit float64
	MaxLoss   float64
}

// Closed reports whether the position has a close date.
func (t Trade) Closed() bool { return !t.DateClosed.IsZero() }

// OpenStamp combines DateOpened and TimeOpened into a single UTC instant.
func (t Trade) OpenStamp() time.Time { return stamp(t.DateOpened, t.TimeOpened) }

// CloseStamp combines DateClosed and TimeClosed. Open trades fall back to
// the open stamp so chronological sorts stay total.
func (t Trade) CloseStamp() time.Time {
	if !t.Closed() {
		return t.OpenStamp()
	}
	return stamp(t.DateClosed, t.TimeClosed)
}

// Win reports whether the trade counts as a win. Zero P/L counts as a loss.
func (t Trade) Win() bool { return t.PL > 0 }

// ROM returns the return on margin in percent and whether it is defined.
func (t Trade) ROM() (float64, bool) {
	if !(t.MarginReq > 0) || !isFinite(t.MarginReq) || !isFinite(t.PL) {
		return 0, false
	}
	return t.PL / t.MarginReq * 100, true
}

// VIX returns the volatility reading for regime bucketing, preferring the
// opening print.
func (t Trade) VIX() (float64, bool) {
	if t.OpeningVIX > 0 && isFinite(t.OpeningVIX) {
		return t.OpeningVIX, true
	}
	if t.ClosingVIX > 0 && isFinite(t.ClosingVIX) {
		return t.ClosingVIX, true
	}
	return 0, false
}

func stamp(date time.Time, clock string) time.Time {
	d := date.UTC()
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if clock == "" {
		return d
	}
	t, err := time.Parse("15:04:05", clock)
	if err != nil {
		if t, err = time.Parse("15:04", clock); err != nil {
			return d
		}
	}
	return d.Add(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}

// DailyLogEntry is one calendar day's whole-account ledger snapshot. It
// always describes the entire account, never a strategy subset.
type DailyLogEntry struct {
	Date         time.Time
	NetLiquidity float64
	CurrentFunds float64
	TradingFunds float64
	DrawdownPct  float64 // optional precomputed value from the broker
}

// Equity resolves the entry's equity value from the priority-ordered
// candidates netLiquidity, currentFunds, tradingFunds. The first finite,
// non-zero candidate wins; zero stands in for "not reported".
func (e DailyLogEntry) Equity() (float64, bool) {
	for _, v := range [...]float64{e.NetLiquidity, e.CurrentFunds, e.TradingFunds} {
		if v != 0 && isFinite(v) {
			return v, true
		}
	}
	return 0, false
}

// DateRange bounds a filter window. Zero endpoints are open-ended; To is
// inclusive of its whole calendar day.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) contains(d time.Time) bool {
	if !r.From.IsZero() && d.Before(dayStart(r.From)) {
		return false
	}
	if !r.To.IsZero() && !d.Before(dayStart(r.To).Add(24*time.Hour)) {
		return false
	}
	return true
}

func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Filters select which trades an analysis covers. Immutable once passed in.
type Filters struct {
	DateRange  DateRange
	Strategies []string
}

// StrategyActive reports whether a strategy subset is selected. An active
// strategy filter disqualifies ledger balances as an equity source.
func (f Filters) StrategyActive() bool { return len(f.Strategies) > 0 }

func (f Filters) matchStrategy(s string) bool {
	if !f.StrategyActive() {
		return true
	}
	for _, want := range f.Strategies {
		if s == want {
			return true
		}
	}
	return false
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func sortTradesByOpen(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].OpenStamp().Before(trades[j].OpenStamp())
	})
}

func sortTradesByClose(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].CloseStamp().Before(trades[j].CloseStamp())
	})
}

func sortDailyLogs(logs []DailyLogEntry) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Date.Before(logs[j].Date)
	})
}
