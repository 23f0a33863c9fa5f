package snapshot

import (
	"sort"
	"time"
)

// Calendar aggregation: ISO-weekday buckets, monthly P/L and monthly
// percentage-return grids, plus the simple per-trade sequence projections.

// dayOfWeekStats buckets trades by the UTC weekday they were opened on.
// The result always has seven rows, Monday first, even when a weekday saw
// no trades.
func dayOfWeekStats(trades []Trade) []DayOfWeekStats {
	order := [...]time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	type acc struct {
		n      int
		plSum  float64
		romSum float64
		romN   int
	}
	var buckets [7]acc

	idx := func(w time.Weekday) int {
		// time.Sunday is 0; shift to Monday-first ISO ordering
		return (int(w) + 6) % 7
	}

	for _, t := range trades {
		i := idx(t.DateOpened.UTC().Weekday())
		buckets[i].n++
		buckets[i].plSum += t.PL
		if rom, ok := t.ROM(); ok {
			buckets[i].romSum += rom
			buckets[i].romN++
		}
	}

	out := make([]DayOfWeekStats, 7)
	for i, w := range order {
		b := buckets[idx(w)]
		s := DayOfWeekStats{Weekday: w, Trades: b.n}
		if b.n > 0 {
			s.AvgPL = b.plSum / float64(b.n)
		}
		if b.romN > 0 {
			s.AvgROM = b.romSum / float64(b.romN)
		}
		out[i] = s
	}
	return out
}

// tradeMonth keys a trade to the month its P/L was realized in: close date
// when closed, open date otherwise.
func tradeMonth(t Trade) (int, time.Month) {
	d := t.DateOpened
	if t.Closed() {
		d = t.DateClosed
	}
	u := d.UTC()
	return u.Year(), u.Month()
}

// monthlyPL sums realized P/L into a year -> month grid, zero-filling
// every month of the observed year range so sparse journals still render
// a full calendar.
func monthlyPL(trades []Trade) MonthlyGrid {
	grid := MonthlyGrid{}
	if len(trades) == 0 {
		return grid
	}

	minYear, maxYear := 0, 0
	for _, t := range trades {
		y, m := tradeMonth(t)
		if minYear == 0 || y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
		if grid[y] == nil {
			grid[y] = zeroMonths()
		}
		grid[y][m] += t.PL
	}
	for y := minYear; y <= maxYear; y++ {
		if grid[y] == nil {
			grid[y] = zeroMonths()
		}
	}
	return grid
}

func zeroMonths() map[time.Month]float64 {
	m := make(map[time.Month]float64, 12)
	for mo := time.January; mo <= time.December; mo++ {
		m[mo] = 0
	}
	return m
}

type monthKey struct {
	year  int
	month time.Month
}

func (k monthKey) start() time.Time {
	return time.Date(k.year, k.month, 1, 0, 0, 0, 0, time.UTC)
}

// monthlyPercent converts the monthly P/L grid into percentage returns.
//
// When a daily log is available, each month's percent is P/L over the
// ledger balance entering that month. Months the ledger does not cover
// fall back to the compounded trade-derived base. Without a ledger the
// base is a running capital walked month by month in chronological order:
// the percent for a month must reflect the balance as compounded up to
// that month, not today's capital projected backward.
func monthlyPercent(plGrid MonthlyGrid, trades []Trade, logs []DailyLogEntry, initialCapital float64) MonthlyGrid {
	out := MonthlyGrid{}
	if len(plGrid) == 0 {
		return out
	}

	months := make([]monthKey, 0, len(plGrid)*12)
	for y, row := range plGrid {
		for m := range row {
			months = append(months, monthKey{y, m})
		}
		out[y] = zeroMonths()
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].start().Before(months[j].start())
	})

	ledger := newLedgerIndex(logs)

	capital := initialCapital
	if capital <= 0 {
		capital = estimateInitialCapital(closedTradesByClose(trades))
	}

	for _, k := range months {
		pl := plGrid[k.year][k.month]

		base := capital
		fromLedger := false
		if b, ok := ledger.startBalance(k); ok && b > 0 {
			base = b
			fromLedger = true
		}

		if base > 0 && pl != 0 {
			out[k.year][k.month] = pl / base * 100
		}

		if fromLedger {
			capital = base + pl
		} else {
			capital += pl
		}
	}
	return out
}

// ledgerIndex answers "what balance did the account enter month M with":
// the last ledger balance before the month begins, or the first balance
// recorded within it when the log starts mid-history.
type ledgerIndex struct {
	dates    []time.Time
	balances []float64
}

func newLedgerIndex(logs []DailyLogEntry) *ledgerIndex {
	sorted := make([]DailyLogEntry, len(logs))
	copy(sorted, logs)
	sortDailyLogs(sorted)

	idx := &ledgerIndex{}
	for _, e := range sorted {
		if eq, ok := e.Equity(); ok {
			idx.dates = append(idx.dates, dayStart(e.Date))
			idx.balances = append(idx.balances, eq)
		}
	}
	return idx
}

func (ix *ledgerIndex) startBalance(k monthKey) (float64, bool) {
	if len(ix.dates) == 0 {
		return 0, false
	}
	start := k.start()
	next := start.AddDate(0, 1, 0)

	// first entry at or after the month start
	i := sort.Search(len(ix.dates), func(j int) bool {
		return !ix.dates[j].Before(start)
	})
	if i > 0 {
		return ix.balances[i-1], true
	}
	if i < len(ix.dates) && ix.dates[i].Before(next) {
		return ix.balances[i], true
	}
	return 0, false
}

// tradeSequence projects per-trade P/L onto the trade index axis.
func tradeSequence(trades []Trade) []SequencePoint {
	out := make([]SequencePoint, 0, len(trades))
	for i, t := range trades {
		out = append(out, SequencePoint{
			TradeNumber: i + 1,
			Time:        t.CloseStamp(),
			Value:       t.PL,
		})
	}
	return out
}

// romTimeline projects return-on-margin per trade, restricted to trades
// with a positive margin requirement.
func romTimeline(trades []Trade) []SequencePoint {
	out := make([]SequencePoint, 0, len(trades))
	for i, t := range trades {
		rom, ok := t.ROM()
		if !ok {
			continue
		}
		out = append(out, SequencePoint{
			TradeNumber: i + 1,
			Time:        t.CloseStamp(),
			Value:       rom,
		})
	}
	return out
}

// strategyPL sums net P/L per strategy label.
func strategyPL(trades []Trade) map[string]float64 {
	out := map[string]float64{}
	for _, t := range trades {
		out[t.Strategy] += t.PL
	}
	return out
}
