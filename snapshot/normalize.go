package snapshot

// Record normalization: coercion of raw journal rows into a clean,
// chronologically sorted working set. Filters are applied exactly once,
// here; every later stage reads the normalized slice as an immutable input.

const unknownStrategy = "Unknown"

// normalizeTrades validates, coerces and filters the raw trade records.
// Trades without an open date or with a non-finite P/L are dropped
// outright since every downstream metric sums P/L. The returned slice is a
// fresh copy sorted by open date with open time as tie-break.
func normalizeTrades(raw []Trade, filters Filters, oneLot bool) []Trade {
	out := make([]Trade, 0, len(raw))
	for _, t := range raw {
		if t.DateOpened.IsZero() || !isFinite(t.PL) {
			continue
		}
		if t.Strategy == "" {
			t.Strategy = unknownStrategy
		}
		if !filters.DateRange.contains(t.DateOpened) {
			continue
		}
		if !filters.matchStrategy(t.Strategy) {
			continue
		}
		if oneLot {
			t = normalizeOneLot(t)
		}
		out = append(out, t)
	}
	sortTradesByOpen(out)
	return out
}

// normalizeOneLot scales a trade to its one-contract equivalent. The
// FundsAtClose snapshot is left untouched; the ledger-balance guard in
// Build already disqualifies it once normalization is requested.
func normalizeOneLot(t Trade) Trade {
	n := t.NumContracts
	if n <= 1 {
		if t.NumContracts == 0 {
			t.NumContracts = 1
		}
		return t
	}
	d := float64(n)
	t.PL /= d
	t.Premium /= d
	t.Commissions /= d
	t.MaxProfit /= d
	t.MaxLoss /= d
	if t.MarginReq > 0 {
		t.MarginReq /= d
	}
	t.NumContracts = 1
	return t
}

// normalizeDailyLogs filters the ledger rows to the analysis date range and
// sorts them chronologically. Entries without a date are dropped. Strategy
// filters never apply here: the daily log always describes the whole
// account.
func normalizeDailyLogs(raw []DailyLogEntry, filters Filters) []DailyLogEntry {
	out := make([]DailyLogEntry, 0, len(raw))
	for _, e := range raw {
		if e.Date.IsZero() {
			continue
		}
		if !filters.DateRange.contains(e.Date) {
			continue
		}
		out = append(out, e)
	}
	sortDailyLogs(out)
	return out
}
