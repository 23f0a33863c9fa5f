package snapshot

import (
	"context"
	"time"
)

// Equity & drawdown reconstruction. Two sources exist for the equity
// curve: the daily ledger (whole-account balances) and the trades
// themselves (cumulative P/L on a reconstructed starting balance). The
// ledger may only be used when the analysis covers the complete account —
// the useLedger flag is decided once in Build and threaded down here, so a
// strategy-filtered or one-lot view can never leak other strategies'
// balance moves into its curve.

// checkEvery bounds cancellation latency inside hot loops.
const checkEvery = 100

func buildEquityCurve(ctx context.Context, trades []Trade, logs []DailyLogEntry, useLedger bool, initialCapital float64) ([]EquityPoint, []DrawdownPoint, error) {
	if useLedger && len(logs) > 0 {
		return equityFromLedger(ctx, trades, logs)
	}
	return equityFromTrades(ctx, trades, useLedger, initialCapital)
}

// equityFromLedger walks the daily log chronologically, resolving each
// entry's balance through the netLiquidity/currentFunds/tradingFunds
// fallback chain. The trade count per point advances a monotonic pointer
// over the close-sorted trades instead of searching per entry.
func equityFromLedger(ctx context.Context, trades []Trade, logs []DailyLogEntry) ([]EquityPoint, []DrawdownPoint, error) {
	sorted := make([]DailyLogEntry, len(logs))
	copy(sorted, logs)
	sortDailyLogs(sorted)

	closed := closedTradesByClose(trades)

	curve := make([]EquityPoint, 0, len(sorted))
	draw := make([]DrawdownPoint, 0, len(sorted))

	highWater := 0.0
	ptr := 0

	for i, entry := range sorted {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		equity, ok := entry.Equity()
		if !ok {
			continue
		}

		dayEnd := dayStart(entry.Date).Add(24 * time.Hour)
		for ptr < len(closed) && closed[ptr].CloseStamp().Before(dayEnd) {
			ptr++
		}

		if equity > highWater {
			highWater = equity
		}

		pct := 0.0
		if highWater > 0 {
			pct = (equity - highWater) / highWater * 100
		}

		curve = append(curve, EquityPoint{
			Time:        dayStart(entry.Date),
			Equity:      equity,
			HighWater:   highWater,
			TradeNumber: ptr,
		})
		draw = append(draw, DrawdownPoint{Time: dayStart(entry.Date), Pct: pct})
	}

	ensureIncreasing(curve, draw)
	return curve, draw, nil
}

// equityFromTrades reconstructs the curve from the trades alone: a
// synthetic anchor at the starting balance, then one point per trade. When
// useLedger still applies (full account, no daily log supplied) each
// trade's own FundsAtClose snapshot is preferred; otherwise equity is
// strictly cumulative filtered P/L.
func equityFromTrades(ctx context.Context, trades []Trade, useLedger bool, initialCapital float64) ([]EquityPoint, []DrawdownPoint, error) {
	seq := closedTradesByClose(trades)
	if len(seq) == 0 {
		seq = make([]Trade, len(trades))
		copy(seq, trades)
		sortTradesByOpen(seq)
	}
	if len(seq) == 0 {
		return nil, nil, nil
	}

	capital := initialCapital
	if capital <= 0 {
		capital = estimateInitialCapital(seq)
	}

	curve := make([]EquityPoint, 0, len(seq)+1)
	draw := make([]DrawdownPoint, 0, len(seq)+1)

	anchor := seq[0].CloseStamp().Add(-24 * time.Hour)
	curve = append(curve, EquityPoint{Time: anchor, Equity: capital, HighWater: capital})
	draw = append(draw, DrawdownPoint{Time: anchor})

	equity := capital
	highWater := capital

	for i, t := range seq {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		if useLedger && t.FundsAtClose > 0 && isFinite(t.FundsAtClose) {
			equity = t.FundsAtClose
		} else {
			equity += t.PL
		}
		if equity > highWater {
			highWater = equity
		}

		pct := 0.0
		if highWater > 0 {
			pct = (equity - highWater) / highWater * 100
		}

		curve = append(curve, EquityPoint{
			Time:        t.CloseStamp(),
			Equity:      equity,
			HighWater:   highWater,
			TradeNumber: i + 1,
		})
		draw = append(draw, DrawdownPoint{Time: t.CloseStamp(), Pct: pct})
	}

	ensureIncreasing(curve, draw)
	return curve, draw, nil
}

// estimateInitialCapital backs the starting balance out of the first
// trade's reported account snapshot, falling back to a fixed default when
// the journal carries no balance at all.
func estimateInitialCapital(seq []Trade) float64 {
	if len(seq) > 0 {
		first := seq[0]
		if first.FundsAtClose > 0 && isFinite(first.FundsAtClose) {
			if c := first.FundsAtClose - first.PL; c > 0 {
				return c
			}
		}
	}
	return DefaultInitialCapital
}

// closedTradesByClose returns the closed subset sorted by close stamp.
func closedTradesByClose(trades []Trade) []Trade {
	out := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			out = append(out, t)
		}
	}
	sortTradesByClose(out)
	return out
}

// ensureIncreasing makes curve timestamps strictly increasing. Trades that
// close on the same instant keep their order and get a deterministic
// millisecond offset per index so charting never sees duplicate X values.
func ensureIncreasing(curve []EquityPoint, draw []DrawdownPoint) {
	for i := 1; i < len(curve); i++ {
		if !curve[i].Time.After(curve[i-1].Time) {
			curve[i].Time = curve[i-1].Time.Add(time.Millisecond)
			draw[i].Time = curve[i].Time
		}
	}
}
