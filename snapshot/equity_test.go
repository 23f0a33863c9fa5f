package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquityFromTradesCumulativePL(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 1, 2), 500, -200, 300)

	curve, draw, err := buildEquityCurve(context.Background(), trades, nil, false, 10_000)
	require.NoError(t, err)
	require.Len(t, curve, 4) // anchor + one point per trade
	require.Len(t, draw, 4)

	assert.Equal(t, 10_000.0, curve[0].Equity)
	assert.Equal(t, 0, curve[0].TradeNumber)
	assert.Equal(t, 10_500.0, curve[1].Equity)
	assert.Equal(t, 10_300.0, curve[2].Equity)
	assert.Equal(t, 10_600.0, curve[3].Equity)

	assert.Equal(t, 10_500.0, curve[2].HighWater)
	assert.InDelta(t, (10_300.0-10_500.0)/10_500.0*100, draw[2].Pct, 1e-9)
	assert.Zero(t, draw[3].Pct)
}

// A strategy-filtered view must never pick up the whole-account
// FundsAtClose snapshots: its curve is cumulative filtered P/L only.
func TestEquityLeakageGuard(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 1, 2), 100, 100, 100)
	for i := range trades {
		// whole-account balances moved by other strategies too
		trades[i].FundsAtClose = 50_000 + float64(i)*5_000
	}

	curve, _, err := buildEquityCurve(context.Background(), trades, nil, false, 10_000)
	require.NoError(t, err)
	require.Len(t, curve, 4)

	for i := 1; i < len(curve); i++ {
		assert.NotEqual(t, trades[i-1].FundsAtClose, curve[i].Equity)
		assert.Equal(t, 10_000.0+float64(i)*100, curve[i].Equity)
	}
}

func TestEquityUsesFundsAtCloseForFullAccount(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 1, 2), 100, -50)
	trades[0].FundsAtClose = 10_100
	trades[1].FundsAtClose = 10_050

	curve, _, err := buildEquityCurve(context.Background(), trades, nil, true, 0)
	require.NoError(t, err)
	require.Len(t, curve, 3)

	// seed = first funds-at-close minus its P/L
	assert.Equal(t, 10_000.0, curve[0].Equity)
	assert.Equal(t, 10_100.0, curve[1].Equity)
	assert.Equal(t, 10_050.0, curve[2].Equity)
}

func TestEquityLedgerFallbackChain(t *testing.T) {
	t.Parallel()

	logs := []DailyLogEntry{
		{Date: day(2024, 1, 1), NetLiquidity: 100_000},
		{Date: day(2024, 1, 2), CurrentFunds: 101_000},                      // netLiquidity missing
		{Date: day(2024, 1, 3), TradingFunds: 99_000},                       // both missing
		{Date: day(2024, 1, 4)},                                             // nothing usable, skipped
		{Date: day(2024, 1, 5), NetLiquidity: 102_000, TradingFunds: 1_000}, // priority order
	}

	curve, draw, err := buildEquityCurve(context.Background(), nil, logs, true, 0)
	require.NoError(t, err)
	require.Len(t, curve, 4)

	assert.Equal(t, 100_000.0, curve[0].Equity)
	assert.Equal(t, 101_000.0, curve[1].Equity)
	assert.Equal(t, 99_000.0, curve[2].Equity)
	assert.Equal(t, 102_000.0, curve[3].Equity)

	assert.Equal(t, 101_000.0, curve[2].HighWater)
	assert.InDelta(t, (99_000.0-101_000.0)/101_000.0*100, draw[2].Pct, 1e-9)
}

// Round-trip fidelity: ledger balances compounded from a starting balance
// come back out of the curve unchanged.
func TestEquityLedgerReconstructionIdentity(t *testing.T) {
	t.Parallel()

	balance := 150_000.0
	var logs []DailyLogEntry
	d := day(2024, 1, 1)
	for m := 0; m < 6; m++ {
		balance *= 1.02
		logs = append(logs, DailyLogEntry{Date: d.AddDate(0, m, 27), NetLiquidity: balance})
	}

	curve, _, err := buildEquityCurve(context.Background(), nil, logs, true, 0)
	require.NoError(t, err)
	require.Len(t, curve, len(logs))
	for i, e := range logs {
		assert.Equal(t, e.NetLiquidity, curve[i].Equity)
	}
}

func TestEquityLedgerTradeCounter(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 1, 1), 10, 20, 30, 40)
	logs := []DailyLogEntry{
		{Date: day(2024, 1, 2), NetLiquidity: 100_000},
		{Date: day(2024, 1, 4), NetLiquidity: 100_100},
	}

	curve, _, err := buildEquityCurve(context.Background(), trades, logs, true, 0)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, 2, curve[0].TradeNumber)
	assert.Equal(t, 4, curve[1].TradeNumber)
}

func TestEquityStrictlyIncreasingTimestamps(t *testing.T) {
	t.Parallel()

	d := day(2024, 5, 6)
	trades := []Trade{closedTrade(d, 10), closedTrade(d, -5), closedTrade(d, 7)}

	curve, draw, err := buildEquityCurve(context.Background(), trades, nil, false, 10_000)
	require.NoError(t, err)
	for i := 1; i < len(curve); i++ {
		assert.True(t, curve[i].Time.After(curve[i-1].Time),
			"point %d: %v !> %v", i, curve[i].Time, curve[i-1].Time)
		assert.Equal(t, curve[i].Time, draw[i].Time)
	}
}

func TestEquityOpenTradesFallback(t *testing.T) {
	t.Parallel()

	open := Trade{DateOpened: day(2024, 2, 1), PL: -150, NumContracts: 1}
	curve, _, err := buildEquityCurve(context.Background(), []Trade{open}, nil, false, 50_000)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, 49_850.0, curve[1].Equity)
}

func TestEquityEmptyInput(t *testing.T) {
	t.Parallel()

	curve, draw, err := buildEquityCurve(context.Background(), nil, nil, true, 0)
	assert.NoError(t, err)
	assert.Empty(t, curve)
	assert.Empty(t, draw)
}

func TestEstimateInitialCapital(t *testing.T) {
	t.Parallel()

	tr := closedTrade(day(2024, 1, 2), 500)
	tr.FundsAtClose = 100_500
	assert.Equal(t, 100_000.0, estimateInitialCapital([]Trade{tr}))

	// no balance info falls back to the fixed default
	assert.Equal(t, DefaultInitialCapital, estimateInitialCapital(tradeSeq(day(2024, 1, 2), 500)))
}

func TestEquityAnchorPrecedesFirstTrade(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 3, 4), 100)
	curve, _, err := buildEquityCurve(context.Background(), trades, nil, false, 10_000)
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, 24*time.Hour, curve[1].Time.Sub(curve[0].Time))
}
