package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOfWeekBuckets(t *testing.T) {
	t.Parallel()

	mon := day(2024, 4, 1) // a Monday
	trades := []Trade{
		closedTrade(mon, 100),
		closedTrade(mon, 300),
		closedTrade(mon.AddDate(0, 0, 1), -50), // Tuesday
	}
	trades[0].MarginReq = 1_000 // ROM 10%
	// trades[1] has no margin: excluded from ROM, not from P/L

	stats := dayOfWeekStats(trades)
	require.Len(t, stats, 7)

	assert.Equal(t, time.Monday, stats[0].Weekday)
	assert.Equal(t, 2, stats[0].Trades)
	assert.InDelta(t, 200.0, stats[0].AvgPL, 1e-9)
	assert.InDelta(t, 10.0, stats[0].AvgROM, 1e-9)

	assert.Equal(t, time.Tuesday, stats[1].Weekday)
	assert.Equal(t, 1, stats[1].Trades)
	assert.InDelta(t, -50.0, stats[1].AvgPL, 1e-9)
	assert.Zero(t, stats[1].AvgROM)

	assert.Equal(t, time.Sunday, stats[6].Weekday)
	assert.Zero(t, stats[6].Trades)
}

func TestMonthlyPLZeroFilled(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		closedTrade(day(2023, 11, 10), 500),
		closedTrade(day(2024, 2, 5), -200),
	}
	grid := monthlyPL(trades)

	require.Contains(t, grid, 2023)
	require.Contains(t, grid, 2024)
	assert.Equal(t, 500.0, grid[2023][time.November])
	assert.Equal(t, -200.0, grid[2024][time.February])

	// every month of the observed year range is present, zero-filled
	assert.Len(t, grid[2023], 12)
	assert.Len(t, grid[2024], 12)
	assert.Zero(t, grid[2023][time.December])
	assert.Zero(t, grid[2024][time.July])
}

// The compounding order is load-bearing: a month's percent uses the
// balance as compounded up to that month.
func TestMonthlyPercentCompounding(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		closedTrade(day(2024, 1, 15), 57_700),  // 100k -> 157.7k
		closedTrade(day(2024, 2, 15), 31_540),  // 31540/157700 = 20%
		closedTrade(day(2024, 3, 15), -18_924), // -18924/189240 = -10%
	}

	grid := monthlyPL(trades)
	pct := monthlyPercent(grid, trades, nil, 100_000)

	assert.InDelta(t, 57.7, pct[2024][time.January], 1e-9)
	assert.InDelta(t, 20.0, pct[2024][time.February], 1e-9)
	assert.InDelta(t, -10.0, pct[2024][time.March], 1e-9)
	assert.Zero(t, pct[2024][time.April])
}

func TestMonthlyPercentPrefersLedger(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		closedTrade(day(2024, 1, 15), 10_000),
		closedTrade(day(2024, 2, 15), 5_000),
	}
	logs := []DailyLogEntry{
		// ledger knows the real account entered February at 200k
		{Date: day(2024, 1, 31), NetLiquidity: 200_000},
	}

	grid := monthlyPL(trades)
	pct := monthlyPercent(grid, trades, logs, 100_000)

	// January has no prior ledger balance: first in-month entry wins.
	// February enters with the Jan 31 ledger balance.
	assert.InDelta(t, 10_000.0/200_000*100, pct[2024][time.January], 1e-9)
	assert.InDelta(t, 5_000.0/200_000*100, pct[2024][time.February], 1e-9)
}

func TestMonthlyPercentFallsBackPerMonth(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		closedTrade(day(2024, 1, 15), 10_000),
		closedTrade(day(2024, 3, 15), 11_000),
	}
	// the daily log only begins in late February
	logs := []DailyLogEntry{
		{Date: day(2024, 2, 20), NetLiquidity: 110_000},
	}

	grid := monthlyPL(trades)
	pct := monthlyPercent(grid, trades, logs, 100_000)

	// January predates the ledger: trade-compounded base
	assert.InDelta(t, 10.0, pct[2024][time.January], 1e-9)
	// March enters with the Feb 20 ledger balance
	assert.InDelta(t, 11_000.0/110_000*100, pct[2024][time.March], 1e-9)
}

func TestROMTimelineSkipsMissingMargin(t *testing.T) {
	t.Parallel()

	a := closedTrade(day(2024, 1, 2), 100)
	a.MarginReq = 2_000
	b := closedTrade(day(2024, 1, 3), 50) // no margin

	rom := romTimeline([]Trade{a, b})
	require.Len(t, rom, 1)
	assert.InDelta(t, 5.0, rom[0].Value, 1e-9)
	assert.Equal(t, 1, rom[0].TradeNumber)

	seq := tradeSequence([]Trade{a, b})
	require.Len(t, seq, 2)
	assert.Equal(t, 50.0, seq[1].Value)
}
