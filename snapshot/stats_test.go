package snapshot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPortfolioStatsBasics(t *testing.T) {
	t.Parallel()

	trades := tradeSeq(day(2024, 1, 2), 100, -50, 300, -150)
	trades[0].MarginReq = 1_000
	trades[2].Premium = 250
	trades[3].Commissions = 6.5

	s := portfolioStats(trades, DefaultRiskFreeRate, 100_000)

	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 2, s.Losses)
	assert.InDelta(t, 50.0, s.WinRate, 1e-9)
	assert.InDelta(t, 200.0, s.NetPL, 1e-9)
	assert.InDelta(t, 400.0, s.GrossProfit, 1e-9)
	assert.InDelta(t, 200.0, s.GrossLoss, 1e-9)
	assert.InDelta(t, 2.0, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 50.0, s.Expectancy, 1e-9)
	assert.InDelta(t, 300.0, s.LargestWin, 1e-9)
	assert.InDelta(t, 150.0, s.LargestLoss, 1e-9)
	assert.InDelta(t, 250.0, s.TotalPremium, 1e-9)
	assert.InDelta(t, 6.5, s.TotalCommissions, 1e-9)
	assert.InDelta(t, 10.0, s.AvgROM, 1e-9)
	assert.Equal(t, day(2024, 1, 2), s.StartDate)
}

func TestPortfolioStatsEmpty(t *testing.T) {
	t.Parallel()

	s := portfolioStats(nil, DefaultRiskFreeRate, 0)
	assert.Zero(t, s.TotalTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
	assert.Zero(t, s.MaxDrawdownPct)
	assert.Zero(t, s.SharpeRatio)
}

func TestPortfolioStatsNoLossSentinel(t *testing.T) {
	t.Parallel()

	s := portfolioStats(tradeSeq(day(2024, 1, 2), 100, 200), DefaultRiskFreeRate, 0)
	assert.Equal(t, profitFactorCap, s.ProfitFactor)
}

func TestMaxDrawdownPct(t *testing.T) {
	t.Parallel()

	// 10k -> 11k -> 8.8k (-20% from peak) -> 9.9k
	trades := tradeSeq(day(2024, 1, 2), 1_000, -2_200, 1_100)
	dd := maxDrawdownPct(trades, 10_000)
	assert.InDelta(t, -20.0, dd, 1e-9)
}

func TestSharpeSignAndDegenerates(t *testing.T) {
	t.Parallel()

	winners := tradeSeq(day(2024, 1, 1), 500, 600, 400, 550, 450)
	s := sharpeFromDaily(winners, DefaultRiskFreeRate, 100_000)
	assert.Greater(t, s, 0.0)
	assert.False(t, math.IsNaN(s))

	assert.Zero(t, sharpeFromDaily(tradeSeq(day(2024, 1, 1), 500), DefaultRiskFreeRate, 100_000))
	assert.Zero(t, sharpeFromDaily(nil, DefaultRiskFreeRate, 100_000))
}
