package snapshot

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bruteWindow recomputes every rolling metric from scratch over
// trades[i-29..i] to pin down the incremental implementation.
func bruteWindow(trades []Trade, i int) RollingPoint {
	lo := i - rollingWindow + 1

	sum, posSum, negSum := 0.0, 0.0, 0.0
	wins := 0
	for j := lo; j <= i; j++ {
		pl := trades[j].PL
		sum += pl
		if pl > 0 {
			wins++
			posSum += pl
		} else {
			negSum += -pl
		}
	}
	mean := sum / rollingWindow

	variance := 0.0
	for j := lo; j <= i; j++ {
		d := trades[j].PL - mean
		variance += d * d
	}
	vol := math.Sqrt(variance / rollingWindow)

	pf := 0.0
	switch {
	case negSum > 0:
		pf = posSum / negSum
	case wins > 0:
		pf = profitFactorCap
	}
	sharpe := 0.0
	if vol > 0 {
		sharpe = mean / vol
	}

	return RollingPoint{
		Index:        i,
		WinRate:      float64(wins) / rollingWindow * 100,
		MeanPL:       mean,
		Volatility:   vol,
		ProfitFactor: pf,
		Sharpe:       sharpe,
	}
}

func TestRollingMatchesBruteForce(t *testing.T) {
	t.Parallel()

	// deterministic pseudo-random P/L mix with wins, losses and zeros
	pls := make([]float64, 0, 80)
	seed := int64(42)
	for i := 0; i < 80; i++ {
		seed = (seed*1103515245 + 12345) % 2147483648
		pls = append(pls, float64(seed%4001-2000))
	}
	trades := tradeSeq(day(2023, 1, 1), pls...)

	got, err := rollingMetrics(context.Background(), trades)
	require.NoError(t, err)
	require.Len(t, got, len(trades)-rollingWindow+1)

	for _, p := range got {
		want := bruteWindow(trades, p.Index)
		assert.InDelta(t, want.WinRate, p.WinRate, 1e-9, "index %d", p.Index)
		assert.InDelta(t, want.MeanPL, p.MeanPL, 1e-6, "index %d", p.Index)
		assert.InDelta(t, want.Volatility, p.Volatility, 1e-6, "index %d", p.Index)
		assert.InDelta(t, want.ProfitFactor, p.ProfitFactor, 1e-6, "index %d", p.Index)
		assert.InDelta(t, want.Sharpe, p.Sharpe, 1e-9, "index %d", p.Index)
	}
}

func TestRollingProfitFactorSentinel(t *testing.T) {
	t.Parallel()

	pls := make([]float64, rollingWindow)
	for i := range pls {
		pls[i] = 100
	}
	got, err := rollingMetrics(context.Background(), tradeSeq(day(2023, 1, 1), pls...))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, profitFactorCap, got[0].ProfitFactor)
	assert.Equal(t, 100.0, got[0].WinRate)
	// all-equal window has zero volatility, so the ratio is defined as 0
	assert.Zero(t, got[0].Sharpe)
}

func TestRollingTooFewTrades(t *testing.T) {
	t.Parallel()

	got, err := rollingMetrics(context.Background(), tradeSeq(day(2023, 1, 1), 1, 2, 3))
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestRollingCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pls := make([]float64, 50)
	_, err := rollingMetrics(ctx, tradeSeq(day(2023, 1, 1), pls...))
	assert.ErrorIs(t, err, context.Canceled)
}
