package snapshot

import (
	"context"
	"math"
)

const (
	// rollingWindow is the fixed trailing-window size, in trades.
	rollingWindow = 30

	// profitFactorCap stands in for "infinite" when a window has at least
	// one win and no losses.
	profitFactorCap = 9999.0
)

// rollingMetrics computes trailing-window win rate, mean P/L, volatility,
// profit factor and a Sharpe-like ratio for every index from
// rollingWindow-1 on. The window sums (total, wins, positive, negative)
// are maintained incrementally in O(1) per step; only the variance pass is
// O(window), because the mean shifts with every step. Fewer trades than
// one window yields an empty series.
func rollingMetrics(ctx context.Context, trades []Trade) ([]RollingPoint, error) {
	n := len(trades)
	if n < rollingWindow {
		return nil, nil
	}

	var (
		sum    float64
		wins   int
		posSum float64
		negSum float64 // absolute value of losing P/L
	)

	out := make([]RollingPoint, 0, n-rollingWindow+1)

	for i := 0; i < n; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		enter := trades[i].PL
		sum += enter
		if enter > 0 {
			wins++
			posSum += enter
		} else {
			negSum += -enter
		}

		if i >= rollingWindow {
			exit := trades[i-rollingWindow].PL
			sum -= exit
			if exit > 0 {
				wins--
				posSum -= exit
			} else {
				negSum -= -exit
			}
		}

		if i < rollingWindow-1 {
			continue
		}

		mean := sum / rollingWindow

		// population variance over the window; mean moves every step so
		// this pass stays O(window)
		variance := 0.0
		for j := i - rollingWindow + 1; j <= i; j++ {
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

		out = append(out, RollingPoint{
			Index:        i,
			Time:         trades[i].CloseStamp(),
			WinRate:      float64(wins) / rollingWindow * 100,
			MeanPL:       mean,
			Volatility:   vol,
			ProfitFactor: pf,
			Sharpe:       sharpe,
		})
	}

	return out, nil
}
