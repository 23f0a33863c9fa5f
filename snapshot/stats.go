package snapshot

import "math"

// tradingDaysPerYear annualizes the daily Sharpe ratio.
const tradingDaysPerYear = 252

// portfolioStats reduces the filtered trade set to its summary statistics.
// Max drawdown here is trade-sequence based (cumulative P/L walk) so the
// summary never depends on the chart pipeline or the ledger.
func portfolioStats(trades []Trade, riskFreeRate, initialCapital float64) PortfolioStats {
	var s PortfolioStats
	s.TotalTrades = len(trades)
	if len(trades) == 0 {
		return s
	}

	s.StartDate = trades[0].DateOpened
	s.EndDate = trades[len(trades)-1].DateOpened

	var romSum float64
	var romN int

	for _, t := range trades {
		if !t.Closed() {
			s.OpenTrades++
		}
		s.NetPL += t.PL
		if t.PL > 0 {
			s.Wins++
			s.GrossProfit += t.PL
			if t.PL > s.LargestWin {
				s.LargestWin = t.PL
			}
		} else {
			s.Losses++
			s.GrossLoss += -t.PL
			if -t.PL > s.LargestLoss {
				s.LargestLoss = -t.PL
			}
		}
		if isFinite(t.Premium) {
			s.TotalPremium += t.Premium
		}
		if isFinite(t.Commissions) {
			s.TotalCommissions += t.Commissions
		}
		if rom, ok := t.ROM(); ok {
			romSum += rom
			romN++
		}
	}

	n := float64(s.TotalTrades)
	s.WinRate = float64(s.Wins) / n * 100
	s.Expectancy = s.NetPL / n
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}
	switch {
	case s.GrossLoss > 0:
		s.ProfitFactor = s.GrossProfit / s.GrossLoss
	case s.Wins > 0:
		s.ProfitFactor = profitFactorCap
	}
	if romN > 0 {
		s.AvgROM = romSum / float64(romN)
	}

	s.MaxDrawdownPct = maxDrawdownPct(trades, initialCapital)
	s.SharpeRatio = sharpeFromDaily(trades, riskFreeRate, initialCapital)
	return s
}

// maxDrawdownPct walks cumulative P/L over the close-sorted trades against
// a running high-water mark and returns the deepest decline in percent
// (a non-positive number).
func maxDrawdownPct(trades []Trade, initialCapital float64) float64 {
	seq := closedTradesByClose(trades)
	if len(seq) == 0 {
		return 0
	}

	capital := initialCapital
	if capital <= 0 {
		capital = estimateInitialCapital(seq)
	}

	equity := capital
	highWater := capital
	worst := 0.0

	for _, t := range seq {
		equity += t.PL
		if equity > highWater {
			highWater = equity
		}
		if highWater > 0 {
			if dd := (equity - highWater) / highWater * 100; dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

// sharpeFromDaily aggregates realized P/L per close day, converts to
// returns on the starting balance, and annualizes mean excess return over
// population volatility. Fewer than two distinct trading days, or zero
// volatility, yields 0.
func sharpeFromDaily(trades []Trade, riskFreeRate, initialCapital float64) float64 {
	seq := closedTradesByClose(trades)
	if len(seq) < 2 {
		return 0
	}

	capital := initialCapital
	if capital <= 0 {
		capital = estimateInitialCapital(seq)
	}
	if capital <= 0 {
		return 0
	}

	var daily []float64
	var dayPL float64
	var curDay string

	flush := func() {
		if curDay != "" {
			daily = append(daily, dayPL/capital)
		}
	}
	for _, t := range seq {
		day := dayStart(t.CloseStamp()).Format("2006-01-02")
		if day != curDay {
			flush()
			curDay = day
			dayPL = 0
		}
		dayPL += t.PL
	}
	flush()

	if len(daily) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range daily {
		mean += r
	}
	mean /= float64(len(daily))

	variance := 0.0
	for _, r := range daily {
		d := r - mean
		variance += d * d
	}
	vol := math.Sqrt(variance / float64(len(daily)))
	if vol == 0 {
		return 0
	}

	rfDaily := riskFreeRate / 100 / tradingDaysPerYear
	return (mean - rfDaily) / vol * math.Sqrt(tradingDaysPerYear)
}
