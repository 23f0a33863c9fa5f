package snapshot

// analyzeStreaks walks the chronologically sorted trades accumulating
// consecutive win/loss run lengths. A zero-P/L trade counts as a loss. Each
// completed run lands in the length -> frequency distribution of its side;
// the final open run is flushed at the end.
func analyzeStreaks(trades []Trade) StreakReport {
	rep := StreakReport{
		WinDistribution:  map[int]int{},
		LossDistribution: map[int]int{},
	}
	if len(trades) == 0 {
		return rep
	}

	run := 0
	winning := false

	flush := func() {
		if run == 0 {
			return
		}
		if winning {
			rep.WinDistribution[run]++
		} else {
			rep.LossDistribution[run]++
		}
	}

	for i, t := range trades {
		w := t.Win()
		if i == 0 || w == winning {
			if i == 0 {
				winning = w
			}
			run++
			continue
		}
		flush()
		winning = w
		run = 1
	}
	flush()

	rep.MaxWinStreak, rep.AvgWinStreak, rep.WinRuns = distSummary(rep.WinDistribution)
	rep.MaxLossStreak, rep.AvgLossStreak, rep.LossRuns = distSummary(rep.LossDistribution)
	return rep
}

// distSummary reduces a length -> frequency distribution to max, average
// and total run count. An empty distribution averages to 0.
func distSummary(dist map[int]int) (max int, avg float64, runs int) {
	total := 0
	for length, freq := range dist {
		if length > max {
			max = length
		}
		total += length * freq
		runs += freq
	}
	if runs > 0 {
		avg = float64(total) / float64(runs)
	}
	return max, avg, runs
}
