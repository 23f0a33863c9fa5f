package snapshot

import "math"

// VIX regime bands. Boundaries follow the usual low/mid/high convention:
// readings at or below 18 are calm, 18–25 transitional, 25 and above
// stressed.
const (
	vixLowMax  = 18.0
	vixHighMin = 25.0
)

// volatilityRegimes buckets trades by their VIX reading (opening print
// preferred, closing as fallback) and aggregates win rate and average
// return-on-margin per band. All three bands are always reported; bands
// without trades carry zeroed stats. Trades without any VIX reading are
// skipped.
func volatilityRegimes(trades []Trade) []RegimeStats {
	out := []RegimeStats{
		{Band: "low", Low: 0, High: vixLowMax},
		{Band: "mid", Low: vixLowMax, High: vixHighMin},
		{Band: "high", Low: vixHighMin, High: math.Inf(1)},
	}

	type acc struct {
		wins   int
		romSum float64
		romN   int
	}
	var accs [3]acc

	for _, t := range trades {
		v, ok := t.VIX()
		if !ok {
			continue
		}
		i := 2
		switch {
		case v <= vixLowMax:
			i = 0
		case v < vixHighMin:
			i = 1
		}
		out[i].Trades++
		if t.Win() {
			accs[i].wins++
		}
		if rom, romOK := t.ROM(); romOK {
			accs[i].romSum += rom
			accs[i].romN++
		}
	}

	for i := range out {
		if out[i].Trades > 0 {
			out[i].WinRate = float64(accs[i].wins) / float64(out[i].Trades) * 100
		}
		if accs[i].romN > 0 {
			out[i].AvgROM = accs[i].romSum / float64(accs[i].romN)
		}
	}
	return out
}
