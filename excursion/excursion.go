// Package excursion computes per-trade MFE/MAE statistics: how far each
// position moved in the trader's favor (maximum favorable excursion) and
// against it (maximum adverse excursion), normalized by the capital at
// risk. It is a stats collaborator of the snapshot engine and has no
// knowledge of filtering, cancellation or progress.
package excursion

import "math"

// Trade is the minimal per-position input. MaxProfit and MaxLoss are the
// excursion extremes observed during the trade's life, in currency.
type Trade struct {
	ID        string
	PL        float64
	MarginReq float64
	MaxProfit float64
	MaxLoss   float64
}

// Point is one trade's normalized excursion metrics, in percent of margin.
type Point struct {
	TradeID string
	MFEPct  float64 // >= 0
	MAEPct  float64 // >= 0, adverse move expressed as a magnitude
	PLPct   float64 // realized return on margin
	Win     bool
}

// Stats summarizes the normalized excursions.
type Stats struct {
	Count     int
	AvgMFE    float64
	AvgMAE    float64
	MaxMFE    float64
	MaxMAE    float64
	EdgeRatio float64 // AvgMFE / AvgMAE, 0 when AvgMAE is 0
}

// Bucket is one row of the excursion distribution histogram.
type Bucket struct {
	Label    string
	Low      float64 // inclusive, percent of margin
	High     float64 // exclusive, +Inf for the last bucket
	MFECount int
	MAECount int
}

// Report bundles the per-trade points, summary stats and distribution.
type Report struct {
	Points       []Point
	Stats        Stats
	Distribution []Bucket
}

// bucket edges in percent of margin
var edges = []struct {
	label     string
	low, high float64
}{
	{"0-25%", 0, 25},
	{"25-50%", 25, 50},
	{"50-75%", 50, 75},
	{"75-100%", 75, 100},
	{"100%+", 100, math.Inf(1)},
}

// Analyze computes excursion metrics over the given trades. Trades without
// a positive, finite margin requirement or without any recorded excursion
// are skipped; an empty input yields a report with zeroed stats and an
// all-zero distribution.
func Analyze(trades []Trade) Report {
	rep := Report{Distribution: emptyDistribution()}

	var sumMFE, sumMAE float64
	for _, t := range trades {
		if !(t.MarginReq > 0) || !finite(t.MarginReq) {
			continue
		}
		mfe := t.MaxProfit
		mae := math.Abs(t.MaxLoss)
		if !finite(mfe) || !finite(mae) {
			continue
		}
		if mfe == 0 && mae == 0 {
			continue
		}
		if mfe < 0 {
			mfe = 0
		}

		p := Point{
			TradeID: t.ID,
			MFEPct:  mfe / t.MarginReq * 100,
			MAEPct:  mae / t.MarginReq * 100,
			Win:     t.PL > 0,
		}
		if finite(t.PL) {
			p.PLPct = t.PL / t.MarginReq * 100
		}
		rep.Points = append(rep.Points, p)

		sumMFE += p.MFEPct
		sumMAE += p.MAEPct
		if p.MFEPct > rep.Stats.MaxMFE {
			rep.Stats.MaxMFE = p.MFEPct
		}
		if p.MAEPct > rep.Stats.MaxMAE {
			rep.Stats.MaxMAE = p.MAEPct
		}

		bucketInto(rep.Distribution, p.MFEPct, true)
		bucketInto(rep.Distribution, p.MAEPct, false)
	}

	n := len(rep.Points)
	rep.Stats.Count = n
	if n > 0 {
		rep.Stats.AvgMFE = sumMFE / float64(n)
		rep.Stats.AvgMAE = sumMAE / float64(n)
		if rep.Stats.AvgMAE > 0 {
			rep.Stats.EdgeRatio = rep.Stats.AvgMFE / rep.Stats.AvgMAE
		}
	}
	return rep
}

func emptyDistribution() []Bucket {
	out := make([]Bucket, len(edges))
	for i, e := range edges {
		out[i] = Bucket{Label: e.label, Low: e.low, High: e.high}
	}
	return out
}

func bucketInto(dist []Bucket, pct float64, favorable bool) {
	for i := range dist {
		if pct >= dist[i].Low && pct < dist[i].High {
			if favorable {
				dist[i].MFECount++
			} else {
				dist[i].MAECount++
			}
			return
		}
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
