package snapshot

import (
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// closedTrade builds a trade opened and closed on the same day.
func closedTrade(d time.Time, pl float64) Trade {
	return Trade{
		Strategy:     "Test",
		DateOpened:   d,
		TimeOpened:   "09:31:00",
		DateClosed:   d,
		TimeClosed:   "15:45:00",
		PL:           pl,
		NumContracts: 1,
	}
}

// tradeSeq builds one closed trade per day starting at start, with the
// given P/L values in order.
func tradeSeq(start time.Time, pls ...float64) []Trade {
	out := make([]Trade, 0, len(pls))
	for i, pl := range pls {
		out = append(out, closedTrade(start.AddDate(0, 0, i), pl))
	}
	return out
}
