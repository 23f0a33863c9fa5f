package snapshot

import (
	"time"

	"github.com/rustyeddy/tradestats/excursion"
)

// Snapshot is the immutable result bundle of one Build run. Callers persist
// or discard it wholesale; nothing in it is mutated after return.
type Snapshot struct {
	Trades    []Trade         // filtered, chronologically sorted
	DailyLogs []DailyLogEntry // filtered, chronologically sorted
	Stats     PortfolioStats
	Charts    ChartData
}

// ChartData holds every derived series used to render dashboards.
type ChartData struct {
	EquityCurve []EquityPoint
	Drawdowns   []DrawdownPoint

	DayOfWeek  []DayOfWeekStats // always 7 rows, Monday first
	MonthlyPL  MonthlyGrid
	MonthlyPct MonthlyGrid

	TradeSequence []SequencePoint
	ROMTimeline   []SequencePoint
	StrategyPL    map[string]float64 // net P/L per strategy label

	Rolling []RollingPoint
	Streaks StreakReport
	Regimes []RegimeStats // always 3 rows, low band first

	Excursions excursion.Report
}

// EquityPoint is one point of the reconstructed equity curve.
type EquityPoint struct {
	Time        time.Time
	Equity      float64
	HighWater   float64
	TradeNumber int // closed trades at or before this point
}

// DrawdownPoint is the percentage decline from the running high-water mark.
type DrawdownPoint struct {
	Time time.Time
	Pct  float64 // <= 0
}

// DayOfWeekStats aggregates trades opened on one ISO weekday.
type DayOfWeekStats struct {
	Weekday time.Weekday
	Trades  int
	AvgPL   float64
	AvgROM  float64 // over trades with positive margin only
}

// MonthlyGrid is a year -> month(1-12) -> value grid, zero-filled for
// months without trades inside the observed year range.
type MonthlyGrid map[int]map[time.Month]float64

// SequencePoint is a simple per-trade projection used for sequence charts.
type SequencePoint struct {
	TradeNumber int
	Time        time.Time
	Value       float64
}

// RollingPoint carries the trailing-window metrics ending at trade Index.
type RollingPoint struct {
	Index        int
	Time         time.Time
	WinRate      float64
	MeanPL       float64
	Volatility   float64 // population stddev of window P/L
	ProfitFactor float64
	Sharpe       float64 // MeanPL / Volatility
}

// StreakReport summarizes consecutive win/loss run lengths.
type StreakReport struct {
	WinDistribution  map[int]int // run length -> occurrences
	LossDistribution map[int]int
	MaxWinStreak     int
	MaxLossStreak    int
	AvgWinStreak     float64 // 0 when there are no win runs
	AvgLossStreak    float64
	WinRuns          int
	LossRuns         int
}

// RegimeStats aggregates trades whose VIX reading falls in one band. Bands
// with no trades report zeroed stats rather than being omitted.
type RegimeStats struct {
	Band    string  // "low", "mid", "high"
	Low     float64 // inclusive lower VIX bound (0 for the low band)
	High    float64 // exclusive upper bound (+Inf for the high band)
	Trades  int
	WinRate float64
	AvgROM  float64
}

// PortfolioStats are the summary statistics over the filtered trade set.
type PortfolioStats struct {
	TotalTrades int
	OpenTrades  int
	Wins        int
	Losses      int
	WinRate     float64

	NetPL        float64
	GrossProfit  float64
	GrossLoss    float64 // absolute value
	ProfitFactor float64
	Expectancy   float64

	AvgWin      float64
	AvgLoss     float64 // absolute value
	LargestWin  float64
	LargestLoss float64

	TotalPremium     float64
	TotalCommissions float64
	AvgROM           float64 // over trades with positive margin

	MaxDrawdownPct float64 // most negative drawdown observed, <= 0
	SharpeRatio    float64 // annualized, from daily P/L returns

	StartDate time.Time
	EndDate   time.Time
}

// ProgressEvent is a purely observational pipeline notification. Percent is
// non-decreasing within one run and reaches 100 only on success.
type ProgressEvent struct {
	Step    string
	Percent int
}

// ProgressFunc receives progress events. It must not block for long; the
// pipeline calls it inline.
type ProgressFunc func(ProgressEvent)

// Options tune one Build invocation.
type Options struct {
	Filters Filters

	// RiskFreeRate is an annual percentage (2.0 means 2%) used by the
	// Sharpe ratio. Zero means DefaultRiskFreeRate.
	RiskFreeRate float64

	// NormalizeToOneLot scales every trade to a one-contract equivalent
	// before analysis. This disqualifies ledger balances as the equity
	// source (see useLedger in Build).
	NormalizeToOneLot bool

	// InitialCapital overrides the reconstructed starting balance. Zero
	// means estimate from the first trade, falling back to
	// DefaultInitialCapital.
	InitialCapital float64

	Progress ProgressFunc
}

const (
	// DefaultInitialCapital seeds equity reconstruction when no balance
	// information is available at all.
	DefaultInitialCapital = 100_000.0

	// DefaultRiskFreeRate is the annual risk-free percentage assumed when
	// none is given.
	DefaultRiskFreeRate = 2.0
)
