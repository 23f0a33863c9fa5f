package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/tradestats/pkg/id"
	"github.com/rustyeddy/tradestats/snapshot"
)

// Broker CSV exports vary in casing and punctuation ("Margin Req.",
// "margin_req", "Margin Req"); headers are canonicalized to lowercase
// alphanumerics before lookup.
func canonHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(h)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var tradeHeaderAliases = map[string]string{
	"tradeid":                "id",
	"id":                     "id",
	"strategy":               "strategy",
	"dateopened":             "date_opened",
	"timeopened":             "time_opened",
	"dateclosed":             "date_closed",
	"timeclosed":             "time_closed",
	"pl":                     "pl",
	"profitloss":             "pl",
	"marginreq":              "margin_req",
	"marginrequirement":      "margin_req",
	"premium":                "premium",
	"noofcontracts":          "num_contracts",
	"numcontracts":           "num_contracts",
	"contracts":              "num_contracts",
	"fundsatclose":           "funds_at_close",
	"openingcommissionsfees": "open_comm",
	"closingcommissionsfees": "close_comm",
	"commissions":            "open_comm",
	"openingvix":             "opening_vix",
	"closingvix":             "closing_vix",
	"maxprofit":              "max_profit",
	"maxloss":                "max_loss",
}

// ImportTrades reads a broker trade-log CSV. Rows missing a trade ID get a
// fresh ULID so re-imports into SQLite stay idempotent per row.
func ImportTrades(path string) ([]snapshot.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTrades(f)
}

// ReadTrades parses trade rows from r. The first record must be a header.
func ReadTrades(r io.Reader) ([]snapshot.Trade, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		if name, ok := tradeHeaderAliases[canonHeader(h)]; ok {
			cols[name] = i
		}
	}
	if _, ok := cols["date_opened"]; !ok {
		return nil, fmt.Errorf("csv: no 'Date Opened' column")
	}
	if _, ok := cols["pl"]; !ok {
		return nil, fmt.Errorf("csv: no 'P/L' column")
	}

	var out []snapshot.Trade
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		opened, err := parseDate(field("date_opened"))
		if err != nil {
			return nil, fmt.Errorf("line %d: date opened: %w", line, err)
		}

		t := snapshot.Trade{
			ID:           field("id"),
			Strategy:     field("strategy"),
			DateOpened:   opened,
			TimeOpened:   field("time_opened"),
			TimeClosed:   field("time_closed"),
			PL:           parseMoney(field("pl")),
			MarginReq:    parseMoney(field("margin_req")),
			Premium:      parseMoney(field("premium")),
			FundsAtClose: parseMoney(field("funds_at_close")),
			OpeningVIX:   parseMoney(field("opening_vix")),
			ClosingVIX:   parseMoney(field("closing_vix")),
			MaxProfit:    parseMoney(field("max_profit")),
			MaxLoss:      parseMoney(field("max_loss")),
			Commissions:  parseMoney(field("open_comm")) + parseMoney(field("close_comm")),
			NumContracts: int(parseMoney(field("num_contracts"))),
		}
		if t.ID == "" {
			t.ID = id.New()
		}
		if t.NumContracts == 0 {
			t.NumContracts = 1
		}
		if s := field("date_closed"); s != "" {
			if closed, err := parseDate(s); err == nil {
				t.DateClosed = closed
			}
		}

		out = append(out, t)
	}
	return out, nil
}

var dailyHeaderAliases = map[string]string{
	"date":         "date",
	"netliquidity": "net_liquidity",
	"netliq":       "net_liquidity",
	"currentfunds": "current_funds",
	"tradingfunds": "trading_funds",
	"drawdownpct":  "drawdown_pct",
	"drawdown":     "drawdown_pct",
}

// ImportDailyLogs reads a daily account-balance CSV.
func ImportDailyLogs(path string) ([]snapshot.DailyLogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		if name, ok := dailyHeaderAliases[canonHeader(h)]; ok {
			cols[name] = i
		}
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("csv: no 'Date' column")
	}

	var out []snapshot.DailyLogEntry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		d, err := parseDate(field("date"))
		if err != nil {
			continue // skip unparseable rows rather than failing the import
		}
		out = append(out, snapshot.DailyLogEntry{
			Date:         d,
			NetLiquidity: parseMoney(field("net_liquidity")),
			CurrentFunds: parseMoney(field("current_funds")),
			TradingFunds: parseMoney(field("trading_funds")),
			DrawdownPct:  parseMoney(field("drawdown_pct")),
		})
	}
	return out, nil
}

// WriteTrades writes trades as CSV with the canonical header, ready for
// re-import.
func WriteTrades(w io.Writer, trades []snapshot.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"Trade ID", "Strategy", "Date Opened", "Time Opened", "Date Closed", "Time Closed",
		"P/L", "Margin Req", "Premium", "No. of Contracts", "Commissions",
		"Funds at Close", "Opening VIX", "Closing VIX", "Max Profit", "Max Loss",
	}); err != nil {
		return err
	}

	for _, t := range trades {
		closed := ""
		if t.Closed() {
			closed = t.DateClosed.Format("2006-01-02")
		}
		if err := cw.Write([]string{
			t.ID, t.Strategy, t.DateOpened.Format("2006-01-02"), t.TimeOpened, closed, t.TimeClosed,
			f(t.PL), f(t.MarginReq), f(t.Premium), strconv.Itoa(t.NumContracts), f(t.Commissions),
			f(t.FundsAtClose), f(t.OpeningVIX), f(t.ClosingVIX), f(t.MaxProfit), f(t.MaxLoss),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func f(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006-01-02 15:04:05", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseMoney tolerates currency symbols, thousands separators and
// parenthesized negatives. Unparseable or empty fields are 0.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "%", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if neg {
		v = -v
	}
	return v
}
