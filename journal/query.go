package journal

import (
	"database/sql"
	"time"

	"github.com/rustyeddy/tradestats/snapshot"
)

const tradeColumns = `trade_id, strategy, date_opened, time_opened, date_closed, time_closed,
	pl, margin_req, premium, num_contracts, commissions, funds_at_close,
	opening_vix, closing_vix, max_profit, max_loss`

// ListTrades returns every trade ordered by open date.
func (j *SQLite) ListTrades() ([]snapshot.Trade, error) {
	rows, err := j.db.Query(`
		SELECT ` + tradeColumns + `
		FROM trades
		ORDER BY date_opened ASC, time_opened ASC`)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

// ListTradesByStrategy returns the trades carrying the given strategy label.
func (j *SQLite) ListTradesByStrategy(strategy string) ([]snapshot.Trade, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE strategy = ?
		ORDER BY date_opened ASC, time_opened ASC`, strategy)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

// ListTradesClosedBetween returns trades whose close date is within [start, end).
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]snapshot.Trade, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE date_closed IS NOT NULL AND date_closed >= ? AND date_closed < ?
		ORDER BY date_closed ASC`, start, end)
	if err != nil {
		return nil, err
	}
	return scanTrades(rows)
}

// Strategies returns the distinct strategy labels in the journal.
func (j *SQLite) Strategies() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT strategy FROM trades ORDER BY strategy`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListDailyLogs returns the daily balance log ordered by date.
func (j *SQLite) ListDailyLogs() ([]snapshot.DailyLogEntry, error) {
	rows, err := j.db.Query(`
		SELECT date, net_liquidity, current_funds, trading_funds, drawdown_pct
		FROM daily_log
		ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []snapshot.DailyLogEntry
	for rows.Next() {
		var e snapshot.DailyLogEntry
		if err := rows.Scan(&e.Date, &e.NetLiquidity, &e.CurrentFunds, &e.TradingFunds, &e.DrawdownPct); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanTrades(rows *sql.Rows) ([]snapshot.Trade, error) {
	defer rows.Close()

	var out []snapshot.Trade
	for rows.Next() {
		var t snapshot.Trade
		var closed sql.NullTime
		if err := rows.Scan(
			&t.ID, &t.Strategy, &t.DateOpened, &t.TimeOpened, &closed, &t.TimeClosed,
			&t.PL, &t.MarginReq, &t.Premium, &t.NumContracts, &t.Commissions,
			&t.FundsAtClose, &t.OpeningVIX, &t.ClosingVIX, &t.MaxProfit, &t.MaxLoss,
		); err != nil {
			return nil, err
		}
		if closed.Valid {
			t.DateClosed = closed.Time
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
