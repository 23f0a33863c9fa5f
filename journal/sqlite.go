package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/tradestats/snapshot"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t snapshot.Trade) error {
	var closed sql.NullTime
	if t.Closed() {
		closed = sql.NullTime{Time: t.DateClosed, Valid: true}
	}

	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO trades
		(trade_id, strategy, date_opened, time_opened, date_closed, time_closed,
		 pl, margin_req, premium, num_contracts, commissions, funds_at_close,
		 opening_vix, closing_vix, max_profit, max_loss)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Strategy, t.DateOpened, t.TimeOpened, closed, t.TimeClosed,
		t.PL, t.MarginReq, t.Premium, t.NumContracts, t.Commissions,
		t.FundsAtClose, t.OpeningVIX, t.ClosingVIX, t.MaxProfit, t.MaxLoss,
	)
	return err
}

func (j *SQLite) RecordDailyLog(e snapshot.DailyLogEntry) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO daily_log
		(date, net_liquidity, current_funds, trading_funds, drawdown_pct)
		VALUES (?, ?, ?, ?, ?)`,
		e.Date, e.NetLiquidity, e.CurrentFunds, e.TradingFunds, e.DrawdownPct,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
