package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	strategy TEXT NOT NULL DEFAULT '',
	date_opened DATETIME NOT NULL,
	time_opened TEXT NOT NULL DEFAULT '',
	date_closed DATETIME,
	time_closed TEXT NOT NULL DEFAULT '',
	pl REAL NOT NULL,
	margin_req REAL NOT NULL DEFAULT 0,
	premium REAL NOT NULL DEFAULT 0,
	num_contracts INTEGER NOT NULL DEFAULT 1,
	commissions REAL NOT NULL DEFAULT 0,
	funds_at_close REAL NOT NULL DEFAULT 0,
	opening_vix REAL NOT NULL DEFAULT 0,
	closing_vix REAL NOT NULL DEFAULT 0,
	max_profit REAL NOT NULL DEFAULT 0,
	max_loss REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS daily_log (
	date DATETIME PRIMARY KEY,
	net_liquidity REAL NOT NULL DEFAULT 0,
	current_funds REAL NOT NULL DEFAULT 0,
	trading_funds REAL NOT NULL DEFAULT 0,
	drawdown_pct REAL NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_trades_opened ON trades(date_opened);
CREATE INDEX IF NOT EXISTS idx_trades_strategy ON trades(strategy);
`
