package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	account TEXT NOT NULL,
	ticker TEXT NOT NULL,
	side TEXT NOT NULL,
	shares INTEGER NOT NULL,
	entry_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_account_close ON trades(account, close_time);

CREATE TABLE IF NOT EXISTS risk_settings (
	account TEXT PRIMARY KEY,
	account_balance REAL NOT NULL,
	max_loss_daily REAL NOT NULL,
	max_loss_daily_percent REAL NOT NULL,
	max_position REAL NOT NULL,
	max_position_percent REAL NOT NULL,
	max_shares_per_trade INTEGER NOT NULL,
	max_order REAL NOT NULL,
	max_buying_power REAL NOT NULL,
	risk_per_trade_percent REAL NOT NULL,
	max_trades_per_day INTEGER NOT NULL,
	alert_threshold_1 REAL NOT NULL,
	alert_threshold_2 REAL NOT NULL,
	alert_threshold_3 REAL NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE TABLE IF NOT EXISTS calculator_sessions (
	session_key TEXT PRIMARY KEY,
	ticker TEXT NOT NULL,
	side TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS calc_history (
	id TEXT PRIMARY KEY,
	session_key TEXT NOT NULL,
	ts DATETIME NOT NULL,
	ticker TEXT NOT NULL,
	side TEXT NOT NULL,
	entry_price REAL NOT NULL,
	stop_price REAL NOT NULL,
	shares INTEGER NOT NULL,
	risk_amount REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_calc_history_session_ts ON calc_history(session_key, ts);
`
