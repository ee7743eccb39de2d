package journal

const Schema = `
CREATE TABLE IF NOT EXISTS risk_profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	risk_per_trade_percent REAL NOT NULL,
	max_daily_loss_percent REAL NOT NULL,
	max_weekly_drawdown_percent REAL NOT NULL,
	max_position_size_percent REAL NOT NULL,
	max_correlated_exposure REAL NOT NULL,
	max_concurrent_positions INTEGER NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_risk_profiles_active
	ON risk_profiles(user_id) WHERE is_active = 1;

CREATE TABLE IF NOT EXISTS daily_risk_snapshots (
	user_id TEXT NOT NULL,
	snapshot_date TEXT NOT NULL,
	starting_balance REAL NOT NULL,
	current_pnl REAL NOT NULL DEFAULT 0,
	loss_limit_used_percent REAL NOT NULL DEFAULT 0,
	positions_open INTEGER NOT NULL DEFAULT 0,
	capital_deployed_percent REAL NOT NULL DEFAULT 0,
	trading_allowed INTEGER NOT NULL DEFAULT 1,
	sealed INTEGER NOT NULL DEFAULT 0,
	version INTEGER NOT NULL DEFAULT 1,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, snapshot_date)
);

CREATE TABLE IF NOT EXISTS risk_events (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	event_date TEXT NOT NULL,
	trigger_value REAL NOT NULL,
	threshold_value REAL NOT NULL,
	message TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT 'null',
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, event_type, event_date)
);

CREATE INDEX IF NOT EXISTS idx_risk_events_user_date ON risk_events(user_id, event_date);

CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	units REAL NOT NULL,
	entry_price REAL NOT NULL,
	stop_price REAL NOT NULL,
	exit_price REAL NOT NULL,
	open_time DATETIME NOT NULL,
	close_time DATETIME NOT NULL,
	risk_amount REAL NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_user_close ON trades(user_id, close_time);
`
