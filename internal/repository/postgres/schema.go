package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// DDL is portable between the postgres and sqlite3 drivers; the unique
// indexes are the source of truth for idempotency, the repositories'
// pre-queries only avoid writes that would violate them.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		account TEXT NOT NULL,
		order_id TEXT NOT NULL,
		timestamp BIGINT,
		last_trade_timestamp BIGINT,
		status TEXT,
		symbol TEXT NOT NULL,
		type TEXT,
		time_in_force TEXT,
		is_buy BOOLEAN,
		price DOUBLE PRECISION,
		average DOUBLE PRECISION,
		amount DOUBLE PRECISION,
		filled DOUBLE PRECISION,
		remaining DOUBLE PRECISION,
		cost DOUBLE PRECISION,
		fetched_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_fetched_at_account_idx
		ON orders (fetched_at, account)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS orders_account_order_id_key
		ON orders (account, order_id)`,

	`CREATE TABLE IF NOT EXISTS hist_positions (
		account TEXT NOT NULL,
		symbol TEXT NOT NULL,
		size DOUBLE PRECISION NOT NULL,
		mark_price DOUBLE PRECISION NOT NULL,
		fetched_at BIGINT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS hist_positions_fetched_at_account_symbol_key
		ON hist_positions (fetched_at, account, symbol)`,

	`CREATE TABLE IF NOT EXISTS hist_collaterals (
		account TEXT NOT NULL,
		currency TEXT NOT NULL,
		collateral DOUBLE PRECISION NOT NULL,
		fetched_at BIGINT NOT NULL,
		collateral_jpy DOUBLE PRECISION,
		collateral_usd DOUBLE PRECISION
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS hist_collaterals_fetched_at_account_key
		ON hist_collaterals (fetched_at, account)`,
}

// EnsureSchema creates the three tables and their indexes if absent.
// Safe to run on every startup.
func EnsureSchema(conn *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(stmt); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
	}

	return nil
}
