package models

import "database/sql"

// Collateral is an account-level equity reading in its native currency,
// with derived JPY/USD values. (fetched_at, account) is unique.
type Collateral struct {
	Account       string          `db:"account"`
	Currency      string          `db:"currency"`
	Collateral    float64         `db:"collateral"`
	FetchedAt     int64           `db:"fetched_at"`
	CollateralJPY sql.NullFloat64 `db:"collateral_jpy"`
	CollateralUSD sql.NullFloat64 `db:"collateral_usd"`
}
