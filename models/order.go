package models

import "database/sql"

const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusCanceled = "canceled"
)

// Order is one snapshot of an exchange order as seen at fetch time.
// (account, order_id) is unique in the store.
type Order struct {
	Account            string          `db:"account"`
	OrderID            string          `db:"order_id"`
	Timestamp          sql.NullInt64   `db:"timestamp"`
	LastTradeTimestamp sql.NullInt64   `db:"last_trade_timestamp"`
	Status             string          `db:"status"`
	Symbol             string          `db:"symbol"`
	Type               string          `db:"type"`
	TimeInForce        string          `db:"time_in_force"`
	IsBuy              bool            `db:"is_buy"`
	Price              sql.NullFloat64 `db:"price"`
	Average            sql.NullFloat64 `db:"average"`
	Amount             sql.NullFloat64 `db:"amount"`
	Filled             sql.NullFloat64 `db:"filled"`
	Remaining          sql.NullFloat64 `db:"remaining"`
	Cost               sql.NullFloat64 `db:"cost"`
	FetchedAt          int64           `db:"fetched_at"`
}
