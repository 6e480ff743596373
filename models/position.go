package models

// Position is a point-in-time net position for one symbol.
// Positive size is net long. (fetched_at, account, symbol) is unique.
type Position struct {
	Account   string  `db:"account"`
	Symbol    string  `db:"symbol"`
	Size      float64 `db:"size"`
	MarkPrice float64 `db:"mark_price"`
	FetchedAt int64   `db:"fetched_at"`
}
