package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cryptosync/models"
)

type PositionRepository struct {
	conn *sqlx.DB
}

func NewPositionRepository(conn *sqlx.DB) PositionRepo {
	return &PositionRepository{
		conn: conn,
	}
}

// Insert appends snapshot rows. The unique index on
// (fetched_at, account, symbol) rejects duplicates within a cycle.
func (r *PositionRepository) Insert(rows []models.Position) error {
	for _, row := range rows {
		if _, err := r.conn.NamedExec(
			`INSERT INTO hist_positions (account, symbol, size, mark_price, fetched_at)
			 VALUES (:account, :symbol, :size, :mark_price, :fetched_at)`, row); err != nil {
			return errors.Wrapf(err, "insert position %s", row.Symbol)
		}
	}

	return nil
}

// DistinctSymbols lists every symbol the account ever had a position
// snapshot for; the engine polls orders only for those.
func (r *PositionRepository) DistinctSymbols(account string) ([]string, error) {
	var symbols []string

	query := r.conn.Rebind(`SELECT DISTINCT symbol FROM hist_positions WHERE account = ?`)
	if err := r.conn.Select(&symbols, query, account); err != nil {
		return nil, errors.Wrap(err, "distinct symbols")
	}

	return symbols, nil
}
