package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cryptosync/models"
)

type CollateralRepository struct {
	conn *sqlx.DB
}

func NewCollateralRepository(conn *sqlx.DB) CollateralRepo {
	return &CollateralRepository{
		conn: conn,
	}
}

// Insert appends one snapshot row. The unique index on
// (fetched_at, account) rejects duplicates within a cycle.
func (r *CollateralRepository) Insert(row *models.Collateral) error {
	if _, err := r.conn.NamedExec(
		`INSERT INTO hist_collaterals
		 (account, currency, collateral, fetched_at, collateral_jpy, collateral_usd)
		 VALUES (:account, :currency, :collateral, :fetched_at, :collateral_jpy, :collateral_usd)`,
		row); err != nil {
		return errors.Wrap(err, "insert collateral")
	}

	return nil
}
