package postgres

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"cryptosync/models"
)

type OrderRepository struct {
	conn *sqlx.DB
}

func NewOrderRepository(conn *sqlx.DB) OrderRepo {
	return &OrderRepository{
		conn: conn,
	}
}

const upsertOrderStmt = `INSERT INTO orders
	(account, order_id, timestamp, last_trade_timestamp, status, symbol, type,
	 time_in_force, is_buy, price, average, amount, filled, remaining, cost, fetched_at)
	VALUES
	(:account, :order_id, :timestamp, :last_trade_timestamp, :status, :symbol, :type,
	 :time_in_force, :is_buy, :price, :average, :amount, :filled, :remaining, :cost, :fetched_at)
	ON CONFLICT (account, order_id) DO UPDATE SET
	 timestamp = excluded.timestamp,
	 last_trade_timestamp = excluded.last_trade_timestamp,
	 status = excluded.status,
	 symbol = excluded.symbol,
	 type = excluded.type,
	 time_in_force = excluded.time_in_force,
	 is_buy = excluded.is_buy,
	 price = excluded.price,
	 average = excluded.average,
	 amount = excluded.amount,
	 filled = excluded.filled,
	 remaining = excluded.remaining,
	 cost = excluded.cost,
	 fetched_at = excluded.fetched_at`

// Upsert writes a batch of orders for one (account, symbol) by
// (account, order_id), skipping rows whose stored status is already
// terminal. A closed or canceled order stays as it was recorded even if the
// exchange later reports it differently.
func (r *OrderRepository) Upsert(account, symbol string, rows []models.Order) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OrderID)
	}

	frozen, err := r.frozenIDs(account, symbol, ids)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, row := range rows {
		if frozen[row.OrderID] {
			continue
		}

		if _, err := r.conn.NamedExec(upsertOrderStmt, row); err != nil {
			return written, errors.Wrapf(err, "upsert order %s", row.OrderID)
		}

		written++
	}

	return written, nil
}

func (r *OrderRepository) frozenIDs(account, symbol string, ids []string) (map[string]bool, error) {
	query, args, err := sqlx.In(
		`SELECT order_id FROM orders
		 WHERE account = ? AND symbol = ? AND status <> 'open' AND order_id IN (?)`,
		account, symbol, ids)
	if err != nil {
		return nil, errors.Wrap(err, "frozen ids")
	}

	var found []string
	if err := r.conn.Select(&found, r.conn.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "frozen ids")
	}

	out := make(map[string]bool, len(found))
	for _, id := range found {
		out[id] = true
	}

	return out, nil
}
