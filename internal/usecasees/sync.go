package usecasees

import (
	"database/sql"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"cryptosync/internal/controllers"
	"cryptosync/internal/exchange"
	"cryptosync/internal/repository/postgres"
	"cryptosync/internal/usecasees/structs"
	"cryptosync/internal/watchdog"
	"cryptosync/models"
)

// HeartbeatKey is the watchdog key the sync loop reports under.
const HeartbeatKey = "bot"

type syncUseCase struct {
	adapter   exchange.Adapter
	converter *Converter

	orderRepo      postgres.OrderRepo
	positionRepo   postgres.PositionRepo
	collateralRepo postgres.CollateralRepo

	watchdog *watchdog.Registry
	tgm      controllers.TgmCtrl
	metrics  map[structs.MetricConst]prometheus.Counter

	account      string
	loopInterval time.Duration

	logger *logrus.Logger
}

func NewSyncUseCase(
	adapter exchange.Adapter,
	converter *Converter,
	orderRepo postgres.OrderRepo,
	positionRepo postgres.PositionRepo,
	collateralRepo postgres.CollateralRepo,
	wd *watchdog.Registry,
	tgm controllers.TgmCtrl,
	metrics map[structs.MetricConst]prometheus.Counter,
	account string,
	loopInterval time.Duration,
	logger *logrus.Logger,
) *syncUseCase {
	return &syncUseCase{
		adapter:        adapter,
		converter:      converter,
		orderRepo:      orderRepo,
		positionRepo:   positionRepo,
		collateralRepo: collateralRepo,
		watchdog:       wd,
		tgm:            tgm,
		metrics:        metrics,
		account:        account,
		loopInterval:   loopInterval,
		logger:         logger,
	}
}

// Run executes cycles until the process is killed. A failed cycle is logged
// and swallowed; the loop always sleeps the full interval before retrying.
// Partial writes from a failed cycle stay as they are.
func (u *syncUseCase) Run() {
	for {
		u.RunOnce()
		time.Sleep(u.loopInterval)
	}
}

// RunOnce runs a single cycle and pings the watchdog only when the whole
// cycle succeeded, so a stuck or erroring process goes stale observably.
func (u *syncUseCase) RunOnce() {
	log := u.logger.WithField("cycle_id", uuid.NewString())

	if err := u.cycle(log); err != nil {
		u.count(structs.MetricCycleFailed, 1)
		log.Errorf("cycle failed: %+v", err)
		u.notify(fmt.Sprintf("[%s] sync cycle failed: %v", u.account, err))

		return
	}

	u.count(structs.MetricCycleComplete, 1)
	u.watchdog.Ping(HeartbeatKey)
}

func (u *syncUseCase) cycle(log *logrus.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	// One timestamp for every row written this cycle, so history rows
	// correlate across the three tables.
	fetchedAt := time.Now().UnixMilli()

	if err := u.syncOrders(log, fetchedAt); err != nil {
		return errors.Wrap(err, "orders")
	}

	if err := u.syncPositions(log, fetchedAt); err != nil {
		return errors.Wrap(err, "positions")
	}

	if err := u.syncCollateral(log, fetchedAt); err != nil {
		return errors.Wrap(err, "collateral")
	}

	return nil
}

// syncOrders polls open orders for every symbol the account ever held a
// position in, which bounds API calls to the account's trading universe.
func (u *syncUseCase) syncOrders(log *logrus.Entry, fetchedAt int64) error {
	symbols, err := u.positionRepo.DistinctSymbols(u.account)
	if err != nil {
		return err
	}

	for _, symbol := range symbols {
		log.WithField("symbol", symbol).Info("fetch orders")

		raw, err := u.adapter.Orders(symbol)
		if err != nil {
			return err
		}

		rows := make([]models.Order, 0, len(raw))
		for _, ro := range raw {
			rows = append(rows, u.normalizeOrder(ro, fetchedAt))
		}

		written, err := u.orderRepo.Upsert(u.account, symbol, rows)
		if err != nil {
			return err
		}

		u.count(structs.MetricOrdersUpserted, written)
		log.WithField("symbol", symbol).Infof("upserted %d of %d orders", written, len(rows))
	}

	return nil
}

func (u *syncUseCase) normalizeOrder(ro exchange.RawOrder, fetchedAt int64) models.Order {
	return models.Order{
		Account:            u.account,
		OrderID:            ro.ID,
		Timestamp:          nullInt64(ro.Timestamp),
		LastTradeTimestamp: nullInt64(ro.LastTradeTimestamp),
		Status:             ro.Status,
		Symbol:             ro.Symbol,
		Type:               ro.Type,
		TimeInForce:        ro.TimeInForce,
		IsBuy:              ro.Side == "buy",
		Price:              nullFloat64(ro.Price),
		Average:            nullFloat64(ro.Average),
		Amount:             nullFloat64(ro.Amount),
		Filled:             nullFloat64(ro.Filled),
		Remaining:          nullFloat64(ro.Remaining),
		Cost:               nullFloat64(ro.Cost),
		FetchedAt:          fetchedAt,
	}
}

// syncPositions merges raw per-contract records into one net size per
// symbol and appends a snapshot row for each. A size of zero is recorded
// only for symbols that already have history, so closed-out transitions are
// preserved without polluting history with never-held symbols.
func (u *syncUseCase) syncPositions(log *logrus.Entry, fetchedAt int64) error {
	log.Info("fetch positions")

	raw, err := u.adapter.Positions()
	if err != nil {
		return err
	}

	existing, err := u.positionRepo.DistinctSymbols(u.account)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(existing))
	for _, s := range existing {
		known[s] = true
	}

	rows := make([]models.Position, 0, len(raw))
	for _, m := range exchange.Merge(raw) {
		if m.Size == 0 && !known[m.Symbol] {
			continue
		}

		mark := m.MarkPrice
		if mark == nil {
			price, err := u.adapter.LastPrice(m.Symbol)
			if err != nil {
				return err
			}
			mark = &price
		}

		rows = append(rows, models.Position{
			Account:   u.account,
			Symbol:    m.Symbol,
			Size:      m.Size,
			MarkPrice: *mark,
			FetchedAt: fetchedAt,
		})
	}

	if err := u.positionRepo.Insert(rows); err != nil {
		return err
	}

	u.count(structs.MetricPositionsInserted, len(rows))
	log.Infof("inserted %d positions", len(rows))

	return nil
}

func (u *syncUseCase) syncCollateral(log *logrus.Entry, fetchedAt int64) error {
	log.Info("fetch collateral")

	reading, err := u.adapter.Collateral()
	if err != nil {
		return err
	}

	jpy, usd, err := u.converter.Convert(reading.Amount, reading.Currency)
	if err != nil {
		return err
	}

	row := &models.Collateral{
		Account:       u.account,
		Currency:      reading.Currency,
		Collateral:    reading.Amount,
		FetchedAt:     fetchedAt,
		CollateralJPY: sql.NullFloat64{Float64: jpy, Valid: true},
		CollateralUSD: sql.NullFloat64{Float64: usd, Valid: true},
	}

	if err := u.collateralRepo.Insert(row); err != nil {
		return err
	}

	u.count(structs.MetricCollateralsInserted, 1)
	log.Infof("inserted collateral %f %s", reading.Amount, reading.Currency)

	return nil
}

func (u *syncUseCase) count(m structs.MetricConst, n int) {
	if c, ok := u.metrics[m]; ok {
		c.Add(float64(n))
	}
}

func (u *syncUseCase) notify(text string) {
	if u.tgm == nil {
		return
	}

	if err := u.tgm.Send(text); err != nil {
		u.logger.Debug(err)
	}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}

	return sql.NullFloat64{Float64: *v, Valid: true}
}
