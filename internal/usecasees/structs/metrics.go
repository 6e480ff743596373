package structs

type MetricConst int

const (
	MetricCycleComplete MetricConst = iota
	MetricCycleFailed
	MetricOrdersUpserted
	MetricPositionsInserted
	MetricCollateralsInserted
)

func (m MetricConst) ToString() string {
	switch m {
	case MetricCycleComplete:
		return "sync_cycles_complete_total"
	case MetricCycleFailed:
		return "sync_cycles_failed_total"
	case MetricOrdersUpserted:
		return "sync_orders_upserted_total"
	case MetricPositionsInserted:
		return "sync_positions_inserted_total"
	case MetricCollateralsInserted:
		return "sync_collaterals_inserted_total"
	}

	return "sync_unknown"
}
