package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cryptosync/internal/usecasees/structs"
)

type Metrics struct {
	Sync map[structs.MetricConst]prometheus.Counter
}

func (a *App) InitMetrics() {
	metrics := Metrics{Sync: map[structs.MetricConst]prometheus.Counter{}}

	for _, m := range []structs.MetricConst{
		structs.MetricCycleComplete,
		structs.MetricCycleFailed,
		structs.MetricOrdersUpserted,
		structs.MetricPositionsInserted,
		structs.MetricCollateralsInserted,
	} {
		metrics.Sync[m] = promauto.NewCounter(prometheus.CounterOpts{
			Name: m.ToString(),
			Help: m.ToString(),
		})
	}

	a.Metrics = &metrics
}
