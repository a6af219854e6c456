package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_runs_started_total",
		Help: "Total number of runs started.",
	})

	RunsArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_runs_archived_total",
		Help: "Total number of runs archived.",
	})

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_orders_created_total",
		Help: "Total number of orders added to a run.",
	})

	OrdersUpdatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_orders_updated_total",
		Help: "Total number of in-place order updates.",
	})

	OrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_orders_deleted_total",
		Help: "Total number of orders deleted.",
	})

	OrdersReorderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_orders_reordered_total",
		Help: "Total number of order reorder moves committed.",
	})

	SavedOrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_saved_orders_created_total",
		Help: "Total number of saved-order templates created.",
	})

	SavedOrdersDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffeerun_saved_orders_deleted_total",
		Help: "Total number of saved-order templates deleted.",
	})

	ActiveRunOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coffeerun_active_run_orders",
		Help: "Number of orders in the run currently being viewed.",
	})

	StoreDecodeFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeerun_store_decode_failures_total",
		Help: "Total number of stored values discarded as malformed JSON.",
	},
		[]string{"key"},
	)

	StoreWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeerun_store_writes_total",
		Help: "Total number of committed store writes.",
	},
		[]string{"key"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coffeerun_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
