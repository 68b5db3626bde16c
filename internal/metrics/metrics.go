// Package metrics defines Prometheus metrics for the ingestion core.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecordsEncoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphmint_records_encoded_total",
			Help: "Total source records encoded to graph models",
		},
	)

	StatementsEncoded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphmint_statements_encoded_total",
			Help: "Total statements emitted across all record graphs",
		},
	)

	EncodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphmint_encode_failures_total",
			Help: "Total records aborted by encoding errors",
		},
	)

	ReconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphmint_reconcile_runs_total",
			Help: "Total schema reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)

	AttributePathsAdded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "graphmint_attribute_paths_added_total",
			Help: "Total attribute paths newly added to schemas",
		},
	)

	StoreOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphmint_store_op_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsEncoded, StatementsEncoded, EncodeFailures,
		ReconcileRuns, AttributePathsAdded,
		StoreOpDuration,
	)
}
