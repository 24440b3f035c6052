package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Query pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netquery",
			Name:      "queries_total",
			Help:      "Network queries by outcome (ok or an error kind)",
		},
		[]string{"endpoint", "outcome"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "netquery",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query pipeline duration",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"endpoint"},
	)

	QueryConnections = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "netquery",
			Name:      "query_connections",
			Help:      "Connections returned per successful query",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	RelevanceOutOfRangeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "netquery",
			Name:      "relevance_out_of_range_total",
			Help:      "Relevance scores clamped into [0,1]",
		},
	)

	AuditEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netquery",
			Name:      "audit_events_total",
			Help:      "Audit events by result (ok, failed)",
		},
		[]string{"result"},
	)

	ScopeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "netquery",
			Name:      "scope_cache_total",
			Help:      "Scope resolution cache hits and misses",
		},
		[]string{"result"},
	)
)

var registerQueryOnce sync.Once

// RegisterQueryMetrics registers the query pipeline metrics. Safe to call more than once.
func RegisterQueryMetrics() {
	registerQueryOnce.Do(func() {
		prometheus.MustRegister(
			QueriesTotal,
			QueryDuration,
			QueryConnections,
			RelevanceOutOfRangeTotal,
			AuditEventsTotal,
			ScopeCacheTotal,
		)
	})
}
