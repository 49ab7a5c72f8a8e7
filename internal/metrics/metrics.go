// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package metrics holds the Prometheus metrics of the query service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for query execution.
type Metrics struct {
	// Query outcomes by operation and status
	Queries *prometheus.CounterVec

	// Query latency by operation
	QueryLatency *prometheus.HistogramVec

	// Largest intermediate factor (number of instances) per query
	FactorSize prometheus.Histogram
}

// New creates a Metrics instance with all its metrics registered in reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dvn_queries_total",
			Help: "Total queries by operation and status",
		}, []string{"op", "status"}), // op: "MPE", "MAP", "DECISION", "unknown"

		QueryLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dvn_query_duration_seconds",
			Help:    "Duration of query execution, including the construction of the network",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"}),

		FactorSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dvn_largest_factor_instances",
			Help:    "Number of instances of the largest factor built by a query",
			Buckets: prometheus.ExponentialBuckets(4, 4, 10),
		}),
	}
}

// ObserveQuery records the outcome and the duration of a query.
func (m *Metrics) ObserveQuery(op, status string, d time.Duration) {
	if m != nil {
		m.Queries.WithLabelValues(op, status).Inc()
		m.QueryLatency.WithLabelValues(op).Observe(d.Seconds())
	}
}

// ObserveFactorSize records the size of the largest factor of a query.
func (m *Metrics) ObserveFactorSize(n int) {
	if m != nil {
		m.FactorSize.Observe(float64(n))
	}
}
