// Package metrics defines Prometheus metrics for netgraph.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netgraph_analysis_duration_seconds",
			Help:    "Time to fetch, build and score one analysis",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"analysis"},
	)

	NonConvergenceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_analytics_nonconvergence_total",
			Help: "Power iterations that hit their cap without converging",
		},
		[]string{"algorithm"},
	)

	SkippedRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netgraph_graph_skipped_rows_total",
			Help: "Store rows dropped while building graphs",
		},
		[]string{"graph"},
	)

	GraphNodes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netgraph_graph_nodes",
			Help: "Node count of the most recently built graph",
		},
		[]string{"graph"},
	)

	GraphEdges = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netgraph_graph_edges",
			Help: "Edge count of the most recently built graph",
		},
		[]string{"graph"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netgraph_store_breaker_state",
			Help: "Store circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		AnalysisDuration, NonConvergenceTotal, SkippedRowsTotal,
		GraphNodes, GraphEdges, BreakerState,
	)
}
