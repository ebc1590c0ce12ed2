// Package metrics provides Prometheus metrics for stop list loads and the
// HTTP surface. All collectors are registered with the default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess     = "success"
	OutcomeFetchFailed = "fetch_failed"
	OutcomeParseFailed = "parse_failed"
	OutcomeRejected    = "rejected"
)

var (
	LoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "station_loads_total",
			Help: "Stop list load attempts by outcome",
		},
		[]string{"outcome"},
	)

	LoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "station_load_duration_seconds",
			Help:    "Time from trigger to applied display text",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	DisplayedStations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "station_displayed_count",
			Help: "Number of station names currently displayed",
		},
	)

	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(LoadsTotal)
	prometheus.MustRegister(LoadDuration)
	prometheus.MustRegister(DisplayedStations)
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
}
