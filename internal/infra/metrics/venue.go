// File: internal/infra/metrics/venue.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	venueFetchLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venue_fetch_latency_ms",
			Help:    "Venue API fetch latency in milliseconds.",
			Buckets: []float64{25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"endpoint", "success"},
	)

	venueFetchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venue_fetch_failures_total",
			Help: "Failed venue API fetches by endpoint (load|sessions|tariffs).",
		},
		[]string{"endpoint"},
	)
)

func init() {
	register(venueFetchLatencyMs, venueFetchFailures)
}

func ObserveVenueFetch(endpoint string, d time.Duration, success bool) {
	venueFetchLatencyMs.WithLabelValues(endpoint, strconv.FormatBool(success)).Observe(float64(d.Milliseconds()))
	if !success {
		venueFetchFailures.WithLabelValues(endpoint).Inc()
	}
}
