// File: internal/infra/metrics/db.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	dbQueryLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_latency_ms",
			Help:    "SQLite query latency in milliseconds.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"query"},
	)

	usersMarkedOffline = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "users_marked_offline_total",
			Help: "Users flipped offline by the presence worker.",
		},
	)
)

func init() {
	register(dbQueryLatencyMs, usersMarkedOffline)
}

func ObserveDBQuery(query string, d time.Duration) {
	dbQueryLatencyMs.WithLabelValues(query).Observe(float64(d.Milliseconds()))
}

func AddUsersMarkedOffline(n int) {
	usersMarkedOffline.Add(float64(n))
}
