// File: internal/infra/metrics/vk.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	vkSendLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vk_send_latency_ms",
			Help:    "messages.send latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"success"},
	)

	vkAPIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vk_api_errors_total",
			Help: "VK API errors by method.",
		},
		[]string{"method"},
	)

	vkLongPollRestarts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vk_longpoll_restarts_total",
			Help: "Long poll server re-acquisitions after a failed response.",
		},
	)
)

func init() {
	register(vkSendLatencyMs, vkAPIErrors, vkLongPollRestarts)
}

func ObserveVKSend(d time.Duration, success bool) {
	vkSendLatencyMs.WithLabelValues(strconv.FormatBool(success)).Observe(float64(d.Milliseconds()))
}

func IncVKAPIError(method string) {
	vkAPIErrors.WithLabelValues(method).Inc()
}

func IncLongPollRestart() {
	vkLongPollRestarts.Inc()
}
