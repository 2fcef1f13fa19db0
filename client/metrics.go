package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medisend",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total number of Medisend API calls",
		},
		[]string{"operation", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medisend",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Medisend API call duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	pagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "medisend",
			Subsystem: "client",
			Name:      "pages_fetched_total",
			Help:      "Total number of product pages fetched during full traversals",
		},
	)
)

// observeRequest records one call. A zero status means no response arrived.
func observeRequest(op string, status int, start time.Time) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	requestsTotal.WithLabelValues(op, label).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
