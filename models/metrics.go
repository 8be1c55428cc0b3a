package models

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "session_count",
		Help: "The number of camera sessions.",
	})

	sessionCountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "session_count_total",
		Help: "The total number of camera sessions.",
	})

	sessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "session_duration_seconds",
		Help:    "How long camera sessions last.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func instrumentIncreaseSessionGauge() {
	sessionCount.Inc()
}

func instrumentDecreaseSessionGauge(lifetime time.Duration) {
	sessionCount.Dec()
	sessionDuration.Observe(lifetime.Seconds())
}

func instrumentCountSession() {
	sessionCountTotal.Inc()
}
