package procedural

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusLabel = "status"
)

var (
	fillDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "field_fill_duration_seconds",
		Help:    "The time taken to fill a field from gaussians.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{statusLabel})

	filledSamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "field_filled_samples_total",
		Help: "The total number of samples written by successful fills.",
	})
)

func instrumentFill(start time.Time, samples int, err error) {
	status := "ok"
	if err != nil {
		status = "canceled"
	} else {
		filledSamples.Add(float64(samples))
	}

	fillDuration.
		With(prometheus.Labels{statusLabel: status}).
		Observe(time.Since(start).Seconds())
}
