// Package metrics defines the Prometheus instrumentation for the sync
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	VideosSynced           prometheus.Counter
	VideosFailed           prometheus.Counter
	SweepDuration          prometheus.Histogram
	ClassificationFailures prometheus.Counter
	NotificationOutcomes   *prometheus.CounterVec
}

// New creates the pipeline metrics and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VideosSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_sync",
			Name:      "videos_synced_total",
			Help:      "Total number of videos synced successfully.",
		}),
		VideosFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_sync",
			Name:      "videos_failed_total",
			Help:      "Total number of video syncs that failed.",
		}),
		SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "channel_sync",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of full channel sweeps in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ClassificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "channel_sync",
			Name:      "classification_failures_total",
			Help:      "Total number of comment classifications that failed after retries.",
		}),
		NotificationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channel_sync",
			Name:      "notification_outcomes_total",
			Help:      "Notification dispatch outcomes by type and success.",
		}, []string{"type", "success"}),
	}

	reg.MustRegister(
		m.VideosSynced,
		m.VideosFailed,
		m.SweepDuration,
		m.ClassificationFailures,
		m.NotificationOutcomes,
	)

	return m
}
