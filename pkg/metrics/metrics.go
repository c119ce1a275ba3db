// Package metrics exposes Prometheus metrics for the notification service.
// All metrics are registered on the default registry and served through the
// ops API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Enqueue outcomes: queued, duplicate, filtered, empty.
	EnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_enqueued_total",
			Help: "Total enqueue requests by outcome",
		},
		[]string{"result"},
	)

	CountCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_count_cache_hits_total",
			Help: "Total count cache hits",
		},
	)

	CountCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_count_cache_misses_total",
			Help: "Total count cache misses",
		},
	)

	MarkedReadRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_marked_read_rows_total",
			Help: "Total user notification rows transitioned to read",
		},
	)

	FanOutBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_fanout_batches_total",
			Help: "Total fan-out ticks by status",
		},
		[]string{"status"},
	)

	FanOutNotifications = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_fanout_notifications_total",
			Help: "Total pending notifications fanned out",
		},
	)

	FanOutUserRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_fanout_user_rows_total",
			Help: "Total per-user notification rows created by fan-out",
		},
	)

	FanOutDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_fanout_duration_seconds",
			Help:    "Fan-out tick duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	SSESubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_sse_subscribers",
			Help: "Number of connected SSE subscribers",
		},
	)
)

// RecordEnqueue records one enqueue request outcome.
func RecordEnqueue(result string) {
	EnqueuedTotal.WithLabelValues(result).Inc()
}

// RecordCountCache records a count cache lookup outcome.
func RecordCountCache(hit bool) {
	if hit {
		CountCacheHits.Inc()
	} else {
		CountCacheMisses.Inc()
	}
}

// RecordFanOut records one fan-out tick.
func RecordFanOut(status string, notifications, userRows int64, duration time.Duration) {
	FanOutBatches.WithLabelValues(status).Inc()
	FanOutNotifications.Add(float64(notifications))
	FanOutUserRows.Add(float64(userRows))
	FanOutDuration.Observe(duration.Seconds())
}
