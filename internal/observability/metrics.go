package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladle_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ladle_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ActiveWebSockets is the gauge of currently open feed connections.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ladle_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// FeedEventsTotal counts feed events published by type.
	FeedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladle_feed_events_total",
		Help: "Total feed events published by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladle_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// ModerationDecisionsTotal counts moderation outcomes by decision.
	ModerationDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ladle_moderation_decisions_total",
		Help: "Total moderation decisions by outcome",
	}, []string{"decision"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordFeedEvent increments the feed events counter for the event type.
func RecordFeedEvent(eventType string) {
	FeedEventsTotal.WithLabelValues(eventType).Inc()
}

// RecordModerationDecision increments the moderation decisions counter.
func RecordModerationDecision(decision string) {
	ModerationDecisionsTotal.WithLabelValues(decision).Inc()
}
