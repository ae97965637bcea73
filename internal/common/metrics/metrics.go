// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LaneFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstate_lane_fetches_total",
			Help: "Total number of fetches performed per state lane",
		},
		[]string{"lane", "source"},
	)

	LaneFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appstate_lane_fetch_failures_total",
			Help: "Total number of failed fetches per state lane",
		},
		[]string{"lane", "source", "error_code"},
	)

	LaneFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "appstate_lane_fetch_duration_seconds",
			Help: "Duration of lane fetches in seconds",
		},
		[]string{"lane", "source"},
	)

	ChatMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Total number of chat messages sent, by outcome",
		},
		[]string{"source", "outcome"},
	)

	RealtimeEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_received_total",
			Help: "Total number of realtime events received per channel event type",
		},
		[]string{"event"},
	)

	RealtimeSubscriptionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_subscriptions_active",
			Help: "Number of active realtime subscriptions",
		},
	)
)
