// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_webhooks_received_total",
			Help: "Total number of webhooks received per source",
		},
		[]string{"source"},
	)

	NotificationsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_notifications_rendered_total",
			Help: "Total number of notification messages rendered per source",
		},
		[]string{"source"},
	)

	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_notifications_dropped_total",
			Help: "Webhooks that produced no message, by reason (invalid, suppressed, unknown_source, fault)",
		},
		[]string{"source", "reason"},
	)

	DeliveriesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_deliveries_failed_total",
			Help: "Per-destination delivery failures per source",
		},
		[]string{"source"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bridge_dispatch_duration_seconds",
			Help: "Duration of a full dispatch (render plus fan-out) in seconds",
		},
		[]string{"source"},
	)
)
