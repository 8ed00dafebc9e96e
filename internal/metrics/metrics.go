// Package metrics exposes the relay's Prometheus collectors. They register
// on the default registry and are served by the HTTP adapter at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_orders_created_total",
		Help: "Total number of orders successfully created.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodrelay_order_transitions_total",
		Help: "Total number of order status transitions by target status and outcome.",
	},
		[]string{"status", "outcome"},
	)

	NotificationsEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_notifications_enqueued_total",
		Help: "Total number of notifications accepted into the dispatch queue.",
	})

	NotificationsRejectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_notifications_rejected_total",
		Help: "Total number of notifications rejected at enqueue time.",
	})

	NotificationsDeliveredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_notifications_delivered_total",
		Help: "Total number of notifications delivered to their chat.",
	})

	NotificationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_notifications_dropped_total",
		Help: "Total number of notifications dropped after exhausting retries.",
	})

	NotificationAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodrelay_notification_attempts_total",
		Help: "Total number of delivery attempts by outcome.",
	},
		[]string{"outcome"},
	)

	NotificationQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "foodrelay_notification_queue_length",
		Help: "Current number of notifications waiting in the dispatch queue.",
	})

	GeocodeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodrelay_geocode_requests_total",
		Help: "Total number of geocoding requests by outcome.",
	},
		[]string{"outcome"},
	)

	GeocodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "foodrelay_geocode_duration_seconds",
		Help:    "Duration of geocoding requests, courtesy delay included.",
		Buckets: prometheus.DefBuckets,
	})

	RouteStopsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodrelay_route_stops_dropped_total",
		Help: "Total number of route stops dropped because they could not be geocoded.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodrelay_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)
