package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "namidia_http_requests_total",
		Help: "Total number of HTTP requests handled",
	}, []string{"method", "path", "status"})

	// OrdersCreated counts successful checkouts.
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "namidia_orders_created_total",
		Help: "Total number of delivery orders created",
	})

	// OrderStatusChanges counts status transitions by target status.
	OrderStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "namidia_order_status_changes_total",
		Help: "Total number of order status transitions",
	}, []string{"status"})

	// CouponsIssued counts coupons generated on event confirmation.
	CouponsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "namidia_coupons_issued_total",
		Help: "Total number of coupons issued",
	})

	// RealtimeEvents counts change-feed notifications by table and type.
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "namidia_realtime_events_total",
		Help: "Total number of realtime change-feed events received",
	}, []string{"table", "type"})

	// NotificationsSent counts outbound email and push deliveries.
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "namidia_notifications_sent_total",
		Help: "Total number of notifications dispatched",
	}, []string{"channel", "result"})

	// RateLimited counts requests rejected by the fixed-window limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "namidia_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
)
