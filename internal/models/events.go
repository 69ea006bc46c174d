package models

import "time"

// NATS Event Types
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventPresenceConfirmed  = "event.confirmed"
	EventCouponIssued       = "coupon.issued"
)

// OrderCreatedEvent is published when checkout inserts an order
type OrderCreatedEvent struct {
	OrderID       int64     `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"item_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	OrderID   int64     `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}

// PresenceConfirmedEvent is published when a visitor confirms an event
type PresenceConfirmedEvent struct {
	EventID        int64     `json:"event_id"`
	ConfirmationID int64     `json:"confirmation_id"`
	Name           string    `json:"name"`
	Timestamp      time.Time `json:"timestamp"`
}

// CouponIssuedEvent is published when a coupon is generated
type CouponIssuedEvent struct {
	CouponID  int64     `json:"coupon_id"`
	Code      string    `json:"code"`
	EventID   int64     `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
}
