package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/stan.go"

	"namidia/internal/external"
	"namidia/internal/metrics"
	"namidia/internal/models"
	"namidia/internal/repository"
	"namidia/internal/service"
)

type Handlers struct {
	repos      *repository.Repositories
	pushClient *external.PushClient
}

func NewHandlers(repos *repository.Repositories, pushClient *external.PushClient) *Handlers {
	return &Handlers{
		repos:      repos,
		pushClient: pushClient,
	}
}

// HandleOrderCreated alerts the back office about a fresh order.
func (h *Handlers) HandleOrderCreated(m *stan.Msg) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal order created event", "error", err)
		return
	}

	slog.Info("Processing order created event",
		"order_id", event.OrderID, "total", event.Total)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	title := "Novo pedido!"
	message := fmt.Sprintf("%s fez um pedido de %s",
		event.CustomerName, service.FormatPrice(event.Total))
	if order, err := h.repos.Orders.GetByID(ctx, event.OrderID); err == nil && order != nil {
		message = fmt.Sprintf("%s (%s) fez um pedido de %s",
			order.CustomerName, order.Condominium, service.FormatPrice(order.Total))
	}
	data := map[string]any{"order_id": event.OrderID}

	if _, err := h.pushClient.SendToSegment(ctx, "Admins", title, message, data); err != nil {
		slog.Error("Failed to push order notification", "order_id", event.OrderID, "error", err)
		metrics.NotificationsSent.WithLabelValues("push", "error").Inc()
	} else {
		metrics.NotificationsSent.WithLabelValues("push", "ok").Inc()
	}

	m.Ack()
}

// HandleOrderStatusChanged pushes progress updates for the statuses
// customers actually wait on.
func (h *Handlers) HandleOrderStatusChanged(m *stan.Msg) {
	var event models.OrderStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal order status event", "error", err)
		return
	}

	slog.Info("Processing order status event",
		"order_id", event.OrderID, "old", event.OldStatus, "new", event.NewStatus)

	if event.NewStatus == models.OrderStatusDelivering || event.NewStatus == models.OrderStatusCompleted {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		info := service.StatusInfoFor(event.NewStatus)
		message := fmt.Sprintf("Pedido #%d: %s", event.OrderID, info.Label)
		data := map[string]any{"order_id": event.OrderID, "status": event.NewStatus}

		if _, err := h.pushClient.SendToSegment(ctx, "Pedidos", info.Icon+" "+info.Label, message, data); err != nil {
			slog.Error("Failed to push status notification", "order_id", event.OrderID, "error", err)
			metrics.NotificationsSent.WithLabelValues("push", "error").Inc()
		} else {
			metrics.NotificationsSent.WithLabelValues("push", "ok").Inc()
		}
	}

	m.Ack()
}

// HandlePresenceConfirmed keeps a trail of confirmations as they come in.
func (h *Handlers) HandlePresenceConfirmed(m *stan.Msg) {
	var event models.PresenceConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal presence confirmed event", "error", err)
		return
	}

	slog.Info("Presence confirmed",
		"event_id", event.EventID, "confirmation_id", event.ConfirmationID, "name", event.Name)

	m.Ack()
}

// HandleCouponIssued logs issued coupons for reconciliation.
func (h *Handlers) HandleCouponIssued(m *stan.Msg) {
	var event models.CouponIssuedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal coupon issued event", "error", err)
		return
	}

	slog.Info("Coupon issued", "coupon_id", event.CouponID, "code", event.Code, "event_id", event.EventID)

	m.Ack()
}
