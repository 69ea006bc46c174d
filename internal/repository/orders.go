package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

type OrderRepository struct {
	sb *supabase.Client
}

func NewOrderRepository(sb *supabase.Client) *OrderRepository {
	return &OrderRepository{sb: sb}
}

// Create inserts the order, sending only the writable columns. The id,
// created_at and status timestamp columns are assigned by the backend and
// decoded back into order from the returned row.
func (r *OrderRepository) Create(ctx context.Context, order *models.DeliveryOrder) error {
	payload := map[string]any{
		"customer_name":  order.CustomerName,
		"customer_phone": order.CustomerPhone,
		"condominium":    order.Condominium,
		"tower":          order.Tower,
		"apartment":      order.Apartment,
		"items":          order.Items,
		"subtotal":       order.Subtotal,
		"discount":       order.Discount,
		"total":          order.Total,
		"coupon_code":    order.CouponCode,
		"notes":          order.Notes,
		"status":         order.Status,
		"whatsapp_sent":  order.WhatsAppSent,
	}
	return r.sb.From("delivery_orders").Single().Insert(ctx, payload, order)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.DeliveryOrder, error) {
	var order models.DeliveryOrder
	err := r.sb.From("delivery_orders").Select("*").Eq("id", id).Single().Get(ctx, &order)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status string, limit int) ([]models.DeliveryOrder, error) {
	query := r.sb.From("delivery_orders").AsServiceRole().Select("*").Order("created_at", false)
	if status != "" {
		query = query.Eq("status", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var orders []models.DeliveryOrder
	if err := query.Get(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListSince returns orders created at or after the cutoff, for the
// dashboard aggregations.
func (r *OrderRepository) ListSince(ctx context.Context, since time.Time) ([]models.DeliveryOrder, error) {
	var orders []models.DeliveryOrder
	err := r.sb.From("delivery_orders").AsServiceRole().
		Select("*").
		Gte("created_at", since.Format(time.RFC3339)).
		Order("created_at", false).
		Get(ctx, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// statusTimestampColumn maps each status to the column stamped when the
// order enters it.
var statusTimestampColumn = map[string]string{
	models.OrderStatusConfirmed:  "confirmed_at",
	models.OrderStatusPreparing:  "preparing_at",
	models.OrderStatusDelivering: "delivering_at",
	models.OrderStatusCompleted:  "completed_at",
	models.OrderStatusCancelled:  "cancelled_at",
}

// UpdateStatus sets the status and stamps the matching timestamp column.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status string) (*models.DeliveryOrder, error) {
	patch := map[string]any{"status": status}
	if column, ok := statusTimestampColumn[status]; ok {
		patch[column] = time.Now().Format(time.RFC3339)
	} else if status != models.OrderStatusPending {
		return nil, fmt.Errorf("unknown order status: %s", status)
	}

	var order models.DeliveryOrder
	err := r.sb.From("delivery_orders").AsServiceRole().Eq("id", id).Single().Update(ctx, patch, &order)
	if errors.Is(err, supabase.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) MarkWhatsAppSent(ctx context.Context, id int64) error {
	patch := map[string]any{"whatsapp_sent": true}
	return r.sb.From("delivery_orders").AsServiceRole().Eq("id", id).Update(ctx, patch, nil)
}
