package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"namidia/internal/cart"
	apperrors "namidia/internal/errors"
	"namidia/internal/external"
	"namidia/internal/messaging"
	"namidia/internal/metrics"
	"namidia/internal/models"
	"namidia/internal/repository"
)

type OrderService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	coupons     *CouponService
	emailClient *external.EmailClient
	natsClient  *messaging.NATSClient
	siteURL     string
	now         func() time.Time
}

func NewOrderService(orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository, coupons *CouponService, emailClient *external.EmailClient, natsClient *messaging.NATSClient, siteURL string) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		coupons:     coupons,
		emailClient: emailClient,
		natsClient:  natsClient,
		siteURL:     siteURL,
		now:         time.Now,
	}
}

// Checkout turns a submitted cart into an order row. Prices, stock and
// flags come from the product rows, never from the client; the cart is
// rebuilt server-side to compute the totals.
func (s *OrderService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	if !IsDeliveryOpenAt(s.now().Hour()) {
		return nil, apperrors.ErrStoreClosed
	}
	if len(req.Items) == 0 {
		return nil, apperrors.ErrEmptyOrder
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, fmt.Sprintf("%d", item.ProductID))
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	byID := make(map[int64]models.DeliveryProduct, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	basket := cart.New()
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrNotFound)
		}
		if !product.Active {
			return nil, fmt.Errorf("product %q: %w", product.Name, apperrors.ErrProductInactive)
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("product %q: %w", product.Name, apperrors.ErrOutOfStock)
		}
		if product.Alcoholic && !CanSellAlcoholAt(s.now().Hour()) {
			return nil, fmt.Errorf("product %q: %w", product.Name, apperrors.ErrAlcoholWindow)
		}
		basket.Add(product, item.Quantity)
	}

	// The coupon is only checked here; it is spent after the order row
	// exists, so a failed insert never burns it.
	discountPercent := 0
	var couponCode *string
	if code := strings.TrimSpace(req.CouponCode); code != "" {
		coupon, err := s.coupons.Check(ctx, code)
		if err != nil {
			return nil, err
		}
		discountPercent = coupon.DiscountPercent
		couponCode = &coupon.Code
	}

	order := &models.DeliveryOrder{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Condominium:   req.Condominium,
		Tower:         req.Tower,
		Apartment:     req.Apartment,
		Items:         basket.OrderItems(),
		Subtotal:      basket.Subtotal(),
		Discount:      basket.Discount(discountPercent),
		Total:         basket.Total(discountPercent),
		CouponCode:    couponCode,
		Notes:         req.Notes,
		Status:        models.OrderStatusPending,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if couponCode != nil {
		if _, err := s.coupons.Use(ctx, *couponCode); err != nil {
			slog.Error("Failed to mark coupon used",
				"order_id", order.ID, "coupon_code", *couponCode, "error", err)
		}
	}

	// Stock bookkeeping happens after the order exists; a failed
	// decrement is logged and reconciled by the backend, not rolled back.
	for _, item := range order.Items {
		if err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			slog.Error("Failed to decrement stock",
				"order_id", order.ID, "product_id", item.ProductID, "error", err)
		}
	}

	metrics.OrdersCreated.Inc()

	if s.natsClient != nil {
		event := models.OrderCreatedEvent{
			OrderID:       order.ID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			Total:         order.Total,
			ItemCount:     basket.ItemCount(),
			Timestamp:     time.Now(),
		}
		if err := s.natsClient.Publish(models.EventOrderCreated, event); err != nil {
			slog.Error("Failed to publish order created event", "order_id", order.ID, "error", err)
		}
	}

	return &models.CheckoutResponse{
		ID:       order.ID,
		Status:   order.Status,
		Subtotal: order.Subtotal,
		Discount: order.Discount,
		Total:    order.Total,
	}, nil
}

// Track returns an order with its rendered progress stages.
func (s *OrderService) Track(ctx context.Context, id int64) (*models.OrderTrackingResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	return &models.OrderTrackingResponse{
		Order:  order,
		Stages: OrderStages(order.Status),
	}, nil
}

// List returns orders for the admin dashboard.
func (s *OrderService) List(ctx context.Context, status string, limit int) ([]models.DeliveryOrder, error) {
	orders, err := s.orderRepo.List(ctx, status, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves an order to a new status. Transition legality is not
// validated here; the progression is display-only (the backend and the
// admin are trusted).
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status string) (*models.DeliveryOrder, error) {
	if _, ok := orderStatusInfo[status]; !ok {
		return nil, fmt.Errorf("unknown order status: %s", status)
	}

	before, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if before == nil {
		return nil, apperrors.ErrNotFound
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, apperrors.ErrNotFound
	}

	metrics.OrderStatusChanges.WithLabelValues(status).Inc()

	if s.natsClient != nil {
		event := models.OrderStatusChangedEvent{
			OrderID:   id,
			OldStatus: before.Status,
			NewStatus: status,
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.EventOrderStatusChanged, event); err != nil {
			slog.Error("Failed to publish status change event", "order_id", id, "error", err)
		}
	}

	return order, nil
}

// MarkWhatsAppSent flags the order after the storefront opened the
// WhatsApp handoff link.
func (s *OrderService) MarkWhatsAppSent(ctx context.Context, id int64) error {
	if err := s.orderRepo.MarkWhatsAppSent(ctx, id); err != nil {
		return fmt.Errorf("failed to mark order: %w", err)
	}
	return nil
}

// SendConfirmationEmail dispatches the order summary to the customer.
func (s *OrderService) SendConfirmationEmail(ctx context.Context, orderID int64, to string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return apperrors.ErrNotFound
	}

	subject := fmt.Sprintf("Pedido #%d recebido - Na Mídia", order.ID)
	if _, err := s.emailClient.Send(ctx, to, subject, s.buildOrderEmail(order)); err != nil {
		metrics.NotificationsSent.WithLabelValues("email", "error").Inc()
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	metrics.NotificationsSent.WithLabelValues("email", "ok").Inc()
	return nil
}

func (s *OrderService) buildOrderEmail(order *models.DeliveryOrder) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>Pedido #%d recebido!</h2>", order.ID))
	b.WriteString(fmt.Sprintf("<p>Olá %s, recebemos seu pedido e ele já está sendo processado.</p>", order.CustomerName))
	b.WriteString("<ul>")
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("<li>%dx %s - %s</li>", item.Quantity, item.Name, FormatPrice(item.Price*float64(item.Quantity))))
	}
	b.WriteString("</ul>")
	if order.Discount > 0 {
		b.WriteString(fmt.Sprintf("<p>Desconto: %s</p>", FormatPrice(order.Discount)))
	}
	b.WriteString(fmt.Sprintf("<p><strong>Total: %s</strong></p>", FormatPrice(order.Total)))
	b.WriteString(fmt.Sprintf(`<p><a href="%s/delivery/pedido/%d">Acompanhe seu pedido</a></p>`, s.siteURL, order.ID))
	return b.String()
}
