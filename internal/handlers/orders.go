package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"namidia/internal/models"
)

// Checkout rebuilds the submitted cart against current product data and
// creates the order. Validation failures come back as 400s with the
// service error message so the storefront can surface them directly.
func (h *Handlers) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	resp, err := h.services.Orders.Checkout(c.Request.Context(), &req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("checkout failed", "error", err)
			c.JSON(status, gin.H{"error": "Failed to place order"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// TrackOrder returns the order with its five-stage progress, or the
// single cancelled stage.
func (h *Handlers) TrackOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	resp, err := h.services.Orders.Track(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendOrderEmail dispatches the order confirmation email on demand.
func (h *Handlers) SendOrderEmail(c *gin.Context) {
	var req models.OrderEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID and email are required"})
		return
	}

	if err := h.services.Orders.SendConfirmationEmail(c.Request.Context(), req.OrderID, req.Email); err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to send order email", "order_id", req.OrderID, "error", err)
			c.JSON(status, gin.H{"error": "Failed to send email"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// Admin order management.

func (h *Handlers) AdminListOrders(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	orders, err := h.services.Orders.List(c.Request.Context(), c.Query("status"), limit)
	if err != nil {
		slog.Error("failed to list orders", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	order, err := h.services.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to update order status", "order_id", id, "error", err)
			c.JSON(status, gin.H{"error": "Failed to update order"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// MarkOrderWhatsAppSent records that the order was relayed over
// WhatsApp, so the back office stops flagging it.
func (h *Handlers) MarkOrderWhatsAppSent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	if err := h.services.Orders.MarkWhatsAppSent(c.Request.Context(), id); err != nil {
		slog.Error("failed to mark whatsapp sent", "order_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"whatsapp_sent": true})
}
