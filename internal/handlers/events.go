package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"namidia/internal/models"
)

const eventsCacheKey = "events:active"

// ListEvents returns the active events for the public landing page.
// The listing is cached as raw JSON so repeated hits skip both the
// upstream call and re-serialization.
func (h *Handlers) ListEvents(c *gin.Context) {
	if h.valkeyClient != nil {
		cached, err := h.valkeyClient.GetRaw(c.Request.Context(), eventsCacheKey)
		if err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
		if err != redis.Nil {
			slog.Warn("events cache read failed", "error", err)
		}
	}

	events, err := h.services.Events.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	if h.valkeyClient != nil {
		if err := h.valkeyClient.SetRaw(c.Request.Context(), eventsCacheKey, events); err != nil {
			slog.Warn("events cache write failed", "error", err)
		}
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.services.Events.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// ConfirmPresence records a confirmation for an event and, when the
// event grants one, returns the issued coupon in the response.
func (h *Handlers) ConfirmPresence(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.ConfirmPresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and phone are required"})
		return
	}

	resp, err := h.services.Events.Confirm(c.Request.Context(), id, &req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to confirm presence", "event_id", id, "error", err)
			c.JSON(status, gin.H{"error": "Failed to confirm presence"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.invalidateEventsCache(c.Request.Context())
	c.JSON(http.StatusCreated, resp)
}

func (h *Handlers) ValidateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	resp, err := h.services.Coupons.Validate(c.Request.Context(), req.Code)
	if err != nil {
		slog.Error("failed to validate coupon", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UseCoupon marks a coupon as spent outside of checkout, for orders
// closed over the counter or on WhatsApp.
func (h *Handlers) UseCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	coupon, err := h.services.Coupons.Use(c.Request.Context(), req.Code)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("failed to use coupon", "error", err)
			c.JSON(status, gin.H{"error": "Failed to use coupon"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, coupon)
}

// Admin event management.

func (h *Handlers) AdminListEvents(c *gin.Context) {
	events, err := h.services.Events.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("failed to list events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handlers) CreateEvent(c *gin.Context) {
	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	if err := h.services.Events.Create(c.Request.Context(), &event); err != nil {
		slog.Error("failed to create event", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	h.invalidateEventsCache(c.Request.Context())
	c.JSON(http.StatusCreated, event)
}

func (h *Handlers) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var event models.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}
	event.ID = id

	if err := h.services.Events.Update(c.Request.Context(), &event); err != nil {
		slog.Error("failed to update event", "event_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	h.invalidateEventsCache(c.Request.Context())
	c.JSON(http.StatusOK, event)
}

func (h *Handlers) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.services.Events.Delete(c.Request.Context(), id); err != nil {
		slog.Error("failed to delete event", "event_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	h.invalidateEventsCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handlers) invalidateEventsCache(ctx context.Context) {
	if h.valkeyClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.valkeyClient.Invalidate(ctx, eventsCacheKey); err != nil {
		slog.Warn("events cache invalidation failed", "error", err)
	}
}
