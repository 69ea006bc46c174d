package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"namidia/internal/middleware"
	"namidia/internal/models"
)

// GetProfile returns the authenticated user's profile, or an empty one
// when nothing was saved yet.
func (h *Handlers) GetProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	profile, err := h.services.Profiles.Get(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("failed to fetch profile", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile upserts the authenticated user's contact and address.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user, ok := middleware.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	profile, err := h.services.Profiles.Update(c.Request.Context(), user.ID, &req)
	if err != nil {
		slog.Error("failed to update profile", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
