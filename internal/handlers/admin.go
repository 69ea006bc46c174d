package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"namidia/internal/models"
)

// AdminListUsers pages the auth user list through the backend's admin
// API and trims it to the fields the back office renders.
func (h *Handlers) AdminListUsers(c *gin.Context) {
	page := 1
	if v := c.Query("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		page = parsed
	}

	perPage := 50
	if v := c.Query("per_page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid per_page"})
			return
		}
		perPage = parsed
	}

	users, err := h.sb.ListUsers(c.Request.Context(), page, perPage)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	result := make([]models.AdminUser, 0, len(users))
	for _, u := range users {
		result = append(result, models.AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			Phone:        u.Phone,
			CreatedAt:    u.CreatedAt,
			LastSignInAt: u.LastSignInAt,
		})
	}

	c.JSON(http.StatusOK, result)
}

// AdminStats serves the dashboard aggregation.
func (h *Handlers) AdminStats(c *gin.Context) {
	stats, err := h.services.Stats.Dashboard(c.Request.Context())
	if err != nil {
		slog.Error("failed to build stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
