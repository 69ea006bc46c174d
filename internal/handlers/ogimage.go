package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"namidia/internal/ogimage"
)

// OGImage renders a shareable social card. Title comes from the query
// string so the frontend can point og:image at this endpoint directly.
func (h *Handlers) OGImage(c *gin.Context) {
	params := ogimage.Params{
		Title:    c.Query("title"),
		Subtitle: c.Query("subtitle"),
		Kind:     c.Query("kind"),
	}
	if params.Title == "" {
		params.Title = "Na Mídia"
	}

	img, err := ogimage.Render(params)
	if err != nil {
		slog.Error("failed to render og image", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render image"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, ogimage.ContentType, img)
}
