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
	"namidia/internal/repository"
	"namidia/internal/service"
)

const (
	categoriesCacheKey = "catalog:categories"
	productsCacheKey   = "catalog:products"
)

func (h *Handlers) ListCategories(c *gin.Context) {
	if h.valkeyClient != nil {
		cached, err := h.valkeyClient.GetRaw(c.Request.Context(), categoriesCacheKey)
		if err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
		if err != redis.Nil {
			slog.Warn("categories cache read failed", "error", err)
		}
	}

	categories, err := h.services.Catalog.Categories(c.Request.Context(), true)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	if h.valkeyClient != nil {
		if err := h.valkeyClient.SetRaw(c.Request.Context(), categoriesCacheKey, categories); err != nil {
			slog.Warn("categories cache write failed", "error", err)
		}
	}

	c.JSON(http.StatusOK, categories)
}

// ListProducts serves the storefront grid. Only the unfiltered default
// listing is cached; filtered and searched variants always go upstream.
func (h *Handlers) ListProducts(c *gin.Context) {
	query := c.Query("q")
	filter := repository.ProductFilter{ActiveOnly: true}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		filter.CategoryID = id
	}
	if c.Query("featured") == "true" {
		filter.FeaturedOnly = true
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offset"})
			return
		}
		filter.Offset = offset
	}

	shouldCache := h.valkeyClient != nil && query == "" &&
		filter.CategoryID == 0 && !filter.FeaturedOnly &&
		filter.Limit == 0 && filter.Offset == 0

	if shouldCache {
		cached, err := h.valkeyClient.GetRaw(c.Request.Context(), productsCacheKey)
		if err == nil {
			c.Data(http.StatusOK, "application/json", cached)
			return
		}
		if err != redis.Nil {
			slog.Warn("products cache read failed", "error", err)
		}
	}

	products, err := h.services.Catalog.Products(c.Request.Context(), query, filter)
	if err != nil {
		slog.Error("failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	if shouldCache {
		if err := h.valkeyClient.SetRaw(c.Request.Context(), productsCacheKey, products); err != nil {
			slog.Warn("products cache write failed", "error", err)
		}
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.services.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// StoreStatus reports the time-of-day business rules so the storefront
// can disable checkout and alcohol items without duplicating the rules.
func (h *Handlers) StoreStatus(c *gin.Context) {
	hour := time.Now().Hour()
	resp := models.StoreStatusResponse{
		Open:           service.IsDeliveryOpenAt(hour),
		AlcoholAllowed: service.CanSellAlcoholAt(hour),
		NightMood:      service.IsNightMoodAt(hour),
		Hour:           hour,
	}
	if !resp.Open {
		resp.Message = "Estamos fechados. Voltamos às 6h!"
	}
	c.JSON(http.StatusOK, resp)
}

// Admin catalog management.

func (h *Handlers) AdminListProducts(c *gin.Context) {
	products, err := h.services.Catalog.Products(c.Request.Context(), "", repository.ProductFilter{})
	if err != nil {
		slog.Error("failed to list products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handlers) CreateProduct(c *gin.Context) {
	var product models.DeliveryProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}

	if err := h.services.Catalog.CreateProduct(c.Request.Context(), &product); err != nil {
		slog.Error("failed to create product", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusCreated, product)
}

func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var product models.DeliveryProduct
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}
	product.ID = id

	if err := h.services.Catalog.UpdateProduct(c.Request.Context(), &product); err != nil {
		slog.Error("failed to update product", "product_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.services.Catalog.DeleteProduct(c.Request.Context(), id); err != nil {
		slog.Error("failed to delete product", "product_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handlers) AdminListCategories(c *gin.Context) {
	categories, err := h.services.Catalog.Categories(c.Request.Context(), false)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(c *gin.Context) {
	var category models.DeliveryCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category payload"})
		return
	}

	if err := h.services.Catalog.CreateCategory(c.Request.Context(), &category); err != nil {
		slog.Error("failed to create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusCreated, category)
}

func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var category models.DeliveryCategory
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category payload"})
		return
	}
	category.ID = id

	if err := h.services.Catalog.UpdateCategory(c.Request.Context(), &category); err != nil {
		slog.Error("failed to update category", "category_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.JSON(http.StatusOK, category)
}

func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.services.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		slog.Error("failed to delete category", "category_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	h.invalidateCatalogCache(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *Handlers) invalidateCatalogCache(ctx context.Context) {
	if h.valkeyClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := h.valkeyClient.Invalidate(ctx, productsCacheKey, categoriesCacheKey); err != nil {
		slog.Warn("catalog cache invalidation failed", "error", err)
	}
}
