package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"namidia/internal/cache"
	"namidia/internal/config"
	"namidia/internal/external"
	"namidia/internal/handlers"
	"namidia/internal/logger"
	"namidia/internal/messaging"
	"namidia/internal/middleware"
	"namidia/internal/ratelimit"
	"namidia/internal/repository"
	"namidia/internal/search"
	"namidia/internal/service"
	"namidia/internal/supabase"
)

// Server is the public HTTP API.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	sb       *supabase.Client
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	limiter  *ratelimit.Limiter
	services *service.Services
}

// NewServer wires every dependency and builds the router. The data
// backend is mandatory; NATS, Elasticsearch and Valkey degrade to nil
// so a local instance runs without the full stack.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	sb, err := supabase.New(cfg.Supabase)
	if err != nil {
		logger.Fatal("Failed to create backend client", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, events will not be published", "error", err)
		natsClient = nil
	}

	searchClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		slog.Warn("Elasticsearch unavailable, product search falls back to listing", "error", err)
		searchClient = nil
	}

	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		slog.Warn("Valkey unavailable, responses will not be cached", "error", err)
		valkeyClient = nil
	}

	emailClient := external.NewEmailClient(cfg.Email)

	repos := repository.NewRepositories(sb)
	services := service.NewServices(repos, natsClient, searchClient, emailClient, cfg.SiteURL)
	limiter := ratelimit.New(cfg.RateLimit)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		sb:       sb,
		nats:     natsClient,
		valkey:   valkeyClient,
		limiter:  limiter,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services, s.sb, s.valkey)

	api := s.router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
			events.POST("/:id/confirm", middleware.RateLimit(s.limiter, "confirm"), h.ConfirmPresence)
		}

		api.POST("/coupons/validate", h.ValidateCoupon)
		api.POST("/coupons/use", h.UseCoupon)

		delivery := api.Group("/delivery")
		{
			delivery.GET("/status", h.StoreStatus)
			delivery.GET("/categories", h.ListCategories)
			delivery.GET("/products", h.ListProducts)
			delivery.GET("/products/:id", h.GetProduct)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", middleware.RateLimit(s.limiter, "checkout"), h.Checkout)
			orders.GET("/:id", h.TrackOrder)
		}

		api.POST("/email/order-confirmation", middleware.RateLimit(s.limiter, "email"), h.SendOrderEmail)

		profile := api.Group("/profile")
		profile.Use(middleware.RequireUser(s.sb))
		{
			profile.GET("", h.GetProfile)
			profile.PUT("", h.UpdateProfile)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(s.sb, s.config.AdminEmails))
		{
			admin.GET("/events", h.AdminListEvents)
			admin.POST("/events", h.CreateEvent)
			admin.PUT("/events/:id", h.UpdateEvent)
			admin.DELETE("/events/:id", h.DeleteEvent)

			admin.GET("/products", h.AdminListProducts)
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.GET("/categories", h.AdminListCategories)
			admin.POST("/categories", h.CreateCategory)
			admin.PUT("/categories/:id", h.UpdateCategory)
			admin.DELETE("/categories/:id", h.DeleteCategory)

			admin.GET("/orders", h.AdminListOrders)
			admin.PATCH("/orders/:id/status", h.UpdateOrderStatus)
			admin.PATCH("/orders/:id/whatsapp", h.MarkOrderWhatsAppSent)

			admin.GET("/users", h.AdminListUsers)
			admin.GET("/stats", h.AdminStats)
		}
	}

	s.router.GET("/og", h.OGImage)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/health", s.healthCheck)
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.sb.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"service": "namidia-api",
			"version": "1.0.0",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "namidia-api",
		"version": "1.0.0",
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the server's connections.
func (s *Server) Cleanup() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			slog.Error("Error closing Valkey connection", "error", err)
		}
	}

	return nil
}
