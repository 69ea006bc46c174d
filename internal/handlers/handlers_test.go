package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namidia/internal/external"
	"namidia/internal/middleware"
	"namidia/internal/models"
	"namidia/internal/repository"
	"namidia/internal/service"
	"namidia/internal/supabase"
)

// setupRouter builds the API routes against a fake backend so handler
// behavior is tested end to end without the hosted stack.
func setupRouter(t *testing.T, backend http.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	sb, err := supabase.New(supabase.Config{
		URL:            server.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
	})
	require.NoError(t, err)

	repos := repository.NewRepositories(sb)
	emailClient := external.NewEmailClient(external.EmailConfig{BaseURL: server.URL, APIKey: "key"})
	services := service.NewServices(repos, nil, nil, emailClient, "https://namidia.test")
	h := NewHandlers(services, sb, nil)

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
		api.POST("/events/:id/confirm", h.ConfirmPresence)
		api.POST("/coupons/validate", h.ValidateCoupon)
		api.GET("/delivery/status", h.StoreStatus)
		api.GET("/delivery/products", h.ListProducts)
		api.POST("/orders", h.Checkout)
		api.GET("/orders/:id", h.TrackOrder)
		api.POST("/coupons/use", h.UseCoupon)

		profile := api.Group("/profile")
		profile.Use(middleware.RequireUser(sb))
		{
			profile.GET("", h.GetProfile)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAdmin(sb, []string{"admin@namidia.test"}))
		{
			admin.GET("/stats", h.AdminStats)
		}
	}
	return r
}

func noBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
	}
}

func TestListEvents(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/rest/v1/events", req.URL.Path)
		assert.Equal(t, "eq.true", req.URL.Query().Get("active"))
		w.Write([]byte(`[
			{"id":1,"name":"Festa Junina","active":true,"starts_at":"2026-09-01T20:00:00Z","created_at":"2026-08-01T12:00:00Z"},
			{"id":2,"name":"Sunset","active":true,"starts_at":"2026-09-05T18:00:00Z","created_at":"2026-08-02T12:00:00Z"}
		]`))
	})

	req, _ := http.NewRequest("GET", "/api/events", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 2)
	assert.Equal(t, "Festa Junina", events[0].Name)
}

func TestGetEventInvalidID(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	req, _ := http.NewRequest("GET", "/api/events/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEventNotFound(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
	})

	req, _ := http.NewRequest("GET", "/api/events/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmPresence(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		switch {
		case req.Method == http.MethodGet && req.URL.Path == "/rest/v1/events":
			w.Write([]byte(`{"id":1,"name":"Festa Junina","active":true,"requires_presence":true,"starts_at":"2026-09-01T20:00:00Z","created_at":"2026-08-01T12:00:00Z"}`))
		case req.Method == http.MethodPost && req.URL.Path == "/rest/v1/confirmations":
			w.Write([]byte(`{"id":42,"event_id":1,"name":"Maria","phone":"11999990000","created_at":"2026-08-30T12:00:00Z"}`))
		case req.URL.Path == "/rest/v1/rpc/increment_confirmation_count":
			w.Write([]byte(`null`))
		case req.Method == http.MethodHead && req.URL.Path == "/rest/v1/coupons":
			w.Header().Set("Content-Range", "*/0")
		case req.Method == http.MethodPost && req.URL.Path == "/rest/v1/coupons":
			w.Write([]byte(`{"id":7,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":false,"event_id":1,"created_at":"2026-08-30T12:00:00Z"}`))
		default:
			t.Errorf("unexpected backend call: %s %s", req.Method, req.URL.Path)
		}
	})

	body, _ := json.Marshal(models.ConfirmPresenceRequest{Name: "Maria", Phone: "11999990000"})
	req, _ := http.NewRequest("POST", "/api/events/1/confirm", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.ConfirmPresenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ConfirmationID)
	require.NotNil(t, resp.Coupon)
	assert.Equal(t, 10, resp.Coupon.DiscountPercent)
}

func TestConfirmPresenceInactiveEvent(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"id":1,"name":"Encerrado","active":false,"starts_at":"2026-01-01T20:00:00Z","created_at":"2025-12-01T12:00:00Z"}`))
	})

	body, _ := json.Marshal(models.ConfirmPresenceRequest{Name: "Maria", Phone: "11999990000"})
	req, _ := http.NewRequest("POST", "/api/events/1/confirm", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfirmPresenceMissingFields(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	req, _ := http.NewRequest("POST", "/api/events/1/confirm", bytes.NewBufferString(`{"name":"Maria"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCoupon(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/rest/v1/coupons", req.URL.Path)
		w.Write([]byte(`{"id":7,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":false,"event_id":1,"created_at":"2026-08-30T12:00:00Z"}`))
	})

	body, _ := json.Marshal(models.ValidateCouponRequest{Code: "NAMIDIA-ABCDm1x2y3z"})
	req, _ := http.NewRequest("POST", "/api/coupons/validate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ValidateCouponResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 10, resp.DiscountPercent)
}

func TestValidateCouponUnknownCode(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
	})

	body, _ := json.Marshal(models.ValidateCouponRequest{Code: "NAMIDIA-XXXX000"})
	req, _ := http.NewRequest("POST", "/api/coupons/validate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ValidateCouponResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestUseCouponAlreadySpent(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"id":7,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":true,"event_id":1,"created_at":"2026-08-30T12:00:00Z"}`))
	})

	body, _ := json.Marshal(models.ValidateCouponRequest{Code: "NAMIDIA-ABCDm1x2y3z"})
	req, _ := http.NewRequest("POST", "/api/coupons/use", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreStatus(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	req, _ := http.NewRequest("GET", "/api/delivery/status", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StoreStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, time.Now().Hour(), resp.Hour)
	assert.Equal(t, service.IsDeliveryOpenAt(resp.Hour), resp.Open)
}

func TestListProductsInvalidCategory(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	req, _ := http.NewRequest("GET", "/api/delivery/products?category_id=abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	body := `{"customer_name":"Maria","customer_phone":"11999990000","condominium":"Residencial A","apartment":"101","items":[]}`
	req, _ := http.NewRequest("POST", "/api/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackOrderNotFound(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
	})

	req, _ := http.NewRequest("GET", "/api/orders/999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackOrderStages(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"id":5,"customer_name":"Maria","customer_phone":"11999990000","condominium":"Residencial A","apartment":"101","items":[{"product_id":1,"name":"Pastel","price":8,"quantity":2}],"subtotal":16,"discount":0,"total":16,"status":"preparing","created_at":"2026-08-30T12:00:00Z"}`))
	})

	req, _ := http.NewRequest("GET", "/api/orders/5", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.OrderTrackingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Stages, 5)
	assert.True(t, resp.Stages[2].Current)
	assert.False(t, resp.Stages[3].Reached)
}

func TestGetProfileFirstTimeUserReturnsEmptyProfile(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/auth/v1/user":
			w.Write([]byte(`{"id":"u1","email":"maria@example.com"}`))
		case "/rest/v1/profiles":
			w.WriteHeader(http.StatusNotAcceptable)
			w.Write([]byte(`{"code":"PGRST116","message":"no rows"}`))
		default:
			t.Errorf("unexpected backend call: %s %s", req.Method, req.URL.Path)
		}
	})

	req, _ := http.NewRequest("GET", "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var profile models.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "u1", profile.ID)
	assert.Empty(t, profile.Name)
}

func TestAdminRequiresToken(t *testing.T) {
	r := setupRouter(t, noBackend(t))

	req, _ := http.NewRequest("GET", "/api/admin/stats", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRejectsNonAdminUser(t *testing.T) {
	r := setupRouter(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/auth/v1/user", req.URL.Path)
		w.Write([]byte(`{"id":"u1","email":"maria@example.com"}`))
	})

	req, _ := http.NewRequest("GET", "/api/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
