package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namidia/internal/models"
	"namidia/internal/supabase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *supabase.Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sb, err := supabase.New(supabase.Config{
		URL:            server.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
	})
	require.NoError(t, err)
	return sb
}

// captureBody decodes the request body into a map so tests can check
// exactly which columns were sent.
func captureBody(t *testing.T, r *http.Request) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestOrderCreateSendsOnlyWritableColumns(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/delivery_orders", r.URL.Path)
		body = captureBody(t, r)
		w.Write([]byte(`{"id":42,"customer_name":"Maria","status":"pending","created_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewOrderRepository(sb)
	order := &models.DeliveryOrder{
		CustomerName:  "Maria",
		CustomerPhone: "11999998888",
		Condominium:   "Residencial Sol",
		Apartment:     "101",
		Items:         []models.OrderItem{{ProductID: 1, Name: "X-Burger", Price: 25, Quantity: 2}},
		Subtotal:      50,
		Total:         50,
		Status:        models.OrderStatusPending,
	}
	require.NoError(t, repo.Create(context.Background(), order))

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "created_at")
	assert.NotContains(t, body, "confirmed_at")
	assert.Equal(t, "Maria", body["customer_name"])
	assert.Equal(t, "pending", body["status"])

	assert.Equal(t, int64(42), order.ID)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestEventCreateLeavesServerColumnsToBackend(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/events", r.URL.Path)
		body = captureBody(t, r)
		w.Write([]byte(`{"id":7,"name":"Festa Junina","active":true,"starts_at":"2026-09-01T20:00:00Z","created_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewEventRepository(sb)
	event := &models.Event{
		Name:     "Festa Junina",
		Location: "Salão de festas",
		StartsAt: time.Date(2026, 9, 1, 20, 0, 0, 0, time.UTC),
		Type:     "party",
		Active:   true,
	}
	require.NoError(t, repo.Create(context.Background(), event))

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "created_at")
	assert.NotContains(t, body, "confirmation_count")
	assert.Equal(t, "Festa Junina", body["name"])
	assert.Equal(t, int64(7), event.ID)
}

func TestProductUpdateSendsOnlyWritableColumns(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/rest/v1/delivery_products", r.URL.Path)
		assert.Equal(t, "eq.3", r.URL.Query().Get("id"))
		body = captureBody(t, r)
		w.Write([]byte(`{"id":3,"name":"X-Burger","price":27.5,"stock":10,"active":true,"category_id":1,"created_at":"2026-08-01T12:00:00Z"}`))
	})

	repo := NewProductRepository(sb)
	product := &models.DeliveryProduct{
		ID:         3,
		Name:       "X-Burger",
		Price:      27.5,
		Stock:      10,
		Active:     true,
		CategoryID: 1,
	}
	require.NoError(t, repo.Update(context.Background(), product))

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "created_at")
	assert.Equal(t, 27.5, body["price"])
}

func TestCouponCreateOmitsUsageColumns(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/coupons", r.URL.Path)
		body = captureBody(t, r)
		w.Write([]byte(`{"id":9,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":false,"event_id":2,"created_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewCouponRepository(sb)
	coupon := &models.Coupon{Code: "NAMIDIA-ABCDm1x2y3z", DiscountPercent: 10, EventID: 2}
	require.NoError(t, repo.Create(context.Background(), coupon))

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "created_at")
	assert.NotContains(t, body, "used")
	assert.NotContains(t, body, "used_at")
	assert.Equal(t, "NAMIDIA-ABCDm1x2y3z", body["code"])
	assert.Equal(t, int64(9), coupon.ID)
}

func TestConfirmationCreateSendsOnlyContactColumns(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/confirmations", r.URL.Path)
		body = captureBody(t, r)
		w.Write([]byte(`{"id":11,"event_id":2,"name":"Maria","phone":"11999998888","created_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewConfirmationRepository(sb)
	confirmation := &models.Confirmation{EventID: 2, Name: "Maria", Phone: "11999998888"}
	require.NoError(t, repo.Create(context.Background(), confirmation))

	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "created_at")
	assert.Equal(t, "Maria", body["name"])
	assert.Equal(t, int64(11), confirmation.ID)
}

func TestProfileUpsertKeepsUserIDAndStampsUpdatedAt(t *testing.T) {
	var body map[string]any
	sb := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rest/v1/profiles", r.URL.Path)
		body = captureBody(t, r)
		w.Write([]byte(`{"id":"u1","name":"Maria","phone":"11999998888","condominium":"Residencial Sol","tower":"A","apartment":"101","updated_at":"2026-08-30T12:00:00Z"}`))
	})

	repo := NewProfileRepository(sb)
	profile := &models.Profile{
		ID:          "u1",
		Name:        "Maria",
		Phone:       "11999998888",
		Condominium: "Residencial Sol",
		Tower:       "A",
		Apartment:   "101",
	}
	require.NoError(t, repo.Upsert(context.Background(), profile))

	// id here is the auth user's uuid and must travel with the payload.
	assert.Equal(t, "u1", body["id"])
	assert.NotEmpty(t, body["updated_at"])
	assert.Equal(t, "Maria", profile.Name)
}
