package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "namidia/internal/errors"
	"namidia/internal/models"
	"namidia/internal/repository"
	"namidia/internal/supabase"
)

// callLog records backend calls in order so tests can assert sequencing.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, r.Method+" "+r.URL.Path)
}

func (l *callLog) index(call string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, c := range l.calls {
		if c == call {
			return i
		}
	}
	return -1
}

func newOrderService(t *testing.T, backend http.HandlerFunc) *OrderService {
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	sb, err := supabase.New(supabase.Config{URL: server.URL, AnonKey: "anon-key"})
	require.NoError(t, err)

	coupons := NewCouponService(repository.NewCouponRepository(sb), nil)
	svc := NewOrderService(
		repository.NewOrderRepository(sb),
		repository.NewProductRepository(sb),
		coupons,
		nil,
		nil,
		"https://namidia.test",
	)
	// Mid-afternoon, store open and alcohol allowed.
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 15, 0, 0, 0, time.Local)
	}
	return svc
}

func checkoutRequest(couponCode string) *models.CheckoutRequest {
	return &models.CheckoutRequest{
		CustomerName:  "Maria",
		CustomerPhone: "11999998888",
		Condominium:   "Residencial Sol",
		Apartment:     "101",
		Items:         []models.CheckoutItem{{ProductID: 1, Quantity: 2}},
		CouponCode:    couponCode,
	}
}

const testProductRow = `[{"id":1,"name":"X-Burger","price":25,"stock":10,"active":true,"category_id":1,"created_at":"2026-08-01T12:00:00Z"}]`
const testCouponRow = `{"id":3,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":false,"event_id":2,"created_at":"2026-08-30T12:00:00Z"}`

func TestCheckoutSpendsCouponAfterOrderCreated(t *testing.T) {
	log := &callLog{}
	svc := newOrderService(t, func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/delivery_products":
			w.Write([]byte(testProductRow))
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/coupons":
			w.Write([]byte(testCouponRow))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/delivery_orders":
			w.Write([]byte(`{"id":42,"customer_name":"Maria","status":"pending","subtotal":50,"discount":5,"total":45,"created_at":"2026-08-30T15:00:00Z"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/coupons":
			w.Write([]byte(`[]`))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/rpc/decrement_product_stock":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
		}
	})

	resp, err := svc.Checkout(context.Background(), checkoutRequest("NAMIDIA-ABCDm1x2y3z"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)

	created := log.index("POST /rest/v1/delivery_orders")
	spent := log.index("PATCH /rest/v1/coupons")
	require.GreaterOrEqual(t, created, 0)
	require.GreaterOrEqual(t, spent, 0)
	assert.Less(t, created, spent, "coupon must be spent only after the order row exists")
}

func TestCheckoutKeepsCouponWhenInsertFails(t *testing.T) {
	var couponSpent bool
	svc := newOrderService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/delivery_products":
			w.Write([]byte(testProductRow))
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/coupons":
			w.Write([]byte(testCouponRow))
		case r.Method == http.MethodPost && r.URL.Path == "/rest/v1/delivery_orders":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"insert failed"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/rest/v1/coupons":
			couponSpent = true
		default:
			t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := svc.Checkout(context.Background(), checkoutRequest("NAMIDIA-ABCDm1x2y3z"))
	assert.Error(t, err)
	assert.False(t, couponSpent, "a failed insert must not burn the coupon")
}

func TestCheckoutRejectsSpentCoupon(t *testing.T) {
	svc := newOrderService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/delivery_products":
			w.Write([]byte(testProductRow))
		case r.Method == http.MethodGet && r.URL.Path == "/rest/v1/coupons":
			w.Write([]byte(`{"id":3,"code":"NAMIDIA-ABCDm1x2y3z","discount_percent":10,"used":true,"event_id":2,"created_at":"2026-08-30T12:00:00Z"}`))
		default:
			t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
		}
	})

	_, err := svc.Checkout(context.Background(), checkoutRequest("NAMIDIA-ABCDm1x2y3z"))
	assert.ErrorIs(t, err, apperrors.ErrCouponUsed)
}

func TestCheckoutRejectsClosedHours(t *testing.T) {
	svc := newOrderService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be called while the store is closed")
	})
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 4, 0, 0, 0, time.Local)
	}

	_, err := svc.Checkout(context.Background(), checkoutRequest(""))
	assert.ErrorIs(t, err, apperrors.ErrStoreClosed)
}

func TestCheckoutRejectsAlcoholOutsideWindow(t *testing.T) {
	svc := newOrderService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/delivery_products", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Cerveja","price":8,"stock":30,"active":true,"alcoholic":true,"category_id":2,"created_at":"2026-08-01T12:00:00Z"}]`))
	})
	// Store open at 7 AM, alcohol still blocked until 8 AM.
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 7, 0, 0, 0, time.Local)
	}

	_, err := svc.Checkout(context.Background(), checkoutRequest(""))
	assert.ErrorIs(t, err, apperrors.ErrAlcoholWindow)
}
