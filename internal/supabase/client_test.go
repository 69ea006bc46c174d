package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{
		URL:            server.URL,
		AnonKey:        "anon-key",
		ServiceRoleKey: "service-key",
		Timeout:        5 * time.Second,
	})
	require.NoError(t, err)
	return client, server
}

func TestNewRequiresURLAndKey(t *testing.T) {
	_, err := New(Config{AnonKey: "key"})
	assert.Error(t, err)

	_, err = New(Config{URL: "http://localhost:54321"})
	assert.Error(t, err)
}

func TestQueryBuildsFiltersAndHeaders(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	var rows []map[string]any
	err := client.From("events").
		Select("*").
		Eq("active", true).
		Gte("starts_at", "2026-01-01").
		Order("starts_at", true).
		Limit(10).
		Get(context.Background(), &rows)

	assert.NoError(t, err)
	assert.Equal(t, "/rest/v1/events", gotPath)
	assert.Equal(t, []string{"eq.true"}, gotQuery["active"])
	assert.Equal(t, []string{"gte.2026-01-01"}, gotQuery["starts_at"])
	assert.Equal(t, []string{"starts_at.asc"}, gotQuery["order"])
	assert.Equal(t, []string{"10"}, gotQuery["limit"])
	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestServiceRoleKeyIsUsedWhenRequested(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	var rows []map[string]any
	err := client.From("coupons").Select("*").AsServiceRole().Get(context.Background(), &rows)

	assert.NoError(t, err)
	assert.Equal(t, "Bearer service-key", gotAuth)
}

func TestSingleSetsAcceptHeaderAndDecodesObject(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.pgrst.object+json", r.Header.Get("Accept"))
		w.Write([]byte(`{"id": 7, "name": "Sunset Party"}`))
	})

	var row struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	err := client.From("events").Select("*").Eq("id", 7).Single().Get(context.Background(), &row)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), row.ID)
	assert.Equal(t, "Sunset Party", row.Name)
}

func TestSingleNoRowsReturnsErrNoRows(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotAcceptable)
		w.Write([]byte(`{"code":"PGRST116","message":"JSON object requested, multiple (or no) rows returned"}`))
	})

	var row map[string]any
	err := client.From("events").Select("*").Eq("id", 999).Single().Get(context.Background(), &row)

	assert.ErrorIs(t, err, ErrNoRows)
}

func TestInsertSendsBodyAndPrefer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Prefer"), "return=representation")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Maria", body["name"])

		w.Write([]byte(`{"id": 1, "name": "Maria"}`))
	})

	var created struct {
		ID int64 `json:"id"`
	}
	err := client.From("confirmations").Single().
		Insert(context.Background(), map[string]any{"name": "Maria"}, &created)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestUpsertSetsConflictTarget(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.URL.Query().Get("on_conflict"))
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		w.Write([]byte(`[]`))
	})

	err := client.From("profiles").Upsert(context.Background(), map[string]any{"id": "u1"}, "id", nil)
	assert.NoError(t, err)
}

func TestCountParsesContentRange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
		w.Header().Set("Content-Range", "0-24/25")
	})

	total, err := client.From("delivery_orders").Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(25), total)
}

func TestErrorDecoding(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"invalid input syntax"}`))
	})

	var rows []map[string]any
	err := client.From("events").Select("*").Get(context.Background(), &rows)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input syntax")
}

func TestRPCPostsParams(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/decrement_product_stock", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(3), body["quantity"])

		w.Write([]byte(`null`))
	})

	err := client.RPC(context.Background(), "decrement_product_stock",
		map[string]any{"product_id": 1, "quantity": 3}, nil)
	assert.NoError(t, err)
}

func TestGetUserForwardsToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","email":"maria@example.com"}`))
	})

	user, err := client.GetUser(context.Background(), "user-token")
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "maria@example.com", user.Email)
}

func TestListUsersHandlesWrappedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"users":[{"id":"u1"},{"id":"u2"}]}`))
	})

	users, err := client.ListUsers(context.Background(), 1, 50)
	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "u2", users[1].ID)
}

func TestHealthReportsReachableBackend(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "/rest/v1/", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
	})

	assert.NoError(t, client.Health(context.Background()))
}

func TestHealthReportsServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	assert.Error(t, client.Health(context.Background()))
}

func TestHealthReportsUnreachableBackend(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	assert.Error(t, client.Health(context.Background()))
}

func TestPublicURL(t *testing.T) {
	client, err := New(Config{URL: "https://proj.supabase.co/", AnonKey: "k"})
	require.NoError(t, err)

	url := client.PublicURL("event-images", "sunset.jpg")
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/event-images/sunset.jpg", url)
}
