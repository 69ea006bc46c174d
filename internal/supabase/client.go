package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoRows is returned when a Single() query matches nothing.
var ErrNoRows = errors.New("supabase: no rows returned")

// Config holds the connection settings for the hosted backend.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// Client talks to the backend's PostgREST, auth and storage endpoints.
// All persistence in this application goes through it; there is no
// direct database connection.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase: anon key is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		serviceKey: cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Health probes the REST endpoint. It returns an error when the backend
// is unreachable or answering with server errors.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("supabase health: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("supabase health: status %d", resp.StatusCode)
	}
	return nil
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{
		client: c,
		table:  table,
		params: url.Values{},
	}
}

// Query builds a single PostgREST request.
type Query struct {
	client      *Client
	table       string
	params      url.Values
	single      bool
	serviceRole bool
}

// Select sets the columns (and embedded resources) to return.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters rows where column equals value.
func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Is filters rows where column IS value (null, true, false).
func (q *Query) Is(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("is.%v", value))
	return q
}

// Gte filters rows where column >= value.
func (q *Query) Gte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("gte.%v", value))
	return q
}

// Lte filters rows where column <= value.
func (q *Query) Lte(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("lte.%v", value))
	return q
}

// In filters rows where column is one of values.
func (q *Query) In(column string, values []string) *Query {
	q.params.Add(column, fmt.Sprintf("in.(%s)", strings.Join(values, ",")))
	return q
}

// ILike filters rows by a case-insensitive pattern.
func (q *Query) ILike(column, pattern string) *Query {
	q.params.Add(column, "ilike."+pattern)
	return q
}

// Order adds an ordering clause.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	existing := q.params.Get("order")
	clause := column + "." + dir
	if existing != "" {
		clause = existing + "," + clause
	}
	q.params.Set("order", clause)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Offset skips the first n rows.
func (q *Query) Offset(n int) *Query {
	q.params.Set("offset", strconv.Itoa(n))
	return q
}

// Single makes the query expect exactly one row.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// AsServiceRole signs the request with the service-role key, bypassing
// row-level security. Used only by admin and consumer code paths.
func (q *Query) AsServiceRole() *Query {
	q.serviceRole = true
	return q
}

// Get executes a SELECT and decodes the result into dest.
func (q *Query) Get(ctx context.Context, dest any) error {
	req, err := q.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return err
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req, dest, q.single)
}

// Insert executes an INSERT. When dest is non-nil the created rows are
// decoded into it.
func (q *Query) Insert(ctx context.Context, row any, dest any) error {
	req, err := q.newRequest(ctx, http.MethodPost, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req, dest, q.single)
}

// Upsert executes an INSERT that merges on conflict.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, dest any) error {
	if onConflict != "" {
		q.params.Set("on_conflict", onConflict)
	}
	req, err := q.newRequest(ctx, http.MethodPost, row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req, dest, q.single)
}

// Update executes an UPDATE with the accumulated filters.
func (q *Query) Update(ctx context.Context, patch any, dest any) error {
	req, err := q.newRequest(ctx, http.MethodPatch, patch)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.client.do(req, dest, q.single)
}

// Delete executes a DELETE with the accumulated filters.
func (q *Query) Delete(ctx context.Context) error {
	req, err := q.newRequest(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}
	return q.client.do(req, nil, false)
}

// Count returns the exact number of rows matching the filters.
func (q *Query) Count(ctx context.Context) (int64, error) {
	req, err := q.newRequest(ctx, http.MethodHead, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := q.client.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("supabase: count failed with status %d", resp.StatusCode)
	}

	// Content-Range: 0-24/25
	rangeHeader := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(rangeHeader, "/")
	if idx < 0 {
		return 0, fmt.Errorf("supabase: missing Content-Range header")
	}
	total, err := strconv.ParseInt(rangeHeader[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("supabase: parse Content-Range %q: %w", rangeHeader, err)
	}
	return total, nil
}

func (q *Query) newRequest(ctx context.Context, method string, body any) (*http.Request, error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s", q.client.baseURL, q.table)
	if len(q.params) > 0 {
		reqURL += "?" + q.params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("supabase: marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("supabase: create request: %w", err)
	}

	key := q.client.anonKey
	if q.serviceRole && q.client.serviceKey != "" {
		key = q.client.serviceKey
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// RPC calls a stored procedure and decodes the result into dest.
func (c *Client) RPC(ctx context.Context, fn string, params any, dest any) error {
	reqURL := fmt.Sprintf("%s/rest/v1/rpc/%s", c.baseURL, fn)

	var reader io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("supabase: marshal params: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, reader)
	if err != nil {
		return fmt.Errorf("supabase: create request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.anonKey)
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, dest, false)
}

func (c *Client) do(req *http.Request, dest any, single bool) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// PGRST116: JSON object requested, multiple (or no) rows returned
		if single && resp.StatusCode == http.StatusNotAcceptable {
			return ErrNoRows
		}
		return decodeError(resp.StatusCode, body)
	}

	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("supabase: decode response: %w", err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	var apiErr struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		switch {
		case apiErr.Code == "PGRST116":
			return ErrNoRows
		case apiErr.Message != "":
			return fmt.Errorf("supabase: %s (status %d)", apiErr.Message, status)
		case apiErr.Msg != "":
			return fmt.Errorf("supabase: %s (status %d)", apiErr.Msg, status)
		case apiErr.Error != "":
			return fmt.Errorf("supabase: %s (status %d)", apiErr.Error, status)
		}
	}
	return fmt.Errorf("supabase: request failed with status %d", status)
}
