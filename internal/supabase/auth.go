package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// User is the backend's auth user record.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Role         string         `json:"role"`
	CreatedAt    string         `json:"created_at"`
	LastSignInAt string         `json:"last_sign_in_at"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

// GetUser resolves the user behind an access token. The backend validates
// the token; this code only forwards it.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	reqURL := fmt.Sprintf("%s/auth/v1/user", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("supabase: decode user: %w", err)
	}
	return &user, nil
}

// ListUsers pages through all auth users. Requires the service-role key.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	if c.serviceKey == "" {
		return nil, fmt.Errorf("supabase: service-role key is not configured")
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	reqURL := fmt.Sprintf("%s/auth/v1/admin/users?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase: create request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, decodeError(resp.StatusCode, body)
	}

	// The admin endpoint wraps the list; older gotrue versions return a
	// bare array, so both shapes are accepted.
	var wrapped struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Users != nil {
		return wrapped.Users, nil
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("supabase: decode users: %w", err)
	}
	return users, nil
}

// PublicURL returns the public URL of an object in a storage bucket.
func (c *Client) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, path)
}
