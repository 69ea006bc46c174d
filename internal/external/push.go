package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PushClient talks to the push notification provider's REST API.
type PushClient struct {
	baseURL    string
	appID      string
	restKey    string
	httpClient *http.Client
}

type PushConfig struct {
	BaseURL string
	AppID   string
	RESTKey string
	Timeout time.Duration
}

type pushNotificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludedSegments []string          `json:"included_segments"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]any    `json:"data,omitempty"`
}

type pushNotificationResponse struct {
	ID     string   `json:"id"`
	Errors []string `json:"errors"`
}

func NewPushClient(cfg PushConfig) *PushClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PushClient{
		baseURL:    cfg.BaseURL,
		appID:      cfg.AppID,
		restKey:    cfg.RESTKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendToSegment pushes a notification to everyone in a subscriber
// segment.
func (c *PushClient) SendToSegment(ctx context.Context, segment, title, message string, data map[string]any) (string, error) {
	if c.appID == "" || c.restKey == "" {
		return "", fmt.Errorf("push provider is not configured")
	}

	payload := pushNotificationRequest{
		AppID:            c.appID,
		IncludedSegments: []string{segment},
		Headings:         map[string]string{"en": title, "pt": title},
		Contents:         map[string]string{"en": message, "pt": message},
		Data:             data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.restKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read push response: %w", err)
	}

	var result pushNotificationResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode push response: %w", err)
	}

	if resp.StatusCode >= 400 || len(result.Errors) > 0 {
		if len(result.Errors) > 0 {
			return "", fmt.Errorf("push provider error: %s", result.Errors[0])
		}
		return "", fmt.Errorf("push provider returned status %d", resp.StatusCode)
	}

	return result.ID, nil
}
