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

// EmailClient talks to the transactional email provider's REST API.
type EmailClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

type EmailConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// EmailMessage is one outbound transactional email.
type EmailMessage struct {
	To      []string `json:"to"`
	From    string   `json:"from"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendEmailResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func NewEmailClient(cfg EmailConfig) *EmailClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &EmailClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send dispatches one email. Provider failures come back as plain errors;
// there is no retry policy here.
func (c *EmailClient) Send(ctx context.Context, to, subject, html string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("email provider key is not configured")
	}

	msg := EmailMessage{
		To:      []string{to},
		From:    c.from,
		Subject: subject,
		HTML:    html,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read email response: %w", err)
	}

	var result sendEmailResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to decode email response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if result.Message != "" {
			return "", fmt.Errorf("email provider error: %s", result.Message)
		}
		return "", fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}

	return result.ID, nil
}
