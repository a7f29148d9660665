package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// backoffBase is the first retry delay; each subsequent attempt doubles it.
const backoffBase = 500 * time.Millisecond

// APIError is a non-2xx reply from the Bot API. Status drives the retry
// decision: 5xx and 429 are retryable, other 4xx are terminal.
type APIError struct {
	Status      int
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram: api status %d", e.Status)
	}
	return fmt.Sprintf("telegram: api status %d: %s", e.Status, e.Description)
}

// Retryable reports whether the call may be attempted again.
func (e *APIError) Retryable() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// Client is a minimal Telegram Bot API client. Only the calls the assistant
// needs are implemented.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retries    int // extra attempts after the first
}

// NewClient constructs a Client. retries is the number of additional
// attempts after the first failed send; base is the API origin (override in
// tests, empty means api.telegram.org).
func NewClient(base, token string, retries int) *Client {
	if base == "" {
		base = "https://api.telegram.org"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    base,
		token:      token,
		retries:    retries,
	}
}

type sendMessagePayload struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage delivers an HTML-formatted text to a chat. Transient failures
// (network errors, 5xx, 429) are retried with exponential backoff starting
// at 500ms and doubling per attempt; other 4xx errors are returned
// immediately. The final error is returned once the retry budget is spent.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := sendMessagePayload{ChatID: chatID, Text: text, ParseMode: "HTML"}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			delay := backoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.call(ctx, "sendMessage", payload)
		if lastErr == nil {
			return nil
		}
		if apiErr, ok := lastErr.(*APIError); ok && !apiErr.Retryable() {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

// SetWebhook points the bot's webhook at url. Telegram echoes secret back in
// X-Telegram-Bot-Api-Secret-Token on every delivery; empty means no secret.
// Used at startup, not the request path, so no retries.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	payload := map[string]string{"url": url}
	if secret != "" {
		payload["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", payload)
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil
	}

	var apiResp apiResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&apiResp)
	return &APIError{Status: resp.StatusCode, Description: apiResp.Description}
}
