package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrWebhookNotConfigured = errors.New("no webhook url configured for workflow")

const dispatchTimeout = 30 * time.Second

// Client posts generation payloads to the automation engine. It also backs
// the same-origin proxy endpoint, which forwards browser payloads to an
// arbitrary webhook URL.
type Client struct {
	http  *resty.Client
	hooks map[Category]string
}

// NewClient builds a dispatch client from the per-category webhook URLs.
// Categories with an empty URL are treated as not configured.
func NewClient(hooks map[Category]string) *Client {
	cleaned := make(map[Category]string, len(hooks))
	for cat, u := range hooks {
		if u = strings.TrimSpace(u); u != "" {
			cleaned[cat] = u
		}
	}

	return &Client{
		http:  resty.New().SetTimeout(dispatchTimeout),
		hooks: cleaned,
	}
}

// Dispatch sends the payload to the category's webhook.
func (c *Client) Dispatch(ctx context.Context, category Category, payload map[string]any) error {
	url, ok := c.hooks[category]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWebhookNotConfigured, category)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(url)
	if err != nil {
		return fmt.Errorf("dispatch %s webhook: %w", category, err)
	}
	if resp.IsError() {
		return fmt.Errorf("dispatch %s webhook: upstream status %d", category, resp.StatusCode())
	}

	return nil
}

// Forward posts an arbitrary payload to webhookUrl and returns the upstream
// JSON body.
func (c *Client) Forward(ctx context.Context, webhookURL string, payload any) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("forward webhook: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("forward webhook: upstream status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return json.RawMessage(`{}`), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("forward webhook: upstream returned non-JSON body")
	}
	return json.RawMessage(body), nil
}
