// Package otp talks to the external phone verification provider. Delivery
// mechanics (SMS routing, code generation) are the provider's problem; this
// client only starts verifications and checks codes.
package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// Configured reports whether a provider was set up. Deployments without one
// simply have no phone verification.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type checkResponse struct {
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// StartVerification asks the provider to send a code to the phone number.
func (c *Client) StartVerification(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return fmt.Errorf("phone is required")
	}

	_, err := c.post(ctx, "/v2/verifications", map[string]string{"to": phone, "channel": "sms"})
	return err
}

// CheckVerification reports whether the code matches the pending
// verification for the phone number.
func (c *Client) CheckVerification(ctx context.Context, phone, code string) (bool, error) {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return false, fmt.Errorf("phone and code are required")
	}

	body, err := c.post(ctx, "/v2/verifications/check", map[string]string{"to": phone, "code": code})
	if err != nil {
		return false, err
	}

	var out checkResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return false, fmt.Errorf("decode check response: %w", err)
	}

	return out.Valid || out.Status == "approved", nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("otp provider not configured")
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 16*1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("otp provider: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}
