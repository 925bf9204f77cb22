// package proxy_api provides the same-origin webhook proxy. The SPA posts
// here instead of straight to the automation engine, which keeps webhook
// URLs off the wire to the browser's origin checks.
package proxy_api

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/workflow"
)

func HandleForward(client *workflow.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			WebhookURL string          `json:"webhookUrl"`
			Payload    json.RawMessage `json:"payload"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		webhookURL := strings.TrimSpace(req.WebhookURL)
		if webhookURL == "" {
			return common.ErrBadRequest("webhookUrl is required")
		}
		parsed, err := url.Parse(webhookURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return common.ErrBadRequest("webhookUrl must be an absolute http(s) url")
		}

		payload := req.Payload
		if len(payload) == 0 {
			payload = json.RawMessage(`{}`)
		}

		body, err := client.Forward(c.Request().Context(), webhookURL, payload)
		if err != nil {
			slog.Error("webhook proxy failed", "error", err, "url", webhookURL)
			return c.JSON(502, map[string]any{
				"success": false,
				"error":   "upstream webhook failed",
			})
		}

		return c.JSONBlob(200, body)
	}
}
