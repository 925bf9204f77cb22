package payment_api

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/billing"
)

// HandleCheckout opens a provider checkout session for a credit pack and
// returns its redirect URL.
func HandleCheckout(sm *auth.SessionManager, client *billing.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		var req struct {
			PackID  string `json:"pack_id"`
			PriceID string `json:"price_id"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		// The client can send either the pack id or the raw price id.
		priceID := strings.TrimSpace(req.PriceID)
		if priceID == "" {
			pack, ok := billing.PackForID(strings.TrimSpace(req.PackID))
			if !ok {
				return common.ErrBadRequest("unknown credit pack")
			}
			priceID = pack.PriceID
		}
		if _, ok := billing.CreditsForPrice(priceID); !ok {
			return common.ErrBadRequest("unknown credit pack")
		}

		session, err := client.NewCheckoutSession(c.Request().Context(), userUUID.String(), priceID)
		if err != nil {
			slog.Error("failed to create checkout session", "error", err)
			return common.ErrBadGateway("failed to create checkout session")
		}

		return c.JSON(200, map[string]any{
			"session_id": session.ID,
			"url":        session.URL,
		})
	}
}
