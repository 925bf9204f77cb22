package payment_api

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/billing"
)

// HandleVerify settles a checkout session into credits. The success page
// calls this on load, so replays and refreshes are expected; the verifier
// is idempotent and repeat calls just report the current balance.
func HandleVerify(sm *auth.SessionManager, verifier *billing.Verifier) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, _, err := common.RequireSessionUser(c, sm); err != nil {
			return err
		}

		var req struct {
			SessionID string `json:"session_id"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		sessionID := strings.TrimSpace(req.SessionID)
		if sessionID == "" {
			return common.ErrBadRequest("session_id is required")
		}

		result, err := verifier.Verify(c.Request().Context(), sessionID)
		switch {
		case err == nil:
			return c.JSON(200, map[string]any{
				"credits_added":     result.CreditsAdded,
				"total_credits":     result.TotalCredits,
				"already_processed": result.AlreadyProcessed,
			})
		case errors.Is(err, billing.ErrSessionUnpaid):
			return common.ErrBadRequest("payment has not completed")
		case errors.Is(err, billing.ErrUnknownPrice):
			return common.ErrBadRequest("unknown price")
		case errors.Is(err, billing.ErrMissingMetadata):
			return common.ErrBadRequest("session is missing purchase metadata")
		case errors.Is(err, billing.ErrProfileNotFound):
			return common.ErrNotFound("profile not found")
		default:
			slog.Error("failed to verify payment", "error", err, "session_id", sessionID)
			return common.ErrBadGateway("failed to verify payment")
		}
	}
}
