package auth

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	webauth "velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
	"velora.studio/velora/internal/otp"
)

// HandlePhoneStart sends an SMS verification code to the caller's phone.
func HandlePhoneStart(sm *webauth.SessionManager, verifier *otp.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, _, err := common.RequireSessionUser(c, sm); err != nil {
			return err
		}

		var req struct {
			Phone string `json:"phone"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		phone := strings.TrimSpace(req.Phone)
		if phone == "" {
			return common.ErrBadRequest("phone is required")
		}

		if !verifier.Configured() {
			return common.ErrBadGateway("phone verification is not available")
		}

		if err := verifier.StartVerification(c.Request().Context(), phone); err != nil {
			slog.Error("failed to start phone verification", "error", err)
			return common.ErrBadGateway("failed to send verification code")
		}

		return c.JSON(200, map[string]any{"success": true})
	}
}

// HandlePhoneCheck validates the submitted code and marks the profile's
// phone verified on success.
func HandlePhoneCheck(sm *webauth.SessionManager, verifier *otp.Client, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		var req struct {
			Phone string `json:"phone"`
			Code  string `json:"code"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		phone := strings.TrimSpace(req.Phone)
		code := strings.TrimSpace(req.Code)
		if phone == "" || code == "" {
			return common.ErrBadRequest("phone and code are required")
		}

		if !verifier.Configured() {
			return common.ErrBadGateway("phone verification is not available")
		}

		ctx := c.Request().Context()
		valid, err := verifier.CheckVerification(ctx, phone, code)
		if err != nil {
			slog.Error("failed to check phone verification", "error", err)
			return common.ErrBadGateway("failed to check verification code")
		}
		if !valid {
			return common.ErrBadRequest("invalid verification code")
		}

		if err := dbc.Queries(ctx).MarkPhoneVerified(ctx, userUUID, phone); err != nil {
			slog.Error("failed to mark phone verified", "error", err)
			return common.ErrInternal("failed to update profile")
		}

		return c.JSON(200, map[string]any{"success": true, "phone_verified": true})
	}
}
