package auth

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	webauth "velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
	"velora.studio/velora/pkg/utils/passwords"
)

func HandleLogin(sm *webauth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" || req.Password == "" {
			return common.ErrBadRequest("email and password are required")
		}

		ctx := c.Request().Context()
		profile, err := dbc.Queries(ctx).SelectProfileByEmail(ctx, req.Email)
		if err != nil {
			return common.ErrUnauthorizedMsg("invalid email or password")
		}

		matches, err := profile.Password.ComparePasswordAndHash(passwords.PasswordInput{Password: req.Password})
		if err != nil || !matches {
			return common.ErrUnauthorizedMsg("invalid email or password")
		}

		if err := sm.SaveSession(c.Response().Writer, c.Request(), profile.ID.String(), profile.Email); err != nil {
			slog.Error("failed to save session", "error", err)
			return common.ErrInternal("login failed")
		}

		return c.JSON(200, profile)
	}
}
