// Package auth provides the registration, login and phone verification
// handlers.
package auth

import (
	"log/slog"
	"net/mail"
	"strings"

	"github.com/labstack/echo/v4"
	webauth "velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
)

func HandleRegister(sm *webauth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			FullName    string `json:"full_name"`
			Email       string `json:"email"`
			Password    string `json:"password"`
			Phone       string `json:"phone"`
			CountryCode string `json:"country_code"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		req.Email = strings.TrimSpace(req.Email)
		req.FullName = strings.TrimSpace(req.FullName)

		if req.FullName == "" {
			return common.ErrBadRequest("full name is required")
		}
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return common.ErrBadRequest("invalid email address")
		}
		if len(req.Password) < 8 {
			return common.ErrBadRequest("password must be at least 8 characters")
		}

		ctx := c.Request().Context()
		q := dbc.Queries(ctx)

		exists, err := q.EmailRegistered(ctx, req.Email)
		if err != nil {
			slog.Error("failed to check email", "error", err)
			return common.ErrInternal("registration failed")
		}
		if exists {
			return common.ErrBadRequest("email already registered")
		}

		profile, err := q.NewProfile(ctx, db.NewProfileParams{
			FullName:    req.FullName,
			Email:       req.Email,
			Password:    req.Password,
			Phone:       strings.TrimSpace(req.Phone),
			CountryCode: strings.TrimSpace(req.CountryCode),
		})
		if err != nil {
			// Two concurrent registrations can both pass the exists check;
			// the unique index breaks the tie.
			if db.IsUniqueViolationErr(err) {
				return common.ErrBadRequest("email already registered")
			}
			slog.Error("failed to create profile", "error", err)
			return common.ErrInternal("registration failed")
		}

		if err := sm.SaveSession(c.Response().Writer, c.Request(), profile.ID.String(), profile.Email); err != nil {
			slog.Error("failed to save session", "error", err)
			return common.ErrInternal("registration failed")
		}

		return c.JSON(201, profile)
	}
}
