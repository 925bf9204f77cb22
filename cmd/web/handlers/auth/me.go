package auth

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	webauth "velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
)

// HandleMe returns the authenticated profile, credits included. The SPA
// polls this after payment verification and video ingestion to refresh the
// balance it shows.
func HandleMe(sm *webauth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		profile, err := dbc.Queries(ctx).SelectProfileByID(ctx, userUUID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Profile deleted underneath a live session.
				sm.ClearSession(c.Response().Writer, c.Request())
				return common.ErrUnauthorized()
			}
			return common.ErrInternal("failed to load profile")
		}

		return c.JSON(200, profile)
	}
}
