package generation_api

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
)

func HandleGet(sm *auth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		genUUID, err := common.RequireUUIDParam(c, "id")
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		gen, err := dbc.Queries(ctx).SelectGenerationByID(ctx, genUUID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.ErrNotFound("generation not found")
			}
			return common.ErrInternal("failed to load generation")
		}

		// Scope to the owner. A 404 rather than 403 avoids confirming the
		// row exists.
		if gen.UserID != userUUID {
			return common.ErrNotFound("generation not found")
		}

		return c.JSON(200, gen)
	}
}
