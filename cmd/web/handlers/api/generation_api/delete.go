package generation_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
)

// HandleDelete removes one of the caller's generations. Deleting never
// refunds a credit; a completed row already paid for its render.
func HandleDelete(sm *auth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
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
		deleted, err := dbc.Queries(ctx).DeleteGeneration(ctx, genUUID, userUUID)
		if err != nil {
			slog.Error("failed to delete generation", "error", err)
			return common.ErrInternal("failed to delete generation")
		}
		if !deleted {
			return common.ErrNotFound("generation not found")
		}

		return c.JSON(200, map[string]any{"success": true})
	}
}
