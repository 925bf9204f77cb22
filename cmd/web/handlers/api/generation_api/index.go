package generation_api

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/db"
)

func HandleIndex(sm *auth.SessionManager, dbc *db.DatabaseConnection) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		ctx := c.Request().Context()
		generations, err := dbc.Queries(ctx).SelectGenerationsByUser(ctx, userUUID)
		if err != nil {
			slog.Error("failed to list generations", "error", err)
			return common.ErrInternal("failed to list generations")
		}
		if generations == nil {
			generations = []*db.Generation{}
		}

		return c.JSON(200, generations)
	}
}
