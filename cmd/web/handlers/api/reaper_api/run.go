// package reaper_api exposes the stuck-generation sweep to the scheduler.
package reaper_api

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/reaper"
)

// HandleRun sweeps stale processing rows. Guarded by a shared bearer token
// so only the scheduler can trigger it.
func HandleRun(token string, r *reaper.Reaper) echo.HandlerFunc {
	return func(c echo.Context) error {
		if token == "" {
			return common.ErrNotFound("not found")
		}

		header := c.Request().Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			return common.ErrUnauthorized()
		}

		result, err := r.Run(c.Request().Context())
		if err != nil {
			slog.Error("reaper run failed", "error", err)
			return common.ErrInternal("reaper run failed")
		}

		return c.JSON(200, map[string]any{
			"success": true,
			"message": result.Message(),
		})
	}
}
