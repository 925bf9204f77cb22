// package payment_api provides the checkout and payment verification
// handlers.
package payment_api

import (
	"github.com/labstack/echo/v4"
	"velora.studio/velora/internal/billing"
)

// HandlePacks lists the purchasable credit packs for the pricing page.
func HandlePacks() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(200, billing.Packs())
	}
}
