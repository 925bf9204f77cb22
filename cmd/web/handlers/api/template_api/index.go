// package template_api serves the studio's template catalog.
package template_api

import (
	"github.com/labstack/echo/v4"
	"velora.studio/velora/internal/catalog"
)

func HandleIndex() echo.HandlerFunc {
	return func(c echo.Context) error {
		if category := c.QueryParam("category"); category != "" {
			templates := catalog.ByCategory(category)
			if templates == nil {
				templates = []catalog.Template{}
			}
			return c.JSON(200, templates)
		}
		return c.JSON(200, catalog.Templates())
	}
}
