// package generation_api provides the generation ledger API handlers.
package generation_api

import (
	"errors"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/auth"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/generation"
	"velora.studio/velora/internal/workflow"
)

func HandleCreate(sm *auth.SessionManager, svc *generation.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		userUUID, _, err := common.RequireSessionUser(c, sm)
		if err != nil {
			return err
		}

		var req struct {
			Title        string          `json:"title"`
			Description  string          `json:"description"`
			TemplateID   string          `json:"template_id"`
			WorkflowType string          `json:"workflow_type"`
			Inputs       workflow.Inputs `json:"inputs"`
		}
		if err := c.Bind(&req); err != nil {
			return common.ErrBadRequest("invalid json")
		}

		gen, err := svc.Create(c.Request().Context(), userUUID, generation.CreateRequest{
			Title:        req.Title,
			Description:  req.Description,
			TemplateID:   req.TemplateID,
			WorkflowType: req.WorkflowType,
			Inputs:       req.Inputs,
		})

		var missing *workflow.MissingFieldError
		switch {
		case err == nil:
			return c.JSON(201, gen)
		case errors.Is(err, generation.ErrInsufficientCredits):
			return common.ErrPaymentRequired("insufficient credits")
		case errors.As(err, &missing):
			return common.ErrBadRequest(missing.Error())
		case errors.Is(err, workflow.ErrUnknownCategory):
			return common.ErrBadRequest(err.Error())
		case errors.Is(err, generation.ErrDispatchFailed):
			// The ledger row exists; the reaper settles it if the engine
			// never picks it up. Surface both facts to the client.
			return c.JSON(502, map[string]any{
				"error":      "workflow dispatch failed",
				"generation": gen,
			})
		default:
			return common.ErrInternal("failed to create generation")
		}
	}
}
