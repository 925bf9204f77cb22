// package ingest_api receives finished videos from the workflow engine.
package ingest_api

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"
	"velora.studio/velora/cmd/web/handlers/common"
	"velora.studio/velora/internal/ingest"
	"velora.studio/velora/internal/storage"
)

// HandleStore accepts a finished video for a generation, either as a
// multipart upload (fields userId, generationId, videoFile) or as JSON
// carrying a URL to fetch. The engine authenticates by knowing both ids;
// a mismatched pair reads as not-found.
func HandleStore(ing *ingest.Ingestor) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var result *ingest.Result
		if strings.HasPrefix(c.Request().Header.Get("Content-Type"), "multipart/") {
			userUUID, err := common.RequireUUIDField(c.FormValue("userId"), "userId")
			if err != nil {
				return err
			}
			genUUID, err := common.RequireUUIDField(c.FormValue("generationId"), "generationId")
			if err != nil {
				return err
			}

			file, err := c.FormFile("videoFile")
			if err != nil {
				return common.ErrBadRequest("multipart field 'videoFile' is required")
			}
			if file.Size > storage.MaxVideoBytes {
				return common.ErrBadRequest("video exceeds size limit")
			}

			src, err := file.Open()
			if err != nil {
				return common.ErrInternal("failed to read upload")
			}
			defer src.Close()

			data, err := io.ReadAll(io.LimitReader(src, storage.MaxVideoBytes+1))
			if err != nil {
				return common.ErrInternal("failed to read upload")
			}
			if len(data) > storage.MaxVideoBytes {
				return common.ErrBadRequest("video exceeds size limit")
			}

			result, err = ing.IngestBytes(ctx, genUUID, userUUID, data)
			if err != nil {
				return ingestError(err)
			}
		} else {
			var req struct {
				UserID       string `json:"userId"`
				GenerationID string `json:"generationId"`
				VideoURL     string `json:"videoUrl"`
			}
			if err := c.Bind(&req); err != nil {
				return common.ErrBadRequest("invalid json")
			}

			userUUID, err := common.RequireUUIDField(req.UserID, "userId")
			if err != nil {
				return err
			}
			genUUID, err := common.RequireUUIDField(req.GenerationID, "generationId")
			if err != nil {
				return err
			}

			videoURL := strings.TrimSpace(req.VideoURL)
			if videoURL == "" {
				return common.ErrBadRequest("videoUrl is required")
			}

			result, err = ing.IngestURL(ctx, genUUID, userUUID, videoURL)
			if err != nil {
				return ingestError(err)
			}
		}

		return c.JSON(200, map[string]any{
			"success":  true,
			"videoUrl": result.VideoURL,
			"debited":  result.Debited,
		})
	}
}

func ingestError(err error) error {
	switch {
	case errors.Is(err, ingest.ErrGenerationNotFound), errors.Is(err, ingest.ErrNotOwner):
		return common.ErrNotFound("generation not found")
	case errors.Is(err, ingest.ErrEmptyVideo):
		return common.ErrBadRequest("empty video payload")
	default:
		slog.Error("failed to ingest video", "error", err)
		return common.ErrBadGateway("failed to store video")
	}
}
