package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const generationColumns = `id, user_id, title, description, template_id, template_category, workflow_type, status, credits_used, video_url, created_at, updated_at`

func scanGeneration(row interface{ Scan(dest ...any) error }) (*Generation, error) {
	var g Generation
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.TemplateID,
		&g.TemplateCategory,
		&g.WorkflowType,
		&g.Status,
		&g.CreditsUsed,
		&g.VideoURL,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// NewGenerationParams contains the parameters for creating a generation row.
type NewGenerationParams struct {
	UserID           pgtype.UUID
	Title            string
	Description      string
	TemplateID       string
	TemplateCategory string
	WorkflowType     string
}

// InsertGeneration creates the ledger row for a generation request. Rows
// always start in processing; the ingester or the reaper moves them on.
func (q *Queries) InsertGeneration(ctx context.Context, params NewGenerationParams) (*Generation, error) {
	pgUUID := pgtype.UUID{
		Bytes: uuid.New(),
		Valid: true,
	}

	templateID := pgtype.Text{String: params.TemplateID, Valid: params.TemplateID != ""}

	row := q.db.QueryRow(ctx, `
		INSERT INTO generations (id, user_id, title, description, template_id, template_category, workflow_type, status, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0)
		RETURNING `+generationColumns,
		pgUUID, params.UserID, params.Title, params.Description, templateID, params.TemplateCategory, params.WorkflowType, GenerationStatusProcessing,
	)
	return scanGeneration(row)
}

func (q *Queries) SelectGenerationByID(ctx context.Context, id pgtype.UUID) (*Generation, error) {
	row := q.db.QueryRow(ctx, `SELECT `+generationColumns+` FROM generations WHERE id = $1`, id)
	return scanGeneration(row)
}

// SelectGenerationsByUser returns the caller's generation history, newest first.
func (q *Queries) SelectGenerationsByUser(ctx context.Context, userID pgtype.UUID) ([]*Generation, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+generationColumns+`
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("select generations: %w", err)
	}
	defer rows.Close()

	var generations []*Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, g)
	}
	return generations, rows.Err()
}

// DeleteGeneration removes a row owned by userID. Owners may delete in any
// status. Returns false when no row matched.
func (q *Queries) DeleteGeneration(ctx context.Context, id, userID pgtype.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM generations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete generation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteGeneration moves a processing row to completed with its stored
// video URL. The status guard makes terminal states unreachable from each
// other; a row the reaper already failed stays failed.
func (q *Queries) CompleteGeneration(ctx context.Context, id pgtype.UUID, videoURL string) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE generations
		SET status = $2, video_url = $3, credits_used = 1, updated_at = now()
		WHERE id = $1 AND status = $4`,
		id, GenerationStatusCompleted, videoURL, GenerationStatusProcessing)
	if err != nil {
		return false, fmt.Errorf("complete generation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// FailGeneration moves a processing row to failed. Same guard as
// CompleteGeneration, so repeated reaper runs are no-ops.
func (q *Queries) FailGeneration(ctx context.Context, id pgtype.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE generations
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		id, GenerationStatusFailed, GenerationStatusProcessing)
	if err != nil {
		return false, fmt.Errorf("fail generation: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SelectStaleProcessing returns rows still processing that were created
// before the cutoff.
func (q *Queries) SelectStaleProcessing(ctx context.Context, cutoff time.Time) ([]*Generation, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+generationColumns+`
		FROM generations
		WHERE status = $1 AND created_at < $2`,
		GenerationStatusProcessing, cutoff)
	if err != nil {
		return nil, fmt.Errorf("select stale generations: %w", err)
	}
	defer rows.Close()

	var generations []*Generation
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		generations = append(generations, g)
	}
	return generations, rows.Err()
}
