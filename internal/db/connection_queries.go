package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Pool-backed single-statement shortcuts. Services take narrow interfaces,
// and these let a *DatabaseConnection satisfy them without each caller
// spelling out Queries(ctx).

func (db *DatabaseConnection) GetCredits(ctx context.Context, id pgtype.UUID) (int32, error) {
	return db.Queries(ctx).GetCredits(ctx, id)
}

func (db *DatabaseConnection) InsertGeneration(ctx context.Context, params NewGenerationParams) (*Generation, error) {
	return db.Queries(ctx).InsertGeneration(ctx, params)
}

func (db *DatabaseConnection) SelectGenerationByID(ctx context.Context, id pgtype.UUID) (*Generation, error) {
	return db.Queries(ctx).SelectGenerationByID(ctx, id)
}

func (db *DatabaseConnection) SelectStaleProcessing(ctx context.Context, cutoff time.Time) ([]*Generation, error) {
	return db.Queries(ctx).SelectStaleProcessing(ctx, cutoff)
}

func (db *DatabaseConnection) FailGeneration(ctx context.Context, id pgtype.UUID) (bool, error) {
	return db.Queries(ctx).FailGeneration(ctx, id)
}
