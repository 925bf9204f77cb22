package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NewCreditPurchaseParams contains the parameters for recording a
// processed checkout session.
type NewCreditPurchaseParams struct {
	UserID    pgtype.UUID
	SessionID string
	PriceID   string
	Credits   int32
}

// InsertCreditPurchase records a processed session. The UNIQUE constraint
// on session_id turns a replayed verification into an affected-rows-zero
// insert. Returns false when the session was already recorded.
func (q *Queries) InsertCreditPurchase(ctx context.Context, params NewCreditPurchaseParams) (bool, error) {
	pgUUID := pgtype.UUID{
		Bytes: uuid.New(),
		Valid: true,
	}

	tag, err := q.db.Exec(ctx, `
		INSERT INTO credit_purchases (id, user_id, session_id, price_id, credits)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING`,
		pgUUID, params.UserID, params.SessionID, params.PriceID, params.Credits)
	if err != nil {
		return false, fmt.Errorf("insert credit purchase: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RecordCreditPurchase inserts the processed-session record and applies the
// top-up in a single transaction. When the session was already processed the
// balance is left untouched and creditsAdded is zero; the returned total is
// the current balance either way.
func (db *DatabaseConnection) RecordCreditPurchase(ctx context.Context, params NewCreditPurchaseParams) (creditsAdded, total int32, err error) {
	q, tx, err := db.NewWithTX(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	inserted, err := q.InsertCreditPurchase(ctx, params)
	if err != nil {
		return 0, 0, err
	}

	if !inserted {
		total, err = q.GetCredits(ctx, params.UserID)
		if err != nil {
			return 0, 0, err
		}
		return 0, total, tx.Commit(ctx)
	}

	total, err = q.AddCredits(ctx, params.UserID, params.Credits)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit credit purchase: %w", err)
	}
	return params.Credits, total, nil
}

// CompleteGenerationAndDebit marks the generation completed and debits one
// credit in the same transaction, so a completed row with an undebited
// credit cannot be observed. The debit is conditional on the balance being
// positive; completed reports whether the row actually transitioned and
// debited whether a credit was taken.
func (db *DatabaseConnection) CompleteGenerationAndDebit(ctx context.Context, generationID, userID pgtype.UUID, videoURL string) (completed, debited bool, err error) {
	q, tx, err := db.NewWithTX(ctx)
	if err != nil {
		return false, false, err
	}
	defer tx.Rollback(ctx)

	completed, err = q.CompleteGeneration(ctx, generationID, videoURL)
	if err != nil {
		return false, false, err
	}
	if !completed {
		// Already terminal (reaped or previously ingested). Leave the
		// balance alone.
		return false, false, tx.Commit(ctx)
	}

	debited, err = q.DebitCredit(ctx, userID)
	if err != nil {
		return false, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, false, fmt.Errorf("commit generation completion: %w", err)
	}
	return completed, debited, nil
}
