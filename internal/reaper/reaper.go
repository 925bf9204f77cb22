// Package reaper bounds how long a generation can sit in processing with
// no callback from the workflow engine.
package reaper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"velora.studio/velora/internal/db"
)

// DefaultThreshold matches the engine's worst-case render time with margin.
const DefaultThreshold = 15 * time.Minute

// Ledger is the slice of the generation store the reaper needs.
// *db.Queries satisfies it.
type Ledger interface {
	SelectStaleProcessing(ctx context.Context, cutoff time.Time) ([]*db.Generation, error)
	FailGeneration(ctx context.Context, id pgtype.UUID) (bool, error)
}

// Reaper sweeps stale processing rows to failed.
type Reaper struct {
	ledger    Ledger
	threshold time.Duration
	now       func() time.Time
}

func New(ledger Ledger, threshold time.Duration) *Reaper {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Reaper{
		ledger:    ledger,
		threshold: threshold,
		now:       time.Now,
	}
}

// Result summarizes one sweep.
type Result struct {
	Found  int
	Failed int
}

func (r Result) Message() string {
	return fmt.Sprintf("Processed %d stuck generations, updated %d to failed status", r.Found, r.Failed)
}

// Run performs one sweep. Each row transitions independently; an error on
// one row is logged and the sweep continues. Rows already terminal are
// excluded by the status filter, so repeated runs do no extra work.
func (r *Reaper) Run(ctx context.Context) (Result, error) {
	cutoff := r.now().Add(-r.threshold)

	stale, err := r.ledger.SelectStaleProcessing(ctx, cutoff)
	if err != nil {
		return Result{}, fmt.Errorf("select stale generations: %w", err)
	}

	result := Result{Found: len(stale)}
	for _, g := range stale {
		failed, err := r.ledger.FailGeneration(ctx, g.ID)
		if err != nil {
			slog.Error("failed to reap generation", "generation_id", g.ID.String(), "error", err)
			continue
		}
		if failed {
			slog.Info("reaped stuck generation", "generation_id", g.ID.String(), "user_id", g.UserID.String(), "created_at", g.CreatedAt.Time)
			result.Failed++
		}
	}

	return result, nil
}
