package reaper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"velora.studio/velora/internal/db"
)

type fakeLedger struct {
	rows       map[pgtype.UUID]*db.Generation
	failErrFor map[pgtype.UUID]error
	gotCutoff  time.Time
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		rows:       map[pgtype.UUID]*db.Generation{},
		failErrFor: map[pgtype.UUID]error{},
	}
}

func (f *fakeLedger) add(status db.GenerationStatus, createdAt time.Time) pgtype.UUID {
	id := pgtype.UUID{Bytes: uuid.New(), Valid: true}
	f.rows[id] = &db.Generation{
		ID:        id,
		UserID:    pgtype.UUID{Bytes: uuid.New(), Valid: true},
		Status:    status,
		CreatedAt: pgtype.Timestamptz{Time: createdAt, Valid: true},
	}
	return id
}

func (f *fakeLedger) SelectStaleProcessing(ctx context.Context, cutoff time.Time) ([]*db.Generation, error) {
	f.gotCutoff = cutoff
	var out []*db.Generation
	for _, g := range f.rows {
		if g.Status == db.GenerationStatusProcessing && g.CreatedAt.Time.Before(cutoff) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeLedger) FailGeneration(ctx context.Context, id pgtype.UUID) (bool, error) {
	if err := f.failErrFor[id]; err != nil {
		return false, err
	}
	g, ok := f.rows[id]
	if !ok || g.Status != db.GenerationStatusProcessing {
		return false, nil
	}
	g.Status = db.GenerationStatusFailed
	return true, nil
}

func TestRun_FailsStaleRows(t *testing.T) {
	ledger := newFakeLedger()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	stale := ledger.add(db.GenerationStatusProcessing, now.Add(-20*time.Minute))
	fresh := ledger.add(db.GenerationStatusProcessing, now.Add(-5*time.Minute))
	done := ledger.add(db.GenerationStatusCompleted, now.Add(-2*time.Hour))

	r := New(ledger, DefaultThreshold)
	r.now = func() time.Time { return now }

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Found)
	require.Equal(t, 1, res.Failed)

	require.Equal(t, db.GenerationStatusFailed, ledger.rows[stale].Status)
	require.Equal(t, db.GenerationStatusProcessing, ledger.rows[fresh].Status)
	require.Equal(t, db.GenerationStatusCompleted, ledger.rows[done].Status)
	require.Equal(t, now.Add(-15*time.Minute), ledger.gotCutoff)
}

func TestRun_Idempotent(t *testing.T) {
	ledger := newFakeLedger()
	now := time.Now()
	stale := ledger.add(db.GenerationStatusProcessing, now.Add(-time.Hour))

	r := New(ledger, DefaultThreshold)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, db.GenerationStatusFailed, ledger.rows[stale].Status)

	// Second sweep finds nothing to do.
	res, err = r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, res.Found)
	require.Equal(t, 0, res.Failed)
	require.Equal(t, db.GenerationStatusFailed, ledger.rows[stale].Status)
}

func TestRun_RowFailureDoesNotBlockOthers(t *testing.T) {
	ledger := newFakeLedger()
	now := time.Now()

	broken := ledger.add(db.GenerationStatusProcessing, now.Add(-time.Hour))
	ok := ledger.add(db.GenerationStatusProcessing, now.Add(-time.Hour))
	ledger.failErrFor[broken] = errors.New("connection reset")

	r := New(ledger, DefaultThreshold)

	res, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Found)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, db.GenerationStatusFailed, ledger.rows[ok].Status)
	require.Equal(t, db.GenerationStatusProcessing, ledger.rows[broken].Status)
}

func TestNew_DefaultsThreshold(t *testing.T) {
	r := New(newFakeLedger(), 0)
	require.Equal(t, DefaultThreshold, r.threshold)
}

func TestResult_Message(t *testing.T) {
	res := Result{Found: 3, Failed: 2}
	require.Equal(t, "Processed 3 stuck generations, updated 2 to failed status", res.Message())
}
