package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"velora.studio/velora/internal/db"
)

type fakeStore struct {
	url    string
	err    error
	stored [][]byte
}

func (f *fakeStore) Store(ctx context.Context, generationID string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.stored = append(f.stored, data)
	return f.url, nil
}

type fakeFetcher struct {
	data []byte
	err  error
	got  string
}

func (f *fakeFetcher) FetchRemote(ctx context.Context, url string) ([]byte, error) {
	f.got = url
	return f.data, f.err
}

type fakeSettleLedger struct {
	gen       *db.Generation
	selectErr error

	credits int32
	settled int
}

func (f *fakeSettleLedger) SelectGenerationByID(ctx context.Context, id pgtype.UUID) (*db.Generation, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.gen, nil
}

func (f *fakeSettleLedger) CompleteGenerationAndDebit(ctx context.Context, generationID, userID pgtype.UUID, videoURL string) (bool, bool, error) {
	f.settled++
	if f.gen.Status != db.GenerationStatusProcessing {
		return false, false, nil
	}
	f.gen.Status = db.GenerationStatusCompleted
	f.gen.VideoURL = pgtype.Text{String: videoURL, Valid: true}
	if f.credits <= 0 {
		return true, false, nil
	}
	f.credits--
	return true, true, nil
}

func ids() (gen, user pgtype.UUID) {
	return pgtype.UUID{Bytes: uuid.MustParse("11111111-2222-3333-4444-555555555555"), Valid: true},
		pgtype.UUID{Bytes: uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), Valid: true}
}

func processingRow() (*fakeSettleLedger, pgtype.UUID, pgtype.UUID) {
	genID, userID := ids()
	ledger := &fakeSettleLedger{
		gen:     &db.Generation{ID: genID, UserID: userID, Status: db.GenerationStatusProcessing},
		credits: 2,
	}
	return ledger, genID, userID
}

func TestIngestBytes_CompletesAndDebits(t *testing.T) {
	ledger, genID, userID := processingRow()
	store := &fakeStore{url: "https://cdn.example.com/videos/x.mp4"}

	res, err := New(store, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, []byte("mp4"))
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.True(t, res.Debited)
	require.Equal(t, "https://cdn.example.com/videos/x.mp4", res.VideoURL)
	require.Equal(t, int32(1), ledger.credits)
	require.Equal(t, db.GenerationStatusCompleted, ledger.gen.Status)
}

func TestIngestBytes_AlreadyTerminalDoesNotDebit(t *testing.T) {
	ledger, genID, userID := processingRow()
	ledger.gen.Status = db.GenerationStatusFailed

	res, err := New(&fakeStore{url: "u"}, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, []byte("mp4"))
	require.NoError(t, err)
	require.False(t, res.Completed)
	require.False(t, res.Debited)
	require.Equal(t, int32(2), ledger.credits)
	require.Equal(t, db.GenerationStatusFailed, ledger.gen.Status)
}

func TestIngestBytes_ZeroCreditsNeverGoesNegative(t *testing.T) {
	ledger, genID, userID := processingRow()
	ledger.credits = 0

	res, err := New(&fakeStore{url: "u"}, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, []byte("mp4"))
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.False(t, res.Debited)
	require.Equal(t, int32(0), ledger.credits)
}

func TestIngestBytes_StorageFailureLeavesLedgerAlone(t *testing.T) {
	ledger, genID, userID := processingRow()
	store := &fakeStore{err: errors.New("s3 unavailable")}

	_, err := New(store, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, []byte("mp4"))
	require.Error(t, err)
	require.Zero(t, ledger.settled)
	require.Equal(t, db.GenerationStatusProcessing, ledger.gen.Status)
	require.Equal(t, int32(2), ledger.credits)
}

func TestIngestBytes_UnknownGeneration(t *testing.T) {
	genID, userID := ids()
	ledger := &fakeSettleLedger{selectErr: pgx.ErrNoRows}

	_, err := New(&fakeStore{}, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, []byte("mp4"))
	require.ErrorIs(t, err, ErrGenerationNotFound)
}

func TestIngestBytes_WrongOwner(t *testing.T) {
	ledger, genID, _ := processingRow()
	other := pgtype.UUID{Bytes: uuid.New(), Valid: true}

	_, err := New(&fakeStore{}, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, other, []byte("mp4"))
	require.ErrorIs(t, err, ErrNotOwner)
	require.Zero(t, ledger.settled)
}

func TestIngestBytes_EmptyPayload(t *testing.T) {
	ledger, genID, userID := processingRow()

	_, err := New(&fakeStore{}, &fakeFetcher{}, ledger).IngestBytes(context.Background(), genID, userID, nil)
	require.ErrorIs(t, err, ErrEmptyVideo)
}

func TestIngestURL_FetchesThenIngests(t *testing.T) {
	ledger, genID, userID := processingRow()
	fetch := &fakeFetcher{data: []byte("remote bytes")}
	store := &fakeStore{url: "https://cdn.example.com/videos/y.mp4"}

	res, err := New(store, fetch, ledger).IngestURL(context.Background(), genID, userID, "https://engine.example.com/out.mp4")
	require.NoError(t, err)
	require.True(t, res.Completed)
	require.Equal(t, "https://engine.example.com/out.mp4", fetch.got)
	require.Equal(t, [][]byte{[]byte("remote bytes")}, store.stored)
}

func TestIngestURL_FetchFailureAbortsEverything(t *testing.T) {
	ledger, genID, userID := processingRow()
	fetch := &fakeFetcher{err: errors.New("upstream 404")}
	store := &fakeStore{url: "u"}

	_, err := New(store, fetch, ledger).IngestURL(context.Background(), genID, userID, "https://engine.example.com/out.mp4")
	require.Error(t, err)
	require.Empty(t, store.stored)
	require.Zero(t, ledger.settled)
}
