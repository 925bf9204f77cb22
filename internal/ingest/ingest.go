// Package ingest stores finished workflow videos and settles their ledger
// rows. The automation engine calls back with either the raw video bytes or
// a URL to fetch them from.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"velora.studio/velora/internal/db"
)

var (
	// ErrGenerationNotFound means no ledger row matched the callback.
	ErrGenerationNotFound = errors.New("generation not found")

	// ErrNotOwner means the row exists but belongs to a different profile.
	ErrNotOwner = errors.New("generation does not belong to this user")

	// ErrEmptyVideo means the callback carried no video bytes.
	ErrEmptyVideo = errors.New("empty video payload")
)

// Store persists video bytes and returns a public URL.
type Store interface {
	Store(ctx context.Context, generationID string, data []byte) (string, error)
}

// Fetcher pulls a remote video into memory.
type Fetcher interface {
	FetchRemote(ctx context.Context, url string) ([]byte, error)
}

// Ledger is the settlement slice of the database layer: look up the row,
// then complete it and debit the credit in one transaction.
type Ledger interface {
	SelectGenerationByID(ctx context.Context, id pgtype.UUID) (*db.Generation, error)
	CompleteGenerationAndDebit(ctx context.Context, generationID, userID pgtype.UUID, videoURL string) (completed, debited bool, err error)
}

// Result reports what a single ingestion did.
type Result struct {
	VideoURL string
	// Completed is false when the row was already terminal; the upload
	// still happened but the ledger was left alone.
	Completed bool
	// Debited is false when Completed is false, or when the profile had
	// no credits left to take.
	Debited bool
}

// Ingestor wires storage and the ledger together.
type Ingestor struct {
	store  Store
	fetch  Fetcher
	ledger Ledger
}

func New(store Store, fetch Fetcher, ledger Ledger) *Ingestor {
	return &Ingestor{store: store, fetch: fetch, ledger: ledger}
}

// IngestBytes uploads video bytes for a generation and settles its row.
// The upload happens first: a storage failure aborts before any row or
// credit mutation, so the callback can simply be retried.
func (i *Ingestor) IngestBytes(ctx context.Context, generationID, userID pgtype.UUID, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyVideo
	}

	gen, err := i.ledger.SelectGenerationByID(ctx, generationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("look up generation: %w", err)
	}
	if gen.UserID != userID {
		return nil, ErrNotOwner
	}

	genID := uuid.UUID(generationID.Bytes).String()

	videoURL, err := i.store.Store(ctx, genID, data)
	if err != nil {
		return nil, fmt.Errorf("store video: %w", err)
	}

	completed, debited, err := i.ledger.CompleteGenerationAndDebit(ctx, generationID, userID, videoURL)
	if err != nil {
		return nil, fmt.Errorf("settle generation: %w", err)
	}

	slog.Info("video ingested",
		slog.String("generation_id", genID),
		slog.String("size", humanize.Bytes(uint64(len(data)))),
		slog.Bool("completed", completed),
		slog.Bool("debited", debited))

	return &Result{VideoURL: videoURL, Completed: completed, Debited: debited}, nil
}

// IngestURL fetches the video from the engine's temporary URL, then ingests
// the bytes.
func (i *Ingestor) IngestURL(ctx context.Context, generationID, userID pgtype.UUID, videoURL string) (*Result, error) {
	data, err := i.fetch.FetchRemote(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	return i.IngestBytes(ctx, generationID, userID, data)
}
