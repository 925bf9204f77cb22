package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"velora.studio/velora/internal/db"
	"velora.studio/velora/internal/workflow"
	"velora.studio/velora/pkg/utils/markdown"
)

var (
	// ErrInsufficientCredits means the profile has no credits left. Checked
	// before any row is written.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrDispatchFailed means the ledger row was created but the webhook
	// could not be delivered. The row stays processing and the reaper
	// fails it once it goes stale.
	ErrDispatchFailed = errors.New("workflow dispatch failed")
)

// Ledger is the slice of the database layer the service needs.
type Ledger interface {
	GetCredits(ctx context.Context, id pgtype.UUID) (int32, error)
	InsertGeneration(ctx context.Context, params db.NewGenerationParams) (*db.Generation, error)
}

// Dispatcher forwards a generation payload to the automation engine.
type Dispatcher interface {
	Dispatch(ctx context.Context, category workflow.Category, payload map[string]any) error
}

// CreateRequest carries a generation request after transport decoding.
type CreateRequest struct {
	Title        string
	Description  string
	TemplateID   string
	WorkflowType string
	Inputs       workflow.Inputs
}

// Service creates generation ledger rows and hands their payloads to the
// workflow engine.
type Service struct {
	ledger     Ledger
	dispatcher Dispatcher
	now        func() time.Time
}

func NewService(ledger Ledger, dispatcher Dispatcher) *Service {
	return &Service{
		ledger:     ledger,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Create validates the request, records the ledger row, then dispatches the
// webhook. The row is written before the dispatch so a delivery failure
// leaves an auditable processing row rather than a silent drop; in that case
// the returned generation is non-nil alongside ErrDispatchFailed.
//
// No credit is debited here. The debit happens when the finished video is
// ingested, so a workflow that never produces output never costs anything.
func (s *Service) Create(ctx context.Context, userID pgtype.UUID, req CreateRequest) (*db.Generation, error) {
	category, err := workflow.ParseCategory(req.WorkflowType)
	if err != nil {
		return nil, err
	}
	if err := req.Inputs.Validate(category); err != nil {
		return nil, err
	}

	credits, err := s.ledger.GetCredits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check credits: %w", err)
	}
	if credits <= 0 {
		return nil, ErrInsufficientCredits
	}

	title := strings.TrimSpace(markdown.StripTags(req.Title))
	if title == "" {
		title = category.DisplayName() + " video"
	}

	gen, err := s.ledger.InsertGeneration(ctx, db.NewGenerationParams{
		UserID:           userID,
		Title:            title,
		Description:      strings.TrimSpace(markdown.StripTags(req.Description)),
		TemplateID:       req.TemplateID,
		TemplateCategory: category.TemplateCategory(),
		WorkflowType:     string(category),
	})
	if err != nil {
		return nil, fmt.Errorf("insert generation: %w", err)
	}

	payload, err := workflow.BuildPayload(
		category,
		uuid.UUID(userID.Bytes).String(),
		uuid.UUID(gen.ID.Bytes).String(),
		req.Inputs,
		s.now(),
	)
	if err != nil {
		// Inputs were validated above, so this only trips on an unknown
		// category slipping through; treat it like a delivery failure.
		return gen, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	if err := s.dispatcher.Dispatch(ctx, category, payload); err != nil {
		slog.Error("workflow dispatch failed, row left for reaper",
			slog.String("generation_id", uuid.UUID(gen.ID.Bytes).String()),
			slog.String("workflow", string(category)),
			slog.Any("error", err))
		return gen, fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	return gen, nil
}
