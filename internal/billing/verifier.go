package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stripe/stripe-go/v75"
	"velora.studio/velora/internal/db"
)

// SessionGetter retrieves a checkout session from the provider.
type SessionGetter interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

// PurchaseStore applies a verified top-up atomically. Implemented by
// db.DatabaseConnection.RecordCreditPurchase.
type PurchaseStore interface {
	RecordCreditPurchase(ctx context.Context, params db.NewCreditPurchaseParams) (creditsAdded, total int32, err error)
}

// VerifyResult reports the outcome of one verification call.
type VerifyResult struct {
	CreditsAdded     int32
	TotalCredits     int32
	AlreadyProcessed bool
}

// Verifier turns a completed checkout session into exactly one credit
// top-up. Safe under at-least-once invocation: the processed-session
// record's uniqueness constraint, not a timing heuristic, de-duplicates
// replays.
type Verifier struct {
	sessions SessionGetter
	store    PurchaseStore
}

func NewVerifier(sessions SessionGetter, store PurchaseStore) *Verifier {
	return &Verifier{sessions: sessions, store: store}
}

func (v *Verifier) Verify(ctx context.Context, sessionID string) (*VerifyResult, error) {
	s, err := v.sessions.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve session %s: %w", sessionID, err)
	}

	if s.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, ErrSessionUnpaid
	}

	userID := s.Metadata["user_id"]
	priceID := s.Metadata["price_id"]
	if userID == "" || priceID == "" {
		return nil, ErrMissingMetadata
	}

	credits, ok := CreditsForPrice(priceID)
	if !ok {
		return nil, ErrUnknownPrice
	}

	var userUUID pgtype.UUID
	if err := userUUID.Scan(userID); err != nil {
		return nil, ErrMissingMetadata
	}

	added, total, err := v.store.RecordCreditPurchase(ctx, db.NewCreditPurchaseParams{
		UserID:    userUUID,
		SessionID: s.ID,
		PriceID:   priceID,
		Credits:   credits,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("record credit purchase: %w", err)
	}

	if added == 0 {
		slog.Info("checkout session already processed", "session_id", s.ID, "user_id", userID)
	} else {
		slog.Info("credits added", "session_id", s.ID, "user_id", userID, "credits", added, "total", total)
	}

	return &VerifyResult{
		CreditsAdded:     added,
		TotalCredits:     total,
		AlreadyProcessed: added == 0,
	}, nil
}
