package db

import (
	"github.com/jackc/pgx/v5/pgtype"
	"velora.studio/velora/pkg/utils/passwords"
)

// GenerationStatus is the lifecycle state of a generation row. Transitions
// are forward-only: processing -> completed or processing -> failed.
type GenerationStatus string

const (
	GenerationStatusProcessing GenerationStatus = "processing"
	GenerationStatusCompleted  GenerationStatus = "completed"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// Profile roles mirror the product tiers.
const (
	RoleDemo    = "demo"
	RoleFree    = "free"
	RolePremium = "premium"
)

// SignupCreditGrant is the number of credits a fresh profile starts with.
const SignupCreditGrant = 1

type Profile struct {
	ID            pgtype.UUID        `json:"id"`
	FullName      string             `json:"full_name"`
	Email         string             `json:"email"`
	Password      passwords.Password `json:"-"`
	Phone         pgtype.Text        `json:"phone"`
	CountryCode   pgtype.Text        `json:"country_code"`
	PhoneVerified bool               `json:"phone_verified"`
	Credits       int32              `json:"credits"`
	Role          string             `json:"role"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type Generation struct {
	ID               pgtype.UUID        `json:"id"`
	UserID           pgtype.UUID        `json:"user_id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	TemplateID       pgtype.Text        `json:"template_id"`
	TemplateCategory string             `json:"template_category"`
	WorkflowType     string             `json:"workflow_type"`
	Status           GenerationStatus   `json:"status"`
	CreditsUsed      int32              `json:"credits_used"`
	VideoURL         pgtype.Text        `json:"video_url"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}

// CreditPurchase is the processed-session record for a checkout session.
// The UNIQUE constraint on SessionID is what makes payment verification
// idempotent.
type CreditPurchase struct {
	ID        pgtype.UUID        `json:"id"`
	UserID    pgtype.UUID        `json:"user_id"`
	SessionID string             `json:"session_id"`
	PriceID   string             `json:"price_id"`
	Credits   int32              `json:"credits"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
