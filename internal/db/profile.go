package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"velora.studio/velora/pkg/utils/passwords"
)

const profileColumns = `id, full_name, email, password, phone, country_code, phone_verified, credits, role, created_at, updated_at`

func scanProfile(row interface{ Scan(dest ...any) error }) (*Profile, error) {
	var p Profile
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Password,
		&p.Phone,
		&p.CountryCode,
		&p.PhoneVerified,
		&p.Credits,
		&p.Role,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// NewProfileParams contains the parameters for creating a new profile
type NewProfileParams struct {
	FullName    string
	Email       string
	Password    string // plaintext password
	Phone       string
	CountryCode string
}

// NewProfile creates a new profile with a hashed password and the
// sign-up credit grant.
func (q *Queries) NewProfile(ctx context.Context, params NewProfileParams) (*Profile, error) {
	hashedPassword, err := passwords.NewPassword(passwords.PasswordInput{
		Password: params.Password,
	})
	if err != nil {
		return nil, err
	}

	pgUUID := pgtype.UUID{
		Bytes: uuid.New(),
		Valid: true,
	}

	phone := pgtype.Text{String: params.Phone, Valid: params.Phone != ""}
	countryCode := pgtype.Text{String: params.CountryCode, Valid: params.CountryCode != ""}

	row := q.db.QueryRow(ctx, `
		INSERT INTO profiles (id, full_name, email, password, phone, country_code, credits, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+profileColumns,
		pgUUID, params.FullName, params.Email, hashedPassword, phone, countryCode, int32(SignupCreditGrant), RoleFree,
	)
	return scanProfile(row)
}

func (q *Queries) SelectProfileByID(ctx context.Context, id pgtype.UUID) (*Profile, error) {
	row := q.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

func (q *Queries) SelectProfileByEmail(ctx context.Context, email string) (*Profile, error) {
	row := q.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(email) = lower($1)`, email)
	return scanProfile(row)
}

// EmailRegistered reports whether a profile already exists for the email.
func (q *Queries) EmailRegistered(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE lower(email) = lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email registered: %w", err)
	}
	return exists, nil
}

// GetCredits returns the current credit balance for a profile.
func (q *Queries) GetCredits(ctx context.Context, id pgtype.UUID) (int32, error) {
	var credits int32
	err := q.db.QueryRow(ctx, `SELECT credits FROM profiles WHERE id = $1`, id).Scan(&credits)
	if err != nil {
		return 0, err
	}
	return credits, nil
}

// AddCredits applies a top-up as a single atomic statement and returns the
// new balance.
func (q *Queries) AddCredits(ctx context.Context, id pgtype.UUID, amount int32) (int32, error) {
	var credits int32
	err := q.db.QueryRow(ctx, `
		UPDATE profiles
		SET credits = credits + $2, updated_at = now()
		WHERE id = $1
		RETURNING credits`, id, amount).Scan(&credits)
	if err != nil {
		return 0, fmt.Errorf("add credits: %w", err)
	}
	return credits, nil
}

// DebitCredit removes one credit if the balance allows it. The condition
// runs inside the statement, so a profile can never go negative. Returns
// false when the profile had no credits (or does not exist).
func (q *Queries) DebitCredit(ctx context.Context, id pgtype.UUID) (bool, error) {
	tag, err := q.db.Exec(ctx, `
		UPDATE profiles
		SET credits = credits - 1, updated_at = now()
		WHERE id = $1 AND credits > 0`, id)
	if err != nil {
		return false, fmt.Errorf("debit credit: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkPhoneVerified flags the profile's phone number as verified.
func (q *Queries) MarkPhoneVerified(ctx context.Context, id pgtype.UUID, phone string) error {
	_, err := q.db.Exec(ctx, `
		UPDATE profiles
		SET phone = $2, phone_verified = true, updated_at = now()
		WHERE id = $1`, id, phone)
	if err != nil {
		return fmt.Errorf("mark phone verified: %w", err)
	}
	return nil
}
