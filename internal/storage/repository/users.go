package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

const userColumns = `uid, email, username, password_hash, subscription_status,
			      trial_ends_at, is_skool_member, promo_code_used, created_at,
			      payment_method_saved, last_four_digits, card_brand, stripe_customer_id`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var trialEndsAt sql.NullTime
	var promoCodeUsed, lastFour, cardBrand, stripeCustomerID sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash,
		&u.SubscriptionStatus, &trialEndsAt, &u.IsSkoolMember, &promoCodeUsed,
		&u.CreatedAt, &u.PaymentMethodSaved, &lastFour, &cardBrand,
		&stripeCustomerID); err != nil {
		return nil, err
	}
	if trialEndsAt.Valid {
		t := trialEndsAt.Time
		u.TrialEndsAt = &t
	}
	u.PromoCodeUsed = promoCodeUsed.String
	u.LastFourDigits = lastFour.String
	u.CardBrand = cardBrand.String
	u.StripeCustomerID = stripeCustomerID.String
	return u, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateUser stores a new user and returns the generated UID. A violated
// unique index on email or username maps to ErrDuplicate.
func (s *Storage) CreateUser(ctx context.Context, user *models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, subscription_status,
			      trial_ends_at, is_skool_member, promo_code_used, payment_method_saved,
			      last_four_digits, card_brand, stripe_customer_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, strings.ToLower(user.Username), user.PasswordHash,
		user.SubscriptionStatus, user.TrialEndsAt, user.IsSkoolMember,
		nullIfEmpty(user.PromoCodeUsed), user.PaymentMethodSaved,
		nullIfEmpty(user.LastFourDigits), nullIfEmpty(user.CardBrand),
		nullIfEmpty(user.StripeCustomerID)).Scan(&newID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser returns a user by UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email, compared case-insensitively.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, compared case-insensitively.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUser persists the mutable fields of a user.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_status = $1,
			      trial_ends_at = $2,
			      is_skool_member = $3,
			      promo_code_used = $4,
			      payment_method_saved = $5,
			      last_four_digits = $6,
			      card_brand = $7,
			      stripe_customer_id = $8
			  WHERE uid = $9`
	res, err := s.DB.ExecContext(ctx, query,
		user.SubscriptionStatus, user.TrialEndsAt, user.IsSkoolMember,
		nullIfEmpty(user.PromoCodeUsed), user.PaymentMethodSaved,
		nullIfEmpty(user.LastFourDigits), nullIfEmpty(user.CardBrand),
		nullIfEmpty(user.StripeCustomerID), user.UID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListUsers returns all users ordered by signup date, newest first.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteUser removes a user together with its profile and analytics
// records in one transaction.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var username string
	if err := tx.QueryRowContext(ctx,
		`SELECT username FROM users WHERE uid = $1`, userUID).Scan(&username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	username = strings.ToLower(username)
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM profiles WHERE username = $1`, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM analytics WHERE username = $1`, username); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM users WHERE uid = $1`, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
