package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

const promoColumns = `id, code, description, type, usage_limit, used_count,
			      created_at, created_by, active`

func scanPromoCode(row interface{ Scan(...any) error }) (*models.PromoCode, error) {
	p := &models.PromoCode{}
	var usageLimit sql.NullInt64
	if err := row.Scan(&p.ID, &p.Code, &p.Description, &p.Type, &usageLimit,
		&p.UsedCount, &p.CreatedAt, &p.CreatedBy, &p.Active); err != nil {
		return nil, err
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int64)
		p.UsageLimit = &v
	}
	return p, nil
}

// CreatePromoCode stores a new promo code and returns its id. Codes are
// unique case-insensitively; a collision maps to ErrDuplicate.
func (s *Storage) CreatePromoCode(ctx context.Context, code *models.PromoCode) (string, error) {
	const op = "storage.CreatePromoCode"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var usageLimit sql.NullInt64
	if code.UsageLimit != nil {
		usageLimit = sql.NullInt64{Int64: int64(*code.UsageLimit), Valid: true}
	}
	var newID string
	query := `INSERT INTO promo_codes (code, description, type, usage_limit, created_by, active)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		code.Code, code.Description, code.Type, usageLimit,
		code.CreatedBy, code.Active).Scan(&newID); err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPromoCodeByCode looks up a promo code case-insensitively.
func (s *Storage) GetPromoCodeByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	const op = "storage.GetPromoCodeByCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + promoColumns + ` FROM promo_codes WHERE LOWER(code) = LOWER($1)`
	p, err := scanPromoCode(s.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPromoNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPromoCodes returns every promo code, newest first.
func (s *Storage) ListPromoCodes(ctx context.Context) ([]*models.PromoCode, error) {
	const op = "storage.ListPromoCodes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + promoColumns + ` FROM promo_codes ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PromoCode
	for rows.Next() {
		p, err := scanPromoCode(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RedeemPromoCode atomically checks redeemability and increments the usage
// counter. The guarded UPDATE keeps usage_limit a hard cap even when
// redemptions race; the outcome is classified as ErrPromoNotFound,
// ErrPromoInactive or ErrPromoLimitReached.
func (s *Storage) RedeemPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	const op = "storage.RedeemPromoCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE promo_codes
			  SET used_count = used_count + 1
			  WHERE LOWER(code) = LOWER($1)
			    AND active
			    AND (usage_limit IS NULL OR used_count < usage_limit)
			  RETURNING ` + promoColumns
	p, err := scanPromoCode(s.DB.QueryRowContext(ctx, query, code))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// The guarded update matched nothing; look the code up to say why.
	existing, lookupErr := s.GetPromoCodeByCode(ctx, code)
	if lookupErr != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrPromoNotFound)
	}
	if !existing.Active {
		return nil, fmt.Errorf("%s: %w", op, ErrPromoInactive)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrPromoLimitReached)
}
