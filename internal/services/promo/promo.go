// Package promo implements the promo code ledger: validation, atomic
// redemption, and the admin create/list operations.
package promo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/metrics"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Repository defines the promo code operations the ledger needs from the
// store.
type Repository interface {
	// GetPromoCodeByCode looks a code up case-insensitively.
	GetPromoCodeByCode(ctx context.Context, code string) (*models.PromoCode, error)
	// RedeemPromoCode atomically checks and increments the usage counter.
	RedeemPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
	// CreatePromoCode stores a new code and returns its id.
	CreatePromoCode(ctx context.Context, code *models.PromoCode) (string, error)
	// ListPromoCodes returns all codes, newest first.
	ListPromoCodes(ctx context.Context) ([]*models.PromoCode, error)
}

// Service is the promo code ledger.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates the ledger service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Validate checks a code without consuming a use. It fails with the same
// classification as a redemption would: repository.ErrPromoNotFound,
// ErrPromoInactive or ErrPromoLimitReached. Used by the signup form's live
// code check.
func (s *Service) Validate(ctx context.Context, code string) (*models.PromoCode, error) {
	promoCode, err := s.repo.GetPromoCodeByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !promoCode.Active {
		return nil, repository.ErrPromoInactive
	}
	if !promoCode.Redeemable() {
		return nil, repository.ErrPromoLimitReached
	}
	return promoCode, nil
}

// ValidateAndRedeem consumes one use of the code and returns it with the
// incremented counter. On failure nothing is consumed and the caller must
// not apply any benefit.
func (s *Service) ValidateAndRedeem(ctx context.Context, code string) (*models.PromoCode, error) {
	promoCode, err := s.repo.RedeemPromoCode(ctx, code)
	if err != nil {
		metrics.PromoRedemptions.WithLabelValues(redemptionOutcome(err)).Inc()
		s.log.Info("promo redemption rejected",
			slog.String("code", code), sl.Err(err))
		return nil, err
	}

	metrics.PromoRedemptions.WithLabelValues("redeemed").Inc()
	s.log.Info("promo code redeemed",
		slog.String("code", promoCode.Code),
		slog.String("type", promoCode.Type),
		slog.Int("used_count", promoCode.UsedCount))
	return promoCode, nil
}

func redemptionOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrPromoNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrPromoInactive):
		return "inactive"
	case errors.Is(err, repository.ErrPromoLimitReached):
		return "limit_reached"
	}
	return "error"
}

// Create stores a new promo code from the admin console. Codes are
// normalized to upper case, created active.
func (s *Service) Create(ctx context.Context, createdBy string, req models.DummyPromoCode) (*models.PromoCode, error) {
	const op = "promo.Create"

	promoCode := &models.PromoCode{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Description: req.Description,
		Type:        req.Type,
		UsageLimit:  req.UsageLimit,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   createdBy,
		Active:      true,
	}
	id, err := s.repo.CreatePromoCode(ctx, promoCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	promoCode.ID = id

	s.log.Info("created promo code",
		slog.String("code", promoCode.Code),
		slog.String("type", promoCode.Type))
	return promoCode, nil
}

// List returns every promo code for the admin console.
func (s *Service) List(ctx context.Context) ([]*models.PromoCode, error) {
	return s.repo.ListPromoCodes(ctx)
}
