// Package subscription owns the billing status of every account: the
// transitions at signup, explicit subscribe, lazy trial expiry with the
// auto-charge attempt, promo benefit application and the admin overrides.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Theailaunchapd/Vib3-link/internal/config"
	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/metrics"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/paymentprovider"
)

// SubscriptionProductName is what appears on subscription ledger rows.
const SubscriptionProductName = "Vib3 Link Pro Monthly"

// UserRepository defines the user persistence the state machine needs.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// PaymentRepository appends rows to the payment ledger.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) (string, error)
}

// PromoLedger consumes promo codes. Redemption failures must leave the
// user untouched.
type PromoLedger interface {
	ValidateAndRedeem(ctx context.Context, code string) (*models.PromoCode, error)
}

// EventPublisher mirrors ledger rows to the billing exchange.
type EventPublisher interface {
	PublishPaymentRecorded(payment *models.Payment) error
}

// Service is the subscription state machine.
type Service struct {
	users    UserRepository
	payments PaymentRepository
	promos   PromoLedger
	charger  paymentprovider.Charger
	events   EventPublisher // nil when billing events are disabled
	log      *slog.Logger

	monthlyPrice   float64
	trialDays      int
	promoTrialDays int
}

// New creates the state machine.
func New(users UserRepository, payments PaymentRepository, promos PromoLedger,
	charger paymentprovider.Charger, events EventPublisher,
	log *slog.Logger, billing config.Billing) *Service {
	return &Service{
		users:          users,
		payments:       payments,
		promos:         promos,
		charger:        charger,
		events:         events,
		log:            log,
		monthlyPrice:   billing.MonthlyPrice,
		trialDays:      billing.TrialDays,
		promoTrialDays: billing.PromoTrialDays,
	}
}

// EnrollStatus returns the initial subscription status and expiry for a
// signup, with or without a redeemed promo code.
func (s *Service) EnrollStatus(promo *models.PromoCode) (string, *time.Time) {
	now := time.Now().UTC()
	if promo == nil {
		t := now.AddDate(0, 0, s.trialDays)
		return models.StatusTrial, &t
	}
	switch promo.Type {
	case models.PromoLifetime:
		return models.StatusPromoAccess, nil
	case models.PromoTrialExtension:
		t := now.AddDate(0, 0, s.promoTrialDays)
		return models.StatusTrial, &t
	case models.PromoFreeMonth:
		t := now.AddDate(0, 0, s.promoTrialDays)
		return models.StatusPromoAccess, &t
	}
	// Unknown promo types behave like a standard signup.
	t := now.AddDate(0, 0, s.trialDays)
	return models.StatusTrial, &t
}

// ResolveExpiry runs the lazy expiry check on every session resolution and
// returns the (possibly updated) user.
//
// A trial past its deadline triggers the auto-charge when a payment method
// is saved: success moves the user to active and appends a success ledger
// row; a decline (or a gateway transport failure) moves the user to expired
// with a failed row. Without a saved method the trial simply expires with no
// ledger row. Fixed-term promo access lapses to expired without any charge
// attempt.
func (s *Service) ResolveExpiry(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "subscription.ResolveExpiry"
	now := time.Now().UTC()

	switch user.SubscriptionStatus {
	case models.StatusTrial:
		if user.TrialEndsAt == nil || !now.After(*user.TrialEndsAt) {
			return user, nil
		}
		if !user.PaymentMethodSaved {
			user.SubscriptionStatus = models.StatusExpired
			s.log.Info("trial expired without payment method",
				slog.String("user_uid", user.UID))
		} else {
			s.autoCharge(ctx, user)
		}
	case models.StatusPromoAccess:
		if user.TrialEndsAt == nil || !now.After(*user.TrialEndsAt) {
			return user, nil
		}
		// Promo access lapses; it never converts to a paid charge.
		user.SubscriptionStatus = models.StatusExpired
		s.log.Info("promo access expired", slog.String("user_uid", user.UID))
	default:
		return user, nil
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// autoCharge attempts the monthly charge at trial expiry and mutates the
// user in place. Both outcomes are recorded in the ledger.
func (s *Service) autoCharge(ctx context.Context, user *models.User) {
	result, err := s.charger.Charge(ctx, paymentprovider.ChargeRequest{
		CustomerID:  user.StripeCustomerID,
		Amount:      s.monthlyPrice,
		Description: SubscriptionProductName,
	})
	if err != nil {
		// Gateway unreachable counts as a failed attempt, recorded as data.
		result = &paymentprovider.ChargeResult{ErrorMessage: err.Error()}
		s.log.Error("auto-charge gateway error", sl.Err(err),
			slog.String("user_uid", user.UID))
	}

	payment := &models.Payment{
		Username:        user.Username,
		Email:           user.Email,
		PaymentType:     models.PaymentSubscription,
		ProductName:     SubscriptionProductName,
		Amount:          s.monthlyPrice,
		StripePaymentID: result.PaymentID,
	}
	if result.Succeeded {
		user.SubscriptionStatus = models.StatusActive
		user.TrialEndsAt = nil
		payment.Status = models.PaymentSuccess
		metrics.ChargeAttempts.WithLabelValues("success").Inc()
		s.log.Info("auto-charge succeeded", slog.String("user_uid", user.UID))
	} else {
		user.SubscriptionStatus = models.StatusExpired
		payment.Status = models.PaymentFailed
		payment.ErrorMessage = result.ErrorMessage
		metrics.ChargeAttempts.WithLabelValues("failed").Inc()
		s.log.Info("auto-charge failed", slog.String("user_uid", user.UID),
			slog.String("reason", result.ErrorMessage))
	}
	s.recordPayment(ctx, payment)
}

// recordPayment appends a ledger row and mirrors it to the billing
// exchange. Neither failure aborts the state transition.
func (s *Service) recordPayment(ctx context.Context, payment *models.Payment) {
	id, err := s.payments.CreatePayment(ctx, payment)
	if err != nil {
		s.log.Error("failed to record payment", sl.Err(err),
			slog.String("username", payment.Username))
		return
	}
	payment.ID = id

	if s.events == nil {
		return
	}
	if err := s.events.PublishPaymentRecorded(payment); err != nil {
		s.log.Warn("failed to publish payment event", sl.Err(err),
			slog.String("payment_id", payment.ID))
	}
}

// RecordSale appends a product or consultation sale to the ledger. Used by
// the public purchase path.
func (s *Service) RecordSale(ctx context.Context, payment *models.Payment) {
	s.recordPayment(ctx, payment)
}

// Subscribe is the explicit subscribe action from the expired-trial gate:
// the user becomes active and any scheduled expiry is cleared.
func (s *Service) Subscribe(ctx context.Context, userUID string) (*models.User, error) {
	const op = "subscription.Subscribe"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.SubscriptionStatus = models.StatusActive
	user.TrialEndsAt = nil
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user subscribed", slog.String("user_uid", user.UID))
	return user, nil
}

// ApplyBenefit mutates a user with the access a redeemed promo code
// grants. Callers must only invoke it after a successful redemption.
func (s *Service) ApplyBenefit(user *models.User, promo *models.PromoCode) {
	status, trialEndsAt := s.EnrollStatus(promo)
	user.SubscriptionStatus = status
	user.TrialEndsAt = trialEndsAt
	user.PromoCodeUsed = promo.Code
}

// ApplyPromo redeems a code for an existing user, typically one standing at
// the expired-subscription gate, and applies the granted benefit.
func (s *Service) ApplyPromo(ctx context.Context, userUID, code string) (*models.User, error) {
	const op = "subscription.ApplyPromo"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	promo, err := s.promos.ValidateAndRedeem(ctx, code)
	if err != nil {
		return nil, err
	}
	s.ApplyBenefit(user, promo)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("promo applied to existing user",
		slog.String("user_uid", user.UID), slog.String("code", promo.Code))
	return user, nil
}

// MarkSkoolMember is the partner-login transition: unconditional, without
// expiry, idempotent on repeat logins.
func (s *Service) MarkSkoolMember(ctx context.Context, user *models.User) error {
	const op = "subscription.MarkSkoolMember"

	if user.IsSkoolMember && user.SubscriptionStatus == models.StatusSkoolMember {
		return nil
	}
	user.IsSkoolMember = true
	user.SubscriptionStatus = models.StatusSkoolMember
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AdminSetStatus force-sets a user's subscription status from the admin
// console. Setting active clears any scheduled expiry.
func (s *Service) AdminSetStatus(ctx context.Context, userUID, status string) (*models.User, error) {
	const op = "subscription.AdminSetStatus"

	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("%s: unknown status %q", op, status)
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.SubscriptionStatus = status
	if status == models.StatusActive {
		user.TrialEndsAt = nil
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin set subscription status",
		slog.String("user_uid", user.UID), slog.String("status", status))
	return user, nil
}

// AdminExtendTrial pushes a trial deadline out by the given number of days
// while keeping the user in trial. An elapsed or missing deadline extends
// from now.
func (s *Service) AdminExtendTrial(ctx context.Context, userUID string, days int) (*models.User, error) {
	const op = "subscription.AdminExtendTrial"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now().UTC()
	base := now
	if user.TrialEndsAt != nil && user.TrialEndsAt.After(now) {
		base = *user.TrialEndsAt
	}
	t := base.AddDate(0, 0, days)
	user.SubscriptionStatus = models.StatusTrial
	user.TrialEndsAt = &t
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("admin extended trial",
		slog.String("user_uid", user.UID), slog.Int("days", days))
	return user, nil
}
