// Package models contains the domain model of the service: accounts,
// profiles with their unified content list, promo codes, payments and
// per-profile analytics. The structures are used by the business logic
// and by the storage layer.
package models

import "time"

// Subscription statuses a user account can be in.
const (
	StatusTrial       = "trial"
	StatusActive      = "active"
	StatusExpired     = "expired"
	StatusSkoolMember = "skool_member"
	StatusPromoAccess = "promo_access"
)

// ValidStatus reports whether s is one of the known subscription statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusTrial, StatusActive, StatusExpired, StatusSkoolMember, StatusPromoAccess:
		return true
	}
	return false
}

// User represents a registered account.
//
// Email and Username are unique case-insensitively across all users.
// TrialEndsAt is nil when no expiry is scheduled; it is only meaningful
// while the status is "trial" or a fixed-term "promo_access".
type User struct {
	UID                string     // Unique immutable identifier
	Email              string     // Unique, compared case-insensitively
	Username           string     // Unique URL-safe handle, stored lowercase
	PasswordHash       string     // bcrypt hash of the password
	SubscriptionStatus string     // One of the Status* constants
	TrialEndsAt        *time.Time // nil means no scheduled expiry
	IsSkoolMember      bool       // Came in through the Skool partner login
	PromoCodeUsed      string     // The promo code redeemed at signup, if any
	CreatedAt          time.Time
	PaymentMethodSaved bool
	LastFourDigits     string // Present only when PaymentMethodSaved
	CardBrand          string // Present only when PaymentMethodSaved
	StripeCustomerID   string // Present only when PaymentMethodSaved
}

// DummyRegister carries the signup request before validation.
type DummyRegister struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	PromoCode string `json:"promo_code,omitempty" validate:"omitempty,alphanum"`

	// Card details are accepted only when no promo code is supplied.
	CardNumber string `json:"card_number,omitempty" validate:"omitempty,numeric,min=12,max=19"`
	CardBrand  string `json:"card_brand,omitempty"`
}

// DummyLogin carries the login request before validation.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserView is the account shape handed out over HTTP. It never carries the
// password hash.
type UserView struct {
	UID                string     `json:"uid"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	IsSkoolMember      bool       `json:"is_skool_member"`
	PromoCodeUsed      string     `json:"promo_code_used,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	PaymentMethodSaved bool       `json:"payment_method_saved"`
	LastFourDigits     string     `json:"last_four_digits,omitempty"`
	CardBrand          string     `json:"card_brand,omitempty"`
}

// NewUserView strips a user down to its public shape.
func NewUserView(u *User) UserView {
	return UserView{
		UID:                u.UID,
		Email:              u.Email,
		Username:           u.Username,
		SubscriptionStatus: u.SubscriptionStatus,
		TrialEndsAt:        u.TrialEndsAt,
		IsSkoolMember:      u.IsSkoolMember,
		PromoCodeUsed:      u.PromoCodeUsed,
		CreatedAt:          u.CreatedAt,
		PaymentMethodSaved: u.PaymentMethodSaved,
		LastFourDigits:     u.LastFourDigits,
		CardBrand:          u.CardBrand,
	}
}
