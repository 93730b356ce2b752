package models

import "time"

// Promo code types and the access they grant.
const (
	PromoLifetime       = "lifetime"        // promo_access with no expiry
	PromoTrialExtension = "trial_extension" // trial with a 30-day deadline
	PromoFreeMonth      = "free_month"      // promo_access expiring in 30 days
)

// ValidPromoType reports whether t is a known promo code type.
func ValidPromoType(t string) bool {
	switch t {
	case PromoLifetime, PromoTrialExtension, PromoFreeMonth:
		return true
	}
	return false
}

// PromoCode is a redeemable access code. A code is redeemable iff Active is
// true and either UsageLimit is nil or UsedCount is below it. UsedCount only
// grows; the store enforces the limit as a hard cap.
type PromoCode struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"` // looked up case-insensitively
	Description string    `json:"description"`
	Type        string    `json:"type"`                  // one of the Promo* constants
	UsageLimit  *int      `json:"usage_limit,omitempty"` // nil means unlimited
	UsedCount   int       `json:"used_count"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	Active      bool      `json:"active"`
}

// Redeemable reports whether the code can still be redeemed.
func (p *PromoCode) Redeemable() bool {
	if !p.Active {
		return false
	}
	return p.UsageLimit == nil || p.UsedCount < *p.UsageLimit
}

// DummyPromoCode carries the admin create-promo request before validation.
type DummyPromoCode struct {
	Code        string `json:"code" validate:"required,alphanum,min=3,max=32"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=lifetime trial_extension free_month"`
	UsageLimit  *int   `json:"usage_limit,omitempty" validate:"omitempty,gt=0"`
}
