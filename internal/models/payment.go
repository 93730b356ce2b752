package models

import "time"

// Payment types.
const (
	PaymentSubscription = "subscription"
	PaymentProduct      = "product"
	PaymentConsultation = "consultation"
)

// Payment statuses.
const (
	PaymentSuccess  = "success"
	PaymentPending  = "pending"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Payment is one row of the append-only payment ledger. Records are written
// once and never mutated; a failed charge is a normal recorded outcome, not
// an error.
type Payment struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	PaymentType     string    `json:"payment_type"` // one of the Payment* type constants
	ProductName     string    `json:"product_name,omitempty"`
	Amount          float64   `json:"amount"`
	Status          string    `json:"status"` // one of the Payment* status constants
	StripePaymentID string    `json:"stripe_payment_id,omitempty"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
