// Package paymentprovider holds the payment gateway boundary: the Charger
// interface the subscription state machine depends on, a Stripe client for
// real charges and a simulated charger for environments without a key.
package paymentprovider

import "context"

// ChargeRequest describes one charge against a saved payment method.
type ChargeRequest struct {
	CustomerID  string  // gateway customer id of the saved payment method
	Amount      float64 // in the major currency unit, e.g. dollars
	Currency    string  // defaults to "usd" when empty
	Description string
}

// ChargeResult is the outcome of a charge attempt. A declined charge is a
// normal result (Succeeded=false, ErrorMessage set), not a Go error; errors
// are reserved for transport-level failures.
type ChargeResult struct {
	Succeeded    bool
	PaymentID    string
	ErrorMessage string
}

// Charger is what the subscription state machine needs from a payment
// gateway at the auto-charge decision point.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
