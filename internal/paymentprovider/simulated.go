package paymentprovider

import (
	"context"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// SimulatedCharger stands in for the real gateway in local and demo
// environments. A charge succeeds with the configured probability; the rate
// is a stand-in knob, not a business rule.
type SimulatedCharger struct {
	successRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated charger with the given success rate
// in [0, 1].
func NewSimulated(successRate float64, seed int64) *SimulatedCharger {
	return &SimulatedCharger{
		successRate: successRate,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Charge draws the simulated outcome.
func (s *SimulatedCharger) Charge(_ context.Context, _ ChargeRequest) (*ChargeResult, error) {
	s.mu.Lock()
	roll := s.rng.Float64()
	s.mu.Unlock()

	if roll < s.successRate {
		return &ChargeResult{
			Succeeded: true,
			PaymentID: "sim_" + uuid.NewString(),
		}, nil
	}
	return &ChargeResult{
		Succeeded:    false,
		PaymentID:    "sim_" + uuid.NewString(),
		ErrorMessage: "card declined",
	}, nil
}
