// Package purchase implements the public checkout flow of a product
// block: it prices the selected variations server-side, appends the sale to
// the payment ledger and credits the seller's revenue counter.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// Errors reported to the checkout form.
var (
	ErrNotAProduct     = errors.New("content item is not a product")
	ErrInactiveProduct = errors.New("product is not available")
)

// ProfileProvider loads the seller's page.
type ProfileProvider interface {
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
}

// UserLookup resolves the seller account for the ledger row.
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Ledger appends sale rows.
type Ledger interface {
	RecordSale(ctx context.Context, payment *models.Payment)
}

// RevenueCounter credits the seller's analytics.
type RevenueCounter interface {
	RecordRevenue(ctx context.Context, username string, amount float64) error
}

// Service runs product checkouts.
type Service struct {
	profiles  ProfileProvider
	users     UserLookup
	ledger    Ledger
	analytics RevenueCounter
	log       *slog.Logger
}

// New creates the checkout service.
func New(profiles ProfileProvider, users UserLookup, ledger Ledger,
	analytics RevenueCounter, log *slog.Logger) *Service {
	return &Service{
		profiles:  profiles,
		users:     users,
		ledger:    ledger,
		analytics: analytics,
		log:       log,
	}
}

// Checkout prices a product with its selected options, records the sale
// and returns the charged amount. The price is always computed from the
// stored document, never trusted from the client.
func (s *Service) Checkout(ctx context.Context, username, itemID string, selected map[string]string) (float64, error) {
	const op = "purchase.Checkout"

	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	item, _ := p.Content.Find(itemID)
	if item == nil {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAProduct)
	}
	product, ok := item.(models.ProductItem)
	if !ok {
		return 0, fmt.Errorf("%s: %w", op, ErrNotAProduct)
	}
	if !product.Active {
		return 0, fmt.Errorf("%s: %w", op, ErrInactiveProduct)
	}

	amount, err := product.FinalPrice(selected)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	seller, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.ledger.RecordSale(ctx, &models.Payment{
		Username:    seller.Username,
		Email:       seller.Email,
		PaymentType: models.PaymentProduct,
		ProductName: product.Title,
		Amount:      amount,
		Status:      models.PaymentSuccess,
	})
	if err := s.analytics.RecordRevenue(ctx, seller.Username, amount); err != nil {
		s.log.Error("failed to credit revenue", sl.Err(err),
			slog.String("username", seller.Username))
	}

	s.log.Info("product sold",
		slog.String("username", seller.Username),
		slog.String("product", product.Title),
		slog.Float64("amount", amount))
	return amount, nil
}
