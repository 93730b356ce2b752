package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

const paymentColumns = `id, username, email, payment_type, product_name, amount,
			      status, stripe_payment_id, error_message, created_at`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	p := &models.Payment{}
	var productName, stripePaymentID, errorMessage sql.NullString
	if err := row.Scan(&p.ID, &p.Username, &p.Email, &p.PaymentType,
		&productName, &p.Amount, &p.Status, &stripePaymentID,
		&errorMessage, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ProductName = productName.String
	p.StripePaymentID = stripePaymentID.String
	p.ErrorMessage = errorMessage.String
	return p, nil
}

// CreatePayment appends one row to the payment ledger and returns its id.
// Ledger rows are write-once; there is no update path.
func (s *Storage) CreatePayment(ctx context.Context, payment *models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO payments (username, email, payment_type, product_name,
			      amount, status, stripe_payment_id, error_message)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		payment.Username, payment.Email, payment.PaymentType,
		nullIfEmpty(payment.ProductName), payment.Amount, payment.Status,
		nullIfEmpty(payment.StripePaymentID),
		nullIfEmpty(payment.ErrorMessage)).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPayments returns the whole ledger, newest first.
func (s *Storage) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
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

// ListPaymentsByUsername returns one user's ledger rows, newest first.
func (s *Storage) ListPaymentsByUsername(ctx context.Context, username string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments
			  WHERE LOWER(username) = LOWER($1) ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
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
