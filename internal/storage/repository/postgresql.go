// Package repository implements the record store on PostgreSQL. Users,
// promo codes and payments live in scalar tables; profile and analytics
// documents are stored as JSONB keyed by lowercase username.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Register the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Sentinel errors returned by the store. Callers classify outcomes with
// errors.Is instead of parsing messages.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCorruptRecord means a persisted document failed to parse. Callers
	// log it and treat the record as absent rather than failing the request.
	ErrCorruptRecord = errors.New("corrupt stored record")
	// ErrDuplicate means a unique constraint (email, username, code) was hit.
	ErrDuplicate = errors.New("duplicate record")

	// Promo redemption outcomes.
	ErrPromoNotFound     = errors.New("promo code not found")
	ErrPromoInactive     = errors.New("promo code is not active")
	ErrPromoLimitReached = errors.New("promo code usage limit reached")
)

// Storage wraps the PostgreSQL connection and implements all record
// collections: users, profiles, analytics, promo codes and payments.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies the schema has been migrated.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'users'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table users missing or query error: %w", err)
	}
	return nil
}
