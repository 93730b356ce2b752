package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
)

// GetAnalytics reads the analytics record of a username. A missing row
// yields the empty default record, never an error; a corrupt document maps
// to ErrCorruptRecord.
func (s *Storage) GetAnalytics(ctx context.Context, username string) (*models.AnalyticsData, error) {
	const op = "storage.GetAnalytics"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var data []byte
	query := `SELECT data FROM analytics WHERE username = $1`
	if err := s.DB.QueryRowContext(ctx, query, strings.ToLower(username)).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.NewAnalyticsData(), nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := models.NewAnalyticsData()
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrCorruptRecord, err)
	}
	if record.LinkClicks == nil {
		record.LinkClicks = make(map[string]int)
	}
	return record, nil
}

// UpsertAnalytics writes back the analytics record of a username.
func (s *Storage) UpsertAnalytics(ctx context.Context, username string, record *models.AnalyticsData) error {
	const op = "storage.UpsertAnalytics"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO analytics (username, data)
			  VALUES ($1, $2)
			  ON CONFLICT (username) DO UPDATE SET data = EXCLUDED.data`
	if _, err := s.DB.ExecContext(ctx, query, strings.ToLower(username), data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
