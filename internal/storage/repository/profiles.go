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

// SaveProfile upserts the profile document under the lowercase username.
func (s *Storage) SaveProfile(ctx context.Context, profile *models.Profile) error {
	const op = "storage.SaveProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `INSERT INTO profiles (username, user_uid, data)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (username) DO UPDATE SET data = EXCLUDED.data`
	if _, err := s.DB.ExecContext(ctx, query,
		strings.ToLower(profile.Username), profile.UserID, data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfileByUsername reads the raw profile document. A missing row maps to
// ErrNotFound; an unparsable document maps to ErrCorruptRecord so the caller
// can log the loss instead of failing silently. The returned profile is not
// normalized; run the content normalizer before handing it out.
func (s *Storage) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "storage.GetProfileByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var data []byte
	query := `SELECT data FROM profiles WHERE username = $1`
	if err := s.DB.QueryRowContext(ctx, query, strings.ToLower(username)).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile := &models.Profile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrCorruptRecord, err)
	}
	return profile, nil
}
