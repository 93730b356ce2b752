// Package analytics aggregates per-profile counters: total views, clicks
// per content block, revenue and the rolling daily view history.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Theailaunchapd/Vib3-link/internal/lib/sl"
	"github.com/Theailaunchapd/Vib3-link/internal/metrics"
	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

// Repository defines the analytics persistence the aggregator needs.
type Repository interface {
	GetAnalytics(ctx context.Context, username string) (*models.AnalyticsData, error)
	UpsertAnalytics(ctx context.Context, username string, record *models.AnalyticsData) error
}

// Service is the analytics aggregator.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates the aggregator.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// load reads a record, recovering from a corrupt document with a fresh
// empty one so tracking keeps working.
func (s *Service) load(ctx context.Context, username string) (*models.AnalyticsData, error) {
	record, err := s.repo.GetAnalytics(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrCorruptRecord) {
			s.log.Error("resetting unreadable analytics record", sl.Err(err),
				slog.String("username", username))
			return models.NewAnalyticsData(), nil
		}
		return nil, err
	}
	return record, nil
}

// RecordView counts one public page view: the total and today's bucket in
// the rolling history.
func (s *Service) RecordView(ctx context.Context, username string) error {
	const op = "analytics.RecordView"

	record, err := s.load(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	record.TotalViews++
	today := time.Now().UTC().Format("2006-01-02")
	if n := len(record.History); n > 0 && record.History[n-1].Date == today {
		record.History[n-1].Views++
	} else {
		record.History = append(record.History, models.DailyViews{Date: today, Views: 1})
		if len(record.History) > models.HistoryLimit {
			record.History = record.History[len(record.History)-models.HistoryLimit:]
		}
	}

	if err := s.repo.UpsertAnalytics(ctx, username, record); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.ProfileViews.Inc()
	return nil
}

// RecordClick counts one click on a content block.
func (s *Service) RecordClick(ctx context.Context, username, itemID string) error {
	const op = "analytics.RecordClick"

	record, err := s.load(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	record.LinkClicks[itemID]++

	if err := s.repo.UpsertAnalytics(ctx, username, record); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	metrics.LinkClicks.Inc()
	return nil
}

// RecordRevenue adds a completed sale amount to the profile's total.
func (s *Service) RecordRevenue(ctx context.Context, username string, amount float64) error {
	const op = "analytics.RecordRevenue"

	record, err := s.load(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	record.TotalRevenue += amount

	if err := s.repo.UpsertAnalytics(ctx, username, record); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stats returns the analytics record for the dashboard.
func (s *Service) Stats(ctx context.Context, username string) (*models.AnalyticsData, error) {
	const op = "analytics.Stats"

	record, err := s.load(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return record, nil
}
