package analytics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Theailaunchapd/Vib3-link/internal/models"
	"github.com/Theailaunchapd/Vib3-link/internal/storage/repository"
)

type RepositoryMock struct {
	mock.Mock
}

func (m *RepositoryMock) GetAnalytics(ctx context.Context, username string) (*models.AnalyticsData, error) {
	args := m.Called(ctx, username)
	record, _ := args.Get(0).(*models.AnalyticsData)
	return record, args.Error(1)
}

func (m *RepositoryMock) UpsertAnalytics(ctx context.Context, username string, record *models.AnalyticsData) error {
	args := m.Called(ctx, username, record)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestService_RecordView_SameDayAggregates(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	today := time.Now().UTC().Format("2006-01-02")
	existing := &models.AnalyticsData{
		TotalViews: 5,
		LinkClicks: map[string]int{},
		History:    []models.DailyViews{{Date: today, Views: 5}},
	}
	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		return r.TotalViews == 6 && len(r.History) == 1 && r.History[0].Views == 6
	})).Return(nil).Once()

	require.NoError(t, s.RecordView(context.Background(), "alice"))
	repo.AssertExpectations(t)
}

func TestService_RecordView_NewDayAppends(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	existing := &models.AnalyticsData{
		TotalViews: 3,
		LinkClicks: map[string]int{},
		History:    []models.DailyViews{{Date: "2024-01-01", Views: 3}},
	}
	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		return len(r.History) == 2 && r.History[1].Views == 1
	})).Return(nil).Once()

	require.NoError(t, s.RecordView(context.Background(), "alice"))
}

func TestService_RecordView_HistoryCapped(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	history := make([]models.DailyViews, models.HistoryLimit)
	for i := range history {
		history[i] = models.DailyViews{Date: fmt.Sprintf("2024-01-%02d", i+1), Views: 1}
	}
	existing := &models.AnalyticsData{LinkClicks: map[string]int{}, History: history}

	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		if len(r.History) != models.HistoryLimit {
			return false
		}
		// the oldest bucket was evicted
		return r.History[0].Date == "2024-01-02"
	})).Return(nil).Once()

	require.NoError(t, s.RecordView(context.Background(), "alice"))
	repo.AssertExpectations(t)
}

func TestService_RecordClick(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	existing := models.NewAnalyticsData()
	existing.LinkClicks["l1"] = 2
	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		return r.LinkClicks["l1"] == 3
	})).Return(nil).Once()

	require.NoError(t, s.RecordClick(context.Background(), "alice", "l1"))
}

func TestService_RecordRevenue(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	existing := models.NewAnalyticsData()
	existing.TotalRevenue = 10
	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		return r.TotalRevenue == 39.5
	})).Return(nil).Once()

	require.NoError(t, s.RecordRevenue(context.Background(), "alice", 29.5))
}

func TestService_CorruptRecordResets(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	corrupt := fmt.Errorf("storage.GetAnalytics: %w: bad json", repository.ErrCorruptRecord)
	repo.On("GetAnalytics", mock.Anything, "alice").Return(nil, corrupt).Once()
	repo.On("UpsertAnalytics", mock.Anything, "alice", mock.MatchedBy(func(r *models.AnalyticsData) bool {
		return r.TotalViews == 1 && len(r.History) == 1
	})).Return(nil).Once()

	require.NoError(t, s.RecordView(context.Background(), "alice"))
}

func TestService_Stats(t *testing.T) {
	repo := new(RepositoryMock)
	s := New(repo, newNoopLogger())

	existing := models.NewAnalyticsData()
	existing.TotalViews = 42
	repo.On("GetAnalytics", mock.Anything, "alice").Return(existing, nil).Once()

	got, err := s.Stats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 42, got.TotalViews)
}
