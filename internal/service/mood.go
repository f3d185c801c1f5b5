package service

import (
	"context"
	"fmt"
	"time"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const defaultMoodHistoryDays = 30

// MoodServiceOptions groups dependencies for MoodService.
type MoodServiceOptions struct {
	Moods core.MoodRepository
	Time  data.TimeProvider
}

// MoodService provides mood tracking with one entry per user per day.
type MoodService struct {
	moods core.MoodRepository
	time  data.TimeProvider
}

// NewMoodService constructs a new MoodService.
func NewMoodService(opts MoodServiceOptions) *MoodService {
	if opts.Moods == nil {
		panic("MoodRepository is required")
	}
	tp := opts.Time
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	return &MoodService{moods: opts.Moods, time: tp}
}

// Log records a mood entry for the request's date, defaulting to today. The
// date is truncated to midnight UTC so the per-day uniqueness holds across
// timezones.
func (s *MoodService) Log(ctx context.Context, req *model.CreateMoodEntryRequest) (*model.MoodEntry, error) {
	if req.Date.IsZero() {
		req.Date = s.time.Now()
	}
	req.Date = truncateToDay(req.Date)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.moods.Create(ctx, req)
}

// Today returns the user's entry for today, or ErrMoodEntryNotFound.
func (s *MoodService) Today(ctx context.Context, userID string) (*model.MoodEntry, error) {
	return s.moods.GetByDate(ctx, userID, truncateToDay(s.time.Now()))
}

// GetByID retrieves a mood entry belonging to the user.
func (s *MoodService) GetByID(ctx context.Context, userID, id string) (*model.MoodEntry, error) {
	return s.moods.GetByID(ctx, userID, id)
}

// History returns the user's most recent entries, newest first.
func (s *MoodService) History(ctx context.Context, userID string, limit int) ([]*model.MoodEntry, error) {
	if limit <= 0 {
		limit = defaultMoodHistoryDays
	}
	return s.moods.ListRecent(ctx, userID, limit)
}

// Update updates a mood entry. The entry's date cannot change.
func (s *MoodService) Update(ctx context.Context, userID, id string, req model.UpdateMoodEntryRequest) (*model.MoodEntry, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return s.moods.Update(ctx, userID, id, req)
}

// Delete removes a mood entry belonging to the user.
func (s *MoodService) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.moods.Delete(ctx, userID, id)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
