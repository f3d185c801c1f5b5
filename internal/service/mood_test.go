package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/mocks"
	"github.com/neurozen/neurozen/internal/testutil"
)

func newMoodService(t *testing.T) (*mocks.MockMoodRepository, *MoodService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	moodRepo := mocks.NewMockMoodRepository(ctrl)
	service := NewMoodService(MoodServiceOptions{
		Moods: moodRepo,
		Time:  data.NewFixedTimeProvider(testutil.TestTime()),
	})

	return moodRepo, service
}

func TestMoodService_Log_DefaultsToToday(t *testing.T) {
	t.Parallel()
	moodRepo, service := newMoodService(t)
	ctx := context.Background()

	// TestTime is mid-day; the stored date must be midnight UTC of that day.
	wantDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	req := &model.CreateMoodEntryRequest{
		UserID:      testUserID,
		Mood:        model.MoodHappy,
		EnergyLevel: 7,
	}

	moodRepo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateMoodEntryRequest) (*model.MoodEntry, error) {
			assert.Equal(t, wantDate, got.Date)
			return &model.MoodEntry{ID: "mood-1", UserID: testUserID, Date: got.Date, Mood: got.Mood}, nil
		}).
		Times(1)

	entry, err := service.Log(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, wantDate, entry.Date)
}

func TestMoodService_DefaultsToSystemClock(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	moodRepo := mocks.NewMockMoodRepository(ctrl)
	service := NewMoodService(MoodServiceOptions{Moods: moodRepo})

	today := time.Now().UTC().Truncate(24 * time.Hour)
	moodRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, got *model.CreateMoodEntryRequest) (*model.MoodEntry, error) {
			assert.False(t, got.Date.Before(today), "date %v predates today %v", got.Date, today)
			return &model.MoodEntry{ID: "mood-1", UserID: testUserID, Date: got.Date}, nil
		}).
		Times(1)

	_, err := service.Log(context.Background(), &model.CreateMoodEntryRequest{
		UserID:      testUserID,
		Mood:        model.MoodHappy,
		EnergyLevel: 6,
	})
	require.NoError(t, err)
}

func TestMoodService_Log_TruncatesExplicitDate(t *testing.T) {
	t.Parallel()
	moodRepo, service := newMoodService(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+5", 5*3600)
	req := &model.CreateMoodEntryRequest{
		UserID:      testUserID,
		Date:        time.Date(2024, 1, 3, 23, 45, 0, 0, loc),
		Mood:        model.MoodNeutral,
		EnergyLevel: 5,
	}

	moodRepo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateMoodEntryRequest) (*model.MoodEntry, error) {
			// 23:45 UTC+5 is 18:45 UTC on Jan 3.
			assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), got.Date)
			return &model.MoodEntry{ID: "mood-2", Date: got.Date}, nil
		}).
		Times(1)

	_, err := service.Log(ctx, req)
	require.NoError(t, err)
}

func TestMoodService_Log_InvalidMood(t *testing.T) {
	t.Parallel()
	_, service := newMoodService(t)

	_, err := service.Log(context.Background(), &model.CreateMoodEntryRequest{
		UserID:      testUserID,
		Mood:        model.Mood(9),
		EnergyLevel: 5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 5")
}

func TestMoodService_Log_DuplicateDay(t *testing.T) {
	t.Parallel()
	moodRepo, service := newMoodService(t)
	ctx := context.Background()

	moodRepo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil, data.ErrMoodEntryExists).
		Times(1)

	_, err := service.Log(ctx, &model.CreateMoodEntryRequest{
		UserID:      testUserID,
		Mood:        model.MoodHappy,
		EnergyLevel: 6,
	})
	assert.ErrorIs(t, err, data.ErrMoodEntryExists)
}

func TestMoodService_Today(t *testing.T) {
	t.Parallel()
	moodRepo, service := newMoodService(t)
	ctx := context.Background()

	wantDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	moodRepo.EXPECT().
		GetByDate(ctx, testUserID, wantDate).
		Return(&model.MoodEntry{ID: "mood-1", Date: wantDate}, nil).
		Times(1)

	entry, err := service.Today(ctx, testUserID)
	require.NoError(t, err)
	assert.Equal(t, "mood-1", entry.ID)
}

func TestMoodService_History_DefaultsLimit(t *testing.T) {
	t.Parallel()
	moodRepo, service := newMoodService(t)
	ctx := context.Background()

	moodRepo.EXPECT().
		ListRecent(ctx, testUserID, defaultMoodHistoryDays).
		Return([]*model.MoodEntry{}, nil).
		Times(1)

	_, err := service.History(ctx, testUserID, -1)
	require.NoError(t, err)
}

func TestMoodService_Update_RejectsBadEnergy(t *testing.T) {
	t.Parallel()
	_, service := newMoodService(t)

	bad := 15
	_, err := service.Update(context.Background(), testUserID, "mood-1", model.UpdateMoodEntryRequest{EnergyLevel: &bad})
	require.Error(t, err)
}
