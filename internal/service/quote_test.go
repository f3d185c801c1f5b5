package service

import (
	"context"
	"encoding/json"
	"errors"
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

func newQuoteService(t *testing.T) (*mocks.MockQuoteRepository, *mocks.MockCacheRepository, *QuoteService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	quoteRepo := mocks.NewMockQuoteRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	service := NewQuoteService(QuoteServiceOptions{
		Quotes: quoteRepo,
		Cache:  cache,
		Deps: QuoteServiceDeps{
			Time: data.NewFixedTimeProvider(testutil.TestTime()),
		},
	})

	return quoteRepo, cache, service
}

func TestQuoteService_Today_CacheHit(t *testing.T) {
	t.Parallel()
	_, cache, service := newQuoteService(t)
	ctx := context.Background()

	cached := &model.DailyQuote{
		ID:     "quote-1",
		Quote:  "Begin at once to live.",
		Author: "Seneca",
		Date:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(cached)
	require.NoError(t, err)

	cache.EXPECT().
		Get(ctx, "quote:day:2024-01-01").
		Return(b, nil).
		Times(1)

	quote, err := service.Today(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, quote)
}

func TestQuoteService_Today_CacheMissScheduled(t *testing.T) {
	t.Parallel()
	quoteRepo, cache, service := newQuoteService(t)
	ctx := context.Background()

	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduled := &model.DailyQuote{ID: "quote-2", Quote: "Well begun is half done.", Date: today}

	cache.EXPECT().Get(ctx, "quote:day:2024-01-01").Return(nil, nil).Times(1)
	quoteRepo.EXPECT().GetByDate(ctx, today).Return(scheduled, nil).Times(1)
	cache.EXPECT().Set(ctx, "quote:day:2024-01-01", gomock.Any(), quoteCacheTTL).Return(nil).Times(1)

	quote, err := service.Today(ctx)

	require.NoError(t, err)
	assert.Equal(t, scheduled, quote)
}

func TestQuoteService_Today_FallsBackToLatest(t *testing.T) {
	t.Parallel()
	quoteRepo, cache, service := newQuoteService(t)
	ctx := context.Background()

	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &model.DailyQuote{ID: "quote-3", Quote: "No quote today, yesterday's will do.", Date: today.AddDate(0, 0, -2)}

	cache.EXPECT().Get(ctx, "quote:day:2024-01-01").Return(nil, nil).Times(1)
	quoteRepo.EXPECT().GetByDate(ctx, today).Return(nil, data.ErrQuoteNotFound).Times(1)
	quoteRepo.EXPECT().GetLatest(ctx, today).Return(older, nil).Times(1)
	cache.EXPECT().Set(ctx, "quote:day:2024-01-01", gomock.Any(), quoteCacheTTL).Return(nil).Times(1)

	quote, err := service.Today(ctx)

	require.NoError(t, err)
	assert.Equal(t, older, quote)
}

func TestQuoteService_Today_EmptyTable(t *testing.T) {
	t.Parallel()
	quoteRepo, cache, service := newQuoteService(t)
	ctx := context.Background()

	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	cache.EXPECT().Get(ctx, "quote:day:2024-01-01").Return(nil, nil).Times(1)
	quoteRepo.EXPECT().GetByDate(ctx, today).Return(nil, data.ErrQuoteNotFound).Times(1)
	quoteRepo.EXPECT().GetLatest(ctx, today).Return(nil, data.ErrQuoteNotFound).Times(1)

	_, err := service.Today(ctx)
	assert.ErrorIs(t, err, data.ErrQuoteNotFound)
}

func TestQuoteService_Today_CacheErrorIsNonFatal(t *testing.T) {
	t.Parallel()
	quoteRepo, cache, service := newQuoteService(t)
	ctx := context.Background()

	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduled := &model.DailyQuote{ID: "quote-4", Quote: "Still here.", Date: today}

	cache.EXPECT().Get(ctx, gomock.Any()).Return(nil, errors.New("redis down")).Times(1)
	quoteRepo.EXPECT().GetByDate(ctx, today).Return(scheduled, nil).Times(1)
	cache.EXPECT().Set(ctx, gomock.Any(), gomock.Any(), quoteCacheTTL).Return(errors.New("redis down")).Times(1)

	quote, err := service.Today(ctx)

	require.NoError(t, err)
	assert.Equal(t, scheduled, quote)
}

func TestQuoteService_Schedule_TruncatesDateAndInvalidates(t *testing.T) {
	t.Parallel()
	quoteRepo, cache, service := newQuoteService(t)
	ctx := context.Background()

	req := &model.CreateDailyQuoteRequest{
		Quote: "Plans are nothing; planning is everything.",
		Date:  time.Date(2024, 1, 5, 16, 30, 0, 0, time.UTC),
	}

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	quoteRepo.EXPECT().
		Create(ctx, req).
		DoAndReturn(func(_ context.Context, got *model.CreateDailyQuoteRequest) (*model.DailyQuote, error) {
			assert.Equal(t, day, got.Date)
			return &model.DailyQuote{ID: "quote-5", Quote: got.Quote, Date: got.Date}, nil
		}).
		Times(1)
	cache.EXPECT().Delete(ctx, "quote:day:2024-01-05").Return(true, nil).Times(1)

	quote, err := service.Schedule(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, day, quote.Date)
}

func TestQuoteService_Schedule_DuplicateDate(t *testing.T) {
	t.Parallel()
	quoteRepo, _, service := newQuoteService(t)
	ctx := context.Background()

	quoteRepo.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil, data.ErrQuoteDateExists).
		Times(1)

	_, err := service.Schedule(ctx, &model.CreateDailyQuoteRequest{
		Quote: "Again?",
		Date:  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, data.ErrQuoteDateExists)
}
