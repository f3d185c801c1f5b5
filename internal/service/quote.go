package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

const (
	quoteCachePrefix = "quote:day:"
	quoteCacheTTL    = 6 * time.Hour
)

// QuoteServiceOptions groups dependencies for QuoteService.
type QuoteServiceOptions struct {
	Quotes core.QuoteRepository
	Cache  core.CacheRepository
	Deps   QuoteServiceDeps
}

// QuoteServiceDeps holds optional collaborators for QuoteService.
type QuoteServiceDeps struct {
	Time   data.TimeProvider
	Logger *slog.Logger
}

// QuoteService serves the quote of the day, caching lookups and falling back
// to the most recent active quote when none is scheduled for today.
type QuoteService struct {
	quotes core.QuoteRepository
	cache  core.CacheRepository
	time   data.TimeProvider
	logger *slog.Logger
}

// NewQuoteService constructs a new QuoteService.
func NewQuoteService(opts QuoteServiceOptions) *QuoteService {
	if opts.Quotes == nil {
		panic("QuoteRepository is required")
	}
	tp := opts.Deps.Time
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	var logger *slog.Logger
	if opts.Deps.Logger != nil {
		logger = opts.Deps.Logger.With("component", "quote_service")
	}
	return &QuoteService{quotes: opts.Quotes, cache: opts.Cache, time: tp, logger: logger}
}

// Today returns the quote for today, preferring the cache, then the scheduled
// quote, then the most recent active quote. Returns ErrQuoteNotFound when the
// table is empty.
func (s *QuoteService) Today(ctx context.Context) (*model.DailyQuote, error) {
	today := truncateToDay(s.time.Now())
	cacheKey := quoteCachePrefix + today.Format("2006-01-02")

	if cached := s.getCached(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	quote, err := s.quotes.GetByDate(ctx, today)
	if errors.Is(err, data.ErrQuoteNotFound) {
		quote, err = s.quotes.GetLatest(ctx, today)
	}
	if err != nil {
		return nil, err
	}

	s.setCached(ctx, cacheKey, quote)
	return quote, nil
}

// Schedule stores a quote for a given day. The date is truncated to midnight
// UTC; scheduling twice for the same day returns ErrQuoteDateExists.
func (s *QuoteService) Schedule(ctx context.Context, req *model.CreateDailyQuoteRequest) (*model.DailyQuote, error) {
	if !req.Date.IsZero() {
		req.Date = truncateToDay(req.Date)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}

	quote, err := s.quotes.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, quoteCachePrefix+quote.Date.Format("2006-01-02"))
	return quote, nil
}

// List returns a page of scheduled quotes, newest date first.
func (s *QuoteService) List(ctx context.Context, limit, offset int) ([]*model.DailyQuote, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.quotes.List(ctx, limit, offset)
}

// Delete removes a scheduled quote.
func (s *QuoteService) Delete(ctx context.Context, id string) (bool, error) {
	return s.quotes.Delete(ctx, id)
}

func (s *QuoteService) getCached(ctx context.Context, key string) *model.DailyQuote {
	if s.cache == nil {
		return nil
	}
	b, err := s.cache.Get(ctx, key)
	if err != nil || b == nil {
		return nil
	}
	var quote model.DailyQuote
	if unmarshalErr := json.Unmarshal(b, &quote); unmarshalErr != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "discarding malformed cached quote", "key", key, "error", unmarshalErr)
		}
		return nil
	}
	return &quote
}

func (s *QuoteService) setCached(ctx context.Context, key string, quote *model.DailyQuote) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(quote)
	if err != nil {
		return
	}
	// Best-effort; a cache miss tomorrow is fine.
	if setErr := s.cache.Set(ctx, key, b, quoteCacheTTL); setErr != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "cache quote failed", "key", key, "error", setErr)
	}
}

func (s *QuoteService) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	_, _ = s.cache.Delete(ctx, key)
}
