package service

import (
	"context"
	"net/http"
	"net/http/httptest"
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

// zenquotes.io response shape: a one-element array with q/a fields.
const zenFeedBody = `[{"q":"The obstacle is the way.","a":"Marcus Aurelius","h":"<blockquote>...</blockquote>"}]`

func newQuoteFeedService(t *testing.T, feedURL string) (*mocks.MockQuoteRepository, *QuoteFeedService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	quoteRepo := mocks.NewMockQuoteRepository(ctrl)
	quotes := NewQuoteService(QuoteServiceOptions{
		Quotes: quoteRepo,
		Deps:   QuoteServiceDeps{Time: data.NewFixedTimeProvider(testutil.TestTime())},
	})

	feed, err := NewQuoteFeedService(QuoteFeedServiceOptions{
		Quotes: quotes,
		Config: QuoteFeedConfig{
			URL:        feedURL,
			QuoteExpr:  "[0].q",
			AuthorExpr: "[0].a",
		},
		Deps: QuoteFeedServiceDeps{Time: data.NewFixedTimeProvider(testutil.TestTime())},
	})
	require.NoError(t, err)

	return quoteRepo, feed
}

func TestQuoteFeedService_Fetch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(zenFeedBody))
	}))
	t.Cleanup(srv.Close)

	_, feed := newQuoteFeedService(t, srv.URL)

	text, author, err := feed.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "The obstacle is the way.", text)
	assert.Equal(t, "Marcus Aurelius", author)
}

func TestQuoteFeedService_RefreshToday_SchedulesQuote(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(zenFeedBody))
	}))
	t.Cleanup(srv.Close)

	quoteRepo, feed := newQuoteFeedService(t, srv.URL)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	quoteRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, req *model.CreateDailyQuoteRequest) (*model.DailyQuote, error) {
			assert.Equal(t, "The obstacle is the way.", req.Quote)
			assert.Equal(t, "Marcus Aurelius", req.Author)
			assert.Equal(t, day, req.Date)
			return &model.DailyQuote{ID: "quote-1", Quote: req.Quote, Author: req.Author, Date: req.Date}, nil
		}).
		Times(1)

	quote, err := feed.RefreshToday(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Marcus Aurelius", quote.Author)
}

func TestQuoteFeedService_RefreshToday_KeepsExistingQuote(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(zenFeedBody))
	}))
	t.Cleanup(srv.Close)

	quoteRepo, feed := newQuoteFeedService(t, srv.URL)
	ctx := context.Background()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &model.DailyQuote{ID: "quote-0", Quote: "Already scheduled.", Date: day}

	quoteRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil, data.ErrQuoteDateExists).Times(1)
	quoteRepo.EXPECT().GetByDate(ctx, day).Return(existing, nil).Times(1)

	quote, err := feed.RefreshToday(ctx)

	require.NoError(t, err)
	assert.Equal(t, existing, quote)
}

func TestQuoteFeedService_Fetch_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "status 502",
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>down for maintenance</html>"))
			},
			wantMsg: "decode feed JSON",
		},
		{
			name: "wrong shape",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"message":"rate limited"}`))
			},
			wantMsg: "did not produce a string",
		},
		{
			name: "empty quote",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"q":"  ","a":"Nobody"}]`))
			},
			wantMsg: "empty quote",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			t.Cleanup(srv.Close)

			_, feed := newQuoteFeedService(t, srv.URL)

			_, _, err := feed.Fetch(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestNewQuoteFeedService_ConfigValidation(t *testing.T) {
	t.Parallel()

	quotes := &QuoteService{}

	cases := []struct {
		name string
		cfg  QuoteFeedConfig
	}{
		{"missing url", QuoteFeedConfig{QuoteExpr: "[0].q"}},
		{"bad scheme", QuoteFeedConfig{URL: "ftp://quotes.example", QuoteExpr: "[0].q"}},
		{"missing quote expr", QuoteFeedConfig{URL: "https://quotes.example/api"}},
		{"bad quote expr", QuoteFeedConfig{URL: "https://quotes.example/api", QuoteExpr: "[0]..q"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewQuoteFeedService(QuoteFeedServiceOptions{Quotes: quotes, Config: tc.cfg})
			assert.Error(t, err)
		})
	}
}
