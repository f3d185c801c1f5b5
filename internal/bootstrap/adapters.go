package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/neurozen/neurozen/config"
	"github.com/neurozen/neurozen/internal/service"
)

// QuoteFeedRunnerConfig contains configuration for the quote feed importer.
type QuoteFeedRunnerConfig struct {
	Service  *service.QuoteFeedService
	Interval time.Duration
	Logger   *slog.Logger
}

// RunQuoteFeed refreshes the quote of the day on an interval until the
// context is canceled. Feed failures are logged and retried on the next
// tick; the dashboard falls back to the most recent stored quote meanwhile.
func RunQuoteFeed(ctx context.Context, cfg QuoteFeedRunnerConfig) error {
	if cfg.Service == nil {
		return errors.New("quote feed service is required")
	}

	interval := cfg.Interval
	if interval < time.Minute {
		interval = time.Minute
	}

	refresh := func() {
		if _, err := cfg.Service.RefreshToday(ctx); err != nil && cfg.Logger != nil {
			cfg.Logger.WarnContext(ctx, "quote feed refresh failed", "error", err)
		}
	}

	// Refresh once at startup so a fresh install has a quote right away.
	refresh()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		}
	}
}

// BuildQuoteFeedService wires the quote feed importer, or nil when the feed
// URL is not configured.
func BuildQuoteFeedService(cfg config.QuoteFeedConfig, quotes *service.QuoteService, logger *slog.Logger) *service.QuoteFeedService {
	if cfg.URL == "" || quotes == nil {
		return nil
	}

	feed, err := service.NewQuoteFeedService(service.QuoteFeedServiceOptions{
		Quotes: quotes,
		Config: service.QuoteFeedConfig{
			URL:        cfg.URL,
			QuoteExpr:  cfg.QuoteExpr,
			AuthorExpr: cfg.AuthorExpr,
		},
		Deps: service.QuoteFeedServiceDeps{
			HTTPClient: &http.Client{Timeout: cfg.Timeout},
			Logger:     logger,
		},
	})
	if err != nil {
		if logger != nil {
			logger.Warn("quote feed disabled: invalid configuration", "error", err)
		}
		return nil
	}

	return feed
}
