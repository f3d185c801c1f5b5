package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// feedMaxBody caps how much of a feed response is read.
const feedMaxBody = 1 << 20

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// QuoteFeedConfig describes an external JSON quote feed. QuoteExpr and
// AuthorExpr are JMESPath expressions applied to the decoded response, e.g.
// "[0].q" and "[0].a" for the zenquotes.io shape.
type QuoteFeedConfig struct {
	URL        string
	QuoteExpr  string
	AuthorExpr string
}

// QuoteFeedServiceOptions groups dependencies for QuoteFeedService.
type QuoteFeedServiceOptions struct {
	Quotes *QuoteService
	Config QuoteFeedConfig
	Deps   QuoteFeedServiceDeps
}

// QuoteFeedServiceDeps holds optional collaborators for QuoteFeedService.
type QuoteFeedServiceDeps struct {
	HTTPClient *http.Client
	Evaluator  JMESPathEvaluator
	Time       data.TimeProvider
	Logger     *slog.Logger
}

// QuoteFeedService pulls the quote of the day from an external JSON feed and
// schedules it locally, so the dashboard keeps working when the feed is down.
type QuoteFeedService struct {
	quotes *QuoteService
	cfg    QuoteFeedConfig
	client *http.Client
	jems   JMESPathEvaluator
	time   data.TimeProvider
	logger *slog.Logger
}

// NewQuoteFeedService constructs a new QuoteFeedService.
func NewQuoteFeedService(opts QuoteFeedServiceOptions) (*QuoteFeedService, error) {
	if opts.Quotes == nil {
		return nil, errors.New("QuoteService is required")
	}
	if err := validateFeedConfig(opts.Config, opts.Deps.Evaluator); err != nil {
		return nil, err
	}

	client := opts.Deps.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	jems := opts.Deps.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	tp := opts.Deps.Time
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	var logger *slog.Logger
	if opts.Deps.Logger != nil {
		logger = opts.Deps.Logger.With("component", "quote_feed")
	}

	return &QuoteFeedService{
		quotes: opts.Quotes,
		cfg:    opts.Config,
		client: client,
		jems:   jems,
		time:   tp,
		logger: logger,
	}, nil
}

// RefreshToday fetches the feed and schedules the result as today's quote.
// A quote already scheduled for today wins; the fetched one is discarded.
func (s *QuoteFeedService) RefreshToday(ctx context.Context) (*model.DailyQuote, error) {
	text, author, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.Schedule(ctx, &model.CreateDailyQuoteRequest{
		Quote:  text,
		Author: author,
		Date:   s.time.Now(),
	})
	if errors.Is(err, data.ErrQuoteDateExists) {
		if s.logger != nil {
			s.logger.DebugContext(ctx, "quote already scheduled for today, keeping it")
		}
		return s.quotes.Today(ctx)
	}
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "imported quote of the day", "author", author)
	}
	return quote, nil
}

// Fetch retrieves the feed and extracts the quote text and author.
func (s *QuoteFeedService) Fetch(ctx context.Context) (text, author string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch quote feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("quote feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, feedMaxBody))
	if err != nil {
		return "", "", fmt.Errorf("read feed body: %w", err)
	}

	var payload any
	if unmarshalErr := json.Unmarshal(body, &payload); unmarshalErr != nil {
		return "", "", fmt.Errorf("decode feed JSON: %w", unmarshalErr)
	}

	text, err = s.extractString(s.cfg.QuoteExpr, payload)
	if err != nil {
		return "", "", fmt.Errorf("extract quote: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", "", errors.New("feed produced an empty quote")
	}

	if s.cfg.AuthorExpr != "" {
		author, err = s.extractString(s.cfg.AuthorExpr, payload)
		if err != nil {
			return "", "", fmt.Errorf("extract author: %w", err)
		}
	}
	return strings.TrimSpace(text), strings.TrimSpace(author), nil
}

func (s *QuoteFeedService) extractString(expr string, payload any) (string, error) {
	res, err := s.jems.Evaluate(expr, payload)
	if err != nil {
		return "", err
	}
	str, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("expression %q did not produce a string", expr)
	}
	return str, nil
}

func validateFeedConfig(cfg QuoteFeedConfig, jems JMESPathEvaluator) error {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return fmt.Errorf("invalid feed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid feed URL scheme: %q", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return errors.New("invalid feed URL: missing host")
	}
	if strings.TrimSpace(cfg.QuoteExpr) == "" {
		return errors.New("quote expression is required")
	}
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	if err := jems.Validate(cfg.QuoteExpr); err != nil {
		return fmt.Errorf("invalid quote expression: %w", err)
	}
	if err := jems.Validate(cfg.AuthorExpr); err != nil {
		return fmt.Errorf("invalid author expression: %w", err)
	}
	return nil
}
