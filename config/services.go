package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeQuoteFeed runs the quote of the day importer.
	ServiceModeQuoteFeed ServiceMode = "quote-feed"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeQuoteFeed,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeQuoteFeed:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, quote-feed)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// QuoteFeedConfig contains quote feed importer configuration. The defaults
// pull today's quote from zenquotes.io; QuoteExpr and AuthorExpr are JMESPath
// expressions applied to the decoded feed response.
type QuoteFeedConfig struct {
	// URL is the JSON feed endpoint.
	URL string `env:"QUOTE_FEED_URL" envDefault:"https://zenquotes.io/api/today"`

	// QuoteExpr extracts the quote text from the feed response.
	QuoteExpr string `env:"QUOTE_FEED_QUOTE_EXPR" envDefault:"[0].q"`

	// AuthorExpr extracts the author from the feed response. Optional.
	AuthorExpr string `env:"QUOTE_FEED_AUTHOR_EXPR" envDefault:"[0].a"`

	// RefreshInterval is how often the importer re-checks the feed.
	// A quote already scheduled for today always wins over a fetched one.
	RefreshInterval time.Duration `env:"QUOTE_FEED_REFRESH_INTERVAL" envDefault:"6h"`

	// Timeout bounds a single feed request.
	Timeout time.Duration `env:"QUOTE_FEED_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to quote feed configuration values.
func (q *QuoteFeedConfig) Sanitize() {
	// Enforce a minimum interval to avoid hammering the feed
	if q.RefreshInterval < time.Minute {
		q.RefreshInterval = time.Minute
	}
	if q.Timeout <= 0 {
		q.Timeout = 10 * time.Second
	}
}
