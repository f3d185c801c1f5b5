package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
		},
		{
			name:  "single service - quote-feed",
			input: "quote-feed",
			expected: map[ServiceMode]bool{
				ServiceModeQuoteFeed: true,
			},
		},
		{
			name:  "both services",
			input: "http,quote-feed",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:      true,
				ServiceModeQuoteFeed: true,
			},
		},
		{
			name:  "services with spaces",
			input: " http , quote-feed ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:      true,
				ServiceModeQuoteFeed: true,
			},
		},
		{
			name:  "duplicate services",
			input: "http,http,quote-feed",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:      true,
				ServiceModeQuoteFeed: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only separators",
			input:       " , , ",
			expectError: true,
		},
		{
			name:        "invalid service",
			input:       "http,mailer",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("ParseServices(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseServices(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("ParseServices(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAppConfigDefaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("env.Parse() error: %v", err)
	}
	cfg.Sanitize()

	if cfg.Services != "http,quote-feed" {
		t.Fatalf("default services = %q, want %q", cfg.Services, "http,quote-feed")
	}
	if !cfg.IsHTTPServerEnabled() {
		t.Fatal("expected http server enabled by default")
	}
	if !cfg.IsQuoteFeedEnabled() {
		t.Fatal("expected quote feed enabled by default")
	}
	if cfg.Postgres.Name != "neurozen" {
		t.Fatalf("default db name = %q, want %q", cfg.Postgres.Name, "neurozen")
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("default http addr = %q, want %q", cfg.HTTP.Addr, ":8080")
	}
	if cfg.Auth.SessionTTL != 720*time.Hour {
		t.Fatalf("default session ttl = %v, want %v", cfg.Auth.SessionTTL, 720*time.Hour)
	}
	if cfg.QuoteFeed.QuoteExpr != "[0].q" {
		t.Fatalf("default quote expr = %q, want %q", cfg.QuoteFeed.QuoteExpr, "[0].q")
	}
}

func TestAppConfigDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{Services: "http"}
	cfg.Sanitize()

	if !cfg.IsDev {
		t.Fatal("expected NODE_ENV=development to enable dev mode")
	}
}

func TestHTTPConfigSanitizeClampsCompressionLevel(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  int
	}{
		{name: "too low", level: 0, want: 1},
		{name: "too high", level: 42, want: 9},
		{name: "in range", level: 6, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := HTTPConfig{CompressionLevel: tt.level}
			cfg.Sanitize()
			if cfg.CompressionLevel != tt.want {
				t.Fatalf("CompressionLevel = %d, want %d", cfg.CompressionLevel, tt.want)
			}
		})
	}
}

func TestAuthConfigSanitize(t *testing.T) {
	cfg := AuthConfig{SessionTTL: -1, BcryptCost: -3}
	cfg.Sanitize()

	if cfg.SessionTTL != time.Minute {
		t.Fatalf("SessionTTL = %v, want %v", cfg.SessionTTL, time.Minute)
	}
	if cfg.BcryptCost != 0 {
		t.Fatalf("BcryptCost = %d, want 0", cfg.BcryptCost)
	}
}

func TestQuoteFeedConfigSanitize(t *testing.T) {
	cfg := QuoteFeedConfig{RefreshInterval: time.Second, Timeout: 0}
	cfg.Sanitize()

	if cfg.RefreshInterval != time.Minute {
		t.Fatalf("RefreshInterval = %v, want %v", cfg.RefreshInterval, time.Minute)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("Timeout = %v, want %v", cfg.Timeout, 10*time.Second)
	}
}

func TestSSOConfigConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  SSOConfig
		want bool
	}{
		{
			name: "fully configured",
			cfg: SSOConfig{
				ClientID:     "neurozen",
				ClientSecret: "secret",
				DiscoveryURL: "https://issuer.example.com",
			},
			want: true,
		},
		{name: "empty", cfg: SSOConfig{}, want: false},
		{
			name: "missing discovery url",
			cfg:  SSOConfig{ClientID: "neurozen", ClientSecret: "secret"},
			want: false,
		},
		{
			name: "missing client secret",
			cfg:  SSOConfig{ClientID: "neurozen", DiscoveryURL: "https://issuer.example.com"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Fatalf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
