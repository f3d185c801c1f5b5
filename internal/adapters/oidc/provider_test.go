package oidc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProvider_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  ProviderConfig
		want string
	}{
		{
			name: "missing client id",
			cfg: ProviderConfig{
				ClientSecret: "secret",
				RedirectURL:  "https://app.example.com/auth/callback",
				DiscoveryURL: "https://idp.example.com/.well-known/openid-configuration",
			},
			want: "client ID is required",
		},
		{
			name: "missing client secret",
			cfg: ProviderConfig{
				ClientID:     "client",
				RedirectURL:  "https://app.example.com/auth/callback",
				DiscoveryURL: "https://idp.example.com/.well-known/openid-configuration",
			},
			want: "client secret is required",
		},
		{
			name: "missing redirect url",
			cfg: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				DiscoveryURL: "https://idp.example.com/.well-known/openid-configuration",
			},
			want: "redirect URL is required",
		},
		{
			name: "missing discovery url",
			cfg: ProviderConfig{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "https://app.example.com/auth/callback",
			},
			want: "discovery URL is required",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewProvider(tc.cfg)
			assert.EqualError(t, err, tc.want)
		})
	}
}

func TestMapClaims(t *testing.T) {
	f := mapClaims(idTokenClaims{
		Sub:               "user-123",
		PreferredUsername: "ada",
		Email:             "ada@example.com",
		Groups:            []string{"neurozen-users"},
	})
	assert.Equal(t, "user-123", f.subject)
	assert.Equal(t, "ada", f.preferredUsername)
	assert.Equal(t, "ada@example.com", f.email)
	assert.Equal(t, []string{"neurozen-users"}, f.groups)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestGenerateRandomString_UniqueAndURLSafe(t *testing.T) {
	a, err := generateRandomString(32)
	assert.NoError(t, err)
	b, err := generateRandomString(32)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
