package config

import "time"

// SSOConfig contains optional OIDC single sign-on configuration.
// SSO is enabled only when ClientID, ClientSecret, and DiscoveryURL are all set;
// password login remains available either way.
type SSOConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// Configured reports whether the required SSO fields are all present.
func (c SSOConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.DiscoveryURL != ""
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// SessionTTL is the lifetime of a login session. Sessions are extended
	// on each SSO login but never on reads.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"720h"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	// SSO configuration (optional).
	SSO SSOConfig `envPrefix:"SSO_"`

	// AdminGroup is the identity provider group granted the admin role on SSO login.
	AdminGroup string `env:"AUTH_ADMIN_GROUP"`

	// UserGroup is the identity provider group granted the user role on SSO login.
	// When both groups are empty, every SSO identity gets the user role.
	UserGroup string `env:"AUTH_USER_GROUP"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = time.Minute
	}
	// The hasher clamps the cost to the bcrypt range; only fix nonsense here.
	if a.BcryptCost < 0 {
		a.BcryptCost = 0
	}
}
