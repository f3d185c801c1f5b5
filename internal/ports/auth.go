package ports

// Package ports defines interfaces (hexagonal ports) for auth and session
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"

	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
)

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOProvider initiates and completes an authentication flow against an IdP.
// Local password login does not use it; it backs the optional "sign in with
// SSO" path only.
type SSOProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// FlashStore queues one-shot notices per visitor and pops them on render.
// The owner key is an opaque visitor id, so anonymous visitors (login and
// signup pages) can receive flashes too.
type FlashStore interface {
	Push(ctx context.Context, owner string, flash model.Flash) error
	// PopAll returns and removes all queued flashes for the owner, oldest first.
	PopAll(ctx context.Context, owner string) ([]model.Flash, error)
}

// PasswordHasher hashes and verifies login credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare returns nil when the password matches the stored hash.
	Compare(hash, password string) error
}

// RoleMapper maps provider groups to application roles for SSO logins.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
