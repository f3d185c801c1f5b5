package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neurozen/neurozen/internal/core"
	"github.com/neurozen/neurozen/internal/data"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/ports"
)

// DefaultSessionTTL bounds password-login sessions when no TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users    core.UserRepository
	Sessions ports.SessionStore
	Deps     AuthServiceDeps
}

// AuthServiceDeps holds the remaining auth collaborators. Provider and Roles
// are optional; when Provider is nil the SSO endpoints report ErrSSODisabled.
type AuthServiceDeps struct {
	Hasher     ports.PasswordHasher
	Provider   ports.SSOProvider
	Roles      ports.RoleMapper
	SessionTTL time.Duration
}

// AuthService orchestrates signup, password login, SSO login, and session
// lifecycle by coordinating the user repository, hasher, provider, role
// mapping, and session persistence.
type AuthService struct {
	users      core.UserRepository
	sessions   ports.SessionStore
	hasher     ports.PasswordHasher
	provider   ports.SSOProvider
	roles      ports.RoleMapper
	sessionTTL time.Duration
}

var (
	errSessionExpired = errors.New("session expired")

	// ErrInvalidCredentials is returned for a bad username or password. The
	// two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSSODisabled is returned when no SSO provider is configured.
	ErrSSODisabled = errors.New("sso login is not configured")
)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Sessions == nil {
		panic("SessionStore is required")
	}
	if opts.Deps.Hasher == nil {
		panic("PasswordHasher is required")
	}
	ttl := opts.Deps.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		users:      opts.Users,
		sessions:   opts.Sessions,
		hasher:     opts.Deps.Hasher,
		provider:   opts.Deps.Provider,
		roles:      opts.Deps.Roles,
		sessionTTL: ttl,
	}
}

// SSOEnabled reports whether an SSO provider is configured.
func (s *AuthService) SSOEnabled() bool { return s.provider != nil }

// Signup registers a local account and opens a session for it.
func (s *AuthService) Signup(ctx context.Context, req *model.CreateUserRequest) (*model.User, *domainauth.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate request: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req, hash)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(ctx, user, domainauth.Role(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Login verifies a username/password pair and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domainauth.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, data.ErrUserNotFound) {
		// Allow signing in with the email address too.
		user, err = s.users.GetByEmail(ctx, strings.ToLower(username))
	}
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if user.PasswordHash == "" {
		// SSO-provisioned accounts have no local password.
		return nil, ErrInvalidCredentials
	}
	if compareErr := s.hasher.Compare(user.PasswordHash, password); compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user, domainauth.Role(user.Role))
}

// BeginLoginResult contains the result of beginning an SSO flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO initiates the SSO flow and returns the provider auth URL with state and nonce.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO completes the SSO flow by exchanging the code for an identity,
// provisioning a local account on first login, mapping roles, and persisting
// a session.
func (s *AuthService) CompleteSSO(ctx context.Context, input CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	user, err := s.provisionSSOUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	role := domainauth.RoleUser
	if s.roles != nil {
		role = s.roles.Map(identity.Groups)
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      role,
		ExpiresAt: identity.ExpiresAt,
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = time.Now().Add(s.sessionTTL)
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &session, nil
}

// GetSession retrieves a session by ID, deleting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func (s *AuthService) openSession(ctx context.Context, user *model.User, role domainauth.Role) (*domainauth.Session, error) {
	if !role.Valid() {
		role = domainauth.RoleUser
	}
	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      role,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session, nil
}

// provisionSSOUser finds the local account matching the identity, creating
// one with an empty password hash on first SSO login.
func (s *AuthService) provisionSSOUser(ctx context.Context, identity domainauth.Identity) (*model.User, error) {
	if identity.Email != "" {
		user, err := s.users.GetByEmail(ctx, strings.ToLower(identity.Email))
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, data.ErrUserNotFound) {
			return nil, fmt.Errorf("look up user: %w", err)
		}
	}

	username := identity.Username
	if username == "" {
		username = identity.UserID
	}
	email := identity.Email
	if email == "" {
		email = username + "@sso.invalid"
	}

	user, err := s.users.Create(ctx, &model.CreateUserRequest{Username: username, Email: email}, "")
	if err != nil {
		if errors.Is(err, data.ErrUsernameExists) {
			// Concurrent first login or a username collision with a local
			// account; fall back to the existing record.
			return s.users.GetByUsername(ctx, username)
		}
		return nil, fmt.Errorf("provision user: %w", err)
	}
	return user, nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	// Use UUID for session ID - it's URL-safe and has good entropy
	id := uuid.New()
	return id.String()
}
