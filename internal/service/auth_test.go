package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/neurozen/neurozen/internal/data"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/mocks"
	authmocks "github.com/neurozen/neurozen/internal/mocks/auth"
	"github.com/neurozen/neurozen/internal/ports"
)

func newAuthService(t *testing.T, provider ports.SSOProvider) (*mocks.MockUserRepository, *authmocks.MemorySessionStore, *AuthService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := mocks.NewMockUserRepository(ctrl)
	sessions := authmocks.NewMemorySessionStore()

	service := NewAuthService(AuthServiceOptions{
		Users:    users,
		Sessions: sessions,
		Deps: AuthServiceDeps{
			Hasher:     authmocks.PlainPasswordHasher{},
			Provider:   provider,
			Roles:      authmocks.StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"},
			SessionTTL: time.Hour,
		},
	})

	return users, sessions, service
}

func TestAuthService_Signup_Success(t *testing.T) {
	t.Parallel()
	users, sessions, service := newAuthService(t, nil)
	ctx := context.Background()

	req := &model.CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse",
	}

	created := &model.User{
		ID:       "user-1",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     "user",
	}

	users.EXPECT().
		Create(ctx, req, "plain:correct-horse").
		Return(created, nil).
		Times(1)

	user, session, err := service.Signup(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, created, user)
	require.NotNil(t, session)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, domainauth.RoleUser, session.Role)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	// The session must be retrievable by its ID.
	stored, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, *session, stored)
}

func TestAuthService_Signup_InvalidRequest(t *testing.T) {
	t.Parallel()
	_, _, service := newAuthService(t, nil)

	_, _, err := service.Signup(context.Background(), &model.CreateUserRequest{
		Username: "al",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()
	users, _, service := newAuthService(t, nil)
	ctx := context.Background()

	users.EXPECT().
		GetByUsername(ctx, "alice").
		Return(&model.User{
			ID:           "user-1",
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: "plain:correct-horse",
			Role:         "user",
		}, nil).
		Times(1)

	session, err := service.Login(ctx, "alice", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, domainauth.RoleUser, session.Role)
}

func TestAuthService_Login_FallsBackToEmail(t *testing.T) {
	t.Parallel()
	users, _, service := newAuthService(t, nil)
	ctx := context.Background()

	users.EXPECT().
		GetByUsername(ctx, "Alice@Example.com").
		Return(nil, data.ErrUserNotFound).
		Times(1)
	users.EXPECT().
		GetByEmail(ctx, "alice@example.com").
		Return(&model.User{
			ID:           "user-1",
			Username:     "alice",
			PasswordHash: "plain:correct-horse",
			Role:         "user",
		}, nil).
		Times(1)

	session, err := service.Login(ctx, "Alice@Example.com", "correct-horse")

	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	t.Parallel()
	users, _, service := newAuthService(t, nil)
	ctx := context.Background()

	users.EXPECT().
		GetByUsername(ctx, "alice").
		Return(&model.User{ID: "user-1", PasswordHash: "plain:correct-horse"}, nil).
		Times(1)

	_, err := service.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	t.Parallel()
	users, _, service := newAuthService(t, nil)
	ctx := context.Background()

	users.EXPECT().GetByUsername(ctx, "ghost").Return(nil, data.ErrUserNotFound).Times(1)
	users.EXPECT().GetByEmail(ctx, "ghost").Return(nil, data.ErrUserNotFound).Times(1)

	_, err := service.Login(ctx, "ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_SSOAccountHasNoPassword(t *testing.T) {
	t.Parallel()
	users, _, service := newAuthService(t, nil)
	ctx := context.Background()

	users.EXPECT().
		GetByUsername(ctx, "ssouser").
		Return(&model.User{ID: "user-2", PasswordHash: ""}, nil).
		Times(1)

	_, err := service.Login(ctx, "ssouser", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_BeginSSO(t *testing.T) {
	t.Parallel()
	_, _, service := newAuthService(t, authmocks.NewMockSSOProvider())

	result, err := service.BeginSSO(context.Background(), "http://localhost:8080/auth/callback")

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
	assert.Equal(t, "nonce-1", result.Nonce)
}

func TestAuthService_BeginSSO_Disabled(t *testing.T) {
	t.Parallel()
	_, _, service := newAuthService(t, nil)

	_, err := service.BeginSSO(context.Background(), "http://localhost:8080/auth/callback")
	assert.ErrorIs(t, err, ErrSSODisabled)
	assert.False(t, service.SSOEnabled())
}

func TestAuthService_CompleteSSO_ExistingUser(t *testing.T) {
	t.Parallel()
	provider := authmocks.NewMockSSOProvider()
	provider.DefaultIdentity = domainauth.Identity{
		UserID:   "idp-1",
		Username: "alice",
		Email:    "Alice@Example.com",
		Groups:   []string{"admins"},
	}
	users, _, service := newAuthService(t, provider)
	ctx := context.Background()

	users.EXPECT().
		GetByEmail(ctx, "alice@example.com").
		Return(&model.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}, nil).
		Times(1)

	session, err := service.CompleteSSO(ctx, CompleteLoginInput{Code: "code", State: "s", Nonce: "n"})

	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, domainauth.RoleAdmin, session.Role)
}

func TestAuthService_CompleteSSO_ProvisionsNewUser(t *testing.T) {
	t.Parallel()
	provider := authmocks.NewMockSSOProvider()
	provider.DefaultIdentity = domainauth.Identity{
		UserID:   "idp-2",
		Username: "newcomer",
		Email:    "new@example.com",
		Groups:   []string{"users"},
	}
	users, _, service := newAuthService(t, provider)
	ctx := context.Background()

	users.EXPECT().GetByEmail(ctx, "new@example.com").Return(nil, data.ErrUserNotFound).Times(1)
	users.EXPECT().
		Create(ctx, &model.CreateUserRequest{Username: "newcomer", Email: "new@example.com"}, "").
		Return(&model.User{ID: "user-9", Username: "newcomer", Email: "new@example.com"}, nil).
		Times(1)

	session, err := service.CompleteSSO(ctx, CompleteLoginInput{Code: "code", State: "s", Nonce: "n"})

	require.NoError(t, err)
	assert.Equal(t, "user-9", session.UserID)
	assert.Equal(t, domainauth.RoleUser, session.Role)
}

func TestAuthService_CompleteSSO_MissingParams(t *testing.T) {
	t.Parallel()
	_, _, service := newAuthService(t, authmocks.NewMockSSOProvider())
	ctx := context.Background()

	cases := []struct {
		name  string
		input CompleteLoginInput
	}{
		{"missing code", CompleteLoginInput{State: "s", Nonce: "n"}},
		{"missing state", CompleteLoginInput{Code: "c", Nonce: "n"}},
		{"missing nonce", CompleteLoginInput{Code: "c", State: "s"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CompleteSSO(ctx, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	t.Parallel()
	_, sessions, service := newAuthService(t, nil)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, domainauth.Session{
		ID:        "stale",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	_, err := service.GetSession(ctx, "stale")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")

	// Expired sessions are removed on read.
	_, err = sessions.Get(ctx, "stale")
	assert.True(t, errors.Is(err, authmocks.ErrNotFound))
}

func TestAuthService_Logout(t *testing.T) {
	t.Parallel()
	_, sessions, service := newAuthService(t, nil)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, service.Logout(ctx, "sess-1"))
	_, err := sessions.Get(ctx, "sess-1")
	assert.Error(t, err)

	// Blank session ID is a no-op.
	assert.NoError(t, service.Logout(ctx, ""))
}
