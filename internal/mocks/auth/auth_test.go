package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/domain/model"
	"github.com/neurozen/neurozen/internal/ports"
)

func TestMockSSOProvider_Begin_Defaults(t *testing.T) {
	provider := NewMockSSOProvider()
	ctx := context.Background()

	input := ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"}
	authURL, state, nonce, err := provider.Begin(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "https://mock-idp/auth", authURL)
	assert.Equal(t, "state-1", state)
	assert.Equal(t, "nonce-1", nonce)

	// Second call should increment counters
	_, state2, nonce2, err2 := provider.Begin(ctx, input)
	require.NoError(t, err2)
	assert.Equal(t, "state-2", state2)
	assert.Equal(t, "nonce-2", nonce2)
}

func TestMockSSOProvider_Begin_CustomFunc(t *testing.T) {
	provider := &MockSSOProvider{
		BeginFunc: func(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
			return "custom-url", "custom-state", "custom-nonce", nil
		},
	}

	authURL, state, nonce, err := provider.Begin(context.Background(), ports.BeginInput{})

	require.NoError(t, err)
	assert.Equal(t, "custom-url", authURL)
	assert.Equal(t, "custom-state", state)
	assert.Equal(t, "custom-nonce", nonce)
}

func TestMockSSOProvider_Exchange_Defaults(t *testing.T) {
	provider := NewMockSSOProvider()

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{
		Code:  "auth-code",
		State: "state-1",
		Nonce: "nonce-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "mock-user-1", identity.UserID)
	assert.Equal(t, "mockuser", identity.Username)
	assert.Equal(t, "mock.user@example.com", identity.Email)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMockSSOProvider_Exchange_CustomIdentity(t *testing.T) {
	provider := NewMockSSOProvider()
	provider.DefaultIdentity = domainauth.Identity{
		UserID:   "custom-user",
		Username: "custom",
		Email:    "custom@example.com",
		Groups:   []string{"admins"},
	}

	identity, err := provider.Exchange(context.Background(), ports.ExchangeInput{Code: "c", State: "s", Nonce: "n"})

	require.NoError(t, err)
	assert.Equal(t, "custom-user", identity.UserID)
	assert.Equal(t, []string{"admins"}, identity.Groups)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}

func TestMemorySessionStore_RoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Username:  "alice",
		Email:     "alice@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err = store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySessionStore_EmptyID(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	err := store.Save(ctx, domainauth.Session{})
	require.Error(t, err)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a blank id is a no-op
	assert.NoError(t, store.Delete(ctx, ""))
}

func TestMemoryFlashStore_PushPopAll(t *testing.T) {
	store := NewMemoryFlashStore()
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "visitor-1", model.Flash{Category: model.FlashSuccess, Message: "saved"}))
	require.NoError(t, store.Push(ctx, "visitor-1", model.Flash{Category: model.FlashError, Message: "failed"}))
	require.NoError(t, store.Push(ctx, "visitor-2", model.Flash{Category: model.FlashInfo, Message: "other"}))

	flashes, err := store.PopAll(ctx, "visitor-1")
	require.NoError(t, err)
	require.Len(t, flashes, 2)
	assert.Equal(t, "saved", flashes[0].Message)
	assert.Equal(t, "failed", flashes[1].Message)

	// Pop drains the queue
	flashes, err = store.PopAll(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Empty(t, flashes)

	// Other owners are unaffected
	flashes, err = store.PopAll(ctx, "visitor-2")
	require.NoError(t, err)
	require.Len(t, flashes, 1)
	assert.Equal(t, model.FlashInfo, flashes[0].Category)
}

func TestMemoryFlashStore_Validation(t *testing.T) {
	store := NewMemoryFlashStore()
	ctx := context.Background()

	err := store.Push(ctx, "", model.Flash{Category: model.FlashInfo, Message: "m"})
	require.Error(t, err)

	err = store.Push(ctx, "visitor-1", model.Flash{Category: "shout", Message: "m"})
	require.Error(t, err)

	flashes, err := store.PopAll(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, flashes)
}

func TestStaticRoleMapper(t *testing.T) {
	mapper := StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}

	assert.Equal(t, domainauth.RoleAdmin, mapper.Map([]string{"users", "admins"}))
	assert.Equal(t, domainauth.RoleUser, mapper.Map([]string{"users"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map([]string{"visitors"}))
	assert.Equal(t, domainauth.RoleGuest, mapper.Map(nil))
}

func TestPlainPasswordHasher(t *testing.T) {
	hasher := PlainPasswordHasher{}

	hash, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "plain:s3cret", hash)

	assert.NoError(t, hasher.Compare(hash, "s3cret"))
	assert.Error(t, hasher.Compare(hash, "wrong"))

	_, err = hasher.Hash("")
	assert.Error(t, err)
}
