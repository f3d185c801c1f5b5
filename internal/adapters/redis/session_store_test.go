package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
	"github.com/neurozen/neurozen/internal/testutil"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	sess := domainauth.Session{
		ID:        "sess-abc",
		UserID:    "user-1",
		Username:  "ada",
		Email:     "ada@example.com",
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "sess-abc")
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Username, got.Username)
	assert.Equal(t, domainauth.RoleUser, got.Role)

	require.NoError(t, store.Delete(ctx, "sess-abc"))

	_, err = store.Get(ctx, "sess-abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionStore_RejectsExpired(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)

	err := store.Save(context.Background(), domainauth.Session{
		ID:        "sess-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.EqualError(t, err, "session is expired")
}

func TestSessionStore_EmptyID(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	store := NewSessionStore(client)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domainauth.Session{ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, ""))
}
