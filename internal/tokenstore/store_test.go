package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

func sampleToken(access string) oauth.Token {
	return oauth.Token{
		AccessToken:  access,
		RefreshToken: "refresh-" + access,
		TokenType:    "Bearer",
		Scope:        "identify role_connections.write",
		ExpiresAt:    time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC),
	}
}

// exerciseStore runs the behavior every Store must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	first := sampleToken("a1")
	require.NoError(t, store.Put(ctx, "user-1", first))

	got, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.AccessToken, got.AccessToken)
	assert.Equal(t, first.RefreshToken, got.RefreshToken)
	assert.Equal(t, first.TokenType, got.TokenType)
	assert.Equal(t, first.Scope, got.Scope)
	assert.True(t, first.ExpiresAt.Equal(got.ExpiresAt), "expiry %s != %s", got.ExpiresAt, first.ExpiresAt)

	second := sampleToken("a2")
	require.NoError(t, store.Put(ctx, "user-1", second))
	got, err = store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)

	require.NoError(t, store.Put(ctx, "user-2", sampleToken("b1")))
	require.NoError(t, store.Delete(ctx, "user-1"))
	_, err = store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "user-1"), ErrNotFound)

	got, err = store.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "b1", got.AccessToken)

	assert.Error(t, store.Put(ctx, "", first))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemory()
	err := store.Put(ctx, "user-1", sampleToken("a1"))
	assert.True(t, errors.Is(err, context.Canceled))
}
