package tokenstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr, client
}

func TestRedisStore(t *testing.T) {
	_, client := setupRedis(t)
	exerciseStore(t, NewRedisFromClient(client, "", 0))
}

func TestRedisStoreUsesPrefixAndTTL(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisFromClient(client, "test:tokens:", time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "user-1", sampleToken("a1")))
	assert.True(t, mr.Exists("test:tokens:user-1"))
	assert.Equal(t, time.Hour, mr.TTL("test:tokens:user-1"))

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRejectsCorruptEntries(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisFromClient(client, "", 0)

	require.NoError(t, mr.Set(DefaultRedisPrefix+"user-1", "{not json"))
	_, err := store.Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	mr.Close()
	_, err = NewRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}
