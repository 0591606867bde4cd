package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// DefaultRedisPrefix namespaces token keys.
const DefaultRedisPrefix = "roleconn:token:"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr     string
	Password string
	DB       int

	// KeyPrefix is the prefix for all token keys
	KeyPrefix string

	// TTL expires idle entries; zero keeps them until deleted.
	TTL time.Duration
}

// Redis is a Store backed by Redis string keys holding JSON tokens.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Store = (*Redis)(nil)

// NewRedis dials Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tokenstore: redis ping: %w", err)
	}
	return NewRedisFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client, keyPrefix string, ttl time.Duration) *Redis {
	if keyPrefix == "" {
		keyPrefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: keyPrefix, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, userID string) (oauth.Token, error) {
	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return oauth.Token{}, ErrNotFound
	}
	if err != nil {
		return oauth.Token{}, fmt.Errorf("tokenstore: redis get %s: %w", userID, err)
	}

	var token oauth.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return oauth.Token{}, fmt.Errorf("tokenstore: decode %s: %w", userID, err)
	}
	return token, nil
}

func (r *Redis) Put(ctx context.Context, userID string, token oauth.Token) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("tokenstore: encode %s: %w", userID, err)
	}
	if err := r.client.Set(ctx, r.key(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("tokenstore: redis set %s: %w", userID, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, userID string) error {
	n, err := r.client.Del(ctx, r.key(userID)).Result()
	if err != nil {
		return fmt.Errorf("tokenstore: redis del %s: %w", userID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(userID string) string {
	return r.prefix + userID
}
