package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Expiry is set on every key as a backstop; the Manager still enforces its own TTL.
	Expiry time.Duration
}

// RedisStore implements Store on a Redis server, letting several hosts share
// generated timetables.
type RedisStore struct {
	client *redis.Client
	expiry time.Duration
}

// NewRedisStore connects to Redis and pings it with a short timeout.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	addr := opts.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, expiry: opts.Expiry}, nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, expiry time.Duration) *RedisStore {
	return &RedisStore{client: client, expiry: expiry}
}

// Get returns the value for key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return v, true, nil
}

// Set writes the value for key. Redis reports maxmemory exhaustion as an OOM error.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.expiry).Err(); err != nil {
		if isRedisOOM(err) {
			return fmt.Errorf("writing %s: %w", key, ErrQuotaExceeded)
		}
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key.
func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func isRedisOOM(err error) bool {
	return strings.HasPrefix(err.Error(), "OOM ")
}
