package redisstore

import (
	"context"
	"errors"
	"time"

	domain "philagro/backend/internal/domain/auth"

	"github.com/redis/go-redis/v9"
)

// KeyValueStore persists session keys in Redis. Every write refreshes the
// key's expiry so idle browser contexts age out.
type KeyValueStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// New connects to the Redis instance described by url and verifies it responds.
func New(ctx context.Context, url, keyPrefix string, ttl time.Duration) (*KeyValueStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewWithClient(client, keyPrefix, ttl), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, keyPrefix string, ttl time.Duration) *KeyValueStore {
	return &KeyValueStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

var _ domain.KeyValueStore = (*KeyValueStore)(nil)

// Get returns the value stored at key or domain.ErrKeyNotFound.
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes value at key with the configured expiry.
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.keyPrefix+key, value, s.ttl).Err()
}

// Remove deletes key. Deleting a missing key succeeds.
func (s *KeyValueStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.keyPrefix+key).Err()
}

// Close releases the underlying connection pool.
func (s *KeyValueStore) Close() error {
	return s.client.Close()
}
