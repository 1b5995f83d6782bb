package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "philagro/backend/internal/domain/auth"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setCall struct {
	key   string
	value any
	ttl   time.Duration
}

// stubClient answers the handful of commands the store issues from an
// in-memory map. Any other command panics through the nil embedded client.
type stubClient struct {
	redis.UniversalClient

	values  map[string]string
	sets    []setCall
	deleted []string
	err     error
	closed  bool
}

func newStubClient() *stubClient {
	return &stubClient{values: make(map[string]string)}
}

func (c *stubClient) Get(_ context.Context, key string) *redis.StringCmd {
	if c.err != nil {
		return redis.NewStringResult("", c.err)
	}
	value, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (c *stubClient) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	c.sets = append(c.sets, setCall{key: key, value: value, ttl: ttl})
	if c.err != nil {
		return redis.NewStatusResult("", c.err)
	}
	c.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (c *stubClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if c.err != nil {
		return redis.NewIntResult(0, c.err)
	}
	var n int64
	for _, key := range keys {
		c.deleted = append(c.deleted, key)
		if _, ok := c.values[key]; ok {
			delete(c.values, key)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (c *stubClient) Close() error {
	c.closed = true
	return nil
}

func TestKeyValueStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newStubClient()
	kv := NewWithClient(client, "philagro:", 12*time.Hour)

	_, err := kv.Get(ctx, "session:abc:userRole")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "session:abc:userRole", "planter"))
	require.Len(t, client.sets, 1)
	assert.Equal(t, setCall{key: "philagro:session:abc:userRole", value: "planter", ttl: 12 * time.Hour}, client.sets[0])

	value, err := kv.Get(ctx, "session:abc:userRole")
	require.NoError(t, err)
	assert.Equal(t, "planter", value)

	require.NoError(t, kv.Remove(ctx, "session:abc:userRole"))
	require.NoError(t, kv.Remove(ctx, "session:abc:userRole"), "removing a missing key succeeds")
	assert.Equal(t, []string{"philagro:session:abc:userRole", "philagro:session:abc:userRole"}, client.deleted)

	_, err = kv.Get(ctx, "session:abc:userRole")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Close())
	assert.True(t, client.closed)
}

func TestKeyValueStoreWithoutPrefix(t *testing.T) {
	ctx := context.Background()
	client := newStubClient()
	kv := NewWithClient(client, "", 0)

	require.NoError(t, kv.Set(ctx, "userEmail", "a@example.com"))
	assert.Equal(t, "a@example.com", client.values["userEmail"])
	assert.Zero(t, client.sets[0].ttl)
}

func TestKeyValueStorePropagatesErrors(t *testing.T) {
	ctx := context.Background()
	client := newStubClient()
	client.err = errors.New("connection reset")
	kv := NewWithClient(client, "philagro:", time.Hour)

	_, err := kv.Get(ctx, "userRole")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
	assert.EqualError(t, kv.Set(ctx, "userRole", "planter"), "connection reset")
	assert.EqualError(t, kv.Remove(ctx, "userRole"), "connection reset")
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), "not-a-redis-url", "philagro:", time.Hour)
	assert.Error(t, err)
}

func TestNewFailsWhenUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := New(ctx, "redis://127.0.0.1:1/0", "philagro:", time.Hour)
	assert.Error(t, err)
}
