package memory

import (
	"context"
	"testing"
	"time"

	domain "philagro/backend/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValueStore(t *testing.T) {
	ctx := context.Background()
	kv := NewKeyValueStore()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "role", "planter"))
	value, err := kv.Get(ctx, "role")
	require.NoError(t, err)
	assert.Equal(t, "planter", value)

	require.NoError(t, kv.Remove(ctx, "role"))
	require.NoError(t, kv.Remove(ctx, "role"))
	assert.Equal(t, 0, kv.Len())
}

func TestKeyValueStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	kv := NewKeyValueStore(WithTTL(time.Hour), WithClock(func() time.Time { return now }))

	require.NoError(t, kv.Set(ctx, "role", "planter"))
	require.NoError(t, kv.Set(ctx, "email", "a@example.com"))

	now = now.Add(45 * time.Minute)
	require.NoError(t, kv.Set(ctx, "role", "planter"), "a write refreshes the expiry")

	now = now.Add(30 * time.Minute)
	_, err := kv.Get(ctx, "email")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	value, err := kv.Get(ctx, "role")
	require.NoError(t, err)
	assert.Equal(t, "planter", value)
	assert.Equal(t, 1, kv.Len())

	// Writes sweep expired entries out of the map.
	require.NoError(t, kv.Set(ctx, "id", "u1"))
	assert.Len(t, kv.items, 2)

	now = now.Add(time.Hour)
	_, err = kv.Get(ctx, "role")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.Equal(t, 0, kv.Len())
}

func TestKeyValueStoreWithoutTTLKeepsKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	kv := NewKeyValueStore(WithClock(func() time.Time { return now }))

	require.NoError(t, kv.Set(ctx, "role", "planter"))
	now = now.Add(365 * 24 * time.Hour)
	value, err := kv.Get(ctx, "role")
	require.NoError(t, err)
	assert.Equal(t, "planter", value)
}
