package session

import (
	"context"
	"testing"

	domain "philagro/backend/internal/domain/auth"
	"philagro/backend/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerRevokeUser(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	manager := NewManager(kv)

	login := func(contextID, userID, email string) {
		t.Helper()
		require.NoError(t, manager.Open(contextID).Save(ctx, domain.NewSession(userID, email, domain.RolePlanter)))
		require.NoError(t, manager.Track(ctx, userID, contextID))
	}
	login("laptop", "u1", "alice@example.com")
	login("phone", "u1", "alice@example.com")
	login("desk", "u2", "bob@example.com")
	require.NoError(t, manager.Track(ctx, "u1", "laptop"), "tracking twice is a no-op")

	require.NoError(t, manager.RevokeUser(ctx, "u1"))

	for _, contextID := range []string{"laptop", "phone"} {
		restored, err := manager.Open(contextID).Restore(ctx)
		require.NoError(t, err)
		assert.Nil(t, restored, contextID)
	}
	restored, err := manager.Open("desk").Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, "bob@example.com", restored.Email)

	_, err = kv.Get(ctx, userIndexKey("u1"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, manager.RevokeUser(ctx, "u1"), "revoking an untracked user succeeds")
	require.NoError(t, manager.RevokeUser(ctx, ""))
}

func TestManagerUntrack(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueStore()
	manager := NewManager(kv)

	require.NoError(t, manager.Open("a").Save(ctx, domain.NewSession("u1", "alice@example.com", domain.RolePlanter)))
	require.NoError(t, manager.Track(ctx, "u1", "a"))
	require.NoError(t, manager.Track(ctx, "u1", "b"))

	require.NoError(t, manager.Untrack(ctx, "u1", "a"))
	contexts, err := manager.contexts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, contexts)

	// An untracked context survives revocation.
	require.NoError(t, manager.RevokeUser(ctx, "u1"))
	restored, err := manager.Open("a").Restore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, restored)

	require.NoError(t, manager.Untrack(ctx, "u1", "b"))
	_, err = kv.Get(ctx, userIndexKey("u1"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}
