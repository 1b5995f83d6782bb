package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	domain "philagro/backend/internal/domain/auth"

	"github.com/google/uuid"
)

// Manager hands out stores for individual browser contexts sharing one
// key-value backend. It also indexes which contexts belong to which user so a
// profile change can end them.
type Manager struct {
	kv domain.KeyValueStore
	mu sync.Mutex
}

// NewManager constructs a manager over kv.
func NewManager(kv domain.KeyValueStore) *Manager {
	return &Manager{kv: kv}
}

// NewContextID returns a fresh browser context identifier.
func (m *Manager) NewContextID() string {
	return uuid.NewString()
}

// Open returns the store for contextID. The returned store starts empty in
// memory; call Restore to load the persisted identity.
func (m *Manager) Open(contextID string) *Store {
	return NewStore(m.kv, "session:"+contextID+":")
}

// Track records that contextID holds a session of userID.
func (m *Manager) Track(ctx context.Context, userID, contextID string) error {
	if userID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contexts, err := m.contexts(ctx, userID)
	if err != nil {
		return err
	}
	if contains(contexts, contextID) {
		return nil
	}
	return m.writeContexts(ctx, userID, append(contexts, contextID))
}

// Untrack forgets contextID for userID, typically after logout.
func (m *Manager) Untrack(ctx context.Context, userID, contextID string) error {
	if userID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contexts, err := m.contexts(ctx, userID)
	if err != nil {
		return err
	}
	kept := contexts[:0]
	for _, c := range contexts {
		if c != contextID {
			kept = append(kept, c)
		}
	}
	return m.writeContexts(ctx, userID, kept)
}

// RevokeUser clears every tracked session of userID.
func (m *Manager) RevokeUser(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	contexts, err := m.contexts(ctx, userID)
	if err != nil {
		return err
	}
	var errs []error
	for _, contextID := range contexts {
		if err := m.Open(contextID).Clear(ctx); err != nil {
			errs = append(errs, fmt.Errorf("clear context %s: %w", contextID, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return m.kv.Remove(ctx, userIndexKey(userID))
}

func (m *Manager) contexts(ctx context.Context, userID string) ([]string, error) {
	raw, err := m.kv.Get(ctx, userIndexKey(userID))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session index: %w", err)
	}
	var contexts []string
	if err := json.Unmarshal([]byte(raw), &contexts); err != nil {
		return nil, fmt.Errorf("decode session index: %w", err)
	}
	return contexts, nil
}

func (m *Manager) writeContexts(ctx context.Context, userID string, contexts []string) error {
	if len(contexts) == 0 {
		return m.kv.Remove(ctx, userIndexKey(userID))
	}
	encoded, err := json.Marshal(contexts)
	if err != nil {
		return err
	}
	return m.kv.Set(ctx, userIndexKey(userID), string(encoded))
}

func userIndexKey(userID string) string {
	return "user:" + userID + ":contexts"
}
