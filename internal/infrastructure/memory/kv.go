package memory

import (
	"context"
	"sync"
	"time"

	domain "philagro/backend/internal/domain/auth"
)

// KeyValueStore keeps session keys in process memory. State is lost on restart.
// With a TTL, every write refreshes the key's expiry the way the Redis store
// does, so idle browser contexts age out.
type KeyValueStore struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Option configures a KeyValueStore.
type Option func(*KeyValueStore)

// WithTTL expires keys ttl after their last write. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *KeyValueStore) {
		s.ttl = ttl
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *KeyValueStore) {
		s.now = now
	}
}

// NewKeyValueStore constructs an empty store.
func NewKeyValueStore(opts ...Option) *KeyValueStore {
	s := &KeyValueStore{items: make(map[string]entry), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.KeyValueStore = (*KeyValueStore)(nil)

// Get returns the value for key or domain.ErrKeyNotFound.
func (s *KeyValueStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[key]
	if !ok || e.expired(s.now()) {
		return "", domain.ErrKeyNotFound
	}
	return e.value, nil
}

// Set stores value under key and drops any keys that have expired.
func (s *KeyValueStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = now.Add(s.ttl)
		s.sweep(now)
	}
	s.items[key] = e
	return nil
}

// Remove deletes key.
func (s *KeyValueStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len reports how many live keys are stored.
func (s *KeyValueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	n := 0
	for _, e := range s.items {
		if !e.expired(now) {
			n++
		}
	}
	return n
}

func (s *KeyValueStore) sweep(now time.Time) {
	for k, e := range s.items {
		if e.expired(now) {
			delete(s.items, k)
		}
	}
}
