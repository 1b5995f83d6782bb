package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	domain "philagro/backend/internal/domain/auth"
)

// Fixed keys under which the identity is persisted. The display name and the
// permission set are derived on restore and never written.
const (
	keyID         = "userId"
	keyEmail      = "userEmail"
	keyRole       = "userRole"
	keyScopedKeys = "sessionKeys"
	scopedPrefix  = "data:"
)

// Store persists the identity of a single browser context. The in-memory
// session only changes after the matching write to the key-value store
// succeeded.
type Store struct {
	kv     domain.KeyValueStore
	prefix string

	mu      sync.Mutex
	current *domain.Session
}

// NewStore constructs a store writing keys under prefix.
func NewStore(kv domain.KeyValueStore, prefix string) *Store {
	return &Store{kv: kv, prefix: prefix}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Save persists the identity fields of sess and makes it the current session.
// Scoped data saved for a different email or role is dropped first. A failed
// write removes whatever part of the identity was already written.
func (s *Store) Save(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		return errors.New("session is required")
	}
	if sess.Email == "" || sess.Role == "" {
		return errors.New("session requires email and role")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevEmail, err := s.lookup(ctx, keyEmail)
	if err != nil {
		return err
	}
	prevRole, err := s.lookup(ctx, keyRole)
	if err != nil {
		return err
	}
	if prevEmail != sess.Email || prevRole != string(sess.Role) {
		if err := s.clearScoped(ctx); err != nil {
			return fmt.Errorf("drop scoped data: %w", err)
		}
	}

	writes := []struct{ key, value string }{
		{keyEmail, sess.Email},
		{keyRole, string(sess.Role)},
		{keyID, sess.ID},
	}
	for _, w := range writes {
		var err error
		if w.value == "" {
			err = s.kv.Remove(ctx, s.key(w.key))
		} else {
			err = s.kv.Set(ctx, s.key(w.key), w.value)
		}
		if err != nil {
			_ = s.removeIdentity(ctx)
			s.current = nil
			return fmt.Errorf("persist %s: %w", w.key, err)
		}
	}

	s.current = domain.NewSession(sess.ID, sess.Email, sess.Role)
	return nil
}

// Restore rebuilds the session from persisted fields. It returns nil when
// either the role or the email is missing.
func (s *Store) Restore(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, err := s.lookup(ctx, keyRole)
	if err != nil {
		return nil, err
	}
	email, err := s.lookup(ctx, keyEmail)
	if err != nil {
		return nil, err
	}
	if role == "" || email == "" {
		s.current = nil
		return nil, nil
	}
	id, err := s.lookup(ctx, keyID)
	if err != nil {
		return nil, err
	}

	s.current = domain.NewSession(id, email, domain.Role(role))
	return clone(s.current), nil
}

// Clear removes the identity and all session-scoped data. Clearing an empty
// store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.clearScoped(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.removeIdentity(ctx); err != nil {
		errs = append(errs, err)
	}

	s.current = nil
	return errors.Join(errs...)
}

// Current returns a copy of the in-memory session, or nil.
func (s *Store) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// SetScoped stores a value that lives as long as the session and is removed by Clear.
func (s *Store) SetScoped(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("scoped key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.scopedKeys(ctx)
	if err != nil {
		return err
	}
	if !contains(keys, key) {
		keys = append(keys, key)
		encoded, err := json.Marshal(keys)
		if err != nil {
			return err
		}
		if err := s.kv.Set(ctx, s.key(keyScopedKeys), string(encoded)); err != nil {
			return err
		}
	}
	return s.kv.Set(ctx, s.key(scopedPrefix+key), value)
}

// Scoped reads a session-scoped value.
func (s *Store) Scoped(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, err := s.kv.Get(ctx, s.key(scopedPrefix+key))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) lookup(ctx context.Context, name string) (string, error) {
	value, err := s.kv.Get(ctx, s.key(name))
	if errors.Is(err, domain.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return value, nil
}

func (s *Store) removeIdentity(ctx context.Context) error {
	var errs []error
	for _, k := range []string{keyID, keyEmail, keyRole} {
		if err := s.kv.Remove(ctx, s.key(k)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) clearScoped(ctx context.Context) error {
	var errs []error
	scoped, err := s.scopedKeys(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	for _, k := range scoped {
		if err := s.kv.Remove(ctx, s.key(scopedPrefix+k)); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.kv.Remove(ctx, s.key(keyScopedKeys)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Store) scopedKeys(ctx context.Context) ([]string, error) {
	raw, err := s.lookup(ctx, keyScopedKeys)
	if err != nil || raw == "" {
		return nil, err
	}
	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("decode scoped keys: %w", err)
	}
	return keys, nil
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}

func clone(sess *domain.Session) *domain.Session {
	if sess == nil {
		return nil
	}
	return domain.NewSession(sess.ID, sess.Email, sess.Role)
}
