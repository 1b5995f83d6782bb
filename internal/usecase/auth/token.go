package auth

import (
	"context"

	domain "philagro/backend/internal/domain/auth"
)

// TokenManager abstracts issuing and verifying the browser context token.
type TokenManager interface {
	Generate(contextID string) (string, error)
	Validate(token string) (string, error)
}

// SessionStore is the session persistence the service writes to on login and logout.
type SessionStore interface {
	Save(ctx context.Context, sess *domain.Session) error
	Clear(ctx context.Context) error
}
