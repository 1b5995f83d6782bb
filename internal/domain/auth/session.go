package auth

import (
	"encoding/json"
	"strings"
)

// Session is the authenticated identity of one browser context. Name and
// Permissions are derived from Email and Role and are never persisted.
type Session struct {
	ID          string
	Email       string
	Role        Role
	Name        string
	Permissions PermissionSet
}

// NewSession builds a session, deriving the display name and materialising the
// role's permissions.
func NewSession(id, email string, role Role) *Session {
	return &Session{
		ID:          id,
		Email:       email,
		Role:        role,
		Name:        DisplayName(email),
		Permissions: ResolvePermissions(role),
	}
}

// Can reports whether the session satisfies permission p.
func (s *Session) Can(p Permission) bool {
	if s == nil {
		return false
	}
	return s.Permissions.Allows(p)
}

// MarshalJSON renders the permissions as a sorted list.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          string       `json:"id"`
		Email       string       `json:"email"`
		Role        Role         `json:"role"`
		Name        string       `json:"name"`
		Permissions []Permission `json:"permissions"`
	}{
		ID:          s.ID,
		Email:       s.Email,
		Role:        s.Role,
		Name:        s.Name,
		Permissions: s.Permissions.Slice(),
	})
}

// DisplayName returns the local part of an email address.
func DisplayName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}
	return local
}
