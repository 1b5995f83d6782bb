package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials indicates a login failure. It is returned both for an
	// unknown email and for a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDisabled indicates the credentials were correct but the account is not active.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrEmailExists signals a duplicate email registration.
	ErrEmailExists = errors.New("email already registered")
	// ErrTokenInvalid means a supplied session token cannot be validated.
	ErrTokenInvalid = errors.New("token invalid or expired")
	// ErrUserNotFound indicates missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidRole indicates the provided user type does not map to a known role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidStatus indicates an unsupported account status.
	ErrInvalidStatus = errors.New("invalid account status")
	// ErrPasswordMismatch indicates the current password is incorrect.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrPasswordUnchanged indicates the new password matches the current one.
	ErrPasswordUnchanged = errors.New("new password must be different from current password")
	// ErrPrivilegedProfile indicates a non-administrator tried to create, change
	// or remove a profile whose role holds every permission.
	ErrPrivilegedProfile = errors.New("only an administrator may manage privileged profiles")
)

// AccountStatus is the activation state of a credential record.
type AccountStatus string

const (
	StatusActive   AccountStatus = "Active"
	StatusInactive AccountStatus = "Inactive"
)

// Valid reports whether the status is one of the supported values.
func (s AccountStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// User models the credential record persisted in the user profile store.
// UserType is free text ("Association Member") and is the source of the role.
type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	UserType     string        `json:"userType"`
	Status       AccountStatus `json:"status"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Role returns the role derived from the user's type.
func (u *User) Role() Role {
	return DeriveRole(u.UserType)
}

// Credentials captures raw credential input for login. RequestedRole is the role
// picked in the login form; it is informational only.
type Credentials struct {
	Email         string `validate:"required,email"`
	Password      string `validate:"required"`
	RequestedRole string
}
