package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "philagro/backend/internal/domain/auth"
	"philagro/backend/internal/validation"

	"github.com/google/uuid"
)

// PasswordHasher produces password hashes for new profiles.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// SessionRevoker ends every live session of a user.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

// Service provides user profile management for administrative workflows.
type Service struct {
	repo    domain.UserRepository
	hasher  PasswordHasher
	revoker SessionRevoker
	nowFunc func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithSessionRevoker ends a user's sessions when the profile is deactivated,
// retyped or deleted.
func WithSessionRevoker(r SessionRevoker) Option {
	return func(s *Service) { s.revoker = r }
}

// NewService constructs a user service around the provided repository.
func NewService(repo domain.UserRepository, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		hasher:  hasher,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter captures supported filters for listing users.
type Filter struct {
	UserType string
	Status   string
}

// CreateInput defines the payload to create a new profile.
type CreateInput struct {
	Email    string `validate:"required,email"`
	Name     string
	Password string `validate:"required,min=8"`
	UserType string `validate:"required"`
	Status   string
}

// UpdateInput defines the payload to update a profile.
type UpdateInput struct {
	Email    *string
	Name     *string
	UserType *string
	Status   *string
}

// List returns users matching the supplied filter.
func (s *Service) List(ctx context.Context, filter Filter) ([]*domain.User, error) {
	domainFilter := domain.UserFilter{UserType: strings.TrimSpace(filter.UserType)}
	if domainFilter.UserType != "" {
		if _, err := ensureUserType(domainFilter.UserType); err != nil {
			return nil, err
		}
	}
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status, err := ensureStatus(raw)
		if err != nil {
			return nil, err
		}
		domainFilter.Status = status
	}

	users, err := s.repo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

// Get retrieves a single user by its identifier.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	id, err := ensureID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// Create persists a new profile with the provided details. Only an
// administrator may create a privileged profile.
func (s *Service) Create(ctx context.Context, actor *domain.Session, input CreateInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.UserType = strings.TrimSpace(input.UserType)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	userType, err := ensureUserType(input.UserType)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, domain.DeriveRole(userType)); err != nil {
		return nil, err
	}
	status := domain.StatusActive
	if strings.TrimSpace(input.Status) != "" {
		if status, err = ensureStatus(input.Status); err != nil {
			return nil, err
		}
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         strings.TrimSpace(input.Name),
		UserType:     userType,
		Status:       status,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Update modifies the persisted profile. A non-administrator can neither touch
// a privileged profile nor make a profile privileged. Retyping or deactivating
// a profile ends its live sessions.
func (s *Service) Update(ctx context.Context, actor *domain.Session, id string, input UpdateInput) (*domain.User, error) {
	id, err := ensureID(id)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, user.Role()); err != nil {
		return nil, err
	}
	previousEmail, previousRole, previousStatus := user.Email, user.Role(), user.Status

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if err := validation.Struct(struct {
			Email string `validate:"required,email"`
		}{email}); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.UserType != nil {
		userType, err := ensureUserType(*input.UserType)
		if err != nil {
			return nil, err
		}
		if err := authorize(actor, domain.DeriveRole(userType)); err != nil {
			return nil, err
		}
		user.UserType = userType
	}
	if input.Status != nil {
		status, err := ensureStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		user.Status = status
	}

	user.UpdatedAt = s.nowFunc().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Sessions carry the email and role, so changing either ends them.
	if user.Email != previousEmail || user.Role() != previousRole ||
		(previousStatus == domain.StatusActive && user.Status != domain.StatusActive) {
		if err := s.revoke(ctx, user.ID); err != nil {
			return nil, err
		}
	}
	return sanitizeUser(user), nil
}

// SetStatus activates or deactivates a profile.
func (s *Service) SetStatus(ctx context.Context, actor *domain.Session, id, status string) (*domain.User, error) {
	return s.Update(ctx, actor, id, UpdateInput{Status: &status})
}

// Delete removes the target profile and ends its live sessions.
func (s *Service) Delete(ctx context.Context, actor *domain.Session, id string) error {
	id, err := ensureID(id)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, user.Role()); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.revoke(ctx, id)
}

func (s *Service) revoke(ctx context.Context, userID string) error {
	if s.revoker == nil {
		return nil
	}
	if err := s.revoker.RevokeUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// authorize allows only administrators to manage profiles whose role holds
// every permission.
func authorize(actor *domain.Session, target domain.Role) error {
	if !domain.Privileged(target) {
		return nil
	}
	if actor == nil || actor.Role != domain.RoleAdministrator {
		return domain.ErrPrivilegedProfile
	}
	return nil
}

func ensureID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", domain.NewValidationError("id", "user id is required")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", domain.NewValidationError("id", "user id must be a valid UUID")
	}
	return parsed.String(), nil
}

// ensureUserType accepts free-text user types whose derived role is known to
// the permission catalog.
func ensureUserType(raw string) (string, error) {
	userType := strings.Join(strings.Fields(raw), " ")
	if userType == "" || !domain.DeriveRole(userType).Known() {
		return "", domain.ErrInvalidRole
	}
	return userType, nil
}

func ensureStatus(raw string) (domain.AccountStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return domain.StatusActive, nil
	case "inactive":
		return domain.StatusInactive, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}

func sanitizeUsers(items []*domain.User) []*domain.User {
	out := make([]*domain.User, 0, len(items))
	for _, item := range items {
		out = append(out, sanitizeUser(item))
	}
	return out
}
