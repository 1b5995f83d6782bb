package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "philagro/backend/internal/domain/auth"
	"philagro/backend/internal/metrics"
	"philagro/backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured.
const DefaultBcryptCost = 12

// Service coordinates authentication workflows between domain and infrastructure.
type Service struct {
	users      domain.UserRepository
	tokens     TokenManager
	logger     *zap.Logger
	metrics    *metrics.Metrics
	bcryptCost int
	dummyHash  []byte
	nowFunc    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt work factor for new hashes and for the
// comparison performed on unknown emails.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithMetrics records login attempts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs an auth service.
func NewService(users domain.UserRepository, tokens TokenManager, logger *zap.Logger, opts ...Option) (*Service, error) {
	s := &Service{
		users:      users,
		tokens:     tokens,
		logger:     logger,
		bcryptCost: DefaultBcryptCost,
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Unknown emails are compared against this hash so a miss costs the same
	// as a wrong password.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	dummy, err := bcrypt.GenerateFromPassword(secret[:], s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	s.dummyHash = dummy
	return s, nil
}

// HashPassword hashes password with the configured cost.
func (s *Service) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates an active, unaffiliated profile. Affiliation is granted
// later by an administrator.
func (s *Service) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	input := struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}{
		Email:    strings.TrimSpace(strings.ToLower(email)),
		Password: password,
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Name:         strings.TrimSpace(name),
		UserType:     "Unaffiliated",
		Status:       domain.StatusActive,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Login verifies credentials, derives the role from the stored user type and
// persists the resulting session in store. The requested role is not
// authoritative.
func (s *Service) Login(ctx context.Context, store SessionStore, creds domain.Credentials) (*domain.Session, error) {
	creds.Email = strings.TrimSpace(strings.ToLower(creds.Email))
	if err := validation.Struct(creds); err != nil {
		s.metrics.ObserveLogin(metrics.LoginInvalidInput)
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(creds.Password))
			s.metrics.ObserveLogin(metrics.LoginInvalidCredentials)
			return nil, domain.ErrInvalidCredentials
		}
		s.metrics.ObserveLogin(metrics.LoginError)
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.metrics.ObserveLogin(metrics.LoginInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}

	if user.Status != domain.StatusActive {
		s.logger.Info("login refused for inactive account", zap.String("user_id", user.ID))
		s.metrics.ObserveLogin(metrics.LoginAccountDisabled)
		return nil, domain.ErrAccountDisabled
	}

	role := user.Role()
	if creds.RequestedRole != "" && domain.DeriveRole(creds.RequestedRole) != role {
		s.logger.Debug("requested role ignored",
			zap.String("user_id", user.ID),
			zap.String("requested_role", creds.RequestedRole),
			zap.String("role", string(role)))
	}
	if !role.Known() {
		s.logger.Warn("user type maps to unknown role",
			zap.String("user_id", user.ID),
			zap.String("user_type", user.UserType))
	}

	sess := domain.NewSession(user.ID, user.Email, role)
	if err := store.Save(ctx, sess); err != nil {
		s.metrics.ObserveLogin(metrics.LoginError)
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.metrics.ObserveLogin(metrics.LoginSuccess)
	s.logger.Info("login succeeded", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return sess, nil
}

// Logout destroys the session held by store. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, store SessionStore) error {
	return store.Clear(ctx)
}

// ChangePassword replaces the password of userID after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	input := struct {
		Current string `validate:"required"`
		New     string `validate:"required,min=8"`
	}{Current: current, New: next}
	if err := validation.Struct(input); err != nil {
		return err
	}
	// Sessions restored without a stored id cannot name a profile.
	if _, err := uuid.Parse(userID); err != nil {
		return domain.ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return domain.ErrPasswordMismatch
	}
	if current == next {
		return domain.ErrPasswordUnchanged
	}

	hashed, err := s.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hashed, s.nowFunc().UTC())
}

// IssueToken signs a token naming the browser context contextID.
func (s *Service) IssueToken(contextID string) (string, error) {
	return s.tokens.Generate(contextID)
}

// ContextFromToken validates token and returns the browser context it names.
func (s *Service) ContextFromToken(token string) (string, error) {
	contextID, err := s.tokens.Validate(token)
	if err != nil || contextID == "" {
		return "", domain.ErrTokenInvalid
	}
	return contextID, nil
}

func sanitizeUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	copy.PasswordHash = ""
	return &copy
}
