package pricelist

import (
	"context"
	"strings"
	"time"

	authdomain "philagro/backend/internal/domain/auth"
	domain "philagro/backend/internal/domain/pricelist"
	"philagro/backend/internal/validation"

	"github.com/google/uuid"
)

// Service encapsulates sugar price list use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a price list service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required to publish a price.
type CreateInput struct {
	SugarMill     string  `json:"sugarMill" validate:"required"`
	Grade         string  `json:"grade" validate:"required"`
	PricePerLKg   float64 `json:"pricePerLkg" validate:"gt=0"`
	EffectiveDate string  `json:"effectiveDate" validate:"required"`
	Notes         string  `json:"notes"`
}

// UpdateInput encapsulates partial price updates.
type UpdateInput struct {
	SugarMill     *string  `json:"sugarMill"`
	Grade         *string  `json:"grade"`
	PricePerLKg   *float64 `json:"pricePerLkg"`
	EffectiveDate *string  `json:"effectiveDate"`
	Notes         *string  `json:"notes"`
}

// ListInput holds raw query filters.
type ListInput struct {
	SugarMill string
	Grade     string
	From      string
	To        string
}

// Create stores a new price entry after validation.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Entry, error) {
	input.SugarMill = strings.TrimSpace(input.SugarMill)
	input.Grade = strings.TrimSpace(input.Grade)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	effective, err := parseDate("effectiveDate", input.EffectiveDate)
	if err != nil {
		return nil, err
	}

	now := s.nowFunc().UTC()
	entry := &domain.Entry{
		ID:            uuid.NewString(),
		SugarMill:     input.SugarMill,
		Grade:         input.Grade,
		PricePerLKg:   input.PricePerLKg,
		EffectiveDate: effective,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// List retrieves price entries, newest effective date first.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Entry, error) {
	filter := domain.Filter{
		SugarMill: strings.TrimSpace(input.SugarMill),
		Grade:     strings.TrimSpace(input.Grade),
	}
	var err error
	if input.From != "" {
		if filter.From, err = parseDate("from", input.From); err != nil {
			return nil, err
		}
	}
	if input.To != "" {
		if filter.To, err = parseDate("to", input.To); err != nil {
			return nil, err
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, authdomain.NewValidationError("to", "to must not be before from")
	}
	return s.repo.List(ctx, filter)
}

// Get fetches a price entry by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Entry, error) {
	id, err := ensureID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies partial updates to a price entry.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*domain.Entry, error) {
	id, err := ensureID(id)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SugarMill != nil {
		mill := strings.TrimSpace(*input.SugarMill)
		if mill == "" {
			return nil, authdomain.NewValidationError("sugarmill", "sugarmill cannot be empty")
		}
		input.SugarMill = &mill
	}
	if input.Grade != nil {
		grade := strings.TrimSpace(*input.Grade)
		if grade == "" {
			return nil, authdomain.NewValidationError("grade", "grade cannot be empty")
		}
		input.Grade = &grade
	}
	if input.PricePerLKg != nil && *input.PricePerLKg <= 0 {
		return nil, authdomain.NewValidationError("priceperlkg", "priceperlkg must be greater than 0")
	}
	var effective *time.Time
	if input.EffectiveDate != nil {
		parsed, err := parseDate("effectiveDate", *input.EffectiveDate)
		if err != nil {
			return nil, err
		}
		effective = &parsed
	}

	entry.Update(input.SugarMill, input.Grade, input.PricePerLKg, effective, input.Notes, s.nowFunc().UTC())
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes a price entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := ensureID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func ensureID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", authdomain.NewValidationError("id", "id is required")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", authdomain.NewValidationError("id", "id must be a valid UUID")
	}
	return parsed.String(), nil
}

func parseDate(field, raw string) (time.Time, error) {
	parsed, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, authdomain.NewValidationError(strings.ToLower(field), field+" must be a date formatted YYYY-MM-DD")
	}
	return parsed, nil
}
