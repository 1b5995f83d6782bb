package pricelist

import (
	"context"
	"testing"
	"time"

	authdomain "philagro/backend/internal/domain/auth"
	domain "philagro/backend/internal/domain/pricelist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Entry), args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Entry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Entry), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, entry *domain.Entry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid entry", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*pricelist.Entry")).Return(nil)
		svc := NewService(repo)

		entry, err := svc.Create(ctx, CreateInput{
			SugarMill:     " Victorias Milling ",
			Grade:         "Raw",
			PricePerLKg:   2650.5,
			EffectiveDate: "2026-10-01",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, entry.ID)
		assert.Equal(t, "Victorias Milling", entry.SugarMill)
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), entry.EffectiveDate)
		repo.AssertExpectations(t)
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, CreateInput{Grade: "Raw", PricePerLKg: -1, EffectiveDate: "2026-10-01"})
		var verr *authdomain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "sugarmill")
		assert.Contains(t, verr.Fields, "priceperlkg")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("bad date", func(t *testing.T) {
		svc := NewService(new(mockRepository))
		_, err := svc.Create(ctx, CreateInput{SugarMill: "A", Grade: "Raw", PricePerLKg: 1, EffectiveDate: "10/01/2026"})
		var verr *authdomain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("parses date filters", func(t *testing.T) {
		repo := new(mockRepository)
		want := domain.Filter{
			SugarMill: "Central Azucarera",
			From:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			To:        time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		}
		repo.On("List", mock.Anything, want).Return([]*domain.Entry{{ID: "p1"}}, nil)
		svc := NewService(repo)

		entries, err := svc.List(ctx, ListInput{SugarMill: "Central Azucarera", From: "2026-01-01", To: "2026-06-30"})
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := NewService(new(mockRepository))
		_, err := svc.List(ctx, ListInput{From: "2026-06-30", To: "2026-01-01"})
		var verr *authdomain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

const (
	entryID   = "5f0c2d8e-9a41-4b7e-8c3d-1e2f3a4b5c6d"
	missingID = "00000000-0000-4000-8000-000000000000"
)

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	existing := func() *domain.Entry {
		return &domain.Entry{ID: entryID, SugarMill: "A", Grade: "Raw", PricePerLKg: 2500, EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	}

	t.Run("partial update", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, entryID).Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*pricelist.Entry")).Return(nil)
		svc := NewService(repo)

		price := 2700.0
		entry, err := svc.Update(ctx, entryID, UpdateInput{PricePerLKg: &price})
		require.NoError(t, err)
		assert.Equal(t, 2700.0, entry.PricePerLKg)
		assert.Equal(t, "Raw", entry.Grade)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, missingID).Return(nil, domain.ErrNotFound)
		svc := NewService(repo)

		_, err := svc.Update(ctx, missingID, UpdateInput{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non positive price", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, entryID).Return(existing(), nil)
		svc := NewService(repo)

		zero := 0.0
		_, err := svc.Update(ctx, entryID, UpdateInput{PricePerLKg: &zero})
		var verr *authdomain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestDelete(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Delete", mock.Anything, entryID).Return(nil)
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), " "+entryID+" "))
	var verr *authdomain.ValidationError
	assert.ErrorAs(t, svc.Delete(context.Background(), ""), &verr)
}

func TestMalformedIDs(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	svc := NewService(repo)

	for _, id := range []string{"", "abc", "p1", "12345"} {
		var verr *authdomain.ValidationError
		_, err := svc.Get(ctx, id)
		assert.ErrorAs(t, err, &verr, "get %q", id)
		_, err = svc.Update(ctx, id, UpdateInput{})
		assert.ErrorAs(t, err, &verr, "update %q", id)
		assert.ErrorAs(t, svc.Delete(ctx, id), &verr, "delete %q", id)
	}
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
