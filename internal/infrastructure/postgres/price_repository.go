package postgres

import (
	"context"
	"errors"
	"fmt"

	domain "philagro/backend/internal/domain/pricelist"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PriceRepository persists sugar price entries in PostgreSQL.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository constructs a repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

var _ domain.Repository = (*PriceRepository)(nil)

const priceColumns = `id, sugar_mill, grade, price_per_lkg::float8, effective_date, notes, created_at, updated_at`

// Create inserts a new price entry.
func (r *PriceRepository) Create(ctx context.Context, entry *domain.Entry) error {
	const query = `
INSERT INTO sugar_prices (id, sugar_mill, grade, price_per_lkg, effective_date, notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.SugarMill,
		entry.Grade,
		entry.PricePerLKg,
		entry.EffectiveDate,
		entry.Notes,
		entry.CreatedAt,
		entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("create price entry", err)
	}
	return nil
}

// GetByID fetches a price entry by id.
func (r *PriceRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	const query = `SELECT ` + priceColumns + ` FROM sugar_prices WHERE id = $1`
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, dbError("get price entry", err)
	}
	return entry, nil
}

// List returns price entries newest first.
func (r *PriceRepository) List(ctx context.Context, filter domain.Filter) ([]*domain.Entry, error) {
	query := `SELECT ` + priceColumns + ` FROM sugar_prices WHERE 1 = 1 `
	var args []any
	if filter.SugarMill != "" {
		args = append(args, filter.SugarMill)
		query += fmt.Sprintf("AND sugar_mill = $%d ", len(args))
	}
	if filter.Grade != "" {
		args = append(args, filter.Grade)
		query += fmt.Sprintf("AND grade = $%d ", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf("AND effective_date >= $%d ", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf("AND effective_date <= $%d ", len(args))
	}
	query += "ORDER BY effective_date DESC, sugar_mill ASC, grade ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("list price entries", err)
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, dbError("scan price entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list price entries", err)
	}
	return entries, nil
}

// Update writes price entry updates to the database.
func (r *PriceRepository) Update(ctx context.Context, entry *domain.Entry) error {
	const query = `
UPDATE sugar_prices
SET sugar_mill = $2,
    grade = $3,
    price_per_lkg = $4,
    effective_date = $5,
    notes = $6,
    updated_at = $7
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.SugarMill,
		entry.Grade,
		entry.PricePerLKg,
		entry.EffectiveDate,
		entry.Notes,
		entry.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return dbError("update price entry", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a price entry by id.
func (r *PriceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sugar_prices WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return dbError("delete price entry", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(
		&e.ID,
		&e.SugarMill,
		&e.Grade,
		&e.PricePerLKg,
		&e.EffectiveDate,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
