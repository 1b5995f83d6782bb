package postgres

import (
	"errors"

	domain "philagro/backend/internal/domain/auth"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func dbError(op string, err error) error {
	return &domain.DatabaseError{Op: op, Err: err}
}
