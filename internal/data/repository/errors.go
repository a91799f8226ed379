package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write or delete breaks a foreign key.
	ErrReferenced = errors.New("record is referenced")
	// ErrNotFound is returned by updates and deletes that matched no row.
	ErrNotFound = errors.New("record not found")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps constraint violations onto the package sentinels.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w (%s): %w", ErrDuplicate, pgErr.ConstraintName, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w (%s): %w", ErrReferenced, pgErr.ConstraintName, err)
	}
	return err
}
