package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound represents a missing row or an id the store cannot resolve.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation is returned when a unique constraint rejects a write.
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrForeignKeyViolation is returned when a referenced row does not exist.
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
	// ErrInvalidInput is returned when a filter value cannot be cast by the store.
	ErrInvalidInput = errors.New("invalid input value")
)

// Postgres error codes the repositories care about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRepr     = "22P02"
)

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	// The sentinel is joined with the driver error so callers can still
	// inspect the violated constraint via ConstraintName.
	switch pgErr.Code {
	case codeUniqueViolation:
		return errors.Join(ErrUniqueViolation, err)
	case codeForeignKeyViolation:
		return errors.Join(ErrForeignKeyViolation, err)
	case codeInvalidTextRepr:
		return errors.Join(ErrInvalidInput, err)
	}
	return err
}

// ConstraintName extracts the violated constraint name, if the error
// originated from Postgres.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func isInvalidTextRepr(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepr
}
