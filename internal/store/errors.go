package store

import (
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// NewRecordNotFound builds the not-found error every repository returns for
// missing rows.
func NewRecordNotFound() *errors.Error {
	return errors.New("record not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound)
}

// IsRecordNotFound reports whether err represents a missing row.
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	return errors.IsNotFound(err)
}

// isUniqueViolation detects duplicate-key failures for both backends:
// pgx surfaces SQLSTATE 23505, the sqlite shim only an error string.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "constraint failed")
}
