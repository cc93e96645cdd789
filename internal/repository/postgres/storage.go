// Package postgres implements the catalog and registration store on
// PostgreSQL via sqlx.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/langsoc/coursebot/internal/domain"
)

// Storage bundles all queries over a shared connection pool.
type Storage struct {
	db *sqlx.DB
}

// New wraps an already connected pool.
func New(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// mapError translates driver errors into the domain taxonomy so callers
// never import lib/pq.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
		return fmt.Errorf("%s: %w", op, domain.ErrInUse)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}
