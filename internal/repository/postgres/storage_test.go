package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/langsoc/coursebot/internal/domain"
)

func TestMapErrorNil(t *testing.T) {
	if err := mapError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMapErrorNoRows(t *testing.T) {
	err := mapError("get term", sql.ErrNoRows)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMapErrorForeignKey(t *testing.T) {
	pqErr := &pq.Error{Code: pqForeignKeyViolation}
	err := mapError("delete term", fmt.Errorf("exec: %w", pqErr))
	if !errors.Is(err, domain.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}

func TestMapErrorOtherPQCode(t *testing.T) {
	pqErr := &pq.Error{Code: pqUniqueViolation}
	err := mapError("create term", pqErr)
	if errors.Is(err, domain.ErrInUse) || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unique violation must not map to a domain sentinel, got %v", err)
	}
}

func TestMapErrorKeepsOperation(t *testing.T) {
	err := mapError("get course", sql.ErrNoRows)
	if got := err.Error(); got != "get course: not found" {
		t.Fatalf("unexpected message %q", got)
	}
}
