package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

// CreateTerm inserts a term and returns its id.
func (s *Storage) CreateTerm(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO terms (name, description) VALUES ($1, $2) RETURNING id`,
		name, description,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create term", err)
	}
	return id, nil
}

// Terms lists all terms ordered by id.
func (s *Storage) Terms(ctx context.Context) ([]domain.Term, error) {
	var terms []domain.Term
	err := s.db.SelectContext(ctx, &terms,
		`SELECT id, name, description FROM terms ORDER BY id`)
	if err != nil {
		return nil, mapError("list terms", err)
	}
	return terms, nil
}

// TermByID fetches a single term.
func (s *Storage) TermByID(ctx context.Context, id int64) (domain.Term, error) {
	var term domain.Term
	err := s.db.GetContext(ctx, &term,
		`SELECT id, name, description FROM terms WHERE id = $1`, id)
	if err != nil {
		return domain.Term{}, mapError("get term", err)
	}
	return term, nil
}

// UpdateTerm replaces all fields of a term.
func (s *Storage) UpdateTerm(ctx context.Context, id int64, name, description string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE terms SET name = $2, description = $3 WHERE id = $1`,
		id, name, description)
	if err != nil {
		return mapError("update term", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update term")
	}
	return nil
}

// DeleteTerm removes a term. Referencing teachers, courses, or
// registrations block the delete via foreign keys.
func (s *Storage) DeleteTerm(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return mapError("delete term", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("delete term")
	}
	return nil
}
