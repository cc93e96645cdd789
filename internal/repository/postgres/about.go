package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

// About returns the association description. Only the first row is shown.
func (s *Storage) About(ctx context.Context) (domain.About, error) {
	var about domain.About
	err := s.db.GetContext(ctx, &about,
		`SELECT id, title, content FROM about ORDER BY id LIMIT 1`)
	if err != nil {
		return domain.About{}, mapError("get about", err)
	}
	return about, nil
}

// SetAbout replaces the association description.
func (s *Storage) SetAbout(ctx context.Context, title, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO about (id, title, content) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, content = EXCLUDED.content`,
		title, content)
	return mapError("set about", err)
}
