package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

// CreateFAQ inserts a question/answer pair.
func (s *Storage) CreateFAQ(ctx context.Context, question, answer string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO faq (question, answer) VALUES ($1, $2) RETURNING id`,
		question, answer,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create faq", err)
	}
	return id, nil
}

// FAQs lists all entries ordered by id.
func (s *Storage) FAQs(ctx context.Context) ([]domain.FAQ, error) {
	var faqs []domain.FAQ
	err := s.db.SelectContext(ctx, &faqs,
		`SELECT id, question, answer FROM faq ORDER BY id`)
	if err != nil {
		return nil, mapError("list faq", err)
	}
	return faqs, nil
}

// FAQByID fetches a single entry.
func (s *Storage) FAQByID(ctx context.Context, id int64) (domain.FAQ, error) {
	var faq domain.FAQ
	err := s.db.GetContext(ctx, &faq,
		`SELECT id, question, answer FROM faq WHERE id = $1`, id)
	if err != nil {
		return domain.FAQ{}, mapError("get faq", err)
	}
	return faq, nil
}

// UpdateFAQ replaces a question/answer pair.
func (s *Storage) UpdateFAQ(ctx context.Context, id int64, question, answer string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE faq SET question = $2, answer = $3 WHERE id = $1`,
		id, question, answer)
	if err != nil {
		return mapError("update faq", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update faq")
	}
	return nil
}

// DeleteFAQ removes an entry.
func (s *Storage) DeleteFAQ(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM faq WHERE id = $1`, id)
	if err != nil {
		return mapError("delete faq", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("delete faq")
	}
	return nil
}
