package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

// UpsertUser records the chat identity after the user confirms who they
// are. A repeated confirmation refreshes the stored name and student id.
func (s *Storage) UpsertUser(ctx context.Context, u domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id, student_id, first_name, last_name)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (telegram_id) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name`,
		u.TelegramID, u.StudentID, u.FirstName, u.LastName)
	return mapError("upsert user", err)
}

// UserByTelegramID fetches a stored chat identity.
func (s *Storage) UserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error) {
	var u domain.User
	err := s.db.GetContext(ctx, &u,
		`SELECT telegram_id, student_id, first_name, last_name, registered_at
		 FROM users WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return domain.User{}, mapError("get user", err)
	}
	return u, nil
}

// AllUserIDs returns every known chat id, for broadcast delivery.
func (s *Storage) AllUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.SelectContext(ctx, &ids,
		`SELECT telegram_id FROM users ORDER BY telegram_id`)
	if err != nil {
		return nil, mapError("list user ids", err)
	}
	return ids, nil
}
