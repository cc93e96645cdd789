package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

// CreateTeacher inserts a teacher bound to a term.
func (s *Storage) CreateTeacher(ctx context.Context, name string, termID int64, bio string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO teachers (name, term_id, bio) VALUES ($1, $2, $3) RETURNING id`,
		name, termID, bio,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create teacher", err)
	}
	return id, nil
}

// Teachers lists all teachers ordered by id.
func (s *Storage) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	err := s.db.SelectContext(ctx, &teachers,
		`SELECT id, name, term_id, bio FROM teachers ORDER BY id`)
	if err != nil {
		return nil, mapError("list teachers", err)
	}
	return teachers, nil
}

// TeachersByTerm lists the teachers assigned to a term.
func (s *Storage) TeachersByTerm(ctx context.Context, termID int64) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	err := s.db.SelectContext(ctx, &teachers,
		`SELECT id, name, term_id, bio FROM teachers WHERE term_id = $1 ORDER BY id`,
		termID)
	if err != nil {
		return nil, mapError("list term teachers", err)
	}
	return teachers, nil
}

// TeacherByID fetches a single teacher.
func (s *Storage) TeacherByID(ctx context.Context, id int64) (domain.Teacher, error) {
	var teacher domain.Teacher
	err := s.db.GetContext(ctx, &teacher,
		`SELECT id, name, term_id, bio FROM teachers WHERE id = $1`, id)
	if err != nil {
		return domain.Teacher{}, mapError("get teacher", err)
	}
	return teacher, nil
}

// UpdateTeacher replaces all fields of a teacher.
func (s *Storage) UpdateTeacher(ctx context.Context, id int64, name string, termID int64, bio string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teachers SET name = $2, term_id = $3, bio = $4 WHERE id = $1`,
		id, name, termID, bio)
	if err != nil {
		return mapError("update teacher", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update teacher")
	}
	return nil
}

// DeleteTeacher removes a teacher unless courses still reference them.
func (s *Storage) DeleteTeacher(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return mapError("delete teacher", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("delete teacher")
	}
	return nil
}
