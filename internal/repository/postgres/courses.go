package postgres

import (
	"context"

	"github.com/langsoc/coursebot/internal/domain"
)

const courseDetailsColumns = `
	c.id, c.term_id, c.teacher_id, c.day, c.time, c.location, c.topics, c.price,
	tm.name AS term_name, te.name AS teacher_name
`

// CreateCourse inserts a course and returns its id.
func (s *Storage) CreateCourse(ctx context.Context, c domain.Course) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO courses (term_id, teacher_id, day, time, location, topics, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		c.TermID, c.TeacherID, c.Day, c.Time, c.Location, c.Topics, c.Price,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create course", err)
	}
	return id, nil
}

// Courses lists every course with term and teacher names, ordered by id.
func (s *Storage) Courses(ctx context.Context) ([]domain.CourseDetails, error) {
	var courses []domain.CourseDetails
	err := s.db.SelectContext(ctx, &courses,
		`SELECT `+courseDetailsColumns+`
		 FROM courses c
		 JOIN terms tm ON tm.id = c.term_id
		 JOIN teachers te ON te.id = c.teacher_id
		 ORDER BY c.id`)
	if err != nil {
		return nil, mapError("list courses", err)
	}
	return courses, nil
}

// CourseByID fetches a course with its term and teacher names.
func (s *Storage) CourseByID(ctx context.Context, id int64) (domain.CourseDetails, error) {
	var course domain.CourseDetails
	err := s.db.GetContext(ctx, &course,
		`SELECT `+courseDetailsColumns+`
		 FROM courses c
		 JOIN terms tm ON tm.id = c.term_id
		 JOIN teachers te ON te.id = c.teacher_id
		 WHERE c.id = $1`, id)
	if err != nil {
		return domain.CourseDetails{}, mapError("get course", err)
	}
	return course, nil
}

// CourseByTermTeacher resolves the course offered by a teacher within a
// term. When several match, the lowest id wins so repeated browses land
// on the same course.
func (s *Storage) CourseByTermTeacher(ctx context.Context, termID, teacherID int64) (domain.CourseDetails, error) {
	var course domain.CourseDetails
	err := s.db.GetContext(ctx, &course,
		`SELECT `+courseDetailsColumns+`
		 FROM courses c
		 JOIN terms tm ON tm.id = c.term_id
		 JOIN teachers te ON te.id = c.teacher_id
		 WHERE c.term_id = $1 AND c.teacher_id = $2
		 ORDER BY c.id ASC
		 LIMIT 1`, termID, teacherID)
	if err != nil {
		return domain.CourseDetails{}, mapError("get term course", err)
	}
	return course, nil
}

// UpdateCourse replaces all fields of the course identified by c.ID.
func (s *Storage) UpdateCourse(ctx context.Context, c domain.Course) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses SET term_id = $2, teacher_id = $3, day = $4, time = $5,
			location = $6, topics = $7, price = $8
		 WHERE id = $1`,
		c.ID, c.TermID, c.TeacherID, c.Day, c.Time, c.Location, c.Topics, c.Price)
	if err != nil {
		return mapError("update course", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update course")
	}
	return nil
}

// DeleteCourse removes a course unless registrations still reference it.
func (s *Storage) DeleteCourse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapError("delete course", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("delete course")
	}
	return nil
}
