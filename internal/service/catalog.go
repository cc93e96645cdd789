// Package service implements the application logic between the Telegram
// handlers and the storage and roster layers.
package service

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/langsoc/coursebot/core/logger"
	"github.com/langsoc/coursebot/internal/domain"
)

// CatalogStore is the storage surface the catalog service needs.
type CatalogStore interface {
	CreateTerm(ctx context.Context, name, description string) (int64, error)
	Terms(ctx context.Context) ([]domain.Term, error)
	TermByID(ctx context.Context, id int64) (domain.Term, error)
	UpdateTerm(ctx context.Context, id int64, name, description string) error
	DeleteTerm(ctx context.Context, id int64) error

	CreateTeacher(ctx context.Context, name string, termID int64, bio string) (int64, error)
	Teachers(ctx context.Context) ([]domain.Teacher, error)
	TeachersByTerm(ctx context.Context, termID int64) ([]domain.Teacher, error)
	TeacherByID(ctx context.Context, id int64) (domain.Teacher, error)
	UpdateTeacher(ctx context.Context, id int64, name string, termID int64, bio string) error
	DeleteTeacher(ctx context.Context, id int64) error

	CreateCourse(ctx context.Context, c domain.Course) (int64, error)
	Courses(ctx context.Context) ([]domain.CourseDetails, error)
	CourseByID(ctx context.Context, id int64) (domain.CourseDetails, error)
	CourseByTermTeacher(ctx context.Context, termID, teacherID int64) (domain.CourseDetails, error)
	UpdateCourse(ctx context.Context, c domain.Course) error
	DeleteCourse(ctx context.Context, id int64) error

	CreateFAQ(ctx context.Context, question, answer string) (int64, error)
	FAQs(ctx context.Context) ([]domain.FAQ, error)
	UpdateFAQ(ctx context.Context, id int64, question, answer string) error
	DeleteFAQ(ctx context.Context, id int64) error

	About(ctx context.Context) (domain.About, error)
	SetAbout(ctx context.Context, title, content string) error
}

// Catalog exposes term, teacher, course, FAQ, and about operations.
type Catalog struct {
	store CatalogStore
}

// NewCatalog builds the catalog service.
func NewCatalog(store CatalogStore) *Catalog {
	return &Catalog{store: store}
}

const catalogComponent = "service.catalog"

// CreateTerm validates and stores a new term.
func (c *Catalog) CreateTerm(ctx context.Context, name, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("term name is empty: %w", domain.ErrValidation)
	}
	id, err := c.store.CreateTerm(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, catalogComponent, "term.created", slog.Int64("term_id", id))
	return id, nil
}

// Terms lists all terms.
func (c *Catalog) Terms(ctx context.Context) ([]domain.Term, error) {
	return c.store.Terms(ctx)
}

// TermByID fetches one term.
func (c *Catalog) TermByID(ctx context.Context, id int64) (domain.Term, error) {
	return c.store.TermByID(ctx, id)
}

// UpdateTerm validates and replaces all fields of a term.
func (c *Catalog) UpdateTerm(ctx context.Context, id int64, name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("term name is empty: %w", domain.ErrValidation)
	}
	if err := c.store.UpdateTerm(ctx, id, name, strings.TrimSpace(description)); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "term.updated", slog.Int64("term_id", id))
	return nil
}

// DeleteTerm removes a term; ErrInUse surfaces when teachers or courses
// still reference it.
func (c *Catalog) DeleteTerm(ctx context.Context, id int64) error {
	if err := c.store.DeleteTerm(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "term.deleted", slog.Int64("term_id", id))
	return nil
}

// CreateTeacher validates and stores a new teacher under a term.
func (c *Catalog) CreateTeacher(ctx context.Context, name string, termID int64, bio string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("teacher name is empty: %w", domain.ErrValidation)
	}
	if _, err := c.store.TermByID(ctx, termID); err != nil {
		return 0, err
	}
	id, err := c.store.CreateTeacher(ctx, name, termID, strings.TrimSpace(bio))
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, catalogComponent, "teacher.created",
		slog.Int64("teacher_id", id),
		slog.Int64("term_id", termID),
	)
	return id, nil
}

// Teachers lists all teachers.
func (c *Catalog) Teachers(ctx context.Context) ([]domain.Teacher, error) {
	return c.store.Teachers(ctx)
}

// TeachersByTerm lists the teachers of a term.
func (c *Catalog) TeachersByTerm(ctx context.Context, termID int64) ([]domain.Teacher, error) {
	return c.store.TeachersByTerm(ctx, termID)
}

// UpdateTeacher validates and replaces all fields of a teacher.
func (c *Catalog) UpdateTeacher(ctx context.Context, id int64, name string, termID int64, bio string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("teacher name is empty: %w", domain.ErrValidation)
	}
	if _, err := c.store.TermByID(ctx, termID); err != nil {
		return err
	}
	if err := c.store.UpdateTeacher(ctx, id, name, termID, strings.TrimSpace(bio)); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "teacher.updated", slog.Int64("teacher_id", id))
	return nil
}

// DeleteTeacher removes a teacher; ErrInUse surfaces when courses still
// reference them.
func (c *Catalog) DeleteTeacher(ctx context.Context, id int64) error {
	if err := c.store.DeleteTeacher(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "teacher.deleted", slog.Int64("teacher_id", id))
	return nil
}

// CreateCourse validates and stores a new course.
func (c *Catalog) CreateCourse(ctx context.Context, course domain.Course) (int64, error) {
	if strings.TrimSpace(course.Day) == "" || strings.TrimSpace(course.Time) == "" {
		return 0, fmt.Errorf("course schedule is empty: %w", domain.ErrValidation)
	}
	if course.Price < 0 {
		return 0, fmt.Errorf("course price is negative: %w", domain.ErrValidation)
	}
	if _, err := c.store.TermByID(ctx, course.TermID); err != nil {
		return 0, err
	}
	if _, err := c.store.TeacherByID(ctx, course.TeacherID); err != nil {
		return 0, err
	}
	id, err := c.store.CreateCourse(ctx, course)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, catalogComponent, "course.created",
		slog.Int64("course_id", id),
		slog.Int64("term_id", course.TermID),
		slog.Int64("teacher_id", course.TeacherID),
	)
	return id, nil
}

// Courses lists every course with joined names.
func (c *Catalog) Courses(ctx context.Context) ([]domain.CourseDetails, error) {
	return c.store.Courses(ctx)
}

// CourseByID fetches one course with joined names.
func (c *Catalog) CourseByID(ctx context.Context, id int64) (domain.CourseDetails, error) {
	return c.store.CourseByID(ctx, id)
}

// CourseByTermTeacher resolves the course a term/teacher pair offers.
func (c *Catalog) CourseByTermTeacher(ctx context.Context, termID, teacherID int64) (domain.CourseDetails, error) {
	return c.store.CourseByTermTeacher(ctx, termID, teacherID)
}

// UpdateCourse validates and replaces all fields of a course.
func (c *Catalog) UpdateCourse(ctx context.Context, course domain.Course) error {
	if strings.TrimSpace(course.Day) == "" || strings.TrimSpace(course.Time) == "" {
		return fmt.Errorf("course schedule is empty: %w", domain.ErrValidation)
	}
	if course.Price < 0 {
		return fmt.Errorf("course price is negative: %w", domain.ErrValidation)
	}
	if _, err := c.store.TermByID(ctx, course.TermID); err != nil {
		return err
	}
	if _, err := c.store.TeacherByID(ctx, course.TeacherID); err != nil {
		return err
	}
	if err := c.store.UpdateCourse(ctx, course); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "course.updated", slog.Int64("course_id", course.ID))
	return nil
}

// DeleteCourse removes a course; ErrInUse surfaces when registrations
// still reference it.
func (c *Catalog) DeleteCourse(ctx context.Context, id int64) error {
	if err := c.store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "course.deleted", slog.Int64("course_id", id))
	return nil
}

// CreateFAQ validates and stores a question/answer pair.
func (c *Catalog) CreateFAQ(ctx context.Context, question, answer string) (int64, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return 0, fmt.Errorf("faq question or answer is empty: %w", domain.ErrValidation)
	}
	id, err := c.store.CreateFAQ(ctx, question, answer)
	if err != nil {
		return 0, err
	}
	logger.Info(ctx, catalogComponent, "faq.created", slog.Int64("faq_id", id))
	return id, nil
}

// FAQs lists all entries.
func (c *Catalog) FAQs(ctx context.Context) ([]domain.FAQ, error) {
	return c.store.FAQs(ctx)
}

// UpdateFAQ validates and replaces a question/answer pair.
func (c *Catalog) UpdateFAQ(ctx context.Context, id int64, question, answer string) error {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return fmt.Errorf("faq question or answer is empty: %w", domain.ErrValidation)
	}
	if err := c.store.UpdateFAQ(ctx, id, question, answer); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "faq.updated", slog.Int64("faq_id", id))
	return nil
}

// DeleteFAQ removes an entry.
func (c *Catalog) DeleteFAQ(ctx context.Context, id int64) error {
	if err := c.store.DeleteFAQ(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx, catalogComponent, "faq.deleted", slog.Int64("faq_id", id))
	return nil
}

// About fetches the association description.
func (c *Catalog) About(ctx context.Context) (domain.About, error) {
	return c.store.About(ctx)
}

// SetAbout replaces the association description.
func (c *Catalog) SetAbout(ctx context.Context, title, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("about content is empty: %w", domain.ErrValidation)
	}
	return c.store.SetAbout(ctx, strings.TrimSpace(title), strings.TrimSpace(content))
}
