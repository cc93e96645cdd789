package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/langsoc/coursebot/internal/domain"
)

type fakeCatalogStore struct {
	terms    map[int64]domain.Term
	teachers map[int64]domain.Teacher
	courses  map[int64]domain.Course
	faqs     map[int64]domain.FAQ
	about    domain.About
	nextID   int64
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		terms:    map[int64]domain.Term{},
		teachers: map[int64]domain.Teacher{},
		courses:  map[int64]domain.Course{},
		faqs:     map[int64]domain.FAQ{},
		nextID:   1,
	}
}

func (s *fakeCatalogStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

func (s *fakeCatalogStore) CreateTerm(_ context.Context, name, description string) (int64, error) {
	id := s.id()
	s.terms[id] = domain.Term{ID: id, Name: name, Description: description}
	return id, nil
}

func (s *fakeCatalogStore) Terms(context.Context) ([]domain.Term, error) {
	out := make([]domain.Term, 0, len(s.terms))
	for _, t := range s.terms {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeCatalogStore) TermByID(_ context.Context, id int64) (domain.Term, error) {
	t, ok := s.terms[id]
	if !ok {
		return domain.Term{}, notFoundErr("term")
	}
	return t, nil
}

func (s *fakeCatalogStore) UpdateTerm(_ context.Context, id int64, name, description string) error {
	if _, ok := s.terms[id]; !ok {
		return notFoundErr("term")
	}
	s.terms[id] = domain.Term{ID: id, Name: name, Description: description}
	return nil
}

func (s *fakeCatalogStore) DeleteTerm(_ context.Context, id int64) error {
	if _, ok := s.terms[id]; !ok {
		return notFoundErr("term")
	}
	delete(s.terms, id)
	return nil
}

func (s *fakeCatalogStore) CreateTeacher(_ context.Context, name string, termID int64, bio string) (int64, error) {
	id := s.id()
	s.teachers[id] = domain.Teacher{ID: id, Name: name, TermID: termID, Bio: bio}
	return id, nil
}

func (s *fakeCatalogStore) Teachers(context.Context) ([]domain.Teacher, error) {
	out := make([]domain.Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeCatalogStore) TeachersByTerm(_ context.Context, termID int64) ([]domain.Teacher, error) {
	var out []domain.Teacher
	for _, t := range s.teachers {
		if t.TermID == termID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeCatalogStore) TeacherByID(_ context.Context, id int64) (domain.Teacher, error) {
	t, ok := s.teachers[id]
	if !ok {
		return domain.Teacher{}, notFoundErr("teacher")
	}
	return t, nil
}

func (s *fakeCatalogStore) UpdateTeacher(_ context.Context, id int64, name string, termID int64, bio string) error {
	if _, ok := s.teachers[id]; !ok {
		return notFoundErr("teacher")
	}
	s.teachers[id] = domain.Teacher{ID: id, Name: name, TermID: termID, Bio: bio}
	return nil
}

func (s *fakeCatalogStore) DeleteTeacher(_ context.Context, id int64) error {
	if _, ok := s.teachers[id]; !ok {
		return notFoundErr("teacher")
	}
	delete(s.teachers, id)
	return nil
}

func (s *fakeCatalogStore) CreateCourse(_ context.Context, c domain.Course) (int64, error) {
	c.ID = s.id()
	s.courses[c.ID] = c
	return c.ID, nil
}

func (s *fakeCatalogStore) Courses(context.Context) ([]domain.CourseDetails, error) {
	out := make([]domain.CourseDetails, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, domain.CourseDetails{Course: c})
	}
	return out, nil
}

func (s *fakeCatalogStore) CourseByID(_ context.Context, id int64) (domain.CourseDetails, error) {
	c, ok := s.courses[id]
	if !ok {
		return domain.CourseDetails{}, notFoundErr("course")
	}
	return domain.CourseDetails{Course: c}, nil
}

func (s *fakeCatalogStore) CourseByTermTeacher(_ context.Context, termID, teacherID int64) (domain.CourseDetails, error) {
	for _, c := range s.courses {
		if c.TermID == termID && c.TeacherID == teacherID {
			return domain.CourseDetails{Course: c}, nil
		}
	}
	return domain.CourseDetails{}, notFoundErr("course")
}

func (s *fakeCatalogStore) UpdateCourse(_ context.Context, c domain.Course) error {
	if _, ok := s.courses[c.ID]; !ok {
		return notFoundErr("course")
	}
	s.courses[c.ID] = c
	return nil
}

func (s *fakeCatalogStore) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := s.courses[id]; !ok {
		return notFoundErr("course")
	}
	delete(s.courses, id)
	return nil
}

func (s *fakeCatalogStore) CreateFAQ(_ context.Context, question, answer string) (int64, error) {
	id := s.id()
	s.faqs[id] = domain.FAQ{ID: id, Question: question, Answer: answer}
	return id, nil
}

func (s *fakeCatalogStore) FAQs(context.Context) ([]domain.FAQ, error) {
	out := make([]domain.FAQ, 0, len(s.faqs))
	for _, f := range s.faqs {
		out = append(out, f)
	}
	return out, nil
}

func (s *fakeCatalogStore) UpdateFAQ(_ context.Context, id int64, question, answer string) error {
	if _, ok := s.faqs[id]; !ok {
		return notFoundErr("faq")
	}
	s.faqs[id] = domain.FAQ{ID: id, Question: question, Answer: answer}
	return nil
}

func (s *fakeCatalogStore) DeleteFAQ(_ context.Context, id int64) error {
	if _, ok := s.faqs[id]; !ok {
		return notFoundErr("faq")
	}
	delete(s.faqs, id)
	return nil
}

func (s *fakeCatalogStore) About(context.Context) (domain.About, error) {
	if s.about.Content == "" {
		return domain.About{}, notFoundErr("about")
	}
	return s.about, nil
}

func (s *fakeCatalogStore) SetAbout(_ context.Context, title, content string) error {
	s.about = domain.About{ID: 1, Title: title, Content: content}
	return nil
}

func catalogFixture(t *testing.T) (*Catalog, *fakeCatalogStore, int64, int64) {
	t.Helper()
	store := newFakeCatalogStore()
	svc := NewCatalog(store)
	ctx := context.Background()
	termID, err := svc.CreateTerm(ctx, "Fall", "")
	if err != nil {
		t.Fatal(err)
	}
	teacherID, err := svc.CreateTeacher(ctx, "Sara", termID, "")
	if err != nil {
		t.Fatal(err)
	}
	return svc, store, termID, teacherID
}

func validCourse(termID, teacherID int64) domain.Course {
	return domain.Course{
		TermID:    termID,
		TeacherID: teacherID,
		Day:       "Saturday",
		Time:      "16:00-18:00",
		Price:     2500000,
	}
}

func TestCreateCourseRequiresExistingTeacher(t *testing.T) {
	svc, _, termID, _ := catalogFixture(t)

	course := validCourse(termID, 999)
	if _, err := svc.CreateCourse(context.Background(), course); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing teacher, got %v", err)
	}
}

func TestCreateCourseRequiresExistingTerm(t *testing.T) {
	svc, _, _, teacherID := catalogFixture(t)

	course := validCourse(999, teacherID)
	if _, err := svc.CreateCourse(context.Background(), course); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing term, got %v", err)
	}
}

func TestUpdateCourseRequiresExistingTeacher(t *testing.T) {
	svc, _, termID, teacherID := catalogFixture(t)
	ctx := context.Background()

	id, err := svc.CreateCourse(ctx, validCourse(termID, teacherID))
	if err != nil {
		t.Fatal(err)
	}

	updated := validCourse(termID, 999)
	updated.ID = id
	if err := svc.UpdateCourse(ctx, updated); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing teacher, got %v", err)
	}
}

func TestCreateCourseValidatesSchedule(t *testing.T) {
	svc, _, termID, teacherID := catalogFixture(t)

	course := validCourse(termID, teacherID)
	course.Day = " "
	if _, err := svc.CreateCourse(context.Background(), course); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty day, got %v", err)
	}
}

func TestCreateTeacherRequiresExistingTerm(t *testing.T) {
	svc, _, _, _ := catalogFixture(t)

	if _, err := svc.CreateTeacher(context.Background(), "Omid", 999, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing term, got %v", err)
	}
}
