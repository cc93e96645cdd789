package postgres

import (
	"context"

	"log/slog"

	"github.com/langsoc/coursebot/core/logger"
	"github.com/langsoc/coursebot/internal/domain"
)

// SeedDemo loads a small demo catalog when the database is empty. Meant
// for local development; a non-empty terms table makes it a no-op.
func (s *Storage) SeedDemo(ctx context.Context) error {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM terms`); err != nil {
		return mapError("seed demo", err)
	}
	if count > 0 {
		return nil
	}

	beginner, err := s.CreateTerm(ctx, "Beginner", "Foundations for first-time learners")
	if err != nil {
		return err
	}
	advanced, err := s.CreateTerm(ctx, "Advanced", "Conversation and exam preparation")
	if err != nil {
		return err
	}

	sara, err := s.CreateTeacher(ctx, "Sara Ahmadi", beginner, "Five years teaching beginner groups")
	if err != nil {
		return err
	}
	reza, err := s.CreateTeacher(ctx, "Reza Karimi", advanced, "IELTS instructor and examiner")
	if err != nil {
		return err
	}

	courses := []domain.Course{
		{
			TermID: beginner, TeacherID: sara,
			Day: "Saturday", Time: "16:00-18:00",
			Location: "Room 101, Central Building",
			Topics:   "Alphabet, greetings, everyday vocabulary",
			Price:    1200000,
		},
		{
			TermID: advanced, TeacherID: reza,
			Day: "Monday", Time: "18:00-20:00",
			Location: "Room 204, Central Building",
			Topics:   "Academic writing, mock speaking sessions",
			Price:    2500000,
		},
	}
	for _, c := range courses {
		if _, err := s.CreateCourse(ctx, c); err != nil {
			return err
		}
	}

	if _, err := s.CreateFAQ(ctx,
		"How do I pay for a course?",
		"Pay in person at the office or by card transfer; send the receipt to the bot.",
	); err != nil {
		return err
	}
	if err := s.SetAbout(ctx,
		"Language Society",
		"Student-run language courses open to all university students.",
	); err != nil {
		return err
	}

	logger.DB.Info("demo catalog seeded",
		slog.String("event", "db.seed"),
		slog.Int("terms", 2),
		slog.Int("courses", len(courses)),
	)
	return nil
}
