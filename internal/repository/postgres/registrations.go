package postgres

import (
	"context"
	"fmt"

	"github.com/langsoc/coursebot/internal/domain"
)

const registrationDetailsColumns = `
	r.id, r.telegram_id, r.student_id, r.course_id, r.term_id, r.teacher_id,
	r.payment_type, r.payment_method, r.payment_status,
	r.first_payment_confirmed, r.second_payment_confirmed,
	r.receipt_ref, r.created_at,
	u.first_name, u.last_name,
	c.price, tm.name AS term_name, te.name AS teacher_name
`

const registrationDetailsFrom = `
	FROM registrations r
	JOIN users u ON u.telegram_id = r.telegram_id
	JOIN courses c ON c.id = r.course_id
	JOIN terms tm ON tm.id = r.term_id
	JOIN teachers te ON te.id = r.teacher_id
`

// CreateRegistration inserts a pending registration and returns its id.
func (s *Storage) CreateRegistration(ctx context.Context, r domain.Registration) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO registrations
			(telegram_id, student_id, course_id, term_id, teacher_id,
			 payment_type, payment_method, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		r.TelegramID, r.StudentID, r.CourseID, r.TermID, r.TeacherID,
		r.PaymentType, r.PaymentMethod, domain.PaymentStatusPending,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create registration", err)
	}
	return id, nil
}

// AttachReceipt stores the reference of an uploaded payment receipt.
func (s *Storage) AttachReceipt(ctx context.Context, id int64, ref string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE registrations SET receipt_ref = $2 WHERE id = $1`, id, ref)
	if err != nil {
		return mapError("attach receipt", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("attach receipt")
	}
	return nil
}

// UpdatePaymentStatus applies an admin decision. Exactly one installment
// flag is touched per call; confirming the second installment leaves the
// first untouched and vice versa.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, stage domain.Stage) error {
	var column string
	switch stage {
	case domain.StageFirst:
		column = "first_payment_confirmed"
	case domain.StageSecond:
		column = "second_payment_confirmed"
	default:
		return fmt.Errorf("update payment status: unknown stage %d: %w", stage, domain.ErrValidation)
	}

	confirmed := status == domain.PaymentStatusConfirmed
	res, err := s.db.ExecContext(ctx,
		`UPDATE registrations SET payment_status = $2, `+column+` = $3 WHERE id = $1`,
		id, status, confirmed)
	if err != nil {
		return mapError("update payment status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update payment status")
	}
	return nil
}

// RegistrationByID fetches a registration joined with user and course data.
func (s *Storage) RegistrationByID(ctx context.Context, id int64) (domain.RegistrationDetails, error) {
	var reg domain.RegistrationDetails
	err := s.db.GetContext(ctx, &reg,
		`SELECT `+registrationDetailsColumns+registrationDetailsFrom+` WHERE r.id = $1`, id)
	if err != nil {
		return domain.RegistrationDetails{}, mapError("get registration", err)
	}
	return reg, nil
}

// UserRegistrations lists a user's registrations, newest first.
func (s *Storage) UserRegistrations(ctx context.Context, telegramID int64) ([]domain.RegistrationDetails, error) {
	var regs []domain.RegistrationDetails
	err := s.db.SelectContext(ctx, &regs,
		`SELECT `+registrationDetailsColumns+registrationDetailsFrom+`
		 WHERE r.telegram_id = $1 ORDER BY r.id DESC`, telegramID)
	if err != nil {
		return nil, mapError("list user registrations", err)
	}
	return regs, nil
}

// PendingRegistrations lists registrations awaiting review, oldest first.
func (s *Storage) PendingRegistrations(ctx context.Context) ([]domain.RegistrationDetails, error) {
	var regs []domain.RegistrationDetails
	err := s.db.SelectContext(ctx, &regs,
		`SELECT `+registrationDetailsColumns+registrationDetailsFrom+`
		 WHERE r.payment_status = 'pending' ORDER BY r.id`)
	if err != nil {
		return nil, mapError("list pending registrations", err)
	}
	return regs, nil
}

// LatestPendingRegistrationByUser returns the most recent pending
// registration for a chat. Used for in-person decisions that arrive
// without a registration id.
func (s *Storage) LatestPendingRegistrationByUser(ctx context.Context, telegramID int64) (domain.RegistrationDetails, error) {
	var reg domain.RegistrationDetails
	err := s.db.GetContext(ctx, &reg,
		`SELECT `+registrationDetailsColumns+registrationDetailsFrom+`
		 WHERE r.telegram_id = $1 AND r.payment_status = 'pending'
		 ORDER BY r.id DESC LIMIT 1`, telegramID)
	if err != nil {
		return domain.RegistrationDetails{}, mapError("get latest pending registration", err)
	}
	return reg, nil
}
