package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"log/slog"

	"github.com/google/uuid"

	"github.com/langsoc/coursebot/core/logger"
	"github.com/langsoc/coursebot/internal/domain"
	"github.com/langsoc/coursebot/internal/roster"
)

// RegistrationStore is the storage surface the registration service needs.
type RegistrationStore interface {
	UpsertUser(ctx context.Context, u domain.User) error
	UserByTelegramID(ctx context.Context, telegramID int64) (domain.User, error)

	CourseByID(ctx context.Context, id int64) (domain.CourseDetails, error)

	CreateRegistration(ctx context.Context, r domain.Registration) (int64, error)
	AttachReceipt(ctx context.Context, id int64, ref string) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, stage domain.Stage) error
	RegistrationByID(ctx context.Context, id int64) (domain.RegistrationDetails, error)
	UserRegistrations(ctx context.Context, telegramID int64) ([]domain.RegistrationDetails, error)
	PendingRegistrations(ctx context.Context) ([]domain.RegistrationDetails, error)
	LatestPendingRegistrationByUser(ctx context.Context, telegramID int64) (domain.RegistrationDetails, error)
}

// IdentityRoster resolves a student or national id to a roster row.
type IdentityRoster interface {
	Find(ctx context.Context, identifier string) (roster.Student, error)
}

// Registration drives the sign-up and payment review logic.
type Registration struct {
	store  RegistrationStore
	roster IdentityRoster
}

// NewRegistration builds the registration service.
func NewRegistration(store RegistrationStore, r IdentityRoster) *Registration {
	return &Registration{store: store, roster: r}
}

const (
	registrationComponent = "service.registrations"

	// PlaceholderName fills in when the roster has no row for a
	// confirmed identifier.
	PlaceholderName = "Unknown"
)

var identifierPattern = regexp.MustCompile(`^[0-9]{7,10}$`)

// ValidateIdentifier checks the 7 to 10 digit shape shared by student
// and national ids.
func ValidateIdentifier(identifier string) error {
	if !identifierPattern.MatchString(strings.TrimSpace(identifier)) {
		return fmt.Errorf("identifier must be 7 to 10 digits: %w", domain.ErrValidation)
	}
	return nil
}

// Identity is a verification result presented to the user for
// confirmation before anything is stored.
type Identity struct {
	StudentID string
	FirstName string
	LastName  string
	// Matched is false when the roster had no row and placeholder
	// names were substituted.
	Matched bool
}

// VerifyIdentifier validates the identifier shape and resolves it
// against the roster. Neither a roster miss nor an unreadable roster
// blocks the user: the identity comes back with placeholder names and
// Matched false, and the office sorts it out manually.
func (r *Registration) VerifyIdentifier(ctx context.Context, identifier string) (Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if err := ValidateIdentifier(identifier); err != nil {
		return Identity{}, err
	}

	st, err := r.roster.Find(ctx, identifier)
	switch {
	case err == nil:
		return Identity{
			StudentID: st.StudentID,
			FirstName: orPlaceholder(st.FirstName),
			LastName:  orPlaceholder(st.LastName),
			Matched:   true,
		}, nil
	case errors.Is(err, domain.ErrNotFound):
		logger.Info(ctx, registrationComponent, "identity.unmatched",
			slog.String("student_id", identifier),
		)
	case errors.Is(err, domain.ErrTransient):
		logger.Warn(ctx, registrationComponent, "identity.roster_degraded",
			slog.String("student_id", identifier),
			slog.String("err", err.Error()),
		)
	default:
		return Identity{}, err
	}
	return Identity{
		StudentID: identifier,
		FirstName: PlaceholderName,
		LastName:  PlaceholderName,
		Matched:   false,
	}, nil
}

func orPlaceholder(name string) string {
	if strings.TrimSpace(name) == "" {
		return PlaceholderName
	}
	return name
}

// ConfirmIdentity stores the confirmed identity for the chat.
func (r *Registration) ConfirmIdentity(ctx context.Context, telegramID int64, id Identity) error {
	err := r.store.UpsertUser(ctx, domain.User{
		TelegramID: telegramID,
		StudentID:  id.StudentID,
		FirstName:  id.FirstName,
		LastName:   id.LastName,
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, registrationComponent, "identity.confirmed",
		slog.Int64("user_id", telegramID),
		slog.String("student_id", id.StudentID),
	)
	return nil
}

// Create records a pending registration for a confirmed user and
// returns it joined with course data.
func (r *Registration) Create(ctx context.Context, telegramID, courseID int64, ptype domain.PaymentType, method domain.PaymentMethod) (domain.RegistrationDetails, error) {
	user, err := r.store.UserByTelegramID(ctx, telegramID)
	if err != nil {
		return domain.RegistrationDetails{}, err
	}
	course, err := r.store.CourseByID(ctx, courseID)
	if err != nil {
		return domain.RegistrationDetails{}, err
	}

	id, err := r.store.CreateRegistration(ctx, domain.Registration{
		TelegramID:    telegramID,
		StudentID:     user.StudentID,
		CourseID:      course.ID,
		TermID:        course.TermID,
		TeacherID:     course.TeacherID,
		PaymentType:   ptype,
		PaymentMethod: method,
	})
	if err != nil {
		return domain.RegistrationDetails{}, err
	}

	logger.Info(ctx, registrationComponent, "registration.created",
		slog.Int64("registration_id", id),
		slog.Int64("user_id", telegramID),
		slog.Int64("course_id", course.ID),
		slog.String("amount", FormatAmount(domain.DueAmount(course.Price, method, domain.StageFirst))),
	)
	return r.store.RegistrationByID(ctx, id)
}

// AttachReceipt mints a receipt reference, stores it on the
// registration, and returns it. The caller uses the reference as the
// file name for the downloaded image.
func (r *Registration) AttachReceipt(ctx context.Context, registrationID int64) (string, error) {
	ref := uuid.NewString() + ".jpg"
	if err := r.store.AttachReceipt(ctx, registrationID, ref); err != nil {
		return "", err
	}
	logger.Info(ctx, registrationComponent, "receipt.attached",
		slog.Int64("registration_id", registrationID),
	)
	return ref, nil
}

// SubmitSecondInstallment attaches a fresh receipt for the second
// installment and puts the registration back into the review queue.
func (r *Registration) SubmitSecondInstallment(ctx context.Context, registrationID int64) (domain.RegistrationDetails, string, error) {
	reg, err := r.store.RegistrationByID(ctx, registrationID)
	if err != nil {
		return domain.RegistrationDetails{}, "", err
	}
	if reg.PaymentMethod != domain.PaymentMethodInstallment || !reg.FirstPaymentConfirmed || reg.SecondPaymentConfirmed {
		return domain.RegistrationDetails{}, "", fmt.Errorf("registration %d has no open second installment: %w", registrationID, domain.ErrValidation)
	}

	ref, err := r.AttachReceipt(ctx, registrationID)
	if err != nil {
		return domain.RegistrationDetails{}, "", err
	}
	if err := r.store.UpdatePaymentStatus(ctx, registrationID, domain.PaymentStatusPending, domain.StageSecond); err != nil {
		return domain.RegistrationDetails{}, "", err
	}
	reg, err = r.store.RegistrationByID(ctx, registrationID)
	if err != nil {
		return domain.RegistrationDetails{}, "", err
	}
	logger.Info(ctx, registrationComponent, "registration.second_installment",
		slog.Int64("registration_id", registrationID),
	)
	return reg, ref, nil
}

// Decide applies an admin verdict to the given installment stage and
// returns the updated registration.
func (r *Registration) Decide(ctx context.Context, registrationID int64, stage domain.Stage, approve bool) (domain.RegistrationDetails, error) {
	status := domain.PaymentStatusRejected
	if approve {
		status = domain.PaymentStatusConfirmed
	}
	if err := r.store.UpdatePaymentStatus(ctx, registrationID, status, stage); err != nil {
		return domain.RegistrationDetails{}, err
	}
	reg, err := r.store.RegistrationByID(ctx, registrationID)
	if err != nil {
		return domain.RegistrationDetails{}, err
	}
	logger.Info(ctx, registrationComponent, "registration.decided",
		slog.Int64("registration_id", registrationID),
		slog.Int("stage", int(stage)),
		slog.String("status", string(status)),
	)
	return reg, nil
}

// DecideLatestForUser resolves the user's most recent pending
// registration and applies the verdict to its first stage. Used for
// in-person payments where the admin acts from the notification alone.
func (r *Registration) DecideLatestForUser(ctx context.Context, telegramID int64, approve bool) (domain.RegistrationDetails, error) {
	reg, err := r.store.LatestPendingRegistrationByUser(ctx, telegramID)
	if err != nil {
		return domain.RegistrationDetails{}, err
	}
	return r.Decide(ctx, reg.ID, domain.StageFirst, approve)
}

// UserRegistrations lists the registrations of a chat, newest first.
func (r *Registration) UserRegistrations(ctx context.Context, telegramID int64) ([]domain.RegistrationDetails, error) {
	return r.store.UserRegistrations(ctx, telegramID)
}

// Pending lists registrations awaiting review.
func (r *Registration) Pending(ctx context.Context) ([]domain.RegistrationDetails, error) {
	return r.store.PendingRegistrations(ctx)
}

// RegistrationByID fetches a registration joined with names and price.
func (r *Registration) RegistrationByID(ctx context.Context, id int64) (domain.RegistrationDetails, error) {
	return r.store.RegistrationByID(ctx, id)
}

// User returns the stored identity for a chat.
func (r *Registration) User(ctx context.Context, telegramID int64) (domain.User, error) {
	return r.store.UserByTelegramID(ctx, telegramID)
}
