package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/langsoc/coursebot/internal/domain"
	"github.com/langsoc/coursebot/internal/roster"
)

type fakeStore struct {
	users         map[int64]domain.User
	courses       map[int64]domain.CourseDetails
	registrations map[int64]*domain.Registration
	nextID        int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[int64]domain.User),
		courses:       make(map[int64]domain.CourseDetails),
		registrations: make(map[int64]*domain.Registration),
		nextID:        1,
	}
}

func (f *fakeStore) UpsertUser(_ context.Context, u domain.User) error {
	f.users[u.TelegramID] = u
	return nil
}

func (f *fakeStore) UserByTelegramID(_ context.Context, id int64) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CourseByID(_ context.Context, id int64) (domain.CourseDetails, error) {
	c, ok := f.courses[id]
	if !ok {
		return domain.CourseDetails{}, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) CreateRegistration(_ context.Context, r domain.Registration) (int64, error) {
	id := f.nextID
	f.nextID++
	r.ID = id
	r.PaymentStatus = domain.PaymentStatusPending
	f.registrations[id] = &r
	return id, nil
}

func (f *fakeStore) AttachReceipt(_ context.Context, id int64, ref string) error {
	reg, ok := f.registrations[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.ReceiptRef = &ref
	return nil
}

func (f *fakeStore) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus, stage domain.Stage) error {
	reg, ok := f.registrations[id]
	if !ok {
		return domain.ErrNotFound
	}
	reg.PaymentStatus = status
	confirmed := status == domain.PaymentStatusConfirmed
	switch stage {
	case domain.StageFirst:
		reg.FirstPaymentConfirmed = confirmed
	case domain.StageSecond:
		reg.SecondPaymentConfirmed = confirmed
	}
	return nil
}

func (f *fakeStore) details(reg domain.Registration) domain.RegistrationDetails {
	u := f.users[reg.TelegramID]
	c := f.courses[reg.CourseID]
	return domain.RegistrationDetails{
		Registration: reg,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Price:        c.Price,
		TermName:     c.TermName,
		TeacherName:  c.TeacherName,
	}
}

func (f *fakeStore) RegistrationByID(_ context.Context, id int64) (domain.RegistrationDetails, error) {
	reg, ok := f.registrations[id]
	if !ok {
		return domain.RegistrationDetails{}, domain.ErrNotFound
	}
	return f.details(*reg), nil
}

func (f *fakeStore) UserRegistrations(_ context.Context, telegramID int64) ([]domain.RegistrationDetails, error) {
	var out []domain.RegistrationDetails
	for id := f.nextID - 1; id >= 1; id-- {
		reg, ok := f.registrations[id]
		if ok && reg.TelegramID == telegramID {
			out = append(out, f.details(*reg))
		}
	}
	return out, nil
}

func (f *fakeStore) PendingRegistrations(_ context.Context) ([]domain.RegistrationDetails, error) {
	var out []domain.RegistrationDetails
	for id := int64(1); id < f.nextID; id++ {
		reg, ok := f.registrations[id]
		if ok && reg.PaymentStatus == domain.PaymentStatusPending {
			out = append(out, f.details(*reg))
		}
	}
	return out, nil
}

func (f *fakeStore) LatestPendingRegistrationByUser(_ context.Context, telegramID int64) (domain.RegistrationDetails, error) {
	for id := f.nextID - 1; id >= 1; id-- {
		reg, ok := f.registrations[id]
		if ok && reg.TelegramID == telegramID && reg.PaymentStatus == domain.PaymentStatusPending {
			return f.details(*reg), nil
		}
	}
	return domain.RegistrationDetails{}, domain.ErrNotFound
}

type fakeRoster struct {
	students map[string]roster.Student
	err      error
}

func (f *fakeRoster) Find(_ context.Context, identifier string) (roster.Student, error) {
	if f.err != nil {
		return roster.Student{}, f.err
	}
	st, ok := f.students[identifier]
	if !ok {
		return roster.Student{}, domain.ErrNotFound
	}
	return st, nil
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"1234567", "1234567890", "0001234"}
	for _, id := range valid {
		if err := ValidateIdentifier(id); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", id, err)
		}
	}
	invalid := []string{"", "123456", "12345678901", "12345ab", "1234 567", "-1234567"}
	for _, id := range invalid {
		if err := ValidateIdentifier(id); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("ValidateIdentifier(%q) = %v, want ErrValidation", id, err)
		}
	}
}

func TestVerifyIdentifierMatched(t *testing.T) {
	svc := NewRegistration(newFakeStore(), &fakeRoster{students: map[string]roster.Student{
		"4001234": {StudentID: "4001234", FirstName: "Sara", LastName: "Ahmadi"},
	}})

	id, err := svc.VerifyIdentifier(context.Background(), " 4001234 ")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !id.Matched || id.FirstName != "Sara" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyIdentifierPlaceholderOnMiss(t *testing.T) {
	svc := NewRegistration(newFakeStore(), &fakeRoster{students: map[string]roster.Student{}})

	id, err := svc.VerifyIdentifier(context.Background(), "9998887")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.Matched {
		t.Fatal("expected unmatched identity")
	}
	if id.StudentID != "9998887" || id.FirstName != PlaceholderName || id.LastName != PlaceholderName {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestVerifyIdentifierDegradesOnRosterFailure(t *testing.T) {
	svc := NewRegistration(newFakeStore(), &fakeRoster{err: domain.ErrTransient})

	id, err := svc.VerifyIdentifier(context.Background(), "4001234")
	if err != nil {
		t.Fatalf("roster failure must not block: %v", err)
	}
	if id.Matched || id.FirstName != PlaceholderName {
		t.Fatalf("expected placeholder identity, got %+v", id)
	}
}

func TestVerifyIdentifierFillsMissingNameCells(t *testing.T) {
	svc := NewRegistration(newFakeStore(), &fakeRoster{students: map[string]roster.Student{
		"4001234": {StudentID: "4001234", FirstName: "", LastName: "Ahmadi"},
	}})

	id, err := svc.VerifyIdentifier(context.Background(), "4001234")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !id.Matched || id.FirstName != PlaceholderName || id.LastName != "Ahmadi" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func setupRegistration(t *testing.T) (*Registration, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.users[10] = domain.User{TelegramID: 10, StudentID: "4001234", FirstName: "Sara", LastName: "Ahmadi"}
	store.courses[5] = domain.CourseDetails{
		Course:      domain.Course{ID: 5, TermID: 1, TeacherID: 2, Price: 2500000},
		TermName:    "Advanced",
		TeacherName: "Reza Karimi",
	}
	return NewRegistration(store, &fakeRoster{}), store
}

func TestCreateRegistration(t *testing.T) {
	svc, store := setupRegistration(t)

	reg, err := svc.Create(context.Background(), 10, 5, domain.PaymentTypeCard, domain.PaymentMethodInstallment)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reg.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("expected pending status, got %s", reg.PaymentStatus)
	}
	if reg.TermID != 1 || reg.TeacherID != 2 || reg.StudentID != "4001234" {
		t.Fatalf("course data not copied: %+v", reg.Registration)
	}
	if got := domain.DueAmount(reg.Price, reg.PaymentMethod, domain.StageFirst); got != 1250000 {
		t.Fatalf("installment due = %d, want 1250000", got)
	}
	if len(store.registrations) != 1 {
		t.Fatalf("expected one stored registration")
	}
}

func TestCreateRequiresConfirmedUser(t *testing.T) {
	store := newFakeStore()
	store.courses[5] = domain.CourseDetails{Course: domain.Course{ID: 5, Price: 100}}
	svc := NewRegistration(store, &fakeRoster{})

	_, err := svc.Create(context.Background(), 99, 5, domain.PaymentTypeCard, domain.PaymentMethodFull)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAttachReceiptMintsReference(t *testing.T) {
	svc, store := setupRegistration(t)
	reg, err := svc.Create(context.Background(), 10, 5, domain.PaymentTypeCard, domain.PaymentMethodFull)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ref, err := svc.AttachReceipt(context.Background(), reg.ID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") || len(ref) <= len(".jpg") {
		t.Fatalf("unexpected receipt ref %q", ref)
	}
	stored := store.registrations[reg.ID]
	if stored.ReceiptRef == nil || *stored.ReceiptRef != ref {
		t.Fatalf("reference not stored")
	}
}

func TestDecideTouchesOneStage(t *testing.T) {
	svc, store := setupRegistration(t)
	reg, err := svc.Create(context.Background(), 10, 5, domain.PaymentTypeCard, domain.PaymentMethodInstallment)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Decide(context.Background(), reg.ID, domain.StageFirst, true)
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if !updated.FirstPaymentConfirmed || updated.SecondPaymentConfirmed {
		t.Fatalf("first stage decision touched wrong flags: %+v", updated.Registration)
	}
	if updated.PaymentStatus != domain.PaymentStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.PaymentStatus)
	}

	updated, err = svc.Decide(context.Background(), reg.ID, domain.StageSecond, false)
	if err != nil {
		t.Fatalf("decide second: %v", err)
	}
	if !updated.FirstPaymentConfirmed {
		t.Fatal("second stage decision cleared the first flag")
	}
	if updated.SecondPaymentConfirmed || updated.PaymentStatus != domain.PaymentStatusRejected {
		t.Fatalf("second stage rejection not applied: %+v", updated.Registration)
	}
	_ = store
}

func TestDecideLatestForUserPicksNewestPending(t *testing.T) {
	svc, _ := setupRegistration(t)
	first, err := svc.Create(context.Background(), 10, 5, domain.PaymentTypeInPerson, domain.PaymentMethodFull)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(context.Background(), 10, 5, domain.PaymentTypeInPerson, domain.PaymentMethodFull)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	decided, err := svc.DecideLatestForUser(context.Background(), 10, true)
	if err != nil {
		t.Fatalf("decide latest: %v", err)
	}
	if decided.ID != second.ID {
		t.Fatalf("decided %d, want newest %d", decided.ID, second.ID)
	}

	pending, err := svc.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != first.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}
}
