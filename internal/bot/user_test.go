package bot

import (
	"strconv"
	"testing"

	"github.com/langsoc/coursebot/internal/domain"
)

func installmentReg(id int64, status domain.PaymentStatus, first, second bool) domain.RegistrationDetails {
	var reg domain.RegistrationDetails
	reg.ID = id
	reg.PaymentType = domain.PaymentTypeCard
	reg.PaymentMethod = domain.PaymentMethodInstallment
	reg.PaymentStatus = status
	reg.FirstPaymentConfirmed = first
	reg.SecondPaymentConfirmed = second
	return reg
}

func TestSecondInstallmentTarget(t *testing.T) {
	regs := []domain.RegistrationDetails{
		installmentReg(10, domain.PaymentStatusConfirmed, true, false),
	}
	id, ok := secondInstallmentTarget(regs)
	if !ok || id != 10 {
		t.Fatalf("expected offer for #10, got id=%d ok=%v", id, ok)
	}
}

func TestSecondInstallmentTargetSkipsUnderReview(t *testing.T) {
	// A submitted second receipt puts the registration back to pending
	// with the flag still unset; no button while the admin decides.
	regs := []domain.RegistrationDetails{
		installmentReg(10, domain.PaymentStatusPending, true, false),
	}
	if id, ok := secondInstallmentTarget(regs); ok {
		t.Fatalf("no offer expected while under review, got id=%d", id)
	}
}

func TestSecondInstallmentTargetSkipsSettled(t *testing.T) {
	regs := []domain.RegistrationDetails{
		installmentReg(10, domain.PaymentStatusConfirmed, true, true),
	}
	if id, ok := secondInstallmentTarget(regs); ok {
		t.Fatalf("no offer expected when both installments are paid, got id=%d", id)
	}
}

func TestTeachersMarkupFallbackTargetsTerm(t *testing.T) {
	mk := teachersMarkupFallback(7)
	if len(mk.InlineKeyboard) != 1 || len(mk.InlineKeyboard[0]) != 1 {
		t.Fatalf("expected a single back button, got %v", mk.InlineKeyboard)
	}
	btn := mk.InlineKeyboard[0][0]
	if btn.Unique != cbTerm || btn.Data != strconv.FormatInt(7, 10) {
		t.Fatalf("back button should reopen term 7, got unique=%q data=%q", btn.Unique, btn.Data)
	}
}
