package bot

import (
	"strings"
	"testing"

	"github.com/langsoc/coursebot/internal/config"
	"github.com/langsoc/coursebot/internal/domain"
	"github.com/langsoc/coursebot/internal/service"
)

func sampleRegistration() domain.RegistrationDetails {
	return domain.RegistrationDetails{
		Registration: domain.Registration{
			ID:            41,
			TelegramID:    10,
			StudentID:     "4001234",
			PaymentType:   domain.PaymentTypeCard,
			PaymentMethod: domain.PaymentMethodInstallment,
			PaymentStatus: domain.PaymentStatusPending,
		},
		FirstName:   "Sara",
		LastName:    "Ahmadi",
		Price:       2500000,
		TermName:    "Advanced",
		TeacherName: "Reza Karimi",
	}
}

func TestAdminNotificationInstallmentAmount(t *testing.T) {
	msg := renderAdminNotification(sampleRegistration(), domain.StageFirst)

	if !strings.Contains(msg, "1,250,000") {
		t.Errorf("installment amount missing or unformatted:\n%s", msg)
	}
	if !strings.Contains(msg, "installment 1 of 2") {
		t.Errorf("installment marker missing:\n%s", msg)
	}
	if !strings.Contains(msg, "4001234") || !strings.Contains(msg, "Sara Ahmadi") {
		t.Errorf("identity missing:\n%s", msg)
	}
	if strings.Contains(msg, "manual verification") {
		t.Errorf("verified identity flagged as unverified:\n%s", msg)
	}
}

func TestAdminNotificationUnmatchedIdentity(t *testing.T) {
	reg := sampleRegistration()
	reg.FirstName = service.PlaceholderName
	reg.LastName = service.PlaceholderName

	msg := renderAdminNotification(reg, domain.StageFirst)
	if !strings.Contains(msg, "manual verification") {
		t.Errorf("unmatched identity not flagged:\n%s", msg)
	}
}

func TestAdminNotificationFullPayment(t *testing.T) {
	reg := sampleRegistration()
	reg.PaymentMethod = domain.PaymentMethodFull
	reg.PaymentType = domain.PaymentTypeInPerson

	msg := renderAdminNotification(reg, domain.StageFirst)
	if !strings.Contains(msg, "2,500,000") {
		t.Errorf("full amount missing:\n%s", msg)
	}
	if strings.Contains(msg, "installment") {
		t.Errorf("full payment mentions installments:\n%s", msg)
	}
	if !strings.Contains(msg, "in person") {
		t.Errorf("payment type missing:\n%s", msg)
	}
}

func TestStatusLineVariants(t *testing.T) {
	reg := sampleRegistration()

	if got := statusLine(reg); !strings.Contains(got, "awaiting confirmation") {
		t.Errorf("pending line: %s", got)
	}

	reg.PaymentStatus = domain.PaymentStatusConfirmed
	reg.FirstPaymentConfirmed = true
	if got := statusLine(reg); !strings.Contains(got, "second due") {
		t.Errorf("half-paid installment line: %s", got)
	}

	reg.SecondPaymentConfirmed = true
	if got := statusLine(reg); !strings.Contains(got, "confirmed") {
		t.Errorf("confirmed line: %s", got)
	}

	reg.PaymentStatus = domain.PaymentStatusRejected
	if got := statusLine(reg); !strings.Contains(got, "rejected") {
		t.Errorf("rejected line: %s", got)
	}
}

func TestPendingStage(t *testing.T) {
	reg := sampleRegistration()
	if pendingStage(reg) != domain.StageFirst {
		t.Error("fresh registration should review stage 1")
	}
	reg.FirstPaymentConfirmed = true
	if pendingStage(reg) != domain.StageSecond {
		t.Error("half-paid installment should review stage 2")
	}
	reg.PaymentMethod = domain.PaymentMethodFull
	if pendingStage(reg) != domain.StageFirst {
		t.Error("full payments always review stage 1")
	}
}

func TestCardInstructionsContainAmountAndCard(t *testing.T) {
	p := config.PaymentConfig{CardNumber: "6037-1234", CardOwner: "Language Society"}
	msg := renderCardInstructions(p, 1250000)
	if !strings.Contains(msg, "1,250,000") || !strings.Contains(msg, "6037-1234") {
		t.Errorf("card instructions incomplete:\n%s", msg)
	}
}

func TestDecisionTextsMentionInstallment(t *testing.T) {
	reg := sampleRegistration()
	msg := renderDecisionForUser(reg, domain.StageSecond, true)
	if !strings.Contains(msg, "installment 2 of 2") || !strings.Contains(msg, "confirmed") {
		t.Errorf("approval text incomplete:\n%s", msg)
	}
	msg = renderDecisionForUser(reg, domain.StageFirst, false)
	if !strings.Contains(msg, "rejected") {
		t.Errorf("rejection text incomplete:\n%s", msg)
	}
}
