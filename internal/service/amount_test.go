package service

import (
	"testing"

	"github.com/langsoc/coursebot/internal/domain"
)

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1250000: "1,250,000",
	}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestDueAmount(t *testing.T) {
	// Installments halve with integer division at both stages.
	if got := domain.DueAmount(2500001, domain.PaymentMethodInstallment, domain.StageFirst); got != 1250000 {
		t.Fatalf("first installment = %d, want 1250000", got)
	}
	if got := domain.DueAmount(2500001, domain.PaymentMethodInstallment, domain.StageSecond); got != 1250000 {
		t.Fatalf("second installment = %d, want 1250000", got)
	}
	if got := domain.DueAmount(2500000, domain.PaymentMethodFull, domain.StageFirst); got != 2500000 {
		t.Fatalf("full payment = %d, want 2500000", got)
	}
	if got := domain.DueAmount(2500000, domain.PaymentMethodFull, domain.StageSecond); got != 0 {
		t.Fatalf("full payment second stage = %d, want 0", got)
	}
}
