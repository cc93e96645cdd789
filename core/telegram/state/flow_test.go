package state

import (
	"errors"
	"strconv"
	"testing"
)

func mustRegister(t *testing.T, f *Flow) {
	t.Helper()
	if err := RegisterFlow(f); err != nil {
		t.Fatalf("register flow %s: %v", f.Name, err)
	}
}

func TestFlowAdvanceOrder(t *testing.T) {
	mustRegister(t, &Flow{
		Name: "test-order",
		Steps: []Step{
			{Name: "day"},
			{Name: "time"},
			{Name: "price", Validate: func(in string) error {
				if _, err := strconv.Atoi(in); err != nil {
					return errors.New("not a number")
				}
				return nil
			}},
		},
	})

	m := NewMemoryManager()
	if err := m.Begin(7, "test-order"); err != nil {
		t.Fatalf("begin: %v", err)
	}

	step, ok := m.CurrentStep(7)
	if !ok || step.Name != "day" {
		t.Fatalf("expected first step day, got %q ok=%v", step.Name, ok)
	}

	next, more := m.Advance(7, "day", "Saturday")
	if !more || next.Name != "time" {
		t.Fatalf("expected next step time, got %q more=%v", next.Name, more)
	}
	next, more = m.Advance(7, "time", "16:00")
	if !more || next.Name != "price" {
		t.Fatalf("expected next step price, got %q more=%v", next.Name, more)
	}
	if next.Validate == nil {
		t.Fatal("price step must carry a validator")
	}
	if err := next.Validate("abc"); err == nil {
		t.Fatal("expected validation failure for non-numeric price")
	}
	if err := next.Validate("2500000"); err != nil {
		t.Fatalf("unexpected validation failure: %v", err)
	}

	if _, more = m.Advance(7, "price", int64(2500000)); more {
		t.Fatal("flow should have no further steps")
	}

	fields, ok := m.Complete(7)
	if !ok {
		t.Fatal("complete should return accumulated fields")
	}
	if fields["day"] != "Saturday" || fields["time"] != "16:00" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if m.InProgress(7) {
		t.Fatal("session must be cleared after complete")
	}
}

func TestBeginReplacesActiveFlow(t *testing.T) {
	mustRegister(t, &Flow{Name: "test-first", Steps: []Step{{Name: "a"}, {Name: "b"}}})
	mustRegister(t, &Flow{Name: "test-second", Steps: []Step{{Name: "x"}}})

	m := NewMemoryManager()
	if err := m.Begin(1, "test-first"); err != nil {
		t.Fatalf("begin: %v", err)
	}
	m.Advance(1, "a", "value")

	if err := m.Begin(1, "test-second"); err != nil {
		t.Fatalf("begin second: %v", err)
	}
	flow, ok := m.ActiveFlow(1)
	if !ok || flow != "test-second" {
		t.Fatalf("expected active flow test-second, got %q", flow)
	}
	step, ok := m.CurrentStep(1)
	if !ok || step.Name != "x" {
		t.Fatalf("expected step x, got %q", step.Name)
	}
	if _, found := m.GetTemp(1, "a"); found {
		t.Fatal("fields from the replaced flow must not leak")
	}
}

func TestFlowStateWithoutActiveFlow(t *testing.T) {
	m := NewMemoryManager()

	if _, ok := m.CurrentStep(99); ok {
		t.Fatal("no active flow expected")
	}
	if _, ok := m.Complete(99); ok {
		t.Fatal("complete without flow must report false")
	}
	if err := m.Begin(99, "test-missing"); err == nil {
		t.Fatal("begin with unknown flow must fail")
	}
	// Cancel on an empty slot is a no-op, not a fault.
	m.Cancel(99)
}

func TestRegisterFlowValidation(t *testing.T) {
	if err := RegisterFlow(nil); err == nil {
		t.Fatal("nil flow must be rejected")
	}
	if err := RegisterFlow(&Flow{Name: "test-empty"}); err == nil {
		t.Fatal("flow without steps must be rejected")
	}
	mustRegister(t, &Flow{Name: "test-dup", Steps: []Step{{Name: "a"}}})
	if err := RegisterFlow(&Flow{Name: "test-dup", Steps: []Step{{Name: "a"}}}); err == nil {
		t.Fatal("duplicate flow name must be rejected")
	}
}
