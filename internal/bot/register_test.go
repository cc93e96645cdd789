package bot

import (
	"testing"

	"github.com/langsoc/coursebot/core/telegram/state"
)

func TestAdvanceIfAtIgnoresDuplicateTaps(t *testing.T) {
	flow := "identity-confirm-guard"
	if err := state.RegisterFlow(&state.Flow{
		Name:  flow,
		Steps: []state.Step{{Name: stepStudentID}, {Name: stepReceipt}},
	}); err != nil {
		t.Fatal(err)
	}
	m := state.NewMemoryManager()
	if err := m.Begin(7, flow); err != nil {
		t.Fatal(err)
	}

	if !advanceIfAt(m, 7, stepStudentID) {
		t.Fatal("first tap should advance to the receipt step")
	}
	if advanceIfAt(m, 7, stepStudentID) {
		t.Fatal("a repeated tap must not advance again")
	}

	// The session must still be usable: in progress and waiting at the
	// receipt step, not pushed past the end of the flow.
	step, ok := m.CurrentStep(7)
	if !ok || step.Name != stepReceipt {
		t.Fatalf("flow should be waiting at the receipt step, got %q ok=%v", step.Name, ok)
	}
	if !m.InProgress(7) {
		t.Fatal("session should remain in progress")
	}
}
