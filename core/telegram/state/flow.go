package state

import (
	"fmt"
	"sync"
)

// Step describes a single field collected by a flow. Validate, when set,
// rejects raw input before it is stored; a failed validation must re-prompt
// the same step without advancing.
type Step struct {
	Name     string
	Validate func(input string) error
}

// Flow is a named, ordered list of steps collected from one user across
// multiple messages or button presses.
type Flow struct {
	Name  string
	Steps []Step
}

func (f *Flow) step(i int) (Step, bool) {
	if f == nil || i < 0 || i >= len(f.Steps) {
		return Step{}, false
	}
	return f.Steps[i], true
}

var (
	flowsMu sync.RWMutex
	flows   = map[string]*Flow{}
)

// RegisterFlow makes a flow available to Manager.Begin. Registering the
// same name twice is an error to catch duplicated wiring early.
func RegisterFlow(f *Flow) error {
	if f == nil || f.Name == "" || len(f.Steps) == 0 {
		return fmt.Errorf("state: invalid flow registration")
	}
	flowsMu.Lock()
	defer flowsMu.Unlock()
	if _, exists := flows[f.Name]; exists {
		return fmt.Errorf("state: flow already registered: %s", f.Name)
	}
	flows[f.Name] = f
	return nil
}

func flowByName(name string) (*Flow, bool) {
	flowsMu.RLock()
	defer flowsMu.RUnlock()
	f, ok := flows[name]
	return f, ok
}
