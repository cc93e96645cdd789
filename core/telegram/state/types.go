package state

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// FlowState returns the FSM state tag set while the named flow is
// collecting input from the user.
func FlowState(flow string) State {
	return State("flow:" + flow)
}

// Session stores conversation state and temporary data for a user.
// A session tracks at most one active flow; beginning a new flow
// replaces whatever was in progress.
type Session struct {
	State     State
	Flow      string
	StepIndex int
	TempData  map[string]interface{}
	Touched   time.Time
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	Get(userID int64) *Session
	Set(userID int64, state State)
	SetTemp(userID int64, key string, value interface{})
	ClearTemp(userID int64, key string)
	GetTemp(userID int64, key string) (interface{}, bool)
	GetTempInt64(userID int64, key string) (int64, bool)
	GetTempString(userID int64, key string) (string, bool)
	Clear(userID int64)

	// Dialog state
	SetState(userID int64, st State)
	GetState(userID int64) State
	HasState(userID int64) bool
	ClearState(userID int64)

	// Flow contract: a flow is an ordered list of steps registered via
	// RegisterFlow. Begin replaces any active session for the user.
	Begin(userID int64, flow string) error
	Advance(userID int64, field string, value interface{}) (Step, bool)
	CurrentStep(userID int64) (Step, bool)
	ActiveFlow(userID int64) (string, bool)
	Complete(userID int64) (map[string]interface{}, bool)
	Cancel(userID int64)

	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}
