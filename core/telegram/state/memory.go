package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/langsoc/coursebot/core/logger"
	tghelpers "github.com/langsoc/coursebot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
}

// NewMemoryManager constructs an in-memory Manager implementation suitable
// for single-process deployments.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// NewMemoryManagerTTL constructs an in-memory Manager that expires sessions
// untouched for longer than ttl. The reference behavior keeps abandoned
// sessions forever; the sweep is opt-in.
func NewMemoryManagerTTL(ttl time.Duration) Manager {
	m := &memoryManager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
	}
	if ttl > 0 {
		go m.sweep()
	}
	return m
}

func (m *memoryManager) sweep() {
	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	for range time.Tick(interval) {
		cutoff := time.Now().Add(-m.ttl)
		m.mu.Lock()
		for id, sess := range m.sessions {
			if sess.Touched.Before(cutoff) {
				delete(m.sessions, id)
			}
		}
		m.mu.Unlock()
	}
}

func (m *memoryManager) sessionLocked(userID int64) *Session {
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{State: StateIdle, TempData: make(map[string]interface{})}
		m.sessions[userID] = session
	}
	session.Touched = time.Now()
	return session
}

// Get returns the session for a user if it exists, otherwise returns a default idle session.
func (m *memoryManager) Get(userID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		return session
	}

	return &Session{State: StateIdle, TempData: make(map[string]interface{})}
}

// Set updates the state for a user, creating a new session if necessary.
func (m *memoryManager) Set(userID int64, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).State = state
}

// SetTemp stores a temporary key/value pair for the given user session.
func (m *memoryManager) SetTemp(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).TempData[key] = value
}

// GetTemp retrieves a temporary value by key for the given user session.
func (m *memoryManager) GetTemp(userID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	val, ok := session.TempData[key]
	return val, ok
}

// GetTempInt64 retrieves a temporary value by key and asserts it as int64.
func (m *memoryManager) GetTempInt64(userID int64, key string) (int64, bool) {
	val, found := m.GetTemp(userID, key)
	if !found {
		return 0, false
	}
	v, ok := val.(int64)
	if !ok {
		return 0, false
	}
	return v, true
}

// GetTempString retrieves a temporary value by key and asserts it as string.
func (m *memoryManager) GetTempString(userID int64, key string) (string, bool) {
	val, found := m.GetTemp(userID, key)
	if !found {
		return "", false
	}
	v, ok := val.(string)
	if !ok {
		return "", false
	}
	return v, true
}

// ClearTemp removes a temporary key/value pair for the given user session.
func (m *memoryManager) ClearTemp(userID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if ok {
		delete(session.TempData, key)
	}
}

// Clear removes the entire session for a user.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionLocked(userID).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// ClearState resets the FSM state to idle for a user without removing session data.
func (m *memoryManager) ClearState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		sess.State = StateIdle
	}
}

// HasState checks if a user has an active state other than idle.
func (m *memoryManager) HasState(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// Begin starts the named flow for a user, replacing any existing session.
// Exactly one flow may be active per user; the previous one is dropped
// without notice.
func (m *memoryManager) Begin(userID int64, flow string) error {
	f, ok := flowByName(flow)
	if !ok {
		return fmt.Errorf("state: unknown flow: %s", flow)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = &Session{
		State:    FlowState(f.Name),
		Flow:     f.Name,
		TempData: make(map[string]interface{}),
		Touched:  time.Now(),
	}
	return nil
}

// Advance stores a collected value and moves to the next step of the active
// flow. The returned bool is false when the flow has no further steps.
func (m *memoryManager) Advance(userID int64, field string, value interface{}) (Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.Flow == "" {
		return Step{}, false
	}
	f, ok := flowByName(sess.Flow)
	if !ok {
		return Step{}, false
	}
	if field != "" {
		sess.TempData[field] = value
	}
	sess.StepIndex++
	sess.Touched = time.Now()
	return f.step(sess.StepIndex)
}

// CurrentStep returns the step the active flow expects next.
func (m *memoryManager) CurrentStep(userID int64) (Step, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.Flow == "" {
		return Step{}, false
	}
	f, ok := flowByName(sess.Flow)
	if !ok {
		return Step{}, false
	}
	return f.step(sess.StepIndex)
}

// ActiveFlow returns the name of the flow the user is currently in.
func (m *memoryManager) ActiveFlow(userID int64) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.Flow == "" {
		return "", false
	}
	return sess.Flow, true
}

// Complete returns the accumulated fields and clears the session. The
// caller is responsible for validating completeness before acting on them.
func (m *memoryManager) Complete(userID int64) (map[string]interface{}, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok || sess.Flow == "" {
		return nil, false
	}
	fields := make(map[string]interface{}, len(sess.TempData))
	for k, v := range sess.TempData {
		fields[k] = v
	}
	delete(m.sessions, userID)
	return fields, true
}

// Cancel clears the session without validation.
func (m *memoryManager) Cancel(userID int64) {
	m.Clear(userID)
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.HasState(userID)
}

// ManagerHandler executes the handler function registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	userID := c.Sender().ID
	current := m.GetState(userID)
	ctx := tghelpers.BuildContext(c)
	logger.Debug(ctx, "tg", "fsm.manager",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(current)),
	)

	if handler, ok := fsmHandlers[current]; ok {
		return handler(c)
	}
	return nil
}
