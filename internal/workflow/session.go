package workflow

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nordicmaskin/kma/types"
)

// Step identifies the wizard screen a session is on. Steps only move
// forward, except Back which moves exactly one step backward.
type Step int

const (
	// StepLoggedOut shows login and sign-up.
	StepLoggedOut Step = iota
	// StepActionChosen is where the operator picks calibration or service.
	StepActionChosen
	// StepEquipmentSelected is where the equipment is picked or registered.
	StepEquipmentSelected
	// StepChecklistInProgress is where the checklist is filled.
	StepChecklistInProgress
	// StepCompleted shows the outcome of the generated report.
	StepCompleted
)

var stepNames = map[Step]string{
	StepLoggedOut:           "logged_out",
	StepActionChosen:        "action_chosen",
	StepEquipmentSelected:   "equipment_selected",
	StepChecklistInProgress: "checklist_in_progress",
	StepCompleted:           "completed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Session is the state of one operator's pass through the wizard.
type Session struct {
	ID   string `json:"id"`
	Step Step   `json:"step"`

	// User is the logged in operator's full name.
	User string `json:"user,omitempty"`

	// Action is set once chosen.
	Action types.Action `json:"action,omitempty"`

	// Equipment is the selected unit.
	Equipment types.Equipment `json:"equipment"`

	// Checklist is resolved when the equipment is selected.
	Checklist types.Checklist `json:"checklist"`

	// Completion holds the outcome of the last completed report.
	Completion *Completion `json:"completion,omitempty"`

	mu       sync.Mutex
	lastSeen time.Time
}

// NewSession returns a logged out session with a fresh id.
func NewSession() *Session {
	return &Session{ID: uuid.NewString(), Step: StepLoggedOut}
}

func (s *Session) clearSelection() {
	s.Equipment = types.Equipment{}
	s.Checklist = types.Checklist{}
}

func (s *Session) expect(step Step) error {
	if s.Step != step {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongStep, s.Step, step)
	}
	return nil
}

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 12 * time.Hour

// Sessions is an in-memory registry of sessions. A session not used for
// longer than the TTL is evicted, together with any rendered PDF it holds.
type Sessions struct {
	mu    sync.Mutex
	items map[string]*Session
	ttl   time.Duration
	now   func() time.Time
}

// SessionsOption configures a Sessions registry.
type SessionsOption func(*Sessions)

// WithTTL sets the idle time after which a session is evicted.
func WithTTL(ttl time.Duration) SessionsOption {
	return func(r *Sessions) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithSessionClock overrides the time source.
func WithSessionClock(now func() time.Time) SessionsOption {
	return func(r *Sessions) {
		if now != nil {
			r.now = now
		}
	}
}

func NewSessions(opts ...SessionsOption) *Sessions {
	r := &Sessions{
		items: make(map[string]*Session),
		ttl:   DefaultSessionTTL,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers s and evicts stale sessions.
func (r *Sessions) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweepLocked(now)
	s.lastSeen = now
	r.items[s.ID] = s
}

// Remove forgets the session with the given id.
func (r *Sessions) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// With runs fn with exclusive access to the session. An expired session
// is evicted and reported as not found.
func (r *Sessions) With(id string, fn func(*Session) error) error {
	r.mu.Lock()
	now := r.now()
	s, ok := r.items[id]
	if ok && r.expired(s, now) {
		delete(r.items, id)
		ok = false
	}
	if ok {
		s.lastSeen = now
	}
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Sweep evicts every expired session and returns how many were removed.
func (r *Sessions) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *Sessions) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range r.items {
		if r.expired(s, now) {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// expired reads lastSeen, which is guarded by r.mu.
func (r *Sessions) expired(s *Session, now time.Time) bool {
	return now.Sub(s.lastSeen) > r.ttl
}

// Len returns the number of registered sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
