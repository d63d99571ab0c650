package crm

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// stateTTL bounds how long an issued OAuth state stays redeemable.
const stateTTL = 10 * time.Minute

// stateRegistry tracks issued OAuth state tokens so the callback can verify
// them. States are single-use and expire after stateTTL.
type stateRegistry struct {
	mu     sync.Mutex
	states map[string]time.Time
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{states: map[string]time.Time{}}
}

// Issue mints and registers a fresh state token.
func (r *stateRegistry) Issue() string {
	state := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Drop anything already expired while we hold the lock.
	now := time.Now()
	for s, exp := range r.states {
		if now.After(exp) {
			delete(r.states, s)
		}
	}
	r.states[state] = now.Add(stateTTL)
	return state
}

// Consume redeems a state token. It returns false for unknown, expired or
// already-consumed states.
func (r *stateRegistry) Consume(state string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.states[state]
	if !ok {
		return false
	}
	delete(r.states, state)
	return time.Now().Before(exp)
}
