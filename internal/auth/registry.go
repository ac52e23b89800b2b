package auth

import (
	"sync"
	"time"

	"github.com/spec-kit/withyou-admin/internal/domain"
)

// SessionRegistry is the process-wide session store: the only mutable state
// shared across requests. Reads (authorize checks) dominate writes (login,
// logout, sweep), so a reader/writer lock guards the map.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	now      func() time.Time
}

// NewSessionRegistry builds an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]domain.Session),
		now:      time.Now,
	}
}

// WithClock overrides the registry clock. Test hook.
func (r *SessionRegistry) WithClock(now func() time.Time) *SessionRegistry {
	r.now = now
	return r
}

// Put stores a session keyed by token.
func (r *SessionRegistry) Put(session domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.Token] = session
}

// Get returns the live session for a token. Expired sessions are reported as
// absent; they are physically removed by the next sweep.
func (r *SessionRegistry) Get(token string) (domain.Session, bool) {
	r.mu.RLock()
	session, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok || session.Expired(r.now()) {
		return domain.Session{}, false
	}
	return session, true
}

// Delete removes a session, if present, and reports whether it existed.
func (r *SessionRegistry) Delete(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[token]
	delete(r.sessions, token)
	return ok
}

// Sweep removes expired sessions and returns how many were dropped.
func (r *SessionRegistry) Sweep() int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for token, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartSweeper runs Sweep on the given interval until stop is closed.
func (r *SessionRegistry) StartSweeper(interval time.Duration, stop <-chan struct{}, onSweep func(removed int)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				removed := r.Sweep()
				if removed > 0 && onSweep != nil {
					onSweep(removed)
				}
			case <-stop:
				return
			}
		}
	}()
}
