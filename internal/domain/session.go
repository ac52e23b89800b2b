package domain

import "time"

// Session is an authenticated staff session. The token is an opaque bearer
// credential; validity is decided solely by the process-wide registry.
type Session struct {
	Token     string
	SchoolID  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
