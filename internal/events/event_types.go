package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventSessionIssued      EventType = "session_issued"
	EventSessionExpired     EventType = "session_expired"
	EventSessionLoggedOut   EventType = "session_logged_out"
	EventInconsistentRecord EventType = "inconsistent_record"
)

// Event represents an operational event emitted by services. Payloads carry
// operational metadata only: never secrets, tokens, or message bodies.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SchoolID  string      `json:"school_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// LoginFailedPayload payload.
type LoginFailedPayload struct {
	RateLimited bool `json:"rate_limited"`
}

// SessionIssuedPayload payload.
type SessionIssuedPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// InconsistentRecordPayload payload.
type InconsistentRecordPayload struct {
	Collection string `json:"collection"`
	Reason     string `json:"reason"`
}
