package domain

import "time"

// SenderRole indicates who authored a consultation message.
type SenderRole string

const (
	SenderRoleStudent SenderRole = "STUDENT"
	SenderRoleStaff   SenderRole = "STAFF"
)

// Valid reports whether the role is a known sender role.
func (r SenderRole) Valid() bool {
	return r == SenderRoleStudent || r == SenderRoleStaff
}

// ConsultMessage is a single free-text exchange between a student and staff.
// Bodies are immutable once persisted; NormalizedBody is derived in memory
// and never written back to the store.
type ConsultMessage struct {
	ID             string
	TicketID       string // empty until triage links the message to a ticket
	SenderRole     SenderRole
	Body           string
	NormalizedBody string
	SentAt         time.Time

	// TicketStatus carries the owning ticket's status after the aggregation
	// join, so message filters can constrain on it. Empty for untriaged
	// messages or when no join has run.
	TicketStatus TicketStatus
}

// Triaged reports whether the message has been linked to a ticket.
func (m ConsultMessage) Triaged() bool {
	return m.TicketID != ""
}
