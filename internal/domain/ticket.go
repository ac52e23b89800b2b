package domain

import "time"

// TicketStatus enumerates lifecycle states for escalation tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Terminal reports whether the status ends the ticket lifecycle. A terminal
// ticket only returns to OPEN through an explicit staff reopen action.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// UncategorizedKey buckets tickets without a category so rollups never drop them.
const UncategorizedKey = "uncategorized"

// Ticket is an escalation derived from one or more consultation messages.
// Tickets are soft-closed, never physically deleted.
type Ticket struct {
	ID            string
	SchoolID      string
	OpenedAt      time.Time
	LastUpdatedAt time.Time
	Status        TicketStatus
	Category      string
}

// CategoryKey returns the rollup key for the ticket's category.
func (t Ticket) CategoryKey() string {
	if t.Category == "" {
		return UncategorizedKey
	}
	return t.Category
}
