package domain

import "time"

// SharedEntry is a raw student submission from the school_share collection.
// The admin core reads these to size the intake funnel; it never writes them.
type SharedEntry struct {
	ID          string
	SchoolID    string
	SubmittedAt time.Time
	Payload     string
}
