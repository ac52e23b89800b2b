package domain

import "time"

// AggregateSnapshot is a computed, immutable rollup for one school and one
// half-open time window [WindowStart, WindowEnd). It is recomputed per
// request and never persisted.
type AggregateSnapshot struct {
	WindowStart time.Time
	WindowEnd   time.Time

	OpenCount     int
	ResolvedCount int

	// MessageCount counts every in-window message, triaged or not.
	// UntriagedMessageCount counts the subset whose ticket id is empty or
	// unknown in the same fetch.
	MessageCount          int
	UntriagedMessageCount int

	// SharedEntryCount sizes the intake funnel: raw student submissions
	// in the window, before any triage.
	SharedEntryCount int

	// AvgResponseLatency is nil when no ticket in the window has a staff
	// reply. Zero would misleadingly read as an instant response.
	AvgResponseLatency *time.Duration

	PerCategoryCounts map[string]int
}
