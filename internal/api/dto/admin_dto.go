package dto

import (
	"time"

	"github.com/spec-kit/withyou-admin/internal/domain"
)

// LoginRequest carries the staff credential submission.
type LoginRequest struct {
	SchoolID string `json:"school_id"`
	Secret   string `json:"secret"`
}

// LoginResponse returns the bearer token contract.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SnapshotResponse is the aggregate view-model handed to the rendering layer.
type SnapshotResponse struct {
	WindowStart           time.Time      `json:"window_start"`
	WindowEnd             time.Time      `json:"window_end"`
	OpenCount             int            `json:"open_count"`
	ResolvedCount         int            `json:"resolved_count"`
	MessageCount          int            `json:"message_count"`
	UntriagedMessageCount int            `json:"untriaged_message_count"`
	SharedEntryCount      int            `json:"shared_entry_count"`
	AvgResponseLatencySec *float64       `json:"avg_response_latency_seconds,omitempty"`
	PerCategoryCounts     map[string]int `json:"per_category_counts"`
}

// MessageResponse is a read-only message view.
type MessageResponse struct {
	ID           string              `json:"id"`
	TicketID     string              `json:"ticket_id,omitempty"`
	SenderRole   domain.SenderRole   `json:"sender_role"`
	Body         string              `json:"body"`
	SentAt       time.Time           `json:"sent_at"`
	TicketStatus domain.TicketStatus `json:"ticket_status,omitempty"`
}

// SnapshotFromDomain maps the computed snapshot to its response shape. The
// latency field is omitted entirely when undefined so renderers cannot read
// it as an instant response.
func SnapshotFromDomain(s domain.AggregateSnapshot) SnapshotResponse {
	resp := SnapshotResponse{
		WindowStart:           s.WindowStart,
		WindowEnd:             s.WindowEnd,
		OpenCount:             s.OpenCount,
		ResolvedCount:         s.ResolvedCount,
		MessageCount:          s.MessageCount,
		UntriagedMessageCount: s.UntriagedMessageCount,
		SharedEntryCount:      s.SharedEntryCount,
		PerCategoryCounts:     s.PerCategoryCounts,
	}
	if s.AvgResponseLatency != nil {
		secs := s.AvgResponseLatency.Seconds()
		resp.AvgResponseLatencySec = &secs
	}
	return resp
}

// MessageFromDomain maps a message to its response shape.
func MessageFromDomain(m domain.ConsultMessage) MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		TicketID:     m.TicketID,
		SenderRole:   m.SenderRole,
		Body:         m.Body,
		SentAt:       m.SentAt,
		TicketStatus: m.TicketStatus,
	}
}
