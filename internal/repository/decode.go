package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/normalize"
	"github.com/spec-kit/withyou-admin/pkg/util"
)

// Raw document shapes as they live in the store. Fields are loose on purpose:
// validation happens here, at the boundary, so nothing untyped leaks into the
// aggregation pipeline.
type rawTicket struct {
	ID            string `json:"id"`
	SchoolID      string `json:"school_id"`
	OpenedAt      string `json:"opened_at"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	LastUpdatedAt string `json:"last_updated_at"`
}

type rawMessage struct {
	ID         string `json:"id"`
	TicketID   string `json:"ticket_id"`
	SenderRole string `json:"sender_role"`
	Body       string `json:"body"`
	SentAt     string `json:"sent_at"`
}

type rawSharedEntry struct {
	ID          string `json:"id"`
	SchoolID    string `json:"school_id"`
	SubmittedAt string `json:"submitted_at"`
	Payload     string `json:"payload"`
}

func decodeTicket(doc []byte) (domain.Ticket, error) {
	var raw rawTicket
	if err := json.Unmarshal(doc, &raw); err != nil {
		return domain.Ticket{}, util.NewInconsistentRecord("tickets", "not a json object")
	}
	if raw.ID == "" {
		return domain.Ticket{}, util.NewInconsistentRecord("tickets", "missing id")
	}
	openedAt, err := parseTimestamp(raw.OpenedAt)
	if err != nil {
		return domain.Ticket{}, util.NewInconsistentRecord("tickets", "bad opened_at")
	}
	lastUpdatedAt, err := parseTimestamp(raw.LastUpdatedAt)
	if err != nil {
		lastUpdatedAt = openedAt
	}
	if lastUpdatedAt.Before(openedAt) {
		return domain.Ticket{}, util.NewInconsistentRecord("tickets", "last_updated_at before opened_at")
	}
	status := domain.TicketStatus(raw.Status)
	if !status.Valid() {
		return domain.Ticket{}, util.NewInconsistentRecord("tickets", "unknown status")
	}
	return domain.Ticket{
		ID:            raw.ID,
		SchoolID:      raw.SchoolID,
		OpenedAt:      openedAt,
		LastUpdatedAt: lastUpdatedAt,
		Status:        status,
		Category:      raw.Category,
	}, nil
}

func decodeMessage(doc []byte) (domain.ConsultMessage, error) {
	var raw rawMessage
	if err := json.Unmarshal(doc, &raw); err != nil {
		return domain.ConsultMessage{}, util.NewInconsistentRecord("consult_msgs", "not a json object")
	}
	if raw.ID == "" {
		return domain.ConsultMessage{}, util.NewInconsistentRecord("consult_msgs", "missing id")
	}
	sentAt, err := parseTimestamp(raw.SentAt)
	if err != nil {
		return domain.ConsultMessage{}, util.NewInconsistentRecord("consult_msgs", "bad sent_at")
	}
	role := domain.SenderRole(raw.SenderRole)
	if !role.Valid() {
		return domain.ConsultMessage{}, util.NewInconsistentRecord("consult_msgs", "unknown sender_role")
	}
	return domain.ConsultMessage{
		ID:             raw.ID,
		TicketID:       raw.TicketID,
		SenderRole:     role,
		Body:           raw.Body,
		NormalizedBody: normalize.Normalize(raw.Body),
		SentAt:         sentAt,
	}, nil
}

func decodeSharedEntry(doc []byte) (domain.SharedEntry, error) {
	var raw rawSharedEntry
	if err := json.Unmarshal(doc, &raw); err != nil {
		return domain.SharedEntry{}, util.NewInconsistentRecord("school_share", "not a json object")
	}
	if raw.ID == "" {
		return domain.SharedEntry{}, util.NewInconsistentRecord("school_share", "missing id")
	}
	submittedAt, err := parseTimestamp(raw.SubmittedAt)
	if err != nil {
		return domain.SharedEntry{}, util.NewInconsistentRecord("school_share", "bad submitted_at")
	}
	return domain.SharedEntry{
		ID:          raw.ID,
		SchoolID:    raw.SchoolID,
		SubmittedAt: submittedAt,
		Payload:     raw.Payload,
	}, nil
}

// parseTimestamp accepts RFC3339 and a few timezone-naive shapes the source
// data is known to contain; naive timestamps are taken as UTC. Every result
// is normalized to UTC so window arithmetic stays unambiguous.
func parseTimestamp(val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", val)
}
