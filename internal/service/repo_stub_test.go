package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/withyou-admin/internal/domain"
)

// stubRecords is an in-memory RecordRepository for service tests.
type stubRecords struct {
	tickets  []domain.Ticket
	messages []domain.ConsultMessage
	entries  []domain.SharedEntry
	failWith error
}

func (s *stubRecords) FetchTicketsSince(_ context.Context, schoolID string, since time.Time) ([]domain.Ticket, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var result []domain.Ticket
	for _, t := range s.tickets {
		if t.SchoolID == schoolID && !t.OpenedAt.Before(since) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *stubRecords) FetchMessagesForTicket(_ context.Context, ticketID string) ([]domain.ConsultMessage, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var result []domain.ConsultMessage
	for _, m := range s.messages {
		if m.TicketID == ticketID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *stubRecords) FetchMessagesSince(_ context.Context, schoolID string, since time.Time) ([]domain.ConsultMessage, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var result []domain.ConsultMessage
	for _, m := range s.messages {
		if !m.SentAt.Before(since) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *stubRecords) FetchSharedEntries(_ context.Context, schoolID string, since time.Time) ([]domain.SharedEntry, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var result []domain.SharedEntry
	for _, e := range s.entries {
		if e.SchoolID == schoolID && !e.SubmittedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

var errStoreDown = errors.New("store down")
