package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/normalize"
	"github.com/spec-kit/withyou-admin/internal/repository"
)

// MessageFilter captures dashboard search parameters. Absent fields impose
// no constraint. DateFrom is inclusive, DateTo exclusive, matching the
// snapshot window convention.
type MessageFilter struct {
	DateFrom  *time.Time
	DateTo    *time.Time
	Status    *domain.TicketStatus
	Substring string
}

// SearchService builds per-request filterable views over normalized message
// text. Matching runs in memory because the store's collation cannot fold
// half-width and full-width input variants together.
type SearchService struct {
	records repository.RecordRepository
}

// NewSearchService constructs the service.
func NewSearchService(records repository.RecordRepository) *SearchService {
	return &SearchService{records: records}
}

// Filter applies the filter to the given messages and returns a new slice
// ordered by sent_at ascending, stable on ties. Inputs are never mutated.
func (s *SearchService) Filter(messages []domain.ConsultMessage, filter MessageFilter) []domain.ConsultMessage {
	needle := normalize.Normalize(filter.Substring)

	result := make([]domain.ConsultMessage, 0, len(messages))
	for _, msg := range messages {
		if filter.DateFrom != nil && msg.SentAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && !msg.SentAt.Before(*filter.DateTo) {
			continue
		}
		if filter.Status != nil && msg.TicketStatus != *filter.Status {
			continue
		}
		if needle != "" {
			body := msg.NormalizedBody
			if body == "" {
				body = normalize.Normalize(msg.Body)
			}
			if !strings.Contains(body, needle) {
				continue
			}
		}
		result = append(result, msg)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.Before(result[j].SentAt)
	})
	return result
}

// Search fetches the school's messages for the filter's window, joins each
// triaged message to its ticket status, and applies Filter.
func (s *SearchService) Search(ctx context.Context, schoolID string, filter MessageFilter) ([]domain.ConsultMessage, error) {
	since := time.Time{}
	if filter.DateFrom != nil {
		since = *filter.DateFrom
	}

	messages, err := s.records.FetchMessagesSince(ctx, schoolID, since)
	if err != nil {
		return nil, err
	}

	tickets, err := s.records.FetchTicketsSince(ctx, schoolID, time.Time{})
	if err != nil {
		return nil, err
	}
	statusByTicket := make(map[string]domain.TicketStatus, len(tickets))
	for _, t := range tickets {
		statusByTicket[t.ID] = t.Status
	}
	for i := range messages {
		if status, ok := statusByTicket[messages[i].TicketID]; ok {
			messages[i].TicketStatus = status
		}
	}

	return s.Filter(messages, filter), nil
}
