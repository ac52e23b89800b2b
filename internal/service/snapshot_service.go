package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/events"
	"github.com/spec-kit/withyou-admin/internal/repository"
)

// SnapshotService computes per-window aggregate rollups. Computation is pure
// over the fetched inputs, so concurrent snapshots for different schools or
// windows need no coordination.
type SnapshotService struct {
	records    repository.RecordRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewSnapshotService constructs the service.
func NewSnapshotService(records repository.RecordRepository, dispatcher events.Dispatcher, logger *zap.Logger) *SnapshotService {
	return &SnapshotService{records: records, dispatcher: dispatcher, logger: logger}
}

// BuildSnapshot aggregates tickets and messages for one school over the
// half-open window [windowStart, windowEnd). Repeated calls over identical
// inputs produce identical output; malformed or orphaned records are skipped
// per record, never failing the batch.
func (s *SnapshotService) BuildSnapshot(ctx context.Context, schoolID string, windowStart, windowEnd time.Time) (domain.AggregateSnapshot, error) {
	windowStart = windowStart.UTC()
	windowEnd = windowEnd.UTC()

	snapshot := domain.AggregateSnapshot{
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		PerCategoryCounts: make(map[string]int),
	}

	tickets, err := s.records.FetchTicketsSince(ctx, schoolID, windowStart)
	if err != nil {
		return domain.AggregateSnapshot{}, err
	}

	inWindow := make([]domain.Ticket, 0, len(tickets))
	knownTickets := make(map[string]struct{}, len(tickets))
	for _, t := range tickets {
		knownTickets[t.ID] = struct{}{}
		if !t.OpenedAt.Before(windowStart) && t.OpenedAt.Before(windowEnd) {
			inWindow = append(inWindow, t)
		}
	}
	sort.Slice(inWindow, func(i, j int) bool {
		if !inWindow[i].OpenedAt.Equal(inWindow[j].OpenedAt) {
			return inWindow[i].OpenedAt.Before(inWindow[j].OpenedAt)
		}
		return inWindow[i].ID < inWindow[j].ID
	})

	var latencySum time.Duration
	latencyCount := 0
	for _, ticket := range inWindow {
		snapshot.PerCategoryCounts[ticket.CategoryKey()]++
		if ticket.Status.Terminal() {
			snapshot.ResolvedCount++
		} else {
			snapshot.OpenCount++
		}

		msgs, err := s.records.FetchMessagesForTicket(ctx, ticket.ID)
		if err != nil {
			return domain.AggregateSnapshot{}, err
		}
		if latency, ok := responseLatency(msgs); ok {
			latencySum += latency
			latencyCount++
		}
	}
	if latencyCount > 0 {
		avg := latencySum / time.Duration(latencyCount)
		snapshot.AvgResponseLatency = &avg
	}

	messages, err := s.records.FetchMessagesSince(ctx, schoolID, windowStart)
	if err != nil {
		return domain.AggregateSnapshot{}, err
	}
	for _, msg := range messages {
		if msg.SentAt.Before(windowStart) || !msg.SentAt.Before(windowEnd) {
			continue
		}
		snapshot.MessageCount++
		if !msg.Triaged() {
			snapshot.UntriagedMessageCount++
			continue
		}
		if _, ok := knownTickets[msg.TicketID]; !ok {
			// snapshot skew: the referenced ticket is not in this fetch,
			// so the message counts as untriaged and stays out of latency
			snapshot.UntriagedMessageCount++
			s.reportOrphan(ctx, schoolID, msg.ID)
		}
	}

	entries, err := s.records.FetchSharedEntries(ctx, schoolID, windowStart)
	if err != nil {
		return domain.AggregateSnapshot{}, err
	}
	for _, entry := range entries {
		if !entry.SubmittedAt.Before(windowStart) && entry.SubmittedAt.Before(windowEnd) {
			snapshot.SharedEntryCount++
		}
	}

	return snapshot, nil
}

// responseLatency returns the time between a ticket's first student message
// and the first staff message sent strictly after it. Staff messages sharing
// a timestamp are ordered by id, so the result is deterministic.
func responseLatency(msgs []domain.ConsultMessage) (time.Duration, bool) {
	ordered := make([]domain.ConsultMessage, len(msgs))
	copy(ordered, msgs)
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].SentAt.Equal(ordered[j].SentAt) {
			return ordered[i].SentAt.Before(ordered[j].SentAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	var firstStudent *domain.ConsultMessage
	for i := range ordered {
		msg := &ordered[i]
		switch {
		case msg.SenderRole == domain.SenderRoleStudent && firstStudent == nil:
			firstStudent = msg
		case msg.SenderRole == domain.SenderRoleStaff && firstStudent != nil:
			if msg.SentAt.After(firstStudent.SentAt) {
				return msg.SentAt.Sub(firstStudent.SentAt), true
			}
		}
	}
	return 0, false
}

func (s *SnapshotService) reportOrphan(ctx context.Context, schoolID, messageID string) {
	s.logger.Warn("message references ticket missing from snapshot",
		zap.String("message_id", messageID),
	)
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventInconsistentRecord,
		SchoolID:  schoolID,
		Timestamp: time.Now(),
		Payload: events.InconsistentRecordPayload{
			Collection: "consult_msgs",
			Reason:     "ticket reference missing from snapshot",
		},
	})
}
