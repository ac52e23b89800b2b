package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/observability"
	"github.com/spec-kit/withyou-admin/pkg/util"
)

// errStoreNotConfigured is returned on every fetch when the service was
// started without a document store DSN.
var errStoreNotConfigured = errors.New("document store not configured")

// RecordRepository is the read-only adapter over the three document
// collections. All reads are eventually-consistent snapshots; callers must
// tolerate a message whose ticket id is absent from the same snapshot.
type RecordRepository interface {
	FetchTicketsSince(ctx context.Context, schoolID string, since time.Time) ([]domain.Ticket, error)
	FetchMessagesForTicket(ctx context.Context, ticketID string) ([]domain.ConsultMessage, error)
	FetchMessagesSince(ctx context.Context, schoolID string, since time.Time) ([]domain.ConsultMessage, error)
	FetchSharedEntries(ctx context.Context, schoolID string, since time.Time) ([]domain.SharedEntry, error)
}

type recordRepository struct {
	pool    *pgxpool.Pool
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewRecordRepository instantiates the repository.
func NewRecordRepository(pool *pgxpool.Pool, logger *zap.Logger, metrics *observability.Metrics) RecordRepository {
	return &recordRepository{pool: pool, logger: logger, metrics: metrics}
}

// Stored timestamp strings vary in shape (offset suffixes, naive local
// forms), so comparing them as text in SQL is not order-correct. The
// queries below restrict by school only; time bounds and ordering are
// applied in Go after decode, where every timestamp is already parsed
// and normalized to UTC.

func (r *recordRepository) FetchTicketsSince(ctx context.Context, schoolID string, since time.Time) ([]domain.Ticket, error) {
	const query = `SELECT doc FROM tickets WHERE school_id=$1 ORDER BY id ASC`
	docs, err := r.fetchDocs(ctx, query, schoolID)
	if err != nil {
		return nil, util.NewRepositoryUnavailable(err)
	}

	result := make([]domain.Ticket, 0, len(docs))
	for _, doc := range docs {
		ticket, err := decodeTicket(doc)
		if err != nil {
			r.skip("tickets", err)
			continue
		}
		result = append(result, ticket)
	}
	return ticketsSince(result, since), nil
}

func (r *recordRepository) FetchMessagesForTicket(ctx context.Context, ticketID string) ([]domain.ConsultMessage, error) {
	const query = `SELECT doc FROM consult_msgs WHERE doc->>'ticket_id'=$1 ORDER BY id ASC`
	docs, err := r.fetchDocs(ctx, query, ticketID)
	if err != nil {
		return nil, util.NewRepositoryUnavailable(err)
	}
	return messagesSince(r.decodeMessages(docs), time.Time{}), nil
}

func (r *recordRepository) FetchMessagesSince(ctx context.Context, schoolID string, since time.Time) ([]domain.ConsultMessage, error) {
	const query = `SELECT doc FROM consult_msgs WHERE school_id=$1 ORDER BY id ASC`
	docs, err := r.fetchDocs(ctx, query, schoolID)
	if err != nil {
		return nil, util.NewRepositoryUnavailable(err)
	}
	return messagesSince(r.decodeMessages(docs), since), nil
}

func (r *recordRepository) FetchSharedEntries(ctx context.Context, schoolID string, since time.Time) ([]domain.SharedEntry, error) {
	const query = `SELECT doc FROM school_share WHERE school_id=$1 ORDER BY id ASC`
	docs, err := r.fetchDocs(ctx, query, schoolID)
	if err != nil {
		return nil, util.NewRepositoryUnavailable(err)
	}

	result := make([]domain.SharedEntry, 0, len(docs))
	for _, doc := range docs {
		entry, err := decodeSharedEntry(doc)
		if err != nil {
			r.skip("school_share", err)
			continue
		}
		result = append(result, entry)
	}
	return entriesSince(result, since), nil
}

// ticketsSince keeps tickets opened at or after the bound, ordered by
// opened_at then id.
func ticketsSince(tickets []domain.Ticket, since time.Time) []domain.Ticket {
	bound := since.UTC()
	result := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !t.OpenedAt.Before(bound) {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].OpenedAt.Equal(result[j].OpenedAt) {
			return result[i].OpenedAt.Before(result[j].OpenedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// messagesSince keeps messages sent at or after the bound, ordered by
// sent_at then id.
func messagesSince(messages []domain.ConsultMessage, since time.Time) []domain.ConsultMessage {
	bound := since.UTC()
	result := make([]domain.ConsultMessage, 0, len(messages))
	for _, m := range messages {
		if !m.SentAt.Before(bound) {
			result = append(result, m)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].SentAt.Equal(result[j].SentAt) {
			return result[i].SentAt.Before(result[j].SentAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// entriesSince keeps entries submitted at or after the bound, ordered by
// submitted_at then id.
func entriesSince(entries []domain.SharedEntry, since time.Time) []domain.SharedEntry {
	bound := since.UTC()
	result := make([]domain.SharedEntry, 0, len(entries))
	for _, e := range entries {
		if !e.SubmittedAt.Before(bound) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].SubmittedAt.Equal(result[j].SubmittedAt) {
			return result[i].SubmittedAt.Before(result[j].SubmittedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (r *recordRepository) fetchDocs(ctx context.Context, query string, args ...any) ([][]byte, error) {
	if r.pool == nil {
		return nil, errStoreNotConfigured
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocs(rows)
}

func (r *recordRepository) decodeMessages(docs [][]byte) []domain.ConsultMessage {
	result := make([]domain.ConsultMessage, 0, len(docs))
	for _, doc := range docs {
		msg, err := decodeMessage(doc)
		if err != nil {
			r.skip("consult_msgs", err)
			continue
		}
		result = append(result, msg)
	}
	return result
}

// skip logs and counts a malformed record. Record ids never reach callers;
// the internal log line is the only place the failure is visible.
func (r *recordRepository) skip(collection string, err error) {
	r.logger.Warn("skipping inconsistent record",
		zap.String("collection", collection),
		zap.Error(err),
	)
	r.metrics.RecordInconsistentRecord(collection)
}

func scanDocs(rows pgx.Rows) ([][]byte, error) {
	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
