package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/withyou-admin/internal/api/dto"
	"github.com/spec-kit/withyou-admin/internal/auth"
	"github.com/spec-kit/withyou-admin/internal/domain"
	"github.com/spec-kit/withyou-admin/internal/service"
	apperrors "github.com/spec-kit/withyou-admin/pkg/util"
)

// DashboardHandler serves the computed view-models: aggregate snapshots and
// filtered message listings. Both endpoints sit behind the auth middleware.
type DashboardHandler struct {
	snapshots *service.SnapshotService
	search    *service.SearchService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(snapshots *service.SnapshotService, search *service.SearchService) *DashboardHandler {
	return &DashboardHandler{snapshots: snapshots, search: search}
}

// Snapshot GET /admin/snapshot.
func (h *DashboardHandler) Snapshot(c *fiber.Ctx) error {
	schoolID, ok := auth.SchoolIDFromContext(c)
	if !ok {
		return apperrors.NewSessionExpired()
	}

	windowStart := parseTime(c.Query("window_start"))
	windowEnd := parseTime(c.Query("window_end"))
	if windowStart == nil || windowEnd == nil {
		return apperrors.NewValidationError("window_start and window_end required (RFC3339)")
	}
	if !windowStart.Before(*windowEnd) {
		return apperrors.NewValidationError("window_start must precede window_end")
	}

	snapshot, err := h.snapshots.BuildSnapshot(c.UserContext(), schoolID, *windowStart, *windowEnd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SnapshotFromDomain(snapshot)})
}

// Messages GET /admin/messages.
func (h *DashboardHandler) Messages(c *fiber.Ctx) error {
	schoolID, ok := auth.SchoolIDFromContext(c)
	if !ok {
		return apperrors.NewSessionExpired()
	}

	filter := service.MessageFilter{
		DateFrom:  parseTime(c.Query("date_from")),
		DateTo:    parseTime(c.Query("date_to")),
		Substring: c.Query("q"),
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		if !status.Valid() {
			return apperrors.NewValidationError("unknown status")
		}
		filter.Status = &status
	}

	messages, err := h.search.Search(c.UserContext(), schoolID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, dto.MessageFromDomain(messages[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
