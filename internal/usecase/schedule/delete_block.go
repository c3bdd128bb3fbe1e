package schedule

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

type DeleteScheduleBlock struct {
	blocks domain.BlockRepository
	audit  *audit.Dispatcher
}

func NewDeleteScheduleBlock(blocks domain.BlockRepository, audit *audit.Dispatcher) *DeleteScheduleBlock {
	return &DeleteScheduleBlock{blocks: blocks, audit: audit}
}

// Execute frees the time for new bookings immediately.
func (uc *DeleteScheduleBlock) Execute(
	ctx context.Context,
	tenantID uint,
	blockID uint,
	userID *uint,
) error {

	if err := uc.blocks.DeleteBlock(ctx, tenantID, blockID); err != nil {
		return lookup(err, "block_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   "schedule_block_deleted",
		Entity:   "schedule_block",
		EntityID: &blockID,
	})
	return nil
}

type DeleteRecurrence struct {
	blocks domain.BlockRepository
	audit  *audit.Dispatcher
}

func NewDeleteRecurrence(blocks domain.BlockRepository, audit *audit.Dispatcher) *DeleteRecurrence {
	return &DeleteRecurrence{blocks: blocks, audit: audit}
}

// Execute removes every occurrence of the series, past ones included.
func (uc *DeleteRecurrence) Execute(
	ctx context.Context,
	tenantID uint,
	recurrenceID string,
	userID *uint,
) (int64, error) {

	recurrenceID = strings.TrimSpace(recurrenceID)
	if recurrenceID == "" {
		return 0, httperr.ErrValidation("invalid_recurrence_id")
	}

	n, err := uc.blocks.DeleteRecurrence(ctx, tenantID, recurrenceID)
	if err != nil {
		return 0, httperr.ErrPersistence("storage_error", err)
	}
	if n == 0 {
		return 0, httperr.ErrNotFound("recurrence_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   "recurrence_deleted",
		Entity:   "schedule_block",
		Metadata: map[string]any{"recurrence_id": recurrenceID, "deleted": n},
	})
	return n, nil
}
