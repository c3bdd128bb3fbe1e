package schedule

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type CreateScheduleBlockInput struct {
	TenantID   uint
	EmployeeID uint

	// Start and End are "YYYY-MM-DD HH:MM" in the tenant timezone.
	Start  string
	End    string
	Reason string

	UserID *uint
}

type CreateScheduleBlock struct {
	catalog employeeReader
	blocks  domain.BlockRepository
	audit   *audit.Dispatcher
}

func NewCreateScheduleBlock(
	catalog employeeReader,
	blocks domain.BlockRepository,
	audit *audit.Dispatcher,
) *CreateScheduleBlock {
	return &CreateScheduleBlock{
		catalog: catalog,
		blocks:  blocks,
		audit:   audit,
	}
}

// Execute stores a one-off block. Existing appointments inside the range are
// left untouched.
func (uc *CreateScheduleBlock) Execute(
	ctx context.Context,
	in CreateScheduleBlockInput,
) (*models.ScheduleBlock, error) {

	loc, err := loadEmployee(ctx, uc.catalog, in.TenantID, in.EmployeeID)
	if err != nil {
		return nil, err
	}

	start, ok := parseBlockTime(in.Start, loc)
	if !ok {
		return nil, httperr.ErrValidation("invalid_start_time")
	}
	end, ok := parseBlockTime(in.End, loc)
	if !ok {
		return nil, httperr.ErrValidation("invalid_end_time")
	}
	if !end.After(start) {
		return nil, httperr.ErrValidation("invalid_block_range")
	}

	block := &models.ScheduleBlock{
		TenantID:   in.TenantID,
		EmployeeID: in.EmployeeID,
		StartTime:  start,
		EndTime:    end,
		Reason:     strings.TrimSpace(in.Reason),
	}

	if err := uc.blocks.CreateBlock(ctx, block); err != nil {
		return nil, httperr.ErrPersistence("storage_error", err)
	}

	localizeBlock(block, loc)

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "schedule_block_created",
		Entity:   "schedule_block",
		EntityID: &block.ID,
		Metadata: map[string]any{
			"employee_id": in.EmployeeID,
			"start":       block.StartTime,
			"end":         block.EndTime,
		},
	})

	return block, nil
}
