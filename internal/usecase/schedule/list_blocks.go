package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const maxListRangeDays = 93

type ListScheduleBlocks struct {
	catalog employeeReader
	blocks  domain.BlockRepository
}

func NewListScheduleBlocks(catalog employeeReader, blocks domain.BlockRepository) *ListScheduleBlocks {
	return &ListScheduleBlocks{catalog: catalog, blocks: blocks}
}

// Execute lists the employee's blocks intersecting the calendar days
// [from, to], both in the tenant timezone.
func (uc *ListScheduleBlocks) Execute(
	ctx context.Context,
	tenantID uint,
	employeeID uint,
	from time.Time,
	to time.Time,
) ([]models.ScheduleBlock, error) {

	loc, err := loadEmployee(ctx, uc.catalog, tenantID, employeeID)
	if err != nil {
		return nil, err
	}

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, loc)

	if !end.After(start) {
		return nil, httperr.ErrValidation("invalid_date_range")
	}
	if daysBetween(start, end) > maxListRangeDays {
		return nil, httperr.ErrValidation("date_range_too_large")
	}

	list, err := uc.blocks.ListBlocks(ctx, employeeID, start, end)
	if err != nil {
		return nil, httperr.ErrPersistence("storage_error", err)
	}

	for i := range list {
		localizeBlock(&list[i], loc)
	}
	return list, nil
}
