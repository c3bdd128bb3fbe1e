package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type GetAvailability struct {
	repo     domain.Repository
	blocks   domain.BlockRepository
	defaults domain.Defaults
	now      func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	blocks domain.BlockRepository,
	defaults domain.Defaults,
) *GetAvailability {
	return &GetAvailability{
		repo:     repo,
		blocks:   blocks,
		defaults: defaults,
		now:      time.Now,
	}
}

// Execute lists the slots of one local day. Days in the past or beyond the
// tenant booking horizon have no slots; that is not an error.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]schedule.Slot, error) {

	started := time.Now()
	defer func() { metrics.ObserveAvailability(time.Since(started).Seconds()) }()
	metrics.IncSlotQuery()

	bc, err := loadBookingContext(ctx, uc.repo, uc.defaults, in.TenantID, in.EmployeeID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	loc := bc.settings.Location
	day := timezone.Date(in.Date, loc)
	now := uc.now().In(loc)

	if !withinHorizon(day, now, bc.settings) {
		return []schedule.Slot{}, nil
	}

	req, err := slotRequest(ctx, uc.repo, uc.blocks, bc, day, now)
	if err != nil {
		return nil, err
	}

	return schedule.GenerateSlots(req), nil
}
