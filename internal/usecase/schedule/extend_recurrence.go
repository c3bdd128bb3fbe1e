package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	rules "github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ExtendRecurrence pushes a recurring series forward so it again reaches the
// configured horizon. The clock range, reason and employee come from the
// latest stored occurrence.
type ExtendRecurrence struct {
	catalog employeeReader
	blocks  domain.BlockRepository
	audit   *audit.Dispatcher
	opts    RecurrenceOptions
	log     *zerolog.Logger
	now     func() time.Time
}

func NewExtendRecurrence(
	catalog employeeReader,
	blocks domain.BlockRepository,
	audit *audit.Dispatcher,
	opts RecurrenceOptions,
	log *zerolog.Logger,
) *ExtendRecurrence {
	return &ExtendRecurrence{
		catalog: catalog,
		blocks:  blocks,
		audit:   audit,
		opts:    opts.withDefaults(),
		log:     log,
		now:     time.Now,
	}
}

func (uc *ExtendRecurrence) Execute(
	ctx context.Context,
	tenantID uint,
	recurrenceID string,
	userID *uint,
) (RecurrenceResult, error) {

	recurrenceID = strings.TrimSpace(recurrenceID)
	res := RecurrenceResult{RecurrenceID: recurrenceID}

	last, err := uc.blocks.LastRecurrenceBlock(ctx, tenantID, recurrenceID)
	if err != nil {
		return res, lookup(err, "recurrence_not_found")
	}

	tenant, err := uc.catalog.GetTenantByID(ctx, tenantID)
	if err != nil {
		return res, lookup(err, "tenant_not_found")
	}
	loc := timezone.Location(tenant.Timezone)

	start := last.StartTime.In(loc)
	end := last.EndTime.In(loc)

	from := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, loc)
	first := today(uc.now(), loc)
	if from.Before(first) {
		from = first
	}

	days := daysBetween(from, first.AddDate(0, 0, uc.opts.HorizonDays))
	if days <= 0 {
		return res, nil
	}

	rule := rules.DailyRule{
		Start: start.Format("15:04"),
		End:   end.Format("15:04"),
		Skip:  uc.opts.Skip,
	}

	intervals, err := rule.Materialize(from, days)
	if err != nil {
		return res, httperr.ErrValidation("invalid_daily_range")
	}

	res.Created, err = writeOccurrences(ctx, uc.blocks, occurrence{
		tenantID:     tenantID,
		employeeID:   last.EmployeeID,
		recurrenceID: recurrenceID,
		reason:       last.Reason,
	}, intervals, uc.opts.BatchSize)

	if err != nil {
		uc.log.Error().Err(err).
			Uint("tenant_id", tenantID).
			Str("recurrence_id", recurrenceID).
			Int("created", res.Created).
			Msg("Recurrence extension stopped early")
		return res, httperr.ErrPersistence("partial_materialization", err)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   "recurrence_extended",
		Entity:   "schedule_block",
		Metadata: map[string]any{
			"recurrence_id": recurrenceID,
			"created":       res.Created,
		},
	})

	return res, nil
}
