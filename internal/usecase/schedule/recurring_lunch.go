package schedule

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	rules "github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const defaultLunchReason = "lunch"

// ======================================================
// INPUT
// ======================================================

type CreateRecurringLunchInput struct {
	TenantID   uint
	EmployeeID uint

	// DailyStart and DailyEnd are HH:MM in the tenant timezone.
	DailyStart string
	DailyEnd   string
	Reason     string

	UserID *uint
}

type RecurrenceResult struct {
	RecurrenceID string `json:"recurrence_id"`
	Created      int    `json:"created"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateRecurringLunchBlock struct {
	catalog employeeReader
	blocks  domain.BlockRepository
	audit   *audit.Dispatcher
	opts    RecurrenceOptions
	log     *zerolog.Logger
	now     func() time.Time
}

func NewCreateRecurringLunchBlock(
	catalog employeeReader,
	blocks domain.BlockRepository,
	audit *audit.Dispatcher,
	opts RecurrenceOptions,
	log *zerolog.Logger,
) *CreateRecurringLunchBlock {
	return &CreateRecurringLunchBlock{
		catalog: catalog,
		blocks:  blocks,
		audit:   audit,
		opts:    opts.withDefaults(),
		log:     log,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute writes one block per day from today over the configured horizon.
// Rows are written in chunks without a surrounding transaction; on failure
// the result still carries the number of rows already stored.
func (uc *CreateRecurringLunchBlock) Execute(
	ctx context.Context,
	in CreateRecurringLunchInput,
) (RecurrenceResult, error) {

	loc, err := loadEmployee(ctx, uc.catalog, in.TenantID, in.EmployeeID)
	if err != nil {
		return RecurrenceResult{}, err
	}

	rule := rules.DailyRule{
		Start: strings.TrimSpace(in.DailyStart),
		End:   strings.TrimSpace(in.DailyEnd),
		Skip:  uc.opts.Skip,
	}

	intervals, err := rule.Materialize(today(uc.now(), loc), uc.opts.HorizonDays)
	if err != nil {
		return RecurrenceResult{}, httperr.ErrValidation("invalid_daily_range")
	}

	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultLunchReason
	}

	res := RecurrenceResult{RecurrenceID: uuid.NewString()}
	res.Created, err = writeOccurrences(ctx, uc.blocks, occurrence{
		tenantID:     in.TenantID,
		employeeID:   in.EmployeeID,
		recurrenceID: res.RecurrenceID,
		reason:       reason,
	}, intervals, uc.opts.BatchSize)

	if err != nil {
		uc.log.Error().Err(err).
			Uint("tenant_id", in.TenantID).
			Uint("employee_id", in.EmployeeID).
			Str("recurrence_id", res.RecurrenceID).
			Int("created", res.Created).
			Msg("Recurring block materialization stopped early")
		return res, httperr.ErrPersistence("partial_materialization", err)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "recurring_block_created",
		Entity:   "schedule_block",
		Metadata: map[string]any{
			"employee_id":   in.EmployeeID,
			"recurrence_id": res.RecurrenceID,
			"daily_start":   rule.Start,
			"daily_end":     rule.End,
			"created":       res.Created,
		},
	})

	return res, nil
}

// --------------------------------------------------
// Batched writes
// --------------------------------------------------

type occurrence struct {
	tenantID     uint
	employeeID   uint
	recurrenceID string
	reason       string
}

func writeOccurrences(
	ctx context.Context,
	repo domain.BlockRepository,
	o occurrence,
	intervals []rules.Interval,
	batch int,
) (int, error) {

	written := 0
	for _, c := range rules.Chunk(len(intervals), batch) {
		rows := make([]models.ScheduleBlock, 0, c[1]-c[0])
		for _, iv := range intervals[c[0]:c[1]] {
			rows = append(rows, models.ScheduleBlock{
				TenantID:       o.tenantID,
				EmployeeID:     o.employeeID,
				StartTime:      iv.Start,
				EndTime:        iv.End,
				Reason:         o.reason,
				Recurring:      true,
				RecurrenceRule: models.RecurrenceDailyLunch,
				RecurrenceID:   o.recurrenceID,
			})
		}

		if err := repo.CreateBlocks(ctx, rows); err != nil {
			return written, err
		}
		written += len(rows)
		metrics.AddBlocksMaterialized(len(rows))
	}
	return written, nil
}
