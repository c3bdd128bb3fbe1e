package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// lookup turns a repository miss into a NotFound business error and any
// other failure into a persistence error.
func lookup(err error, code string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return httperr.ErrPersistence("storage_error", err)
}

// withinHorizon reports whether day lies in [today, today+maxDays].
func withinHorizon(day, now time.Time, s domain.Settings) bool {
	today := timezone.StartOfDay(now, s.Location)
	if day.Before(today) {
		return false
	}
	return !day.After(today.AddDate(0, 0, s.MaxAdvanceDays))
}

type bookingContext struct {
	tenant   *models.Tenant
	employee *models.Employee
	service  *models.Service
	settings domain.Settings
}

func loadBookingContext(
	ctx context.Context,
	repo domain.Repository,
	defaults domain.Defaults,
	tenantID uint,
	employeeID uint,
	serviceID uint,
) (*bookingContext, error) {

	tenant, err := repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookup(err, "tenant_not_found")
	}

	service, err := repo.GetService(ctx, tenantID, serviceID)
	if err != nil {
		return nil, lookup(err, "service_not_found")
	}
	if !service.Active {
		return nil, httperr.ErrNotFound("service_not_found")
	}

	employee, err := repo.GetEmployee(ctx, tenantID, employeeID)
	if err != nil {
		return nil, lookup(err, "employee_not_found")
	}
	if !employee.Active {
		return nil, httperr.ErrNotFound("employee_not_found")
	}

	return &bookingContext{
		tenant:   tenant,
		employee: employee,
		service:  service,
		settings: domain.SettingsFor(tenant, defaults),
	}, nil
}

// slotRequest gathers everything the availability predicate needs for one
// local calendar day of the employee.
func slotRequest(
	ctx context.Context,
	repo domain.Repository,
	blocks domain.BlockRepository,
	bc *bookingContext,
	day time.Time,
	now time.Time,
) (schedule.SlotRequest, error) {

	dayEnd := day.AddDate(0, 0, 1)
	buffer := bc.settings.Buffer

	blockRows, err := blocks.ListBlocks(ctx, bc.employee.ID, day, dayEnd)
	if err != nil {
		return schedule.SlotRequest{}, httperr.ErrPersistence("storage_error", err)
	}

	booked, err := repo.ListActiveAppointments(ctx, bc.employee.ID, day.Add(-buffer), dayEnd.Add(buffer))
	if err != nil {
		return schedule.SlotRequest{}, httperr.ErrPersistence("storage_error", err)
	}

	req := schedule.SlotRequest{
		Open:          schedule.ResolveWorkingHours(bc.employee.WorkingHours, day),
		Duration:      time.Duration(bc.service.DurationMin) * time.Minute,
		Step:          bc.settings.SlotInterval,
		Buffer:        buffer,
		EarliestStart: now.Add(bc.settings.MinAdvance),
	}

	for _, b := range blockRows {
		req.Blocks = append(req.Blocks, schedule.Interval{Start: b.StartTime, End: b.EndTime})
	}
	for _, ap := range booked {
		req.Booked = append(req.Booked, schedule.Interval{Start: ap.StartTime, End: ap.EndTime})
	}

	return req, nil
}

func localize(ap *models.Appointment, loc *time.Location) {
	ap.StartTime = ap.StartTime.In(loc)
	ap.EndTime = ap.EndTime.In(loc)
}
