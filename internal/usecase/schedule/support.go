package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const blockLayout = "2006-01-02 15:04"

// employeeReader is the slice of the catalog the block use cases need.
type employeeReader interface {
	GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error)
	GetEmployee(ctx context.Context, tenantID uint, employeeID uint) (*models.Employee, error)
}

// RecurrenceOptions controls how far ahead recurring blocks are written.
type RecurrenceOptions struct {
	HorizonDays int
	Skip        *time.Weekday
	BatchSize   int
}

func (o RecurrenceOptions) withDefaults() RecurrenceOptions {
	if o.HorizonDays <= 0 {
		o.HorizonDays = 365
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	return o
}

func lookup(err error, code string) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return httperr.ErrPersistence("storage_error", err)
}

// loadEmployee resolves the tenant location and checks that the employee
// belongs to the tenant.
func loadEmployee(
	ctx context.Context,
	repo employeeReader,
	tenantID uint,
	employeeID uint,
) (*time.Location, error) {

	tenant, err := repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookup(err, "tenant_not_found")
	}

	if _, err := repo.GetEmployee(ctx, tenantID, employeeID); err != nil {
		return nil, lookup(err, "employee_not_found")
	}

	return timezone.Location(tenant.Timezone), nil
}

// parseBlockTime accepts "YYYY-MM-DD HH:MM" in the tenant timezone or RFC3339.
func parseBlockTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(blockLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

func today(now time.Time, loc *time.Location) time.Time {
	return timezone.StartOfDay(now, loc)
}

// daysBetween counts calendar days from a to b, ignoring DST offsets.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func localizeBlock(b *models.ScheduleBlock, loc *time.Location) {
	b.StartTime = b.StartTime.In(loc)
	b.EndTime = b.EndTime.In(loc)
}
