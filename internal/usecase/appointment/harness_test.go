package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/infra/lock"
	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Monday 2026-10-19 08:00 UTC.
var fixedNow = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

const tomorrow = "2026-10-20"

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Publish(ev domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.EventType, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type harness struct {
	mem      *repository.Memory
	tenant   models.Tenant
	employee models.Employee
	service  models.Service
	pub      *recorder

	create  *CreateAppointment
	avail   *GetAvailability
	status  *UpdateStatus
	payment *UpdatePayment
	del     *DeleteAppointment
	byDate  *ListAppointmentsByDate
	byMonth *ListAppointmentsByMonth

	locker *lock.KeyedMutex
}

const harnessLockWait = 250 * time.Millisecond

func weekdays(start, end string) models.WeeklyHours {
	wh := models.WeeklyHours{}
	for _, d := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"} {
		wh[d] = models.DayHours{Enabled: true, Start: start, End: end}
	}
	return wh
}

func newHarness(t *testing.T, mutate func(*models.Tenant)) *harness {
	t.Helper()
	ctx := context.Background()
	nop := zerolog.Nop()

	h := &harness{mem: repository.NewMemory(), pub: &recorder{}}

	h.tenant = models.Tenant{
		Name:                "Studio",
		Slug:                "studio",
		Timezone:            "UTC",
		MinAdvanceHours:     2,
		MaxAdvanceDays:      30,
		SlotIntervalMinutes: 30,
	}
	if mutate != nil {
		mutate(&h.tenant)
	}
	require.NoError(t, h.mem.CreateTenant(ctx, &h.tenant))

	h.employee = models.Employee{
		TenantID:     h.tenant.ID,
		Name:         "Ana",
		Active:       true,
		WorkingHours: weekdays("09:00", "18:00"),
	}
	require.NoError(t, h.mem.CreateEmployee(ctx, &h.employee))

	h.service = models.Service{TenantID: h.tenant.ID, Name: "Cut", DurationMin: 60, Price: 50, Active: true}
	require.NoError(t, h.mem.CreateService(ctx, &h.service))

	dispatcher := audit.NewDispatcher(audit.New(h.mem), &nop, 100)
	t.Cleanup(func() { _ = dispatcher.Close(context.Background()) })

	defaults := domain.Defaults{MinAdvanceHours: 2, MaxAdvanceDays: 30, SlotIntervalMinutes: 30}
	clock := func() time.Time { return fixedNow }

	h.locker = lock.NewKeyedMutex(harnessLockWait)
	h.create = NewCreateAppointment(h.mem, h.mem, h.locker, h.pub, dispatcher, defaults, &nop)
	h.create.now = clock
	h.avail = NewGetAvailability(h.mem, h.mem, defaults)
	h.avail.now = clock
	h.status = NewUpdateStatus(h.mem, h.pub, dispatcher, &nop)
	h.status.now = clock
	h.payment = NewUpdatePayment(h.mem, dispatcher, &nop)
	h.del = NewDeleteAppointment(h.mem, dispatcher)
	h.byDate = NewListAppointmentsByDate(h.mem)
	h.byMonth = NewListAppointmentsByMonth(h.mem)

	return h
}

func (h *harness) book(date, hm, phone string) (*models.Appointment, error) {
	return h.create.Execute(context.Background(), CreateAppointmentInput{
		TenantID:    h.tenant.ID,
		EmployeeID:  h.employee.ID,
		ServiceID:   h.service.ID,
		ClientName:  "Client " + phone,
		ClientPhone: phone,
		Date:        date,
		Time:        hm,
	})
}

func (h *harness) slots(t *testing.T, date string) map[string]bool {
	t.Helper()
	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	slots, err := h.avail.Execute(context.Background(), domain.AvailabilityInput{
		TenantID:   h.tenant.ID,
		EmployeeID: h.employee.ID,
		ServiceID:  h.service.ID,
		Date:       day,
	})
	require.NoError(t, err)

	out := make(map[string]bool, len(slots))
	for _, s := range slots {
		out[s.Time.Format("15:04")] = s.Available
	}
	return out
}
