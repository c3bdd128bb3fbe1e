package appointment

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func TestCreateAppointmentPending(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "5511")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, string(domain.PaymentPending), ap.PaymentStatus)
	assert.Equal(t, time.Date(2026, 10, 20, 11, 0, 0, 0, time.UTC), ap.EndTime.UTC())
	assert.Equal(t, 50.0, ap.Price)
	assert.Nil(t, ap.ConfirmedAt)
	assert.Equal(t, "Ana", ap.Employee.Name)

	assert.Equal(t, []domain.EventType{
		domain.EventClientPending,
		domain.EventAdminCreated,
		domain.EventAppointmentCreated,
	}, h.pub.types())

	ev := h.pub.events[0]
	assert.Equal(t, ap.ID, ev.AppointmentID)
	assert.Equal(t, "Client 5511", ev.View.Client.Name)
	assert.Equal(t, "Cut", ev.View.Service.Name)
	assert.Equal(t, "Studio", ev.View.Tenant.Name)
}

func TestCreateAppointmentAutoConfirm(t *testing.T) {
	h := newHarness(t, func(tn *models.Tenant) { tn.AutoConfirm = true })

	ap, err := h.book(tomorrow, "10:00", "5511")
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.NotNil(t, ap.ConfirmedAt)
	assert.Equal(t, domain.EventClientConfirmed, h.pub.types()[0])
}

func TestCreateAppointmentValidation(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	base := CreateAppointmentInput{
		TenantID:    h.tenant.ID,
		EmployeeID:  h.employee.ID,
		ServiceID:   h.service.ID,
		ClientName:  "Bob",
		ClientPhone: "1",
		Date:        tomorrow,
		Time:        "10:00",
	}

	tests := []struct {
		name   string
		mutate func(in *CreateAppointmentInput)
		code   string
		kind   httperr.Kind
	}{
		{"missing name", func(in *CreateAppointmentInput) { in.ClientName = "  " }, "client_name_required", httperr.KindValidation},
		{"missing phone", func(in *CreateAppointmentInput) { in.ClientPhone = "" }, "client_phone_required", httperr.KindValidation},
		{"punctuation-only phone", func(in *CreateAppointmentInput) { in.ClientPhone = "( ) -" }, "client_phone_required", httperr.KindValidation},
		{"bad email", func(in *CreateAppointmentInput) { in.ClientEmail = "ana@" }, "invalid_client_email", httperr.KindValidation},
		{"bad time", func(in *CreateAppointmentInput) { in.Time = "25:99" }, "invalid_date_or_time", httperr.KindValidation},
		{"past day", func(in *CreateAppointmentInput) { in.Date = "2026-10-17" }, "outside_booking_horizon", httperr.KindValidation},
		{"beyond horizon", func(in *CreateAppointmentInput) { in.Date = "2026-12-01" }, "outside_booking_horizon", httperr.KindValidation},
		{"unknown service", func(in *CreateAppointmentInput) { in.ServiceID = 999 }, "service_not_found", httperr.KindNotFound},
		{"unknown employee", func(in *CreateAppointmentInput) { in.EmployeeID = 999 }, "employee_not_found", httperr.KindNotFound},
		{"unknown tenant", func(in *CreateAppointmentInput) { in.TenantID = 999 }, "tenant_not_found", httperr.KindNotFound},
		{"too soon", func(in *CreateAppointmentInput) { in.Date = "2026-10-19"; in.Time = "09:00" }, "too_soon", httperr.KindConflict},
		{"after hours", func(in *CreateAppointmentInput) { in.Time = "17:30" }, "outside_working_hours", httperr.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := h.create.Execute(ctx, in)
			require.Error(t, err)
			assert.True(t, httperr.IsBusiness(err, tt.code), err.Error())
			assert.Equal(t, tt.kind, httperr.KindOf(err))
		})
	}
}

func TestCreateAppointmentConflictIsRetryable(t *testing.T) {
	h := newHarness(t, nil)

	_, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)

	_, err = h.book(tomorrow, "10:30", "2")
	require.Error(t, err)

	var be httperr.BusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "time_conflict", be.Code)
	assert.True(t, be.Retryable())
}

func TestCreateAppointmentReusesClientByPhone(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	first, err := h.book(tomorrow, "10:00", "777")
	require.NoError(t, err)

	second, err := h.create.Execute(ctx, CreateAppointmentInput{
		TenantID:    h.tenant.ID,
		EmployeeID:  h.employee.ID,
		ServiceID:   h.service.ID,
		ClientName:  "Renamed",
		ClientPhone: "777",
		ClientEmail: "r@example.com",
		Date:        tomorrow,
		Time:        "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ClientID, second.ClientID)

	client, err := h.mem.FindClientByPhone(ctx, h.tenant.ID, "777")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", client.Name)
	assert.Equal(t, "r@example.com", client.Email)
}

func TestCreateAppointmentDurationFrozen(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)

	h.service.DurationMin = 120
	require.NoError(t, h.mem.UpdateService(ctx, &h.service))

	stored, err := h.mem.GetAppointment(ctx, h.tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, ap.EndTime.UTC(), stored.EndTime.UTC())
	assert.Equal(t, time.Hour, stored.EndTime.Sub(stored.StartTime))
}

func TestCreateAppointmentConcurrentSameSlot(t *testing.T) {
	h := newHarness(t, nil)
	h.service.DurationMin = 30
	require.NoError(t, h.mem.UpdateService(context.Background(), &h.service))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := h.book(tomorrow, "14:00", strconv.Itoa(i))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case httperr.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	active, err := h.mem.ListActiveAppointments(
		context.Background(),
		h.employee.ID,
		time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

// Distinct but overlapping windows must never both commit.
func TestCreateAppointmentConcurrentOverlappingWindows(t *testing.T) {
	h := newHarness(t, nil)

	starts := []string{"10:00", "10:30", "11:00", "10:00", "10:30"}
	var wg sync.WaitGroup
	for i, hm := range starts {
		wg.Add(1)
		go func(i int, hm string) {
			defer wg.Done()
			_, _ = h.book(tomorrow, hm, strconv.Itoa(i))
		}(i, hm)
	}
	wg.Wait()

	active, err := h.mem.ListActiveAppointments(
		context.Background(),
		h.employee.ID,
		time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	for i := range active {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			assert.True(t, !a.EndTime.After(b.StartTime) || !b.EndTime.After(a.StartTime))
		}
	}
}

type failingLocker struct{ err error }

func (l failingLocker) Lock(ctx context.Context, key string) (func(), error) {
	return nil, l.err
}

func TestCreateAppointmentWaitsOnlyLockWait(t *testing.T) {
	h := newHarness(t, nil)

	unlock, err := h.locker.Lock(context.Background(), domain.EmployeeLockKey(h.employee.ID))
	require.NoError(t, err)

	started := time.Now()
	_, err = h.book(tomorrow, "10:00", "555")
	elapsed := time.Since(started)

	assert.True(t, httperr.IsBusiness(err, "booking_busy"))
	assert.True(t, httperr.IsConflict(err))
	assert.GreaterOrEqual(t, elapsed, harnessLockWait)
	assert.Less(t, elapsed, 5*harnessLockWait)

	unlock()

	ap, err := h.book(tomorrow, "10:00", "555")
	require.NoError(t, err)
	assert.Equal(t, "pending", ap.Status)
}

func TestCreateAppointmentLockTimeoutIsConflict(t *testing.T) {
	h := newHarness(t, nil)
	nop := zerolog.Nop()

	uc := NewCreateAppointment(h.mem, h.mem, failingLocker{err: domain.ErrLockTimeout}, h.pub, nil, domain.Defaults{}, &nop)
	uc.now = func() time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		TenantID:    h.tenant.ID,
		EmployeeID:  h.employee.ID,
		ServiceID:   h.service.ID,
		ClientName:  "Bob",
		ClientPhone: "1",
		Date:        tomorrow,
		Time:        "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "booking_busy"))
	assert.True(t, httperr.IsConflict(err))
}
