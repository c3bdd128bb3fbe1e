package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/db"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	nop := zerolog.Nop()
	gdb, err := db.Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, &nop)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

type fixture struct {
	tenant   models.Tenant
	employee models.Employee
	service  models.Service
	client   models.Client
}

func seed(t *testing.T, catalog domain.CatalogRepository, appts domain.Repository) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		tenant:   models.Tenant{Name: "Shop", Slug: "shop-" + uuid.NewString()[:8], Timezone: "UTC"},
		employee: models.Employee{Name: "Ana", Active: true},
		service:  models.Service{Name: "Cut", DurationMin: 60, Price: 50, Active: true},
		client:   models.Client{Name: "Bob", Phone: "5511999990000"},
	}

	require.NoError(t, catalog.CreateTenant(ctx, &f.tenant))
	f.employee.TenantID = f.tenant.ID
	f.service.TenantID = f.tenant.ID
	f.client.TenantID = f.tenant.ID
	require.NoError(t, catalog.CreateEmployee(ctx, &f.employee))
	require.NoError(t, catalog.CreateService(ctx, &f.service))
	require.NoError(t, appts.CreateClient(ctx, &f.client))
	return f
}

func at(hour, min int) time.Time {
	return time.Date(2026, 10, 20, hour, min, 0, 0, time.UTC)
}

func TestAppointmentGormRepository(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAppointmentGormRepository(gdb)
	catalog := NewCatalogGormRepository(gdb)
	f := seed(t, catalog, repo)
	ctx := context.Background()

	ap := &models.Appointment{
		TenantID:   f.tenant.ID,
		EmployeeID: f.employee.ID,
		ClientID:   f.client.ID,
		ServiceID:  f.service.ID,
		StartTime:  at(10, 0),
		EndTime:    at(11, 0),
		Status:     string(domain.StatusPending),
		Price:      50,
	}
	require.NoError(t, repo.CreateAppointment(ctx, ap))
	require.NotZero(t, ap.ID)

	t.Run("ActiveOverlapIsHalfOpen", func(t *testing.T) {
		list, err := repo.ListActiveAppointments(ctx, f.employee.ID, at(11, 0), at(12, 0))
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = repo.ListActiveAppointments(ctx, f.employee.ID, at(10, 30), at(11, 30))
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("GetPreloadsAssociations", func(t *testing.T) {
		got, err := repo.GetAppointment(ctx, f.tenant.ID, ap.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.Client.Name)
		assert.Equal(t, "Ana", got.Employee.Name)
		assert.Equal(t, "Cut", got.Service.Name)

		_, err = repo.GetAppointment(ctx, f.tenant.ID+100, ap.ID)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("UpdateStatusIfIsCompareAndSet", func(t *testing.T) {
		now := time.Now()
		ap.Status = string(domain.StatusConfirmed)
		ap.ConfirmedAt = &now

		ok, err := repo.UpdateStatusIf(ctx, ap, domain.StatusPending)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.UpdateStatusIf(ctx, ap, domain.StatusPending)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetAppointment(ctx, f.tenant.ID, ap.ID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), got.Status)
		assert.NotNil(t, got.ConfirmedAt)
	})

	t.Run("CancelledFreesTime", func(t *testing.T) {
		ap.Status = string(domain.StatusCancelled)
		ok, err := repo.UpdateStatusIf(ctx, ap, domain.StatusConfirmed)
		require.NoError(t, err)
		require.True(t, ok)

		list, err := repo.ListActiveAppointments(ctx, f.employee.ID, at(9, 0), at(12, 0))
		require.NoError(t, err)
		assert.Empty(t, list)

		all, err := repo.ListAppointmentsForPeriod(ctx, f.tenant.ID, 0, at(0, 0), at(23, 59))
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Payment", func(t *testing.T) {
		ap.PaymentStatus = string(domain.PaymentPaid)
		ap.PaymentMethod = "pix"
		require.NoError(t, repo.UpdatePayment(ctx, ap))

		got, err := repo.GetAppointment(ctx, f.tenant.ID, ap.ID)
		require.NoError(t, err)
		assert.Equal(t, "paid", got.PaymentStatus)
		assert.Equal(t, "pix", got.PaymentMethod)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteAppointment(ctx, f.tenant.ID, ap.ID))
		assert.ErrorIs(t, repo.DeleteAppointment(ctx, f.tenant.ID, ap.ID), domain.ErrRecordNotFound)
	})
}

func TestClientPersistence(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAppointmentGormRepository(gdb)
	catalog := NewCatalogGormRepository(gdb)
	f := seed(t, catalog, repo)
	ctx := context.Background()

	_, err := repo.FindClientByPhone(ctx, f.tenant.ID, "000")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	dup := &models.Client{TenantID: f.tenant.ID, Name: "Other", Phone: f.client.Phone}
	err = repo.CreateClient(ctx, dup)
	assert.True(t, httperr.IsConflict(err))

	require.NoError(t, repo.AddClientVisit(ctx, f.client.ID, 50))
	require.NoError(t, repo.AddClientVisit(ctx, f.client.ID, 30))

	got, err := repo.FindClientByPhone(ctx, f.tenant.ID, f.client.Phone)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VisitCount)
	assert.InDelta(t, 80, got.TotalSpent, 0.001)

	clients, err := catalog.ListClients(ctx, f.tenant.ID, "bo")
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestScheduleGormRepository(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewScheduleGormRepository(gdb)
	ctx := context.Background()

	rid := uuid.NewString()
	var blocks []models.ScheduleBlock
	for i := 0; i < 10; i++ {
		day := at(12, 0).AddDate(0, 0, i)
		blocks = append(blocks, models.ScheduleBlock{
			TenantID:       1,
			EmployeeID:     2,
			StartTime:      day,
			EndTime:        day.Add(time.Hour),
			Reason:         "Lunch",
			Recurring:      true,
			RecurrenceRule: models.RecurrenceDailyLunch,
			RecurrenceID:   rid,
		})
	}
	require.NoError(t, repo.CreateBlocks(ctx, blocks))

	list, err := repo.ListBlocks(ctx, 2, at(0, 0), at(23, 59))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Lunch", list[0].Reason)

	last, err := repo.LastRecurrenceBlock(ctx, 1, rid)
	require.NoError(t, err)
	assert.True(t, last.StartTime.Equal(at(12, 0).AddDate(0, 0, 9)))

	_, err = repo.LastRecurrenceBlock(ctx, 99, rid)
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	n, err := repo.DeleteRecurrence(ctx, 1, rid)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	assert.ErrorIs(t, repo.DeleteBlock(ctx, 1, list[0].ID), domain.ErrRecordNotFound)
}

func TestAuditGormRepository(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewAuditGormRepository(gdb)
	ctx := context.Background()

	for _, action := range []string{"appointment_created", "appointment_cancelled", "appointment_created"} {
		require.NoError(t, repo.CreateAuditLog(ctx, &models.AuditLog{TenantID: 1, Action: action, Entity: "appointment"}))
	}
	require.NoError(t, repo.CreateAuditLog(ctx, &models.AuditLog{TenantID: 2, Action: "appointment_created"}))

	logs, total, err := repo.ListAuditLogs(ctx, audit.Filter{TenantID: 1, Action: "appointment_created", Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)

	logs, total, err = repo.ListAuditLogs(ctx, audit.Filter{TenantID: 1, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 1)
}
