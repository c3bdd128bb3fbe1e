package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

func TestUpdatePaymentIsUnconstrained(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)

	for _, step := range []string{"paid", "refunded", "paid", "pending"} {
		got, err := h.payment.Execute(ctx, UpdatePaymentInput{
			TenantID:      h.tenant.ID,
			AppointmentID: ap.ID,
			Status:        step,
			Method:        "pix",
		})
		require.NoError(t, err, step)
		assert.Equal(t, step, got.PaymentStatus)
		assert.Equal(t, "pix", got.PaymentMethod)
	}

	_, err = h.payment.Execute(ctx, UpdatePaymentInput{TenantID: h.tenant.ID, AppointmentID: ap.ID, Status: "chargeback"})
	assert.True(t, httperr.IsBusiness(err, "invalid_payment_status"))

	// payment never touches the booking status
	stored, err := h.mem.GetAppointment(ctx, h.tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", stored.Status)
}

func TestDeleteAppointmentIsHardDelete(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)
	require.NoError(t, h.setStatus(ap.ID, "cancelled", ""))

	require.NoError(t, h.del.Execute(ctx, h.tenant.ID, ap.ID, nil))

	err = h.del.Execute(ctx, h.tenant.ID, ap.ID, nil)
	assert.True(t, httperr.IsNotFound(err))

	_, err = h.mem.GetAppointment(ctx, h.tenant.ID, ap.ID)
	assert.Error(t, err)
}

func TestListAppointments(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	_, err := h.book(tomorrow, "14:00", "1")
	require.NoError(t, err)
	_, err = h.book(tomorrow, "10:00", "2")
	require.NoError(t, err)
	_, err = h.book("2026-10-22", "10:00", "3")
	require.NoError(t, err)

	day, err := h.byDate.Execute(ctx, h.tenant.ID, 0, time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, "10:00", day[0].StartTime.Format("15:04"))
	assert.Equal(t, "Ana", day[0].EmployeeName)
	assert.Equal(t, "Cut", day[0].ServiceName)

	month, err := h.byMonth.Execute(ctx, h.tenant.ID, h.employee.ID, 2026, 10)
	require.NoError(t, err)
	assert.Len(t, month, 3)

	_, err = h.byMonth.Execute(ctx, h.tenant.ID, 0, 2026, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))
}
