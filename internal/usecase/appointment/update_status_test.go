package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

func (h *harness) setStatus(id uint, status, reason string) error {
	_, err := h.status.Execute(context.Background(), UpdateStatusInput{
		TenantID:      h.tenant.ID,
		AppointmentID: id,
		Status:        status,
		Reason:        reason,
	})
	return err
}

func TestUpdateStatusConfirmIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)
	h.pub.reset()

	require.NoError(t, h.setStatus(ap.ID, "confirmed", ""))
	require.NoError(t, h.setStatus(ap.ID, "confirmed", ""))

	assert.Equal(t, []domain.EventType{domain.EventClientConfirmed}, h.pub.types())

	stored, err := h.mem.GetAppointment(context.Background(), h.tenant.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
}

func TestUpdateStatusConcurrentConfirmNotifiesOnce(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)
	h.pub.reset()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, h.setStatus(ap.ID, "confirmed", ""))
		}()
	}
	wg.Wait()

	assert.Len(t, h.pub.types(), 1)
}

func TestUpdateStatusCancelFreesSlot(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)
	h.pub.reset()

	cancelled, err := h.status.Execute(context.Background(), UpdateStatusInput{
		TenantID:      h.tenant.ID,
		AppointmentID: ap.ID,
		Status:        "cancelled",
		Reason:        "client asked",
	})
	require.NoError(t, err)
	assert.Equal(t, "client asked", cancelled.CancellationReason)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, []domain.EventType{domain.EventClientCancelled}, h.pub.types())

	assert.True(t, h.slots(t, tomorrow)["10:00"])

	_, err = h.book(tomorrow, "10:00", "2")
	assert.NoError(t, err)
}

func TestUpdateStatusRejectsInvalidEdges(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)

	err = h.setStatus(ap.ID, "completed", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	require.NoError(t, h.setStatus(ap.ID, "cancelled", ""))

	err = h.setStatus(ap.ID, "confirmed", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))

	err = h.setStatus(ap.ID, "archived", "")
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	err = h.setStatus(9999, "confirmed", "")
	assert.True(t, httperr.IsNotFound(err))
}

func TestUpdateStatusCompletedCountsVisit(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)

	require.NoError(t, h.setStatus(ap.ID, "confirmed", ""))
	h.pub.reset()
	require.NoError(t, h.setStatus(ap.ID, "completed", ""))
	assert.Empty(t, h.pub.types())

	client, err := h.mem.FindClientByPhone(ctx, h.tenant.ID, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, client.VisitCount)
	assert.InDelta(t, 50, client.TotalSpent, 0.001)
}

func TestUpdateStatusNoShowFreesSlot(t *testing.T) {
	h := newHarness(t, nil)

	ap, err := h.book(tomorrow, "10:00", "1")
	require.NoError(t, err)
	require.NoError(t, h.setStatus(ap.ID, "no_show", ""))

	assert.True(t, h.slots(t, tomorrow)["10:00"])
}
