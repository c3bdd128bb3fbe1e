package appointment

import (
	"context"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

// DeleteAppointment removes the row whatever its status.
type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
	userID *uint,
) error {

	if err := uc.repo.DeleteAppointment(ctx, tenantID, appointmentID); err != nil {
		return lookup(err, "appointment_not_found")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   userID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return nil
}
