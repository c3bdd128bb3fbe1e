package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type UpdateStatusInput struct {
	TenantID      uint
	AppointmentID uint
	Status        string
	Reason        string
	UserID        *uint
}

type UpdateStatus struct {
	repo      domain.Repository
	publisher domain.EventPublisher
	audit     *audit.Dispatcher
	log       *zerolog.Logger
	now       func() time.Time
}

func NewUpdateStatus(
	repo domain.Repository,
	publisher domain.EventPublisher,
	audit *audit.Dispatcher,
	log *zerolog.Logger,
) *UpdateStatus {
	return &UpdateStatus{
		repo:      repo,
		publisher: publisher,
		audit:     audit,
		log:       log,
		now:       time.Now,
	}
}

// Execute applies one state machine edge. Re-sending the current status
// returns the appointment untouched and emits nothing.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	target, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.ErrValidation("invalid_status")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, lookup(err, "tenant_not_found")
	}
	loc := timezone.Location(tenant.Timezone)

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, lookup(err, "appointment_not_found")
	}

	from := domain.Status(ap.Status)

	changed, err := domain.Transition(ap, target, in.Reason, uc.now().UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		localize(ap, loc)
		return ap, nil
	}

	won, err := uc.repo.UpdateStatusIf(ctx, ap, from)
	if err != nil {
		return nil, httperr.ErrPersistence("appointment_update_failed", err)
	}
	if !won {
		// Someone else moved it first. Same target: their edge, their events.
		current, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
		if err != nil {
			return nil, lookup(err, "appointment_not_found")
		}
		if domain.Status(current.Status) == target {
			localize(current, loc)
			return current, nil
		}
		return nil, httperr.ErrConflict("status_changed")
	}

	metrics.IncTransition(ap.Status)

	if target == domain.StatusCompleted {
		if err := uc.repo.AddClientVisit(ctx, ap.ClientID, ap.Price); err != nil {
			uc.log.Warn().Err(err).Uint("client_id", ap.ClientID).Msg("Client stats update failed")
		}
	}

	localize(ap, loc)

	view := domain.NewView(*ap, *tenant)
	for _, ev := range domain.NewEvents(domain.TransitionEvents(target), view) {
		uc.publisher.Publish(ev)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "appointment_" + string(target),
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from":   string(from),
			"to":     string(target),
			"reason": in.Reason,
		},
	})

	return ap, nil
}
