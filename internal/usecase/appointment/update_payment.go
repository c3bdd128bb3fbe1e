package appointment

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type UpdatePaymentInput struct {
	TenantID      uint
	AppointmentID uint
	Status        string
	Method        string
	UserID        *uint
}

type UpdatePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	log   *zerolog.Logger
}

func NewUpdatePayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *zerolog.Logger,
) *UpdatePayment {
	return &UpdatePayment{
		repo:  repo,
		audit: audit,
		log:   log,
	}
}

// Execute overwrites the payment status. No transition is refused.
func (uc *UpdatePayment) Execute(
	ctx context.Context,
	in UpdatePaymentInput,
) (*models.Appointment, error) {

	status, ok := domain.ParsePaymentStatus(in.Status)
	if !ok {
		return nil, httperr.ErrValidation("invalid_payment_status")
	}

	tenant, err := uc.repo.GetTenantByID(ctx, in.TenantID)
	if err != nil {
		return nil, lookup(err, "tenant_not_found")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.TenantID, in.AppointmentID)
	if err != nil {
		return nil, lookup(err, "appointment_not_found")
	}

	previous := domain.SetPayment(ap, status, strings.TrimSpace(in.Method))
	if previous == domain.PaymentRefunded && status == domain.PaymentPaid {
		uc.log.Warn().
			Uint("tenant_id", in.TenantID).
			Uint("appointment_id", ap.ID).
			Msg("Payment moved from refunded back to paid")
	}

	if err := uc.repo.UpdatePayment(ctx, ap); err != nil {
		return nil, lookup(err, "appointment_not_found")
	}

	localize(ap, timezone.Location(tenant.Timezone))

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "payment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from":   string(previous),
			"to":     string(status),
			"method": ap.PaymentMethod,
		},
	})

	return ap, nil
}
