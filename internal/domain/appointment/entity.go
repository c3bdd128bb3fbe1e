package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to target. It returns changed=false without error when
// ap is already in target, so re-sending a status is harmless.
func Transition(ap *models.Appointment, target Status, reason string, now time.Time) (bool, error) {
	current := Status(ap.Status)
	if current == target {
		return false, nil
	}

	if err := CanTransition(current, target); err != nil {
		return false, err
	}

	ap.Status = string(target)

	switch target {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
		ap.CancellationReason = reason
	case StatusCompleted:
		ap.CompletedAt = &now
	}

	return true, nil
}

// SetPayment overwrites the payment fields. Any status may follow any other;
// the previous value is returned so callers can flag odd moves such as
// refunded -> paid.
func SetPayment(ap *models.Appointment, status PaymentStatus, method string) PaymentStatus {
	previous := PaymentStatus(ap.PaymentStatus)
	ap.PaymentStatus = string(status)
	if method != "" {
		ap.PaymentMethod = method
	}
	return previous
}
