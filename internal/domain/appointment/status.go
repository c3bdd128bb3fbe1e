package appointment

import "github.com/BruksfildServices01/booking-engine/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// ActiveStatuses still occupy employee time.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

func (s Status) OccupiesTime() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ===============================
// Validations
// ===============================

// CanTransition reports whether from -> to is an allowed edge. Staying in
// the same state is not an edge; callers treat it as a no-op.
func CanTransition(from, to Status) error {
	if from.IsTerminal() {
		return httperr.ErrValidation("invalid_transition")
	}
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrValidation("invalid_transition")
}

// InitialStatus follows the tenant auto-confirm switch.
func InitialStatus(autoConfirm bool) Status {
	if autoConfirm {
		return StatusConfirmed
	}
	return StatusPending
}

// ===============================
// Payment Status
// ===============================

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch ps := PaymentStatus(s); ps {
	case PaymentPending, PaymentPaid, PaymentRefunded:
		return ps, true
	}
	return "", false
}
