package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type EventType string

const (
	EventAppointmentCreated EventType = "appointment.created"
	EventClientConfirmed    EventType = "client.booking_confirmed"
	EventClientPending      EventType = "client.booking_pending"
	EventAdminCreated       EventType = "admin.booking_created"
	EventClientCancelled    EventType = "client.booking_cancelled"
)

// View is the fully hydrated appointment handed to outbound consumers.
type View struct {
	Appointment models.Appointment `json:"appointment"`
	Client      models.Client      `json:"client"`
	Employee    models.Employee    `json:"employee"`
	Service     models.Service     `json:"service"`
	Tenant      models.Tenant      `json:"tenant"`
}

func NewView(ap models.Appointment, tenant models.Tenant) View {
	v := View{
		Client:   ap.Client,
		Employee: ap.Employee,
		Service:  ap.Service,
		Tenant:   tenant,
	}
	ap.Client, ap.Employee, ap.Service = models.Client{}, models.Employee{}, models.Service{}
	v.Appointment = ap
	return v
}

type Event struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	TenantID      uint      `json:"tenant_id"`
	AppointmentID uint      `json:"appointment_id"`
	OccurredAt    time.Time `json:"occurred_at"`
	View          View      `json:"view"`
}

// EventPublisher must never block and never fail the caller.
type EventPublisher interface {
	Publish(ev Event)
}

// CreationEvents are emitted after a successful booking.
func CreationEvents(status Status) []EventType {
	client := EventClientPending
	if status == StatusConfirmed {
		client = EventClientConfirmed
	}
	return []EventType{client, EventAdminCreated, EventAppointmentCreated}
}

// TransitionEvents are emitted on the edge into a new status.
func TransitionEvents(to Status) []EventType {
	switch to {
	case StatusConfirmed:
		return []EventType{EventClientConfirmed}
	case StatusCancelled:
		return []EventType{EventClientCancelled}
	}
	return nil
}

// NewEvents builds one event per type over the same view.
func NewEvents(types []EventType, view View) []Event {
	now := time.Now().UTC()
	out := make([]Event, 0, len(types))
	for _, t := range types {
		out = append(out, Event{
			Type:          t,
			TenantID:      view.Tenant.ID,
			AppointmentID: view.Appointment.ID,
			OccurredAt:    now,
			View:          view,
		})
	}
	return out
}
