package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	TenantID   uint
	EmployeeID uint
	ServiceID  uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	// Date is YYYY-MM-DD and Time HH:MM, both in the tenant timezone.
	Date  string
	Time  string
	Notes string

	// UserID is set when staff books on behalf of a client.
	UserID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo      domain.Repository
	blocks    domain.BlockRepository
	locker    domain.Locker
	publisher domain.EventPublisher
	audit     *audit.Dispatcher
	defaults  domain.Defaults
	log       *zerolog.Logger
	now       func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	blocks domain.BlockRepository,
	locker domain.Locker,
	publisher domain.EventPublisher,
	audit *audit.Dispatcher,
	defaults domain.Defaults,
	log *zerolog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:      repo,
		blocks:    blocks,
		locker:    locker,
		publisher: publisher,
		audit:     audit,
		defaults:  defaults,
		log:       log,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Required client fields
	// --------------------------------------------------
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ClientPhone = validators.NormalizePhone(in.ClientPhone)
	in.ClientEmail = strings.TrimSpace(in.ClientEmail)

	if in.ClientName == "" {
		return nil, httperr.ErrValidation("client_name_required")
	}
	if in.ClientPhone == "" {
		return nil, httperr.ErrValidation("client_phone_required")
	}
	if in.ClientEmail != "" && !validators.IsEmailValid(in.ClientEmail) {
		return nil, httperr.ErrValidation("invalid_client_email")
	}

	// --------------------------------------------------
	// 2. Tenant / service / employee
	// --------------------------------------------------
	bc, err := loadBookingContext(ctx, uc.repo, uc.defaults, in.TenantID, in.EmployeeID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	loc := bc.settings.Location

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date_or_time")
	}
	end := start.Add(time.Duration(bc.service.DurationMin) * time.Minute)

	day := timezone.StartOfDay(start, loc)
	now := uc.now().In(loc)
	if !withinHorizon(day, now, bc.settings) {
		return nil, httperr.ErrValidation("outside_booking_horizon")
	}

	// --------------------------------------------------
	// 3. Per-employee critical section
	// --------------------------------------------------
	waitStarted := time.Now()
	unlock, err := uc.locker.Lock(ctx, domain.EmployeeLockKey(bc.employee.ID))
	metrics.ObserveLockWait(time.Since(waitStarted).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrLockTimeout) {
			metrics.IncBookingConflict("lock_timeout")
			return nil, httperr.ErrConflict("booking_busy")
		}
		return nil, httperr.ErrPersistence("lock_failed", err)
	}
	defer unlock()

	req, err := slotRequest(ctx, uc.repo, uc.blocks, bc, day, now)
	if err != nil {
		return nil, err
	}

	if reason := schedule.Evaluate(req, start); reason != schedule.ReasonNone {
		metrics.IncBookingConflict(string(reason))
		return nil, httperr.ErrConflict(string(reason))
	}

	client, err := uc.upsertClient(ctx, in)
	if err != nil {
		return nil, err
	}

	status := domain.InitialStatus(bc.settings.AutoConfirm)
	ap := &models.Appointment{
		TenantID:      in.TenantID,
		EmployeeID:    bc.employee.ID,
		ClientID:      client.ID,
		ServiceID:     bc.service.ID,
		StartTime:     start,
		EndTime:       end,
		Status:        string(status),
		PaymentStatus: string(domain.PaymentPending),
		Price:         bc.service.Price,
		Notes:         in.Notes,
	}
	if status == domain.StatusConfirmed {
		confirmedAt := now
		ap.ConfirmedAt = &confirmedAt
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsConflict(err) {
			metrics.IncBookingConflict(string(schedule.ReasonTimeConflict))
			return nil, err
		}
		return nil, httperr.ErrPersistence("appointment_create_failed", err)
	}

	unlock()

	// --------------------------------------------------
	// 4. Side effects (never fail the booking)
	// --------------------------------------------------
	localize(ap, loc)
	ap.Client = *client
	ap.Employee = *bc.employee
	ap.Service = *bc.service

	metrics.IncBookingCreated(ap.Status)

	view := domain.NewView(*ap, *bc.tenant)
	for _, ev := range domain.NewEvents(domain.CreationEvents(status), view) {
		uc.publisher.Publish(ev)
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   in.UserID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"employee_id": ap.EmployeeID,
			"service_id":  ap.ServiceID,
			"start_time":  ap.StartTime,
			"status":      ap.Status,
		},
	})

	return ap, nil
}

// upsertClient finds the client by phone, refreshing name and email, or
// creates it. A concurrent first booking from the same phone is resolved by
// re-reading after the unique index rejects the second insert.
func (uc *CreateAppointment) upsertClient(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Client, error) {

	client, err := uc.repo.FindClientByPhone(ctx, in.TenantID, in.ClientPhone)
	if err == nil {
		if client.Name != in.ClientName || (in.ClientEmail != "" && client.Email != in.ClientEmail) {
			client.Name = in.ClientName
			if in.ClientEmail != "" {
				client.Email = in.ClientEmail
			}
			if err := uc.repo.UpdateClient(ctx, client); err != nil {
				uc.log.Warn().Err(err).Uint("client_id", client.ID).Msg("Client refresh failed")
			}
		}
		return client, nil
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, httperr.ErrPersistence("storage_error", err)
	}

	client = &models.Client{
		TenantID: in.TenantID,
		Name:     in.ClientName,
		Phone:    in.ClientPhone,
		Email:    in.ClientEmail,
	}
	if err := uc.repo.CreateClient(ctx, client); err != nil {
		if !httperr.IsConflict(err) {
			return nil, httperr.ErrPersistence("client_create_failed", err)
		}
		existing, findErr := uc.repo.FindClientByPhone(ctx, in.TenantID, in.ClientPhone)
		if findErr != nil {
			return nil, httperr.ErrPersistence("client_create_failed", findErr)
		}
		return existing, nil
	}

	return client, nil
}
