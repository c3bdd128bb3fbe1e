package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Times are written in UTC; callers convert to the tenant location.
type AppointmentGormRepository struct {
	tenantStore
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{tenantStore{db: db}}
}

// --------------------------------------------------
// Tenant
// --------------------------------------------------

type tenantStore struct {
	db *gorm.DB
}

func (r tenantStore) GetTenantByID(
	ctx context.Context,
	id uint,
) (*models.Tenant, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r tenantStore) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var t models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// --------------------------------------------------
// Employee / Service
// --------------------------------------------------

func (r tenantStore) GetEmployee(
	ctx context.Context,
	tenantID uint,
	employeeID uint,
) (*models.Employee, error) {

	var e models.Employee
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", employeeID, tenantID).
		First(&e).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r tenantStore) GetService(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", serviceID, tenantID).
		First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) FindClientByPhone(
	ctx context.Context,
	tenantID uint,
	phone string,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND phone = ?", tenantID, phone).
		First(&client).Error; err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

func (r *AppointmentGormRepository) CreateClient(
	ctx context.Context,
	client *models.Client,
) error {
	err := r.db.WithContext(ctx).Create(client).Error
	if isDuplicate(err) {
		return httperr.ErrConflict("client_exists")
	}
	return err
}

func (r *AppointmentGormRepository) UpdateClient(
	ctx context.Context,
	client *models.Client,
) error {
	return r.db.WithContext(ctx).
		Model(client).
		Select("name", "email", "updated_at").
		Updates(client).Error
}

func (r *AppointmentGormRepository) AddClientVisit(
	ctx context.Context,
	clientID uint,
	spent float64,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{
			"visit_count": gorm.Expr("visit_count + 1"),
			"total_spent": gorm.Expr("total_spent + ?", spent),
		}).Error
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()
	ap.ConfirmedAt = utcPtr(ap.ConfirmedAt)

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(ap).Error

	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("time_conflict")
	}
	return err
}

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
	employeeID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "employee_id", "start_time", "end_time", "status").
		Where(
			"employee_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			employeeID,
			domain.ActiveStatuses,
			end.UTC(),
			start.UTC(),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Service").
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateStatusIf(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ? AND status = ?", ap.ID, ap.TenantID, string(from)).
		Updates(map[string]any{
			"status":              ap.Status,
			"confirmed_at":        utcPtr(ap.ConfirmedAt),
			"cancelled_at":        utcPtr(ap.CancelledAt),
			"completed_at":        utcPtr(ap.CompletedAt),
			"cancellation_reason": ap.CancellationReason,
			"updated_at":          time.Now().UTC(),
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) UpdatePayment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ?", ap.ID, ap.TenantID).
		Updates(map[string]any{
			"payment_status": ap.PaymentStatus,
			"payment_method": ap.PaymentMethod,
			"updated_at":     time.Now().UTC(),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	tenantID uint,
	appointmentID uint,
) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).
		Delete(&models.Appointment{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

// ListAppointmentsForPeriod lists every status; employeeID 0 means all
// employees of the tenant.
func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	tenantID uint,
	employeeID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Employee").
		Preload("Service").
		Where(
			"tenant_id = ? AND start_time >= ? AND start_time < ?",
			tenantID,
			start.UTC(),
			end.UTC(),
		)

	if employeeID != 0 {
		q = q.Where("employee_id = ?", employeeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || httperr.IsExclusionConflict(err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
