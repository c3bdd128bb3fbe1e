package appointment

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ErrRecordNotFound is returned by every repository lookup that finds nothing.
var ErrRecordNotFound = errors.New("record not found")

// ErrLockTimeout is returned by a Locker whose wait budget ran out.
var ErrLockTimeout = errors.New("lock wait timeout")

type TenantReader interface {
	GetTenantByID(ctx context.Context, id uint) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
}

type Repository interface {
	TenantReader

	// -------- Employee / Service --------
	GetEmployee(
		ctx context.Context,
		tenantID uint,
		employeeID uint,
	) (*models.Employee, error)

	GetService(
		ctx context.Context,
		tenantID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	FindClientByPhone(
		ctx context.Context,
		tenantID uint,
		phone string,
	) (*models.Client, error)

	CreateClient(
		ctx context.Context,
		client *models.Client,
	) error

	UpdateClient(
		ctx context.Context,
		client *models.Client,
	) error

	AddClientVisit(
		ctx context.Context,
		clientID uint,
		spent float64,
	) error

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListActiveAppointments returns pending/confirmed appointments of the
	// employee overlapping [start, end).
	ListActiveAppointments(
		ctx context.Context,
		employeeID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateStatusIf persists ap's status fields only while the stored
	// status is still from. It returns false when another writer won.
	UpdateStatusIf(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) (bool, error)

	UpdatePayment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		tenantID uint,
		appointmentID uint,
	) error

	// -------- Listing --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		tenantID uint,
		employeeID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

type BlockRepository interface {
	CreateBlock(ctx context.Context, block *models.ScheduleBlock) error
	CreateBlocks(ctx context.Context, blocks []models.ScheduleBlock) error
	GetBlock(ctx context.Context, tenantID uint, blockID uint) (*models.ScheduleBlock, error)

	// ListBlocks returns blocks of the employee intersecting [start, end).
	ListBlocks(ctx context.Context, employeeID uint, start, end time.Time) ([]models.ScheduleBlock, error)

	DeleteBlock(ctx context.Context, tenantID uint, blockID uint) error
	DeleteRecurrence(ctx context.Context, tenantID uint, recurrenceID string) (int64, error)
	LastRecurrenceBlock(ctx context.Context, tenantID uint, recurrenceID string) (*models.ScheduleBlock, error)
}

type CatalogRepository interface {
	TenantReader

	CreateTenant(ctx context.Context, t *models.Tenant) error
	UpdateTenant(ctx context.Context, t *models.Tenant) error

	ListEmployees(ctx context.Context, tenantID uint, onlyActive bool) ([]models.Employee, error)
	GetEmployee(ctx context.Context, tenantID uint, employeeID uint) (*models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) error
	UpdateEmployee(ctx context.Context, e *models.Employee) error

	ListServices(ctx context.Context, tenantID uint, onlyActive bool) ([]models.Service, error)
	GetService(ctx context.Context, tenantID uint, serviceID uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	UpdateService(ctx context.Context, s *models.Service) error

	ListClients(ctx context.Context, tenantID uint, query string) ([]models.Client, error)
}

// Locker serializes bookings per key (one key per employee).
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func EmployeeLockKey(employeeID uint) string {
	return "booking:employee:" + strconv.FormatUint(uint64(employeeID), 10)
}
