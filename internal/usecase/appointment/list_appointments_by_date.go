package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/dto"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

// Execute lists every status for the tenant-local day. employeeID 0 means
// all employees.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uint,
	employeeID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	tenant, err := uc.repo.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, lookup(err, "tenant_not_found")
	}

	loc := timezone.Location(tenant.Timezone)

	start := timezone.Date(date, loc)
	end := start.AddDate(0, 0, 1)

	return listPeriod(ctx, uc.repo, tenantID, employeeID, start, end, loc)
}

func listPeriod(
	ctx context.Context,
	repo domain.Repository,
	tenantID uint,
	employeeID uint,
	start time.Time,
	end time.Time,
	loc *time.Location,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := repo.ListAppointmentsForPeriod(
		ctx,
		tenantID,
		employeeID,
		start,
		end,
	)
	if err != nil {
		return nil, httperr.ErrPersistence("storage_error", err)
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, toListDTO(ap, loc))
	}

	return out, nil
}

func toListDTO(ap models.Appointment, loc *time.Location) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:            ap.ID,
		StartTime:     ap.StartTime.In(loc),
		EndTime:       ap.EndTime.In(loc),
		Status:        ap.Status,
		PaymentStatus: ap.PaymentStatus,
		Price:         ap.Price,
		EmployeeID:    ap.EmployeeID,
		EmployeeName:  ap.Employee.Name,
		ClientName:    ap.Client.Name,
		ClientPhone:   ap.Client.Phone,
		ServiceName:   ap.Service.Name,
	}
}
