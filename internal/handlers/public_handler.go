package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated booking surface, addressed by
// tenant slug.
type PublicHandler struct {
	catalog      domain.CatalogRepository
	availability *appointment.GetAvailability
	create       *appointment.CreateAppointment
}

func NewPublicHandler(
	catalog domain.CatalogRepository,
	availability *appointment.GetAvailability,
	create *appointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		catalog:      catalog,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	EmployeeID  uint   `json:"employee_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Notes       string `json:"notes"`
}

type publicTenant struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
}

type publicEmployee struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (h *PublicHandler) tenant(c *gin.Context) (*models.Tenant, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))

	tenant, err := h.catalog.GetTenantBySlug(c.Request.Context(), slug)
	if err != nil {
		fail(c, lookupErr(err, "tenant_not_found"))
		return nil, false
	}
	return tenant, true
}

func toPublicTenant(t *models.Tenant) publicTenant {
	return publicTenant{
		ID:       t.ID,
		Name:     t.Name,
		Slug:     t.Slug,
		Phone:    t.Phone,
		Address:  t.Address,
		Timezone: t.Timezone,
	}
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	services, err := h.catalog.ListServices(c.Request.Context(), tenant.ID, true)
	if err != nil {
		fail(c, lookupErr(err, "service_not_found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":   toPublicTenant(tenant),
		"services": filterServices(services, c.Query("category"), c.Query("query")),
	})
}

func (h *PublicHandler) ListEmployees(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	employees, err := h.catalog.ListEmployees(c.Request.Context(), tenant.ID, true)
	if err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return
	}

	out := make([]publicEmployee, 0, len(employees))
	for _, e := range employees {
		out = append(out, publicEmployee{ID: e.ID, Name: e.Name})
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant":    toPublicTenant(tenant),
		"employees": out,
	})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}
	if employeeID == 0 || serviceID == 0 {
		httperr.BadRequest(c, "missing_params", "employee_id and service_id are required.")
		return
	}

	day, ok := queryDay(c, "date")
	if !ok {
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), domain.AvailabilityInput{
		TenantID:   tenant.ID,
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		Date:       day,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  day.Format(dateLayout),
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	tenant, ok := h.tenant(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		TenantID:    tenant.ID,
		EmployeeID:  req.EmployeeID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}
