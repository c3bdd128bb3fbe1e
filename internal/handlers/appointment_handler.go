package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *appointment.CreateAppointment
	availability *appointment.GetAvailability
	status       *appointment.UpdateStatus
	payment      *appointment.UpdatePayment
	del          *appointment.DeleteAppointment
	byDate       *appointment.ListAppointmentsByDate
	byMonth      *appointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	create *appointment.CreateAppointment,
	availability *appointment.GetAvailability,
	status *appointment.UpdateStatus,
	payment *appointment.UpdatePayment,
	del *appointment.DeleteAppointment,
	byDate *appointment.ListAppointmentsByDate,
	byMonth *appointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		availability: availability,
		status:       status,
		payment:      payment,
		del:          del,
		byDate:       byDate,
		byMonth:      byMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	EmployeeID  uint   `json:"employee_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientName  string `json:"client_name" binding:"required"`
	ClientPhone string `json:"client_phone" binding:"required"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), appointment.CreateAppointmentInput{
		TenantID:    middleware.TenantID(c),
		EmployeeID:  req.EmployeeID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ClientEmail: req.ClientEmail,
		Date:        req.Date,
		Time:        req.Time,
		Notes:       req.Notes,
		UserID:      middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
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
		TenantID:   middleware.TenantID(c),
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

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	day, ok := queryDay(c, "date")
	if !ok {
		return
	}
	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return
	}

	list, err := h.byDate.Execute(c.Request.Context(), middleware.TenantID(c), employeeID, day)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Year and month are required.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	employeeID, ok := queryUint(c, "employee_id")
	if !ok {
		return
	}

	list, err := h.byMonth.Execute(c.Request.Context(), middleware.TenantID(c), employeeID, year, month)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// STATUS / PAYMENT
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.status.Execute(c.Request.Context(), appointment.UpdateStatusInput{
		TenantID:      middleware.TenantID(c),
		AppointmentID: id,
		Status:        req.Status,
		Reason:        req.Reason,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) UpdatePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.payment.Execute(c.Request.Context(), appointment.UpdatePaymentInput{
		TenantID:      middleware.TenantID(c),
		AppointmentID: id,
		Status:        req.PaymentStatus,
		Method:        req.PaymentMethod,
		UserID:        middleware.UserID(c),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.del.Execute(c.Request.Context(), middleware.TenantID(c), id, middleware.UserID(c)); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
