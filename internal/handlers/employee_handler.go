package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

type EmployeeHandler struct {
	catalog domain.CatalogRepository
}

func NewEmployeeHandler(catalog domain.CatalogRepository) *EmployeeHandler {
	return &EmployeeHandler{catalog: catalog}
}

// --------- Requests ---------

type CreateEmployeeRequest struct {
	Name         string             `json:"name" binding:"required"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	WorkingHours models.WeeklyHours `json:"working_hours"`
}

type UpdateEmployeeRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *EmployeeHandler) List(c *gin.Context) {
	active, _ := queryBool(c, "active")

	list, err := h.catalog.ListEmployees(c.Request.Context(), middleware.TenantID(c), active)
	if err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email.")
		return
	}

	hours := req.WorkingHours
	if hours == nil {
		hours = models.WeeklyHours{}
	}
	if err := schedule.ValidateWeeklyHours(hours); err != nil {
		httperr.BadRequest(c, "invalid_working_hours", err.Error())
		return
	}

	employee := models.Employee{
		TenantID:     middleware.TenantID(c),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        validators.NormalizePhone(req.Phone),
		Active:       true,
		WorkingHours: hours,
	}

	if err := h.catalog.CreateEmployee(c.Request.Context(), &employee); err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return
	}

	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	employee, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_email", "Invalid email.")
			return
		}
		employee.Email = email
	}
	if req.Phone != nil {
		employee.Phone = validators.NormalizePhone(*req.Phone)
	}
	if req.Active != nil {
		employee.Active = *req.Active
	}

	if err := h.catalog.UpdateEmployee(c.Request.Context(), employee); err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return
	}

	c.JSON(http.StatusOK, employee)
}

// GetWorkingHours returns the weekly template.
func (h *EmployeeHandler) GetWorkingHours(c *gin.Context) {
	employee, ok := h.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, employee.WorkingHours)
}

// ReplaceWorkingHours swaps the whole template; there are no partial edits.
// Existing appointments are not revalidated.
func (h *EmployeeHandler) ReplaceWorkingHours(c *gin.Context) {
	employee, ok := h.load(c)
	if !ok {
		return
	}

	var hours models.WeeklyHours
	if err := c.ShouldBindJSON(&hours); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}
	if err := schedule.ValidateWeeklyHours(hours); err != nil {
		httperr.BadRequest(c, "invalid_working_hours", err.Error())
		return
	}

	employee.WorkingHours = hours
	if err := h.catalog.UpdateEmployee(c.Request.Context(), employee); err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return
	}

	c.JSON(http.StatusOK, employee.WorkingHours)
}

func (h *EmployeeHandler) load(c *gin.Context) (*models.Employee, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	employee, err := h.catalog.GetEmployee(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		fail(c, lookupErr(err, "employee_not_found"))
		return nil, false
	}
	return employee, true
}
