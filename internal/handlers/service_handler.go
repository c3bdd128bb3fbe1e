package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type ServiceHandler struct {
	catalog domain.CatalogRepository
}

func NewServiceHandler(catalog domain.CatalogRepository) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
	Category    string  `json:"category"`
}

// Duration edits never move existing appointments; their end time is frozen.
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	active, activeSet := queryBool(c, "active")

	services, err := h.catalog.ListServices(c.Request.Context(), middleware.TenantID(c), activeSet && active)
	if err != nil {
		fail(c, lookupErr(err, "service_not_found"))
		return
	}

	if activeSet && !active {
		inactive := services[:0]
		for _, s := range services {
			if !s.Active {
				inactive = append(inactive, s)
			}
		}
		services = inactive
	}

	c.JSON(http.StatusOK, filterServices(services, c.Query("category"), c.Query("query")))
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	service := models.Service{
		TenantID:    middleware.TenantID(c),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      true,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
	}

	if err := h.catalog.CreateService(c.Request.Context(), &service); err != nil {
		fail(c, lookupErr(err, "service_not_found"))
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	service, err := h.catalog.GetService(ctx, middleware.TenantID(c), id)
	if err != nil {
		fail(c, lookupErr(err, "service_not_found"))
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be positive (minutes).")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		if *req.Price < 0 {
			httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
			return
		}
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	if req.Category != nil {
		service.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}

	if err := h.catalog.UpdateService(ctx, service); err != nil {
		fail(c, lookupErr(err, "service_not_found"))
		return
	}

	c.JSON(http.StatusOK, service)
}

// filterServices applies the optional category and free-text filters.
func filterServices(services []models.Service, category, query string) []models.Service {
	category = strings.ToLower(strings.TrimSpace(category))
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.Service, 0, len(services))
	for _, s := range services {
		if category != "" && strings.ToLower(s.Category) != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(s.Name), query) &&
			!strings.Contains(strings.ToLower(s.Description), query) {
			continue
		}
		out = append(out, s)
	}
	return out
}
