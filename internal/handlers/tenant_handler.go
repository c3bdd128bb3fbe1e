package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/validators"
)

type TenantHandler struct {
	catalog domain.CatalogRepository
}

func NewTenantHandler(catalog domain.CatalogRepository) *TenantHandler {
	return &TenantHandler{catalog: catalog}
}

type UpdateTenantRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Timezone   *string `json:"timezone"`
	OwnerEmail *string `json:"owner_email"`
	OwnerPhone *string `json:"owner_phone"`
	WebhookURL *string `json:"webhook_url"`

	MinAdvanceHours     *int  `json:"min_advance_hours"`
	MaxAdvanceDays      *int  `json:"max_advance_days"`
	SlotIntervalMinutes *int  `json:"slot_interval_minutes"`
	BufferMinutes       *int  `json:"buffer_between_appointments"`
	AutoConfirm         *bool `json:"auto_confirm"`
}

func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.catalog.GetTenantByID(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		fail(c, lookupErr(err, "tenant_not_found"))
		return
	}

	c.JSON(http.StatusOK, tenant)
}

func (h *TenantHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	tenant, err := h.catalog.GetTenantByID(ctx, middleware.TenantID(c))
	if err != nil {
		fail(c, lookupErr(err, "tenant_not_found"))
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Name cannot be empty.")
			return
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = validators.NormalizePhone(*req.Phone)
	}
	if req.Address != nil {
		tenant.Address = strings.TrimSpace(*req.Address)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown IANA timezone.")
			return
		}
		tenant.Timezone = *req.Timezone
	}
	if req.OwnerEmail != nil {
		email := strings.TrimSpace(*req.OwnerEmail)
		if email != "" && !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_owner_email", "Invalid email.")
			return
		}
		tenant.OwnerEmail = email
	}
	if req.OwnerPhone != nil {
		tenant.OwnerPhone = validators.NormalizePhone(*req.OwnerPhone)
	}
	if req.WebhookURL != nil {
		raw := strings.TrimSpace(*req.WebhookURL)
		if raw != "" {
			u, err := url.Parse(raw)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				httperr.BadRequest(c, "invalid_webhook_url", "Webhook URL must be http(s).")
				return
			}
		}
		tenant.WebhookURL = raw
	}

	if req.MinAdvanceHours != nil {
		if *req.MinAdvanceHours < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "Lead time must be zero or positive (hours).")
			return
		}
		tenant.MinAdvanceHours = *req.MinAdvanceHours
	}
	if req.MaxAdvanceDays != nil {
		if *req.MaxAdvanceDays <= 0 {
			httperr.BadRequest(c, "invalid_max_advance", "Booking horizon must be positive (days).")
			return
		}
		tenant.MaxAdvanceDays = *req.MaxAdvanceDays
	}
	if req.SlotIntervalMinutes != nil {
		if *req.SlotIntervalMinutes <= 0 {
			httperr.BadRequest(c, "invalid_slot_interval", "Slot interval must be positive (minutes).")
			return
		}
		tenant.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.BufferMinutes != nil {
		if *req.BufferMinutes < 0 {
			httperr.BadRequest(c, "invalid_buffer", "Buffer must be zero or positive (minutes).")
			return
		}
		tenant.BufferMinutes = *req.BufferMinutes
	}
	if req.AutoConfirm != nil {
		tenant.AutoConfirm = *req.AutoConfirm
	}

	if err := h.catalog.UpdateTenant(ctx, tenant); err != nil {
		fail(c, lookupErr(err, "tenant_not_found"))
		return
	}

	c.JSON(http.StatusOK, tenant)
}
