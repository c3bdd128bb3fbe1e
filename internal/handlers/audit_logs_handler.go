package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	store audit.Store
}

func NewAuditLogsHandler(store audit.Store) *AuditLogsHandler {
	return &AuditLogsHandler{store: store}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// always scoped to the caller's tenant
	filter := audit.Filter{
		TenantID: middleware.TenantID(c),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(dateLayout, fromStr); err == nil {
			filter.From = &from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(dateLayout, toStr); err == nil {
			end := to.Add(24 * time.Hour)
			filter.To = &end
		}
	}

	logs, total, err := h.store.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
