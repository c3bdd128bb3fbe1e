package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httpresp"
	"github.com/BruksfildServices01/booking-engine/internal/middleware"
)

type ClientHandler struct {
	catalog domain.CatalogRepository
}

func NewClientHandler(catalog domain.CatalogRepository) *ClientHandler {
	return &ClientHandler{catalog: catalog}
}

// List matches ?query= against name, phone and email.
func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	clients, err := h.catalog.ListClients(c.Request.Context(), middleware.TenantID(c), query)
	if err != nil {
		fail(c, lookupErr(err, "client_not_found"))
		return
	}

	httpresp.List(c, clients)
}
