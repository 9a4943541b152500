package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cruse1977/netbox-acls/internal/services"
)

// InventoryHandler exposes the reference records the UI offers as choices.
type InventoryHandler struct {
	service *services.InventoryService
}

func NewInventoryHandler(service *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// Devices handles GET /api/v1/devices?site_id=
func (h *InventoryHandler) Devices(c *gin.Context) {
	var query struct {
		SiteID *uint `form:"site_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	devices, err := h.service.ListDevices(c.Request.Context(), query.SiteID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// Prefixes handles GET /api/v1/prefixes
func (h *InventoryHandler) Prefixes(c *gin.Context) {
	prefixes, err := h.service.ListPrefixes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefixes)
}

// Tags handles GET /api/v1/tags
func (h *InventoryHandler) Tags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}
