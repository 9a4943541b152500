package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cruse1977/netbox-acls/internal/services"
)

// ACLRuleHandler serves both the standard and the extended rule endpoints.
type ACLRuleHandler struct {
	service *services.ACLRuleService
}

func NewACLRuleHandler(service *services.ACLRuleService) *ACLRuleHandler {
	return &ACLRuleHandler{service: service}
}

// CreateStandard handles POST /api/v1/standard-rules
func (h *ACLRuleHandler) CreateStandard(c *gin.Context) {
	var in services.StandardRuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.CreateStandard(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListStandard handles GET /api/v1/standard-rules
func (h *ACLRuleHandler) ListStandard(c *gin.Context) {
	var filter services.StandardRuleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rules, err := h.service.ListStandard(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// GetStandard handles GET /api/v1/standard-rules/:id
func (h *ACLRuleHandler) GetStandard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rule, err := h.service.GetStandard(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// UpdateStandard handles PUT /api/v1/standard-rules/:id
func (h *ACLRuleHandler) UpdateStandard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in services.StandardRuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.UpdateStandard(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteStandard handles DELETE /api/v1/standard-rules/:id
func (h *ACLRuleHandler) DeleteStandard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteStandard(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}

// CreateExtended handles POST /api/v1/extended-rules
func (h *ACLRuleHandler) CreateExtended(c *gin.Context) {
	var in services.ExtendedRuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.CreateExtended(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// ListExtended handles GET /api/v1/extended-rules
func (h *ACLRuleHandler) ListExtended(c *gin.Context) {
	var filter services.ExtendedRuleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rules, err := h.service.ListExtended(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// GetExtended handles GET /api/v1/extended-rules/:id
func (h *ACLRuleHandler) GetExtended(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rule, err := h.service.GetExtended(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// UpdateExtended handles PUT /api/v1/extended-rules/:id
func (h *ACLRuleHandler) UpdateExtended(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in services.ExtendedRuleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rule, err := h.service.UpdateExtended(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeleteExtended handles DELETE /api/v1/extended-rules/:id
func (h *ACLRuleHandler) DeleteExtended(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteExtended(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
