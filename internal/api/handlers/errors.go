package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cruse1977/netbox-acls/internal/api/middleware"
	"github.com/cruse1977/netbox-acls/internal/services"
	"github.com/cruse1977/netbox-acls/internal/validation"
)

// badRequestErrors are submission problems the client can fix.
var badRequestErrors = []error{
	services.ErrAccessListNameMissing,
	services.ErrInvalidACLType,
	services.ErrInvalidAction,
	services.ErrInvalidProtocol,
	services.ErrInvalidPort,
	services.ErrRuleLogicRequired,
	services.ErrDeviceNotFound,
	services.ErrDeviceOutOfScope,
	services.ErrPrefixNotFound,
	services.ErrTagNotFound,
	services.ErrUnknownAccessList,
	services.ErrAccessListTypeMismatch,
}

var conflictErrors = []error{
	services.ErrRuleIndexInUse,
	services.ErrAccessListHasRules,
}

// respondError maps a service error onto a JSON error response.
func respondError(c *gin.Context, err error) {
	if errs, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs.Error(), "errors": errs})
		return
	}
	if errors.Is(err, services.ErrAccessListNotFound) || errors.Is(err, services.ErrRuleNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	middleware.GetRequestLogger(c).WithError(err).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return 0, false
	}
	return uint(id), true
}
