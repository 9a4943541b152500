package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruse1977/netbox-acls/internal/models"
)

func TestInventoryHandler_Devices(t *testing.T) {
	router, inv := setupACLTestRouter(t)

	w := doJSON(router, http.MethodGet, "/devices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var devices []models.Device
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &devices))
	assert.Len(t, devices, 2)

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/devices?site_id=%d", inv.SiteB.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "ber1-rtr-01", devices[0].Name)

	w = doJSON(router, http.MethodGet, "/devices?site_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandler_PrefixesAndTags(t *testing.T) {
	router, _ := setupACLTestRouter(t)

	w := doJSON(router, http.MethodGet, "/prefixes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var prefixes []models.Prefix
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &prefixes))
	assert.Len(t, prefixes, 2)

	w = doJSON(router, http.MethodGet, "/tags", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []models.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "core", tags[0].Slug)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", HealthHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "netbox-acls", resp["service"])
	assert.NotEmpty(t, resp["version"])
}
