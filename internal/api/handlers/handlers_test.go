package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/services"
)

// testInventory holds the reference records every handler test starts with.
type testInventory struct {
	SiteA   models.Site
	SiteB   models.Site
	D1      models.Device
	D2      models.Device
	Mgmt    models.Prefix
	Servers models.Prefix
	Core    models.Tag
}

func seedTestInventory(t *testing.T, db *gorm.DB) testInventory {
	t.Helper()
	inv := testInventory{
		SiteA:   models.Site{Name: "AMS1", Slug: "ams1"},
		SiteB:   models.Site{Name: "BER1", Slug: "ber1"},
		Mgmt:    models.Prefix{Prefix: "10.0.0.0/24", Description: "Management"},
		Servers: models.Prefix{Prefix: "10.1.0.0/16", Description: "Servers"},
		Core:    models.Tag{Name: "core", Slug: "core"},
	}
	require.NoError(t, db.Create(&inv.SiteA).Error)
	require.NoError(t, db.Create(&inv.SiteB).Error)
	inv.D1 = models.Device{Name: "ams1-rtr-01", SiteID: inv.SiteA.ID}
	inv.D2 = models.Device{Name: "ber1-rtr-01", SiteID: inv.SiteB.ID}
	require.NoError(t, db.Create(&inv.D1).Error)
	require.NoError(t, db.Create(&inv.D2).Error)
	require.NoError(t, db.Create(&inv.Mgmt).Error)
	require.NoError(t, db.Create(&inv.Servers).Error)
	require.NoError(t, db.Create(&inv.Core).Error)
	return inv
}

func setupACLTestRouter(t *testing.T) (*gin.Engine, testInventory) {
	t.Helper()
	db := OpenTestDB(t)
	inv := seedTestInventory(t, db)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	inventory := services.NewInventoryService(db)
	rules := services.NewACLRuleService(db, inventory)
	acls := NewAccessListHandler(services.NewAccessListService(db, inventory), rules)
	router.POST("/access-lists", acls.Create)
	router.GET("/access-lists", acls.List)
	router.GET("/access-lists/:id", acls.Get)
	router.PUT("/access-lists/:id", acls.Update)
	router.DELETE("/access-lists/:id", acls.Delete)
	router.GET("/access-lists/:id/rules", acls.Rules)

	rh := NewACLRuleHandler(rules)
	router.POST("/standard-rules", rh.CreateStandard)
	router.GET("/standard-rules", rh.ListStandard)
	router.GET("/standard-rules/:id", rh.GetStandard)
	router.PUT("/standard-rules/:id", rh.UpdateStandard)
	router.DELETE("/standard-rules/:id", rh.DeleteStandard)
	router.POST("/extended-rules", rh.CreateExtended)
	router.GET("/extended-rules", rh.ListExtended)
	router.GET("/extended-rules/:id", rh.GetExtended)
	router.PUT("/extended-rules/:id", rh.UpdateExtended)
	router.DELETE("/extended-rules/:id", rh.DeleteExtended)

	ih := NewInventoryHandler(inventory)
	router.GET("/devices", ih.Devices)
	router.GET("/prefixes", ih.Prefixes)
	router.GET("/tags", ih.Tags)

	return router, inv
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createACL posts an access list and returns its ID.
func createACL(t *testing.T, router *gin.Engine, payload map[string]interface{}) uint {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/access-lists", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var acl models.AccessList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &acl))
	return acl.ID
}

type errorBody struct {
	Error  string `json:"error"`
	Errors []struct {
		Kind    string `json:"kind"`
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
