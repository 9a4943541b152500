package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/database"
	"github.com/cruse1977/netbox-acls/internal/models"
)

// inventoryFixture holds the reference records seeded for each test.
type inventoryFixture struct {
	Region    models.Region
	Group     models.SiteGroup
	SiteA     models.Site // in Region and Group
	SiteB     models.Site // no region, no group
	D1        models.Device
	D2        models.Device
	Mgmt      models.Prefix
	Servers   models.Prefix
	Core      models.Tag
	Edge      models.Tag
	Inventory *InventoryService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedInventory(t *testing.T, db *gorm.DB) *inventoryFixture {
	t.Helper()
	f := &inventoryFixture{
		Region:  models.Region{Name: "Europe", Slug: "europe"},
		Group:   models.SiteGroup{Name: "Campus", Slug: "campus"},
		Mgmt:    models.Prefix{Prefix: "10.0.0.0/24", Description: "management"},
		Servers: models.Prefix{Prefix: "10.1.0.0/16", Description: "servers"},
		Core:    models.Tag{Name: "Core", Slug: "core"},
		Edge:    models.Tag{Name: "Edge", Slug: "edge"},
	}
	require.NoError(t, db.Create(&f.Region).Error)
	require.NoError(t, db.Create(&f.Group).Error)

	f.SiteA = models.Site{Name: "Amsterdam", Slug: "ams", RegionID: &f.Region.ID, GroupID: &f.Group.ID}
	f.SiteB = models.Site{Name: "Berlin", Slug: "ber"}
	require.NoError(t, db.Create(&f.SiteA).Error)
	require.NoError(t, db.Create(&f.SiteB).Error)

	f.D1 = models.Device{Name: "ams-rtr-01", SiteID: f.SiteA.ID}
	f.D2 = models.Device{Name: "ber-rtr-01", SiteID: f.SiteB.ID}
	require.NoError(t, db.Create(&f.D1).Error)
	require.NoError(t, db.Create(&f.D2).Error)

	require.NoError(t, db.Create(&f.Mgmt).Error)
	require.NoError(t, db.Create(&f.Servers).Error)
	require.NoError(t, db.Create(&f.Core).Error)
	require.NoError(t, db.Create(&f.Edge).Error)

	f.Inventory = NewInventoryService(db)
	return f
}

func uintPtr(v uint) *uint { return &v }
