package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruse1977/netbox-acls/internal/models"
)

func TestInventoryService_ResolveDevice(t *testing.T) {
	db := setupTestDB(t)
	f := seedInventory(t, db)
	ctx := context.Background()

	device, err := f.Inventory.ResolveDevice(ctx, f.D1.ID)
	require.NoError(t, err)
	require.NotNil(t, device.Site)
	assert.Equal(t, "ams", device.Site.Slug)

	_, err = f.Inventory.ResolveDevice(ctx, 9999)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestInventoryService_CheckScope(t *testing.T) {
	svc := &InventoryService{}
	region, group, site := uint(1), uint(2), uint(3)
	device := &models.Device{SiteID: site, Site: &models.Site{ID: site, RegionID: &region, GroupID: &group}}

	assert.NoError(t, svc.CheckScope(device, LocationScope{}))
	assert.NoError(t, svc.CheckScope(device, LocationScope{RegionIDs: []uint{7, region}, SiteGroupIDs: []uint{group}, SiteID: &site}))
	assert.ErrorIs(t, svc.CheckScope(device, LocationScope{RegionIDs: []uint{7}}), ErrDeviceOutOfScope)
	assert.ErrorIs(t, svc.CheckScope(device, LocationScope{SiteGroupIDs: []uint{7}}), ErrDeviceOutOfScope)

	other := uint(4)
	assert.ErrorIs(t, svc.CheckScope(device, LocationScope{SiteID: &other}), ErrDeviceOutOfScope)

	bare := &models.Device{SiteID: site}
	assert.ErrorIs(t, svc.CheckScope(bare, LocationScope{RegionIDs: []uint{region}}), ErrDeviceOutOfScope)
}

func TestInventoryService_ReferencesAndLists(t *testing.T) {
	db := setupTestDB(t)
	f := seedInventory(t, db)
	ctx := context.Background()

	assert.NoError(t, f.Inventory.CheckPrefix(ctx, nil))
	assert.NoError(t, f.Inventory.CheckPrefix(ctx, &f.Mgmt.ID))
	assert.ErrorIs(t, f.Inventory.CheckPrefix(ctx, uintPtr(9999)), ErrPrefixNotFound)

	tags, err := f.Inventory.ResolveTags(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, tags)

	tags, err = f.Inventory.ResolveTags(ctx, []uint{f.Edge.ID, f.Core.ID})
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	_, err = f.Inventory.ResolveTags(ctx, []uint{f.Edge.ID, 9999})
	assert.ErrorIs(t, err, ErrTagNotFound)

	devices, err := f.Inventory.ListDevices(ctx, nil)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "ams-rtr-01", devices[0].Name)

	devices, err = f.Inventory.ListDevices(ctx, &f.SiteB.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ber-rtr-01", devices[0].Name)

	prefixes, err := f.Inventory.ListPrefixes(ctx)
	require.NoError(t, err)
	assert.Len(t, prefixes, 2)

	all, err := f.Inventory.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "core", all[0].Slug)
}
