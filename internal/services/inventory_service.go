package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/models"
)

var (
	ErrDeviceNotFound   = errors.New("device does not exist")
	ErrDeviceOutOfScope = errors.New("device is outside the selected region, site group or site")
	ErrPrefixNotFound   = errors.New("prefix does not exist")
	ErrTagNotFound      = errors.New("tag does not exist")
)

// LocationScope narrows the devices an access list may be attached to.
// Empty fields do not constrain anything.
type LocationScope struct {
	RegionIDs    []uint `json:"region_ids"`
	SiteGroupIDs []uint `json:"site_group_ids"`
	SiteID       *uint  `json:"site_id"`
}

// InventoryService resolves references to records owned by the inventory:
// devices, prefixes and tags.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// ResolveDevice loads a device together with its site.
func (s *InventoryService) ResolveDevice(ctx context.Context, id uint) (*models.Device, error) {
	var device models.Device
	if err := s.db.WithContext(ctx).Preload("Site").First(&device, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrDeviceNotFound, id)
		}
		return nil, err
	}
	return &device, nil
}

// CheckScope verifies that device lies within scope.
func (s *InventoryService) CheckScope(device *models.Device, scope LocationScope) error {
	if scope.SiteID != nil && device.SiteID != *scope.SiteID {
		return ErrDeviceOutOfScope
	}
	if len(scope.RegionIDs) == 0 && len(scope.SiteGroupIDs) == 0 {
		return nil
	}
	site := device.Site
	if site == nil {
		return ErrDeviceOutOfScope
	}
	if len(scope.RegionIDs) > 0 && (site.RegionID == nil || !containsID(scope.RegionIDs, *site.RegionID)) {
		return ErrDeviceOutOfScope
	}
	if len(scope.SiteGroupIDs) > 0 && (site.GroupID == nil || !containsID(scope.SiteGroupIDs, *site.GroupID)) {
		return ErrDeviceOutOfScope
	}
	return nil
}

// CheckPrefix returns ErrPrefixNotFound unless id is nil or names an existing prefix.
func (s *InventoryService) CheckPrefix(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Prefix{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %d", ErrPrefixNotFound, *id)
	}
	return nil
}

// ResolveTags loads the tags with the given IDs, failing on the first unknown one.
func (s *InventoryService) ResolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		if !hasTag(tags, id) {
			return nil, fmt.Errorf("%w: %d", ErrTagNotFound, id)
		}
	}
	return tags, nil
}

// ListDevices returns devices ordered by name, optionally limited to a site.
func (s *InventoryService) ListDevices(ctx context.Context, siteID *uint) ([]models.Device, error) {
	var devices []models.Device
	q := s.db.WithContext(ctx).Preload("Site").Order("name")
	if siteID != nil {
		q = q.Where("site_id = ?", *siteID)
	}
	if err := q.Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (s *InventoryService) ListPrefixes(ctx context.Context) ([]models.Prefix, error) {
	var prefixes []models.Prefix
	if err := s.db.WithContext(ctx).Order("prefix").Find(&prefixes).Error; err != nil {
		return nil, err
	}
	return prefixes, nil
}

func (s *InventoryService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func hasTag(tags []models.Tag, id uint) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
