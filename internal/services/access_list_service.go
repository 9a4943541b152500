package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/logger"
	"github.com/cruse1977/netbox-acls/internal/metrics"
	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/util"
	"github.com/cruse1977/netbox-acls/internal/validation"
)

var (
	ErrAccessListNotFound    = errors.New("access list not found")
	ErrAccessListNameMissing = errors.New("name is required")
	ErrInvalidACLType        = errors.New("invalid access list type")
	ErrInvalidAction         = errors.New("invalid action")
	ErrAccessListHasRules    = errors.New("access list still has rules")
)

// AccessListInput is a create or update submission for an access list.
type AccessListInput struct {
	Name          string           `json:"name"`
	DeviceID      uint             `json:"device_id"`
	Type          models.ACLType   `json:"type"`
	DefaultAction models.ACLAction `json:"default_action"`
	Comments      string           `json:"comments"`
	Tags          []uint           `json:"tags"`
	LocationScope
}

type AccessListService struct {
	db        *gorm.DB
	inventory *InventoryService
	validator *validation.AccessListValidator
}

func NewAccessListService(db *gorm.DB, inventory *InventoryService) *AccessListService {
	s := &AccessListService{db: db, inventory: inventory}
	s.validator = validation.NewAccessListValidator(s.nameTaken)
	return s
}

// Create validates and stores a new access list.
func (s *AccessListService) Create(ctx context.Context, in AccessListInput) (*models.AccessList, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateAccessListFields(in); err != nil {
		return nil, err
	}

	tags, err := s.resolveReferences(ctx, in)
	if err != nil {
		return nil, err
	}

	if _, err := s.validator.Validate(ctx, validation.AccessListData{
		Name:     in.Name,
		DeviceID: in.DeviceID,
		Changed:  true,
	}); err != nil {
		return nil, recordValidationFailure(err)
	}

	acl := &models.AccessList{
		UUID:          uuid.New().String(),
		Name:          in.Name,
		DeviceID:      in.DeviceID,
		Type:          in.Type,
		DefaultAction: in.DefaultAction,
		Comments:      in.Comments,
		Tags:          tags,
	}
	if err := s.db.WithContext(ctx).Create(acl).Error; err != nil {
		return nil, translateWriteError(err)
	}

	metrics.IncObjectWritten("access_list", "create")
	s.log(acl).Info("access list created")
	return s.GetByID(ctx, acl.ID)
}

// GetByID retrieves an access list by ID with its device and tags.
func (s *AccessListService) GetByID(ctx context.Context, id uint) (*models.AccessList, error) {
	var acl models.AccessList
	if err := s.db.WithContext(ctx).Preload("Device").Preload("Tags").First(&acl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessListNotFound
		}
		return nil, err
	}
	return &acl, nil
}

// List retrieves the access lists matching filter, ordered by device then name.
func (s *AccessListService) List(ctx context.Context, filter AccessListFilter) ([]models.AccessList, error) {
	var acls []models.AccessList
	q := filter.apply(s.db.WithContext(ctx).Model(&models.AccessList{}))
	if err := q.Preload("Device").Preload("Tags").Order("device_id, name").Find(&acls).Error; err != nil {
		return nil, err
	}
	return acls, nil
}

// Update applies in to the access list id. The name check only runs when
// the name or the device changed.
func (s *AccessListService) Update(ctx context.Context, id uint, in AccessListInput) (*models.AccessList, error) {
	acl, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateAccessListFields(in); err != nil {
		return nil, err
	}

	tags, err := s.resolveReferences(ctx, in)
	if err != nil {
		return nil, err
	}

	if in.Type != acl.Type {
		n, err := s.ruleCount(ctx, acl.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, fmt.Errorf("%w: cannot change type of %q", ErrAccessListHasRules, acl.Name)
		}
	}

	if _, err := s.validator.Validate(ctx, validation.AccessListData{
		ID:       acl.ID,
		Name:     in.Name,
		DeviceID: in.DeviceID,
		Changed:  in.Name != acl.Name || in.DeviceID != acl.DeviceID,
	}); err != nil {
		return nil, recordValidationFailure(err)
	}

	// Apply updates
	acl.Name = in.Name
	acl.DeviceID = in.DeviceID
	acl.Device = nil
	acl.Type = in.Type
	acl.DefaultAction = in.DefaultAction
	acl.Comments = in.Comments

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(acl).Error; err != nil {
			return err
		}
		return replaceTags(tx, acl, tags)
	})
	if err != nil {
		return nil, translateWriteError(err)
	}

	metrics.IncObjectWritten("access_list", "update")
	s.log(acl).Info("access list updated")
	return s.GetByID(ctx, id)
}

// Delete removes an access list that no longer has rules.
func (s *AccessListService) Delete(ctx context.Context, id uint) error {
	acl, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.ruleCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrAccessListHasRules
	}

	if err := s.db.WithContext(ctx).Select("Tags").Delete(acl).Error; err != nil {
		return err
	}

	metrics.IncObjectWritten("access_list", "delete")
	s.log(acl).Info("access list deleted")
	return nil
}

// nameTaken backs the uniqueness validator.
func (s *AccessListService) nameTaken(ctx context.Context, deviceID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(&models.AccessList{}).
		Where("device_id = ? AND name_key = ?", deviceID, models.FoldName(name))
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// translateWriteError turns a lost race on the (device, name) unique index
// into the same rejection the validator gives.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return recordValidationFailure(validation.DuplicateNameErrors())
	}
	return err
}

func (s *AccessListService) ruleCount(ctx context.Context, id uint) (int64, error) {
	var std, ext int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.ACLStandardRule{}).Where("access_list_id = ?", id).Count(&std).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.ACLExtendedRule{}).Where("access_list_id = ?", id).Count(&ext).Error; err != nil {
		return 0, err
	}
	return std + ext, nil
}

func (s *AccessListService) resolveReferences(ctx context.Context, in AccessListInput) ([]models.Tag, error) {
	device, err := s.inventory.ResolveDevice(ctx, in.DeviceID)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.CheckScope(device, in.LocationScope); err != nil {
		return nil, err
	}
	return s.inventory.ResolveTags(ctx, in.Tags)
}

func (s *AccessListService) log(acl *models.AccessList) *logrus.Entry {
	return logger.Component("services").WithFields(logrus.Fields{
		"access_list_id": acl.ID,
		"name":           util.SanitizeForLog(acl.Name),
		"device_id":      acl.DeviceID,
	})
}

// validateAccessListFields checks the fields that need no lookup.
func validateAccessListFields(in AccessListInput) error {
	if in.Name == "" {
		return ErrAccessListNameMissing
	}
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidACLType, in.Type)
	}
	if !in.DefaultAction.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, in.DefaultAction)
	}
	return nil
}

// recordValidationFailure counts each rejected field and passes err through.
func recordValidationFailure(err error) error {
	if errs, ok := validation.AsErrors(err); ok {
		for _, e := range errs {
			metrics.IncValidationFailure(string(e.Kind))
		}
	}
	return err
}
