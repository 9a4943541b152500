package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/logger"
	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/util"
)

var (
	ErrRuleNotFound           = errors.New("rule not found")
	ErrUnknownAccessList      = errors.New("access list does not exist")
	ErrAccessListTypeMismatch = errors.New("access list type does not match the rule type")
	ErrRuleIndexInUse         = errors.New("index is already used by another rule of this access list")
	ErrRuleLogicRequired      = errors.New("a rule needs either a remark or an action")
	ErrInvalidProtocol        = errors.New("invalid protocol")
	ErrInvalidPort            = errors.New("ports must be between 1 and 65535")
)

// ACLRuleService manages standard and extended rules. Rules are always
// checked against the access list they belong to.
type ACLRuleService struct {
	db        *gorm.DB
	inventory *InventoryService
}

func NewACLRuleService(db *gorm.DB, inventory *InventoryService) *ACLRuleService {
	return &ACLRuleService{db: db, inventory: inventory}
}

// RuleSet is the content of one access list in processing order. Only the
// slice matching the list's type is populated.
type RuleSet struct {
	AccessList    *models.AccessList       `json:"access_list"`
	StandardRules []models.ACLStandardRule `json:"standard_rules,omitempty"`
	ExtendedRules []models.ACLExtendedRule `json:"extended_rules,omitempty"`
}

// RulesFor returns the rules of access list aclID ordered by index.
func (s *ACLRuleService) RulesFor(ctx context.Context, aclID uint) (*RuleSet, error) {
	var acl models.AccessList
	if err := s.db.WithContext(ctx).Preload("Device").Preload("Tags").First(&acl, aclID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessListNotFound
		}
		return nil, err
	}

	set := &RuleSet{AccessList: &acl}
	filter := []uint{aclID}
	var err error
	switch acl.Type {
	case models.ACLTypeStandard:
		set.StandardRules, err = s.ListStandard(ctx, StandardRuleFilter{AccessListIDs: filter})
	case models.ACLTypeExtended:
		set.ExtendedRules, err = s.ListExtended(ctx, ExtendedRuleFilter{AccessListIDs: filter})
	}
	if err != nil {
		return nil, err
	}
	return set, nil
}

// parentList loads the access list a rule refers to and checks its type.
func (s *ACLRuleService) parentList(ctx context.Context, id uint, want models.ACLType) (*models.AccessList, error) {
	var acl models.AccessList
	if err := s.db.WithContext(ctx).First(&acl, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUnknownAccessList, id)
		}
		return nil, err
	}
	if acl.Type != want {
		return nil, fmt.Errorf("%w: %q is %s", ErrAccessListTypeMismatch, acl.Name, acl.Type)
	}
	return &acl, nil
}

// checkIndex fails when another rule of the same list already uses index.
func (s *ACLRuleService) checkIndex(ctx context.Context, model interface{}, aclID, index, excludeID uint) error {
	var count int64
	q := s.db.WithContext(ctx).Model(model).Where("access_list_id = ? AND rule_index = ?", aclID, index)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d", ErrRuleIndexInUse, index)
	}
	return nil
}

// checkLogic validates the choice fields shared by both rule kinds and
// requires an action on rules that are not remarks.
func checkLogic(remark string, action models.ACLAction) error {
	if action != "" && !action.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if remark == "" && action == "" {
		return ErrRuleLogicRequired
	}
	return nil
}

func checkPorts(ports []uint16) error {
	for _, p := range ports {
		if p == 0 {
			return ErrInvalidPort
		}
	}
	return nil
}

func ruleLog(kind string, id, aclID, index uint, remark string) *logrus.Entry {
	return logger.Component("services").WithFields(logrus.Fields{
		"rule_kind":      kind,
		"rule_id":        id,
		"access_list_id": aclID,
		"index":          index,
		"remark":         util.SanitizeAndTruncate(remark, 80),
	})
}
