package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/metrics"
	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/validation"
)

// StandardRuleInput is a create or update submission for a standard rule.
type StandardRuleInput struct {
	AccessListID   uint             `json:"access_list_id"`
	Index          uint             `json:"index"`
	Remark         string           `json:"remark"`
	Action         models.ACLAction `json:"action"`
	SourcePrefixID *uint            `json:"source_prefix_id"`
	Tags           []uint           `json:"tags"`
}

// CreateStandard validates and stores a rule on a standard access list.
func (s *ACLRuleService) CreateStandard(ctx context.Context, in StandardRuleInput) (*models.ACLStandardRule, error) {
	tags, err := s.checkStandard(ctx, &in, 0)
	if err != nil {
		return nil, err
	}

	rule := &models.ACLStandardRule{
		UUID:           uuid.New().String(),
		AccessListID:   in.AccessListID,
		Index:          in.Index,
		Remark:         in.Remark,
		Action:         in.Action,
		SourcePrefixID: in.SourcePrefixID,
		Tags:           tags,
	}
	if err := s.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}

	metrics.IncObjectWritten("standard_rule", "create")
	ruleLog("standard", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule created")
	return s.GetStandard(ctx, rule.ID)
}

// GetStandard retrieves a standard rule by ID.
func (s *ACLRuleService) GetStandard(ctx context.Context, id uint) (*models.ACLStandardRule, error) {
	var rule models.ACLStandardRule
	err := s.db.WithContext(ctx).
		Preload("AccessList").Preload("SourcePrefix").Preload("Tags").
		First(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// ListStandard returns the standard rules matching filter, ordered by
// access list and index.
func (s *ACLRuleService) ListStandard(ctx context.Context, filter StandardRuleFilter) ([]models.ACLStandardRule, error) {
	rules := []models.ACLStandardRule{}
	q := filter.apply(s.db.WithContext(ctx).Model(&models.ACLStandardRule{}))
	err := q.Preload("SourcePrefix").Preload("Tags").
		Order("acl_standard_rules.access_list_id, acl_standard_rules.rule_index").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// UpdateStandard replaces the fields of standard rule id with in.
func (s *ACLRuleService) UpdateStandard(ctx context.Context, id uint, in StandardRuleInput) (*models.ACLStandardRule, error) {
	rule, err := s.GetStandard(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.checkStandard(ctx, &in, rule.ID)
	if err != nil {
		return nil, err
	}

	rule.AccessListID = in.AccessListID
	rule.AccessList = nil
	rule.Index = in.Index
	rule.Remark = in.Remark
	rule.Action = in.Action
	rule.SourcePrefixID = in.SourcePrefixID
	rule.SourcePrefix = nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(rule).Error; err != nil {
			return err
		}
		return replaceTags(tx, rule, tags)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncObjectWritten("standard_rule", "update")
	ruleLog("standard", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule updated")
	return s.GetStandard(ctx, id)
}

// DeleteStandard removes a standard rule and its tag assignments.
func (s *ACLRuleService) DeleteStandard(ctx context.Context, id uint) error {
	rule, err := s.GetStandard(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Tags").Delete(rule).Error; err != nil {
		return err
	}

	metrics.IncObjectWritten("standard_rule", "delete")
	ruleLog("standard", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule deleted")
	return nil
}

// checkStandard runs every check a standard rule submission must pass and
// returns the resolved tags.
func (s *ACLRuleService) checkStandard(ctx context.Context, in *StandardRuleInput, excludeID uint) ([]models.Tag, error) {
	in.Remark = strings.TrimSpace(in.Remark)
	if err := checkLogic(in.Remark, in.Action); err != nil {
		return nil, err
	}
	if _, err := s.parentList(ctx, in.AccessListID, models.ACLTypeStandard); err != nil {
		return nil, err
	}
	if err := s.inventory.CheckPrefix(ctx, in.SourcePrefixID); err != nil {
		return nil, err
	}
	tags, err := s.inventory.ResolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := validation.ValidateStandardRule(validation.StandardRuleData{
		Remark:         in.Remark,
		Action:         in.Action,
		SourcePrefixID: in.SourcePrefixID,
	}); err != nil {
		return nil, recordValidationFailure(err)
	}

	if err := s.checkIndex(ctx, &models.ACLStandardRule{}, in.AccessListID, in.Index, excludeID); err != nil {
		return nil, err
	}
	return tags, nil
}
