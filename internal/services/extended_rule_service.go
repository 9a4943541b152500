package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/metrics"
	"github.com/cruse1977/netbox-acls/internal/models"
	"github.com/cruse1977/netbox-acls/internal/validation"
)

// ExtendedRuleInput is a create or update submission for an extended rule.
type ExtendedRuleInput struct {
	AccessListID        uint               `json:"access_list_id"`
	Index               uint               `json:"index"`
	Remark              string             `json:"remark"`
	Action              models.ACLAction   `json:"action"`
	SourcePrefixID      *uint              `json:"source_prefix_id"`
	SourcePorts         []uint16           `json:"source_ports"`
	DestinationPrefixID *uint              `json:"destination_prefix_id"`
	DestinationPorts    []uint16           `json:"destination_ports"`
	Protocol            models.ACLProtocol `json:"protocol"`
	Tags                []uint             `json:"tags"`
}

// CreateExtended validates and stores a rule on an extended access list.
func (s *ACLRuleService) CreateExtended(ctx context.Context, in ExtendedRuleInput) (*models.ACLExtendedRule, error) {
	tags, err := s.checkExtended(ctx, &in, 0)
	if err != nil {
		return nil, err
	}

	rule := &models.ACLExtendedRule{
		UUID:                uuid.New().String(),
		AccessListID:        in.AccessListID,
		Index:               in.Index,
		Remark:              in.Remark,
		Action:              in.Action,
		SourcePrefixID:      in.SourcePrefixID,
		SourcePorts:         in.SourcePorts,
		DestinationPrefixID: in.DestinationPrefixID,
		DestinationPorts:    in.DestinationPorts,
		Protocol:            in.Protocol,
		Tags:                tags,
	}
	if err := s.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}

	metrics.IncObjectWritten("extended_rule", "create")
	ruleLog("extended", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule created")
	return s.GetExtended(ctx, rule.ID)
}

// GetExtended retrieves an extended rule by ID.
func (s *ACLRuleService) GetExtended(ctx context.Context, id uint) (*models.ACLExtendedRule, error) {
	var rule models.ACLExtendedRule
	err := s.db.WithContext(ctx).
		Preload("AccessList").Preload("SourcePrefix").Preload("DestinationPrefix").Preload("Tags").
		First(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

// ListExtended returns the extended rules matching filter, ordered by
// access list and index.
func (s *ACLRuleService) ListExtended(ctx context.Context, filter ExtendedRuleFilter) ([]models.ACLExtendedRule, error) {
	rules := []models.ACLExtendedRule{}
	q := filter.apply(s.db.WithContext(ctx).Model(&models.ACLExtendedRule{}))
	err := q.Preload("SourcePrefix").Preload("DestinationPrefix").Preload("Tags").
		Order("acl_extended_rules.access_list_id, acl_extended_rules.rule_index").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// UpdateExtended replaces the fields of extended rule id with in.
func (s *ACLRuleService) UpdateExtended(ctx context.Context, id uint, in ExtendedRuleInput) (*models.ACLExtendedRule, error) {
	rule, err := s.GetExtended(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.checkExtended(ctx, &in, rule.ID)
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
	rule.SourcePorts = in.SourcePorts
	rule.DestinationPrefixID = in.DestinationPrefixID
	rule.DestinationPrefix = nil
	rule.DestinationPorts = in.DestinationPorts
	rule.Protocol = in.Protocol

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(rule).Error; err != nil {
			return err
		}
		return replaceTags(tx, rule, tags)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncObjectWritten("extended_rule", "update")
	ruleLog("extended", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule updated")
	return s.GetExtended(ctx, id)
}

// DeleteExtended removes an extended rule and its tag assignments.
func (s *ACLRuleService) DeleteExtended(ctx context.Context, id uint) error {
	rule, err := s.GetExtended(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Tags").Delete(rule).Error; err != nil {
		return err
	}

	metrics.IncObjectWritten("extended_rule", "delete")
	ruleLog("extended", rule.ID, rule.AccessListID, rule.Index, rule.Remark).Info("rule deleted")
	return nil
}

func (s *ACLRuleService) checkExtended(ctx context.Context, in *ExtendedRuleInput, excludeID uint) ([]models.Tag, error) {
	in.Remark = strings.TrimSpace(in.Remark)
	if err := checkLogic(in.Remark, in.Action); err != nil {
		return nil, err
	}
	if in.Protocol != "" && !in.Protocol.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProtocol, in.Protocol)
	}
	if err := checkPorts(in.SourcePorts); err != nil {
		return nil, err
	}
	if err := checkPorts(in.DestinationPorts); err != nil {
		return nil, err
	}
	if _, err := s.parentList(ctx, in.AccessListID, models.ACLTypeExtended); err != nil {
		return nil, err
	}
	if err := s.inventory.CheckPrefix(ctx, in.SourcePrefixID); err != nil {
		return nil, err
	}
	if err := s.inventory.CheckPrefix(ctx, in.DestinationPrefixID); err != nil {
		return nil, err
	}
	tags, err := s.inventory.ResolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := validation.ValidateExtendedRule(validation.ExtendedRuleData{
		Remark:              in.Remark,
		Action:              in.Action,
		SourcePrefixID:      in.SourcePrefixID,
		SourcePorts:         in.SourcePorts,
		DestinationPrefixID: in.DestinationPrefixID,
		DestinationPorts:    in.DestinationPorts,
		Protocol:            in.Protocol,
	}); err != nil {
		return nil, recordValidationFailure(err)
	}

	if err := s.checkIndex(ctx, &models.ACLExtendedRule{}, in.AccessListID, in.Index, excludeID); err != nil {
		return nil, err
	}
	return tags, nil
}
