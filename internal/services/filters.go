package services

import (
	"strings"

	"gorm.io/gorm"

	"github.com/cruse1977/netbox-acls/internal/models"
)

// AccessListFilter narrows access list listings. Multi-valued fields match
// any of their values; every given tag slug must be present.
type AccessListFilter struct {
	Q              string             `form:"q"`
	Tags           []string           `form:"tag"`
	RegionIDs      []uint             `form:"region_id"`
	SiteGroupIDs   []uint             `form:"site_group_id"`
	SiteIDs        []uint             `form:"site_id"`
	DeviceIDs      []uint             `form:"device_id"`
	Types          []models.ACLType   `form:"type"`
	DefaultActions []models.ACLAction `form:"default_action"`
}

func (f AccessListFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Q != "" {
		nameLike := "%" + models.FoldName(strings.TrimSpace(f.Q)) + "%"
		q = q.Where("(access_lists.name_key LIKE ? OR LOWER(access_lists.comments) LIKE ?)", nameLike, likePattern(f.Q))
	}
	q = withAllTags(q, "access_lists.id", "access_list_tags", "access_list_id", f.Tags)
	if len(f.RegionIDs) > 0 {
		q = q.Where("access_lists.device_id IN (SELECT devices.id FROM devices JOIN sites ON sites.id = devices.site_id WHERE sites.region_id IN ?)", f.RegionIDs)
	}
	if len(f.SiteGroupIDs) > 0 {
		q = q.Where("access_lists.device_id IN (SELECT devices.id FROM devices JOIN sites ON sites.id = devices.site_id WHERE sites.group_id IN ?)", f.SiteGroupIDs)
	}
	if len(f.SiteIDs) > 0 {
		q = q.Where("access_lists.device_id IN (SELECT devices.id FROM devices WHERE devices.site_id IN ?)", f.SiteIDs)
	}
	if len(f.DeviceIDs) > 0 {
		q = q.Where("access_lists.device_id IN ?", f.DeviceIDs)
	}
	if len(f.Types) > 0 {
		q = q.Where("access_lists.type IN ?", f.Types)
	}
	if len(f.DefaultActions) > 0 {
		q = q.Where("access_lists.default_action IN ?", f.DefaultActions)
	}
	return q
}

// StandardRuleFilter narrows standard rule listings.
type StandardRuleFilter struct {
	Q               string             `form:"q"`
	Tags            []string           `form:"tag"`
	AccessListIDs   []uint             `form:"access_list_id"`
	Actions         []models.ACLAction `form:"action"`
	SourcePrefixIDs []uint             `form:"source_prefix_id"`
}

func (f StandardRuleFilter) apply(q *gorm.DB) *gorm.DB {
	const table = "acl_standard_rules"
	q = ruleCommon(q, table, "standard_rule_tags", f.Q, f.Tags, f.AccessListIDs, f.Actions)
	if len(f.SourcePrefixIDs) > 0 {
		q = q.Where(table+".source_prefix_id IN ?", f.SourcePrefixIDs)
	}
	return q
}

// ExtendedRuleFilter narrows extended rule listings.
type ExtendedRuleFilter struct {
	Q                    string               `form:"q"`
	Tags                 []string             `form:"tag"`
	AccessListIDs        []uint               `form:"access_list_id"`
	Index                *uint                `form:"index"`
	Actions              []models.ACLAction   `form:"action"`
	SourcePrefixIDs      []uint               `form:"source_prefix_id"`
	DestinationPrefixIDs []uint               `form:"destination_prefix_id"`
	Protocols            []models.ACLProtocol `form:"protocol"`
}

func (f ExtendedRuleFilter) apply(q *gorm.DB) *gorm.DB {
	const table = "acl_extended_rules"
	q = ruleCommon(q, table, "extended_rule_tags", f.Q, f.Tags, f.AccessListIDs, f.Actions)
	if f.Index != nil {
		q = q.Where(table+".rule_index = ?", *f.Index)
	}
	if len(f.SourcePrefixIDs) > 0 {
		q = q.Where(table+".source_prefix_id IN ?", f.SourcePrefixIDs)
	}
	if len(f.DestinationPrefixIDs) > 0 {
		q = q.Where(table+".destination_prefix_id IN ?", f.DestinationPrefixIDs)
	}
	if len(f.Protocols) > 0 {
		q = q.Where(table+".protocol IN ?", f.Protocols)
	}
	return q
}

func ruleCommon(q *gorm.DB, table, tagTable, search string, tags []string, aclIDs []uint, actions []models.ACLAction) *gorm.DB {
	if search != "" {
		q = q.Where("LOWER("+table+".remark) LIKE ?", likePattern(search))
	}
	q = withAllTags(q, table+".id", tagTable, "rule_id", tags)
	if len(aclIDs) > 0 {
		q = q.Where(table+".access_list_id IN ?", aclIDs)
	}
	if len(actions) > 0 {
		q = q.Where(table+".action IN ?", actions)
	}
	return q
}

// withAllTags keeps rows carrying every slug in slugs.
func withAllTags(q *gorm.DB, idColumn, joinTable, joinColumn string, slugs []string) *gorm.DB {
	for _, slug := range slugs {
		q = q.Where(idColumn+" IN (SELECT "+joinTable+"."+joinColumn+" FROM "+joinTable+
			" JOIN tags ON tags.id = "+joinTable+".tag_id WHERE tags.slug = ?)", slug)
	}
	return q
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// replaceTags swaps the tag set of owner, clearing it when tags is empty.
func replaceTags(tx *gorm.DB, owner interface{}, tags []models.Tag) error {
	assoc := tx.Model(owner).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}
