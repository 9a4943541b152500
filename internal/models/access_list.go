package models

import (
	"time"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// ACLType determines which kind of rules an access list holds.
type ACLType string

const (
	ACLTypeStandard ACLType = "standard"
	ACLTypeExtended ACLType = "extended"
)

// ValidACLTypes lists the accepted access list types.
var ValidACLTypes = []ACLType{ACLTypeStandard, ACLTypeExtended}

// IsValid reports whether t is one of the known ACL types.
func (t ACLType) IsValid() bool {
	return t == ACLTypeStandard || t == ACLTypeExtended
}

// ACLAction is the permit/deny decision of a rule or of an ACL's default.
type ACLAction string

const (
	ACLActionPermit ACLAction = "permit"
	ACLActionDeny   ACLAction = "deny"
)

// ValidACLActions lists the accepted actions.
var ValidACLActions = []ACLAction{ACLActionPermit, ACLActionDeny}

func (a ACLAction) IsValid() bool {
	return a == ACLActionPermit || a == ACLActionDeny
}

// AccessList is a named, ordered set of rules attached to a device.
// The name is unique per device, compared case-insensitively.
type AccessList struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UUID          string    `json:"uuid" gorm:"uniqueIndex"`
	Name          string    `json:"name" gorm:"index"`
	NameKey       string    `json:"-" gorm:"size:191;uniqueIndex:idx_acl_device_name,priority:2"`
	DeviceID      uint      `json:"device_id" gorm:"index;uniqueIndex:idx_acl_device_name,priority:1"`
	Device        *Device   `json:"device,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Type          ACLType   `json:"type"`           // "standard" or "extended"
	DefaultAction ACLAction `json:"default_action"` // behaviour when no rule matches
	Comments      string    `json:"comments" gorm:"type:text"`
	Tags          []Tag     `json:"tags" gorm:"many2many:access_list_tags;joinForeignKey:AccessListID;joinReferences:TagID"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FoldName returns the key two access list names collide on. Unicode case
// folding makes "Édge-In" and "édge-in" equal.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// BeforeSave keeps NameKey in step with Name.
func (a *AccessList) BeforeSave(tx *gorm.DB) error {
	a.NameKey = FoldName(a.Name)
	return nil
}
