package models

import (
	"time"
)

// ACLProtocol is the L4 protocol an extended rule matches on.
type ACLProtocol string

const (
	ACLProtocolICMP ACLProtocol = "icmp"
	ACLProtocolTCP  ACLProtocol = "tcp"
	ACLProtocolUDP  ACLProtocol = "udp"
)

// ValidACLProtocols lists the accepted protocols.
var ValidACLProtocols = []ACLProtocol{ACLProtocolICMP, ACLProtocolTCP, ACLProtocolUDP}

func (p ACLProtocol) IsValid() bool {
	for _, v := range ValidACLProtocols {
		if p == v {
			return true
		}
	}
	return false
}

// ACLStandardRule matches on source prefix only. A rule is either a remark
// or carries logic (action, source prefix), never both.
type ACLStandardRule struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	UUID           string      `json:"uuid" gorm:"uniqueIndex"`
	AccessListID   uint        `json:"access_list_id" gorm:"uniqueIndex:idx_std_rule_acl_index"`
	AccessList     *AccessList `json:"access_list,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Index          uint        `json:"index" gorm:"column:rule_index;uniqueIndex:idx_std_rule_acl_index"`
	Remark         string      `json:"remark"`
	Action         ACLAction   `json:"action"`
	SourcePrefixID *uint       `json:"source_prefix_id"`
	SourcePrefix   *Prefix     `json:"source_prefix,omitempty"`
	Tags           []Tag       `json:"tags" gorm:"many2many:standard_rule_tags;joinForeignKey:RuleID;joinReferences:TagID"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ACLExtendedRule matches on source/destination prefix, ports and protocol.
type ACLExtendedRule struct {
	ID                  uint        `json:"id" gorm:"primaryKey"`
	UUID                string      `json:"uuid" gorm:"uniqueIndex"`
	AccessListID        uint        `json:"access_list_id" gorm:"uniqueIndex:idx_ext_rule_acl_index"`
	AccessList          *AccessList `json:"access_list,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Index               uint        `json:"index" gorm:"column:rule_index;uniqueIndex:idx_ext_rule_acl_index"`
	Remark              string      `json:"remark"`
	Action              ACLAction   `json:"action"`
	SourcePrefixID      *uint       `json:"source_prefix_id"`
	SourcePrefix        *Prefix     `json:"source_prefix,omitempty"`
	SourcePorts         []uint16    `json:"source_ports" gorm:"serializer:json"`
	DestinationPrefixID *uint       `json:"destination_prefix_id"`
	DestinationPrefix   *Prefix     `json:"destination_prefix,omitempty"`
	DestinationPorts    []uint16    `json:"destination_ports" gorm:"serializer:json"`
	Protocol            ACLProtocol `json:"protocol"`
	Tags                []Tag       `json:"tags" gorm:"many2many:extended_rule_tags;joinForeignKey:RuleID;joinReferences:TagID"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (ACLStandardRule) TableName() string { return "acl_standard_rules" }

func (ACLExtendedRule) TableName() string { return "acl_extended_rules" }
