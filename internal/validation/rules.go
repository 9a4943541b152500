package validation

import (
	"strings"

	"github.com/cruse1977/netbox-acls/internal/models"
)

// Rule field names as submitted by clients.
const (
	FieldRemark            = "remark"
	FieldAction            = "action"
	FieldSourcePrefix      = "source_prefix"
	FieldSourcePorts       = "source_ports"
	FieldDestinationPrefix = "destination_prefix"
	FieldDestinationPorts  = "destination_ports"
	FieldProtocol          = "protocol"
)

// StandardRuleData holds the fields of a standard rule that take part in
// the remark check. Prefixes are references resolved elsewhere.
type StandardRuleData struct {
	Remark         string
	Action         models.ACLAction
	SourcePrefixID *uint
}

// ExtendedRuleData holds the fields of an extended rule that take part in
// the remark check.
type ExtendedRuleData struct {
	Remark              string
	Action              models.ACLAction
	SourcePrefixID      *uint
	SourcePorts         []uint16
	DestinationPrefixID *uint
	DestinationPorts    []uint16
	Protocol            models.ACLProtocol
}

type logicField struct {
	name string
	set  bool
}

// ValidateStandardRule rejects a remark combined with an action or a
// source prefix, reporting the first conflicting field.
func ValidateStandardRule(data StandardRuleData) (StandardRuleData, error) {
	return data, checkRemark(data.Remark, []logicField{
		{FieldAction, data.Action != ""},
		{FieldSourcePrefix, data.SourcePrefixID != nil},
	})
}

// ValidateExtendedRule rejects a remark combined with any of the six logic
// fields. Fields are checked in the order action, source prefix, source
// ports, destination prefix, destination ports, protocol.
func ValidateExtendedRule(data ExtendedRuleData) (ExtendedRuleData, error) {
	return data, checkRemark(data.Remark, []logicField{
		{FieldAction, data.Action != ""},
		{FieldSourcePrefix, data.SourcePrefixID != nil},
		{FieldSourcePorts, len(data.SourcePorts) > 0},
		{FieldDestinationPrefix, data.DestinationPrefixID != nil},
		{FieldDestinationPorts, len(data.DestinationPorts) > 0},
		{FieldProtocol, data.Protocol != ""},
	})
}

func checkRemark(remark string, fields []logicField) error {
	if strings.TrimSpace(remark) == "" {
		return nil
	}
	for _, f := range fields {
		if f.set {
			return Errors{mutuallyExclusive(f.name)}
		}
	}
	return nil
}
