package validation

import (
	"context"
	"fmt"
)

// NameLookup reports whether an access list other than excludeID exists on
// deviceID whose name equals name case-insensitively. excludeID is zero
// when a new access list is being created.
type NameLookup func(ctx context.Context, deviceID uint, name string, excludeID uint) (bool, error)

// AccessListData is the subset of an access list submission the
// uniqueness check looks at.
type AccessListData struct {
	// ID of the access list being edited, zero on create.
	ID       uint
	Name     string
	DeviceID uint
	// Changed is set when name or device differ from the stored record.
	// Always true on create.
	Changed bool
}

// AccessListValidator enforces per-device name uniqueness.
type AccessListValidator struct {
	lookup NameLookup
}

func NewAccessListValidator(lookup NameLookup) *AccessListValidator {
	return &AccessListValidator{lookup: lookup}
}

// Validate returns data unchanged when it is acceptable. A rejected
// submission yields Errors; a failing lookup is returned wrapped.
func (v *AccessListValidator) Validate(ctx context.Context, data AccessListData) (AccessListData, error) {
	if !data.Changed {
		return data, nil
	}

	taken, err := v.lookup(ctx, data.DeviceID, data.Name, data.ID)
	if err != nil {
		return data, fmt.Errorf("look up access list name: %w", err)
	}
	if taken {
		return data, Errors{duplicateName()}
	}
	return data, nil
}
