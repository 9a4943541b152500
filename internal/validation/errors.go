// Package validation holds the checks every access list and rule
// submission passes before it is persisted.
package validation

import (
	"errors"
	"strings"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindDuplicateName           Kind = "duplicate_name"
	KindMutuallyExclusiveFields Kind = "mutually_exclusive_fields"
)

var (
	ErrDuplicateName           = errors.New("an ACL with this name (case insensitive) is already associated to this device")
	ErrMutuallyExclusiveFields = errors.New("a remark cannot be combined with rule logic")
)

// FieldError is a single user-facing validation failure. Field names the
// submitted field the failure is attached to.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string { return e.Message }

// Unwrap lets callers match a FieldError against the package sentinels.
func (e *FieldError) Unwrap() error {
	switch e.Kind {
	case KindDuplicateName:
		return ErrDuplicateName
	case KindMutuallyExclusiveFields:
		return ErrMutuallyExclusiveFields
	}
	return nil
}

// Errors is the list of failures returned for a rejected submission.
type Errors []*FieldError

func (es Errors) Error() string {
	msgs := make([]string, 0, len(es))
	for _, e := range es {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, 0, len(es))
	for _, e := range es {
		out = append(out, e)
	}
	return out
}

// AsErrors extracts the validation failures carried by err, if any.
func AsErrors(err error) (Errors, bool) {
	var es Errors
	if errors.As(err, &es) {
		return es, true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return Errors{fe}, true
	}
	return nil, false
}

// DuplicateNameErrors is the rejection for a name already used on the
// device, for callers that detect the collision at write time.
func DuplicateNameErrors() Errors {
	return Errors{duplicateName()}
}

func duplicateName() *FieldError {
	return &FieldError{
		Kind:    KindDuplicateName,
		Field:   "name",
		Message: ErrDuplicateName.Error(),
	}
}

// fieldPhrases completes "Cannot input a remark AND ..." for each logic field.
var fieldPhrases = map[string]string{
	FieldAction:            "an action",
	FieldSourcePrefix:      "a source prefix",
	FieldSourcePorts:       "source ports",
	FieldDestinationPrefix: "a destination prefix",
	FieldDestinationPorts:  "destination ports",
	FieldProtocol:          "a protocol",
}

func mutuallyExclusive(field string) *FieldError {
	return &FieldError{
		Kind:    KindMutuallyExclusiveFields,
		Field:   field,
		Message: "Cannot input a remark AND " + fieldPhrases[field] + ". Remove one.",
	}
}
