// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"fmt"
)

// DefinitionError is returned when a field type is declared with an invalid
// configuration. It is raised at definition time, never during validation.
type DefinitionError struct {
	Type   string
	Reason string
}

func (e DefinitionError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("invalid field definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s field definition: %s", e.Type, e.Reason)
}

// ErrValueInvalid is returned when a value cannot be converted to the field
// type.
type ErrValueInvalid struct {
	Type   string
	Value  any
	Reason string
}

func (e ErrValueInvalid) Error() string {
	msg := fmt.Sprintf("value %q cannot be converted to type %s", fmt.Sprint(e.Value), e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

var (
	errNilValue         = errors.New("value is nil")
	errUnsupportedValue = errors.New("unsupported value type")
)

func invalid(typ string, value any, reason string) error {
	return ErrValueInvalid{Type: typ, Value: value, Reason: reason}
}
