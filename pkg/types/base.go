// SPDX-License-Identifier: Apache-2.0

package types

import "strings"

// Base is a field type with a caller defined wire type, for mapping types
// that have no dedicated implementation. Values are passed through.
type Base struct {
	typ    string
	params Params
}

// NewBase returns a field of the given wire type. Params are restricted to
// the allowed list.
func NewBase(typ string, allowed []string, params Params) (*Base, error) {
	if strings.TrimSpace(typ) == "" {
		return nil, DefinitionError{Reason: "field type is required"}
	}
	filtered, err := filterParams(typ, params, allowed)
	if err != nil {
		return nil, err
	}
	return &Base{typ: typ, params: filtered}, nil
}

func (b *Base) Type() string {
	return b.typ
}

func (b *Base) Normalize(value any) (any, error) {
	return passthrough(b.typ, value)
}

func (b *Base) Mapping() map[string]any {
	return mappingWithParams(b.typ, b.params)
}
