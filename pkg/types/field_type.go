// SPDX-License-Identifier: Apache-2.0

// Package types implements the search field types documents are declared
// with. Each type knows how to validate a value and how to render its own
// mapping fragment.
package types

import (
	"fmt"
	"maps"
	"slices"
)

// FieldType is a field type of a search index mapping.
type FieldType interface {
	// Type is the wire mapping type, e.g. "text" or "geo_point".
	Type() string
	// Normalize returns the canonical value the search store will accept for
	// the value on input, or an ErrValueInvalid error when it would be
	// rejected.
	Normalize(value any) (any, error)
	// Mapping renders the mapping fragment for the field type.
	Mapping() map[string]any
}

// Params are the optional mapping parameters of a field type.
type Params map[string]any

// IsValidValue reports whether the value is accepted by the field type. When
// raiseErr is true the rejection cause is returned along with false.
func IsValidValue(ft FieldType, value any, raiseErr bool) (bool, error) {
	if _, err := ft.Normalize(value); err != nil {
		if raiseErr {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// Must panics if err is not nil. It is meant for package level schema
// declarations, where an invalid definition is a programming error.
func Must[T FieldType](ft T, err error) T {
	if err != nil {
		panic(err)
	}
	return ft
}

// filterParams validates the params on input against the allowed list for
// the type. Nil values are dropped.
func filterParams(typ string, params Params, allowed []string) (Params, error) {
	filtered := make(Params, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		if !slices.Contains(allowed, k) {
			return nil, DefinitionError{
				Type:   typ,
				Reason: fmt.Sprintf("parameter %q is not supported", k),
			}
		}
		if params[k] != nil {
			filtered[k] = params[k]
		}
	}
	return filtered, nil
}

func mappingWithParams(typ string, params Params) map[string]any {
	mapping := make(map[string]any, len(params)+1)
	maps.Copy(mapping, params)
	mapping["type"] = typ
	return mapping
}

// passthrough accepts any non nil value as is.
func passthrough(typ string, value any) (any, error) {
	if value == nil {
		return nil, invalid(typ, value, errNilValue.Error())
	}
	return value, nil
}
