// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// PrimitiveKind is a plain value kind that can be declared on a schema field
// without an explicit field type.
type PrimitiveKind uint8

const (
	String PrimitiveKind = iota + 1
	Integer
	Float
	Boolean
	Object
)

func (k PrimitiveKind) String() string {
	switch k {
	case String:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k PrimitiveKind) valid() bool {
	return k >= String && k <= Object
}

// ParsePrimitiveKind returns the kind for its name. Both the wire type and
// the value kind names are accepted ("text" or "string", "integer" or "int",
// "boolean" or "bool").
func ParsePrimitiveKind(name string) (PrimitiveKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "text", "string", "str":
		return String, nil
	case "integer", "int":
		return Integer, nil
	case "float":
		return Float, nil
	case "boolean", "bool":
		return Boolean, nil
	case "object", "dict":
		return Object, nil
	default:
		return 0, DefinitionError{Type: name, Reason: "unknown primitive kind"}
	}
}

// Primitive is the implicit field type of a primitive kind. Validation is a
// coercion attempt to the kind.
type Primitive struct {
	kind PrimitiveKind
}

func NewPrimitive(kind PrimitiveKind) (*Primitive, error) {
	if !kind.valid() {
		return nil, DefinitionError{Type: kind.String(), Reason: "unknown primitive kind"}
	}
	return &Primitive{kind: kind}, nil
}

func (p *Primitive) Kind() PrimitiveKind {
	return p.kind
}

func (p *Primitive) Type() string {
	return p.kind.String()
}

func (p *Primitive) Normalize(value any) (any, error) {
	return p.Coerce(value)
}

func (p *Primitive) Mapping() map[string]any {
	return map[string]any{"type": p.Type()}
}

// Coerce converts the value to the primitive kind.
func (p *Primitive) Coerce(value any) (any, error) {
	if value == nil {
		return nil, invalid(p.Type(), value, errNilValue.Error())
	}

	switch p.kind {
	case String:
		return coerceString(value)
	case Integer:
		return coerceInteger(value)
	case Float:
		return coerceFloat(value)
	case Boolean:
		return coerceBoolean(value)
	case Object:
		return coerceObject(value)
	}
	return nil, invalid(p.Type(), value, errUnsupportedValue.Error())
}

func coerceString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	if i, ok := asInt64(value); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := asFloat64(value); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	return nil, invalid(String.String(), value, errUnsupportedValue.Error())
}

func coerceInteger(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return nil, invalid(Integer.String(), value, errUnsupportedValue.Error())
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, invalid(Integer.String(), value, "not an integer")
		}
		return i, nil
	}
	if i, ok := asInt64(value); ok {
		return i, nil
	}
	if f, ok := asFloat64(value); ok {
		i, ok := truncateToInt64(f)
		if !ok {
			return nil, invalid(Integer.String(), value, "out of range")
		}
		return i, nil
	}
	return nil, invalid(Integer.String(), value, errUnsupportedValue.Error())
}

func coerceFloat(value any) (any, error) {
	if _, ok := value.(bool); ok {
		return nil, invalid(Float.String(), value, errUnsupportedValue.Error())
	}
	f, ok := parseFloat(value)
	if !ok {
		return nil, invalid(Float.String(), value, "not a number")
	}
	return f, nil
}

func coerceBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, invalid(Boolean.String(), value, "not a boolean")
		}
		return b, nil
	}
	return nil, invalid(Boolean.String(), value, errUnsupportedValue.Error())
}

func coerceObject(value any) (any, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, invalid(Object.String(), value, errNilValue.Error())
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, invalid(Object.String(), value, "map keys must be strings")
		}
		return value, nil
	case reflect.Struct:
		return value, nil
	}
	return nil, invalid(Object.String(), value, errUnsupportedValue.Error())
}
