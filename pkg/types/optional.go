// SPDX-License-Identifier: Apache-2.0

package types

// OptionalType marks a field as not required. Absent values are not
// validated, present ones are checked against the inner type.
type OptionalType struct {
	Inner FieldType
}

// Optional wraps the field type as optional.
func Optional(ft FieldType) *OptionalType {
	return &OptionalType{Inner: ft}
}

func (o *OptionalType) Type() string {
	if o.Inner == nil {
		return ""
	}
	return o.Inner.Type()
}

func (o *OptionalType) Normalize(value any) (any, error) {
	return o.Inner.Normalize(value)
}

func (o *OptionalType) Mapping() map[string]any {
	return o.Inner.Mapping()
}

// Unwrap returns the inner field type of an optional declaration, and
// whether the declaration was optional. Nested optional declarations are a
// DefinitionError.
func Unwrap(ft FieldType) (FieldType, bool, error) {
	opt, ok := ft.(*OptionalType)
	if !ok {
		return ft, false, nil
	}
	if opt.Inner == nil {
		return nil, true, DefinitionError{Reason: "optional field type is missing its inner type"}
	}
	if _, nested := opt.Inner.(*OptionalType); nested {
		return nil, true, DefinitionError{Type: opt.Inner.Type(), Reason: "optional declarations can't be nested"}
	}
	return opt.Inner, true, nil
}
