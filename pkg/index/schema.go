// SPDX-License-Identifier: Apache-2.0

// Package index implements document schemas: the mapping and settings of the
// index they are stored in, and the validation and wire rendering of the
// documents.
package index

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"github.com/xataio/esdoc/pkg/request"
	"github.com/xataio/esdoc/pkg/types"
)

// DefaultIdentityField is the store managed document id. It is never part of
// the mapping nor the document body.
const DefaultIdentityField = "_id"

// the search store rejects ids longer than 512 bytes
const idFieldLengthLimit = 512

const (
	defaultPrimaryShards = 1
	defaultReplicas      = 1
	defaultCodec         = "default"
)

// Field is a schema field declaration.
type Field struct {
	Name string
	Type types.FieldType
	// Optional fields are not validated when absent.
	Optional   bool
	Default    any
	HasDefault bool
}

// Schema describes the documents of an index. It is built once with
// NewSchema and is immutable afterwards.
type Schema struct {
	name          string
	fields        []Field
	identityField string
	indexName     string
	indexFn       func(*Document) string
	dataStream    bool

	primaryShards int
	replicas      int
	codec         string
	settings      map[string]any
	indexSettings map[string]any
}

type Option func(s *Schema) error

// NewSchema returns a schema with the given name and options. Field options
// are applied in order, which is the order of the mapping properties.
func NewSchema(name string, opts ...Option) (*Schema, error) {
	s := &Schema{
		name:          name,
		identityField: DefaultIdentityField,
		primaryShards: defaultPrimaryShards,
		replicas:      defaultReplicas,
		codec:         defaultCodec,
		settings:      map[string]any{},
		indexSettings: map[string]any{},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}

	if s.identityField != DefaultIdentityField {
		if _, found := s.field(s.identityField); !found {
			return nil, fmt.Errorf("schema %s: %w", name, types.DefinitionError{
				Reason: fmt.Sprintf("identity field %q is not declared", s.identityField),
			})
		}
	}

	return s, nil
}

// WithField declares a field. Optional declarations are unwrapped to their
// inner type.
func WithField(name string, ft types.FieldType) Option {
	return func(s *Schema) error {
		if name == "" {
			return types.DefinitionError{Reason: "field name is required"}
		}
		if ft == nil {
			return types.DefinitionError{Reason: fmt.Sprintf("field %q has no type", name)}
		}
		if _, found := s.field(name); found {
			return types.DefinitionError{Reason: fmt.Sprintf("field %q is declared twice", name)}
		}

		inner, optional, err := types.Unwrap(ft)
		if err != nil {
			return err
		}
		if inner.Type() == "" {
			return types.DefinitionError{Reason: fmt.Sprintf("field %q has no mapping type", name)}
		}

		s.fields = append(s.fields, Field{
			Name:     name,
			Type:     inner,
			Optional: optional,
		})
		return nil
	}
}

// WithPrimitiveField declares a field of a primitive kind.
func WithPrimitiveField(name string, kind types.PrimitiveKind) Option {
	return func(s *Schema) error {
		p, err := types.NewPrimitive(kind)
		if err != nil {
			return err
		}
		return WithField(name, p)(s)
	}
}

// WithOptionalPrimitiveField declares an optional field of a primitive kind.
func WithOptionalPrimitiveField(name string, kind types.PrimitiveKind) Option {
	return func(s *Schema) error {
		p, err := types.NewPrimitive(kind)
		if err != nil {
			return err
		}
		return WithField(name, types.Optional(p))(s)
	}
}

// WithDefault sets the default value of a declared field.
func WithDefault(name string, value any) Option {
	return func(s *Schema) error {
		for i := range s.fields {
			if s.fields[i].Name == name {
				s.fields[i].Default = value
				s.fields[i].HasDefault = true
				return nil
			}
		}
		return types.DefinitionError{Reason: fmt.Sprintf("default for undeclared field %q", name)}
	}
}

// WithIdentityField uses a declared field as the document id. The field is
// excluded from the mapping and the body.
func WithIdentityField(name string) Option {
	return func(s *Schema) error {
		if name == "" {
			return types.DefinitionError{Reason: "identity field name is required"}
		}
		s.identityField = name
		return nil
	}
}

// WithIndexName sets the static index name of the schema documents.
func WithIndexName(name string) Option {
	return func(s *Schema) error {
		s.indexName = name
		return nil
	}
}

// WithIndexFunc computes the index name per document. It takes precedence
// over the static index name.
func WithIndexFunc(fn func(*Document) string) Option {
	return func(s *Schema) error {
		s.indexFn = fn
		return nil
	}
}

// AsDataStream marks the schema documents as appended to a data stream, with
// no fixed index name.
func AsDataStream() Option {
	return func(s *Schema) error {
		s.dataStream = true
		return nil
	}
}

func WithPrimaryShards(n int) Option {
	return func(s *Schema) error {
		if n < 1 {
			return types.DefinitionError{Reason: "number of primary shards must be positive"}
		}
		s.primaryShards = n
		return nil
	}
}

func WithReplicas(n int) Option {
	return func(s *Schema) error {
		if n < 0 {
			return types.DefinitionError{Reason: "number of replicas can't be negative"}
		}
		s.replicas = n
		return nil
	}
}

func WithCodec(codec string) Option {
	return func(s *Schema) error {
		s.codec = codec
		return nil
	}
}

// WithSettings adds index settings on top of the defaults.
func WithSettings(settings map[string]any) Option {
	return func(s *Schema) error {
		maps.Copy(s.settings, settings)
		return nil
	}
}

// WithIndexSettings adds index settings that override every other setting.
func WithIndexSettings(settings map[string]any) Option {
	return func(s *Schema) error {
		maps.Copy(s.indexSettings, settings)
		return nil
	}
}

func (s *Schema) Name() string {
	return s.name
}

// FieldsWithTypes returns the schema fields in declaration order.
func (s *Schema) FieldsWithTypes() []Field {
	fields := make([]Field, len(s.fields))
	copy(fields, s.fields)
	return fields
}

func (s *Schema) IdentityField() string {
	return s.identityField
}

func (s *Schema) IsDataStream() bool {
	return s.dataStream
}

// IndexName returns the static index name of the schema.
func (s *Schema) IndexName() string {
	return s.indexName
}

// Mapping returns the index mapping, with a property per field except the
// identity field.
func (s *Schema) Mapping() map[string]any {
	properties := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		if f.Name == s.identityField {
			continue
		}
		properties[f.Name] = f.Type.Mapping()
	}
	return map[string]any{
		"mappings": map[string]any{
			"properties": properties,
		},
	}
}

// IndexSettings returns the index settings: the defaults, then the declared
// settings, then the index settings overrides.
func (s *Schema) IndexSettings() map[string]any {
	settings := map[string]any{
		"number_of_shards":   s.primaryShards,
		"codec":              s.codec,
		"number_of_replicas": s.replicas,
	}
	maps.Copy(settings, s.settings)
	maps.Copy(settings, s.indexSettings)
	return settings
}

// StaticIndexCreationRequest returns the request creating the index with the
// schema mapping and settings. An empty name defaults to the static index
// name of the schema.
func (s *Schema) StaticIndexCreationRequest(name string) (*request.Template, error) {
	name, err := s.resolveName(name)
	if err != nil {
		return nil, err
	}

	body := s.Mapping()
	body["settings"] = s.IndexSettings()
	return &request.Template{
		Path:   "/" + url.PathEscape(name),
		Method: http.MethodPut,
		Body:   body,
	}, nil
}

// IndexRefreshRequest returns the request refreshing the index. An empty name
// defaults to the static index name of the schema.
func (s *Schema) IndexRefreshRequest(name string) (*request.Template, error) {
	name, err := s.resolveName(name)
	if err != nil {
		return nil, err
	}
	return RefreshRequest(name), nil
}

// RefreshRequest returns the request refreshing the named index.
func RefreshRequest(name string) *request.Template {
	return &request.Template{
		Path:   "/" + url.PathEscape(name) + "/_refresh",
		Method: http.MethodPost,
	}
}

// NewDocument returns a document of the schema with the given values.
func (s *Schema) NewDocument(values map[string]any) *Document {
	if values == nil {
		values = map[string]any{}
	}
	return &Document{
		Schema: s,
		Values: values,
	}
}

func (s *Schema) resolveName(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if s.dataStream || s.indexName == "" {
		return "", fmt.Errorf("schema %s: %w", s.name, ErrNoIndexName)
	}
	return s.indexName, nil
}

func (s *Schema) field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
