// SPDX-License-Identifier: Apache-2.0

package index

import (
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/xataio/esdoc/pkg/types"
	"gopkg.in/yaml.v3"
)

// Definition is the declarative form of a schema, as read from a YAML file:
//
//	name: places
//	index: places
//	identity_field: place_id
//	primary_shards: 3
//	fields:
//	  - name: place_id
//	    type: keyword
//	  - name: description
//	    type: text
//	    optional: true
//	    options:
//	      match_only: true
//	    params:
//	      analyzer: english
//	  - name: location
//	    type: geo_point
type Definition struct {
	Name          string            `yaml:"name"`
	Index         string            `yaml:"index"`
	DataStream    bool              `yaml:"data_stream"`
	IdentityField string            `yaml:"identity_field"`
	PrimaryShards int               `yaml:"primary_shards"`
	Replicas      *int              `yaml:"replicas"`
	Codec         string            `yaml:"codec"`
	Settings      map[string]any    `yaml:"settings"`
	IndexSettings map[string]any    `yaml:"index_settings"`
	Fields        []FieldDefinition `yaml:"fields"`
}

type FieldDefinition struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Optional bool           `yaml:"optional"`
	Default  any            `yaml:"default"`
	Options  map[string]any `yaml:"options"`
	Params   map[string]any `yaml:"params"`
	// Custom fields use the type as is, with no value validation. Allowed
	// lists the params they accept.
	Custom  bool     `yaml:"custom"`
	Allowed []string `yaml:"allowed_params"`
}

// LoadDefinitionFile reads a schema definition from a YAML file.
func LoadDefinitionFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening schema definition: %w", err)
	}
	defer f.Close()

	return LoadDefinition(f)
}

// LoadDefinition reads a schema definition in YAML format.
func LoadDefinition(r io.Reader) (*Schema, error) {
	def := Definition{}
	if err := yaml.NewDecoder(r).Decode(&def); err != nil {
		return nil, fmt.Errorf("decoding schema definition: %w", err)
	}
	return def.Schema()
}

// Schema builds the schema described by the definition.
func (d *Definition) Schema() (*Schema, error) {
	opts := make([]Option, 0, len(d.Fields)+8)
	for _, fd := range d.Fields {
		ft, err := fd.fieldType()
		if err != nil {
			return nil, fmt.Errorf("schema %s: field %s: %w", d.Name, fd.Name, err)
		}
		if fd.Optional {
			ft = types.Optional(ft)
		}
		opts = append(opts, WithField(fd.Name, ft))
		if fd.Default != nil {
			opts = append(opts, WithDefault(fd.Name, fd.Default))
		}
	}

	if d.Index != "" {
		opts = append(opts, WithIndexName(d.Index))
	}
	if d.DataStream {
		opts = append(opts, AsDataStream())
	}
	if d.IdentityField != "" {
		opts = append(opts, WithIdentityField(d.IdentityField))
	}
	if d.PrimaryShards != 0 {
		opts = append(opts, WithPrimaryShards(d.PrimaryShards))
	}
	if d.Replicas != nil {
		opts = append(opts, WithReplicas(*d.Replicas))
	}
	if d.Codec != "" {
		opts = append(opts, WithCodec(d.Codec))
	}
	if len(d.Settings) > 0 {
		opts = append(opts, WithSettings(d.Settings))
	}
	if len(d.IndexSettings) > 0 {
		opts = append(opts, WithIndexSettings(d.IndexSettings))
	}

	return NewSchema(d.Name, opts...)
}

func (fd *FieldDefinition) fieldType() (types.FieldType, error) {
	params := types.Params(fd.Params)

	switch fd.Type {
	case "text", "match_only_text":
		opts := types.TextOptions{}
		if err := decodeOptions(fd.Options, &opts); err != nil {
			return nil, err
		}
		opts.MatchOnly = opts.MatchOnly || fd.Type == "match_only_text"
		opts.Params = params
		return types.NewText(opts)
	case "keyword", "constant_keyword", "wildcard":
		opts := types.KeywordOptions{}
		if err := decodeOptions(fd.Options, &opts); err != nil {
			return nil, err
		}
		opts.Constant = opts.Constant || fd.Type == "constant_keyword"
		opts.Wildcard = opts.Wildcard || fd.Type == "wildcard"
		opts.Params = params
		return types.NewKeyword(opts)
	case "long":
		return types.NewLong(), nil
	case "date":
		return types.NewDate(), nil
	case "geo_point":
		return types.NewGeoPoint(), nil
	case "geo_shape":
		return types.NewGeoShape(), nil
	case "polygon":
		return types.NewPolygon(), nil
	case "":
		return nil, types.DefinitionError{Reason: "field type is required"}
	}

	if fd.Custom {
		return types.NewBase(fd.Type, fd.Allowed, params)
	}
	kind, err := types.ParsePrimitiveKind(fd.Type)
	if err != nil {
		return nil, types.DefinitionError{Type: fd.Type, Reason: "unknown field type"}
	}
	return types.NewPrimitive(kind)
}

func decodeOptions(options map[string]any, out any) error {
	if len(options) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(options); err != nil {
		return types.DefinitionError{Reason: fmt.Sprintf("invalid options: %v", err)}
	}
	return nil
}
