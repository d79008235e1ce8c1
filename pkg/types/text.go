// SPDX-License-Identifier: Apache-2.0

package types

// TextKind selects the wire type of a Text field.
type TextKind uint8

const (
	TextStandard TextKind = iota
	// TextMatchOnly trades scoring and positional queries for disk space.
	TextMatchOnly
)

func (k TextKind) String() string {
	if k == TextMatchOnly {
		return "match_only_text"
	}
	return "text"
}

// TextOptions configure a Text field.
type TextOptions struct {
	// MatchOnly uses the match_only_text type.
	MatchOnly bool `mapstructure:"match_only"`
	Params    Params
}

// Text is a full text field. It accepts any value.
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/text.html
type Text struct {
	kind   TextKind
	params Params
}

var textParams = []string{
	"analyzer",
	"eager_global_ordinals",
	"fielddata",
	"fielddata_frequency_filter",
	"fields",
	"index",
	"index_options",
	"index_prefixes",
	"index_phrases",
	"norms",
	"position_increment_gap",
	"store",
	"search_analyzer",
	"search_quote_analyzer",
	"similarity",
	"term_vector",
	"meta",
}

func NewText(opts TextOptions) (*Text, error) {
	kind := TextStandard
	if opts.MatchOnly {
		kind = TextMatchOnly
	}
	params, err := filterParams(kind.String(), opts.Params, textParams)
	if err != nil {
		return nil, err
	}
	return &Text{kind: kind, params: params}, nil
}

func (t *Text) Kind() TextKind {
	return t.kind
}

func (t *Text) Type() string {
	return t.kind.String()
}

func (t *Text) Normalize(value any) (any, error) {
	return passthrough(t.Type(), value)
}

func (t *Text) Mapping() map[string]any {
	return mappingWithParams(t.Type(), t.params)
}
