// SPDX-License-Identifier: Apache-2.0

package types

// KeywordKind selects the wire type of a Keyword field.
type KeywordKind uint8

const (
	KeywordStandard KeywordKind = iota
	// KeywordConstant is a keyword that holds the same value for every
	// document in the index.
	KeywordConstant
	// KeywordWildcard is optimised for high cardinality, unstructured machine
	// generated values.
	KeywordWildcard
)

func (k KeywordKind) String() string {
	switch k {
	case KeywordConstant:
		return "constant_keyword"
	case KeywordWildcard:
		return "wildcard"
	default:
		return "keyword"
	}
}

// KeywordOptions configure a Keyword field. Constant and Wildcard are
// mutually exclusive.
type KeywordOptions struct {
	Constant bool `mapstructure:"constant"`
	Wildcard bool `mapstructure:"wildcard"`
	Params   Params
}

// Keyword is an exact value field.
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/keyword.html
type Keyword struct {
	kind   KeywordKind
	params Params
}

var keywordParams = []string{
	"doc_values",
	"eager_global_ordinals",
	"fields",
	"ignore_above",
	"index",
	"index_options",
	"norms",
	"meta",
	"null_value",
	"on_script_error",
	"script",
	"store",
	"similarity",
	"normalizer",
	"split_queries_on_whitespace",
	"time_series_dimension",
}

func NewKeyword(opts KeywordOptions) (*Keyword, error) {
	var kind KeywordKind
	switch {
	case opts.Constant && opts.Wildcard:
		return nil, DefinitionError{
			Type:   "keyword",
			Reason: "constant_keyword and wildcard can't be set at the same time",
		}
	case opts.Constant:
		kind = KeywordConstant
	case opts.Wildcard:
		kind = KeywordWildcard
	default:
		kind = KeywordStandard
	}

	params, err := filterParams(kind.String(), opts.Params, keywordParams)
	if err != nil {
		return nil, err
	}
	return &Keyword{kind: kind, params: params}, nil
}

func (k *Keyword) Kind() KeywordKind {
	return k.kind
}

func (k *Keyword) Type() string {
	return k.kind.String()
}

func (k *Keyword) Normalize(value any) (any, error) {
	return passthrough(k.Type(), value)
}

func (k *Keyword) Mapping() map[string]any {
	return mappingWithParams(k.Type(), k.params)
}
