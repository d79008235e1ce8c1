// SPDX-License-Identifier: Apache-2.0

package types

// Long is a signed 64 bit integer field. Values are passed through as long as
// they are numeric.
//
// https://www.elastic.co/guide/en/elasticsearch/reference/current/number.html
type Long struct{}

func NewLong() *Long {
	return &Long{}
}

func (l *Long) Type() string {
	return "long"
}

func (l *Long) Normalize(value any) (any, error) {
	if _, ok := parseFloat(value); !ok {
		return nil, invalid(l.Type(), value, "not a number")
	}
	return value, nil
}

func (l *Long) Mapping() map[string]any {
	return map[string]any{"type": l.Type()}
}
