// SPDX-License-Identifier: Apache-2.0

package types

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts TextOptions

		wantMapping map[string]any
		wantErr     bool
	}{
		{
			name:        "standard",
			opts:        TextOptions{},
			wantMapping: map[string]any{"type": "text"},
		},
		{
			name:        "match only",
			opts:        TextOptions{MatchOnly: true},
			wantMapping: map[string]any{"type": "match_only_text"},
		},
		{
			name: "allowed params, nil values dropped",
			opts: TextOptions{Params: Params{"analyzer": "english", "store": nil}},
			wantMapping: map[string]any{
				"type":     "text",
				"analyzer": "english",
			},
		},
		{
			name:    "error - param not allowed",
			opts:    TextOptions{Params: Params{"ignore_above": 10}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			text, err := NewText(tc.opts)
			if tc.wantErr {
				var defErr DefinitionError
				require.ErrorAs(t, err, &defErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tc.wantMapping, text.Mapping()); diff != "" {
				t.Errorf("mapping mismatch (-want +got):\n%s", diff)
			}

			v, err := text.Normalize(42)
			require.NoError(t, err)
			require.Equal(t, 42, v)
		})
	}
}

func TestKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts KeywordOptions

		wantType   string
		wantParams map[string]any
		wantErr    bool
	}{
		{
			name:     "standard",
			wantType: "keyword",
		},
		{
			name:     "constant",
			opts:     KeywordOptions{Constant: true},
			wantType: "constant_keyword",
		},
		{
			name:       "wildcard with params",
			opts:       KeywordOptions{Wildcard: true, Params: Params{"ignore_above": 256}},
			wantType:   "wildcard",
			wantParams: map[string]any{"ignore_above": 256},
		},
		{
			name:    "error - constant and wildcard",
			opts:    KeywordOptions{Constant: true, Wildcard: true},
			wantErr: true,
		},
		{
			name:    "error - text param on keyword",
			opts:    KeywordOptions{Params: Params{"analyzer": "english"}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			kw, err := NewKeyword(tc.opts)
			if tc.wantErr {
				var defErr DefinitionError
				require.ErrorAs(t, err, &defErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantType, kw.Type())

			wantMapping := map[string]any{"type": tc.wantType}
			for k, v := range tc.wantParams {
				wantMapping[k] = v
			}
			require.Equal(t, wantMapping, kw.Mapping())
		})
	}
}

func TestIsValidValue(t *testing.T) {
	t.Parallel()

	long := NewLong()

	valid, err := IsValidValue(long, "12", true)
	require.NoError(t, err)
	require.True(t, valid)

	valid, err = IsValidValue(long, "twelve", false)
	require.NoError(t, err)
	require.False(t, valid)

	valid, err = IsValidValue(long, "twelve", true)
	require.False(t, valid)
	var invalidErr ErrValueInvalid
	require.True(t, errors.As(err, &invalidErr))
	require.Equal(t, "long", invalidErr.Type)
}

func TestLong_Normalize(t *testing.T) {
	t.Parallel()

	long := NewLong()
	for _, v := range []any{1, int64(-3), 2.5, "42", " 7 ", uint8(3)} {
		got, err := long.Normalize(v)
		require.NoError(t, err, "value %v", v)
		require.Equal(t, v, got)
	}
	for _, v := range []any{nil, "abc", true, "NaN", []int{1}} {
		_, err := long.Normalize(v)
		require.Error(t, err, "value %v", v)
	}
}

func TestBase(t *testing.T) {
	t.Parallel()

	b, err := NewBase("ip", []string{"ignore_malformed"}, Params{"ignore_malformed": true})
	require.NoError(t, err)
	require.Equal(t, "ip", b.Type())
	require.Equal(t, map[string]any{"type": "ip", "ignore_malformed": true}, b.Mapping())

	_, err = NewBase("", nil, nil)
	require.ErrorAs(t, err, &DefinitionError{})

	_, err = NewBase("ip", nil, Params{"boost": 2})
	require.ErrorAs(t, err, &DefinitionError{})
}

func TestPassthroughTypes(t *testing.T) {
	t.Parallel()

	for _, ft := range []FieldType{NewGeoShape(), NewPolygon()} {
		v, err := ft.Normalize(map[string]any{"type": "polygon"})
		require.NoError(t, err)
		require.NotNil(t, v)

		_, err = ft.Normalize(nil)
		require.Error(t, err)
		require.Equal(t, map[string]any{"type": ft.Type()}, ft.Mapping())
	}
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	long := NewLong()

	ft, optional, err := Unwrap(long)
	require.NoError(t, err)
	require.False(t, optional)
	require.Same(t, long, ft)

	ft, optional, err = Unwrap(Optional(long))
	require.NoError(t, err)
	require.True(t, optional)
	require.Same(t, long, ft)

	_, _, err = Unwrap(Optional(Optional(long)))
	require.ErrorAs(t, err, &DefinitionError{})
}

func TestMust(t *testing.T) {
	t.Parallel()

	require.NotPanics(t, func() { Must(NewText(TextOptions{})) })
	require.Panics(t, func() { Must(NewKeyword(KeywordOptions{Constant: true, Wildcard: true})) })
}
