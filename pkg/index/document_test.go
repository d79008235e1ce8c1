// SPDX-License-Identifier: Apache-2.0

package index

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/pkg/types"
)

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	validValues := func() map[string]any {
		return map[string]any{
			"a": "name",
			"b": "12",
			"g": map[string]any{"lat": 12, "lon": 20},
		}
	}

	tests := []struct {
		name   string
		opts   []Option
		values func() map[string]any

		wantField string
		wantCause error
	}{
		{
			name:   "ok",
			values: validValues,
		},
		{
			name: "ok - absent optional field",
			values: func() map[string]any {
				v := validValues()
				v["c"] = nil
				return v
			},
		},
		{
			name: "ok - absent field with default",
			opts: []Option{WithDefault("b", 0)},
			values: func() map[string]any {
				v := validValues()
				delete(v, "b")
				return v
			},
		},
		{
			name: "error - absent required field",
			values: func() map[string]any {
				v := validValues()
				delete(v, "a")
				return v
			},
			wantField: "a",
			wantCause: ErrRequiredField,
		},
		{
			name: "error - primitive coercion",
			values: func() map[string]any {
				v := validValues()
				v["b"] = "twelve"
				return v
			},
			wantField: "b",
		},
		{
			name: "error - invalid geo point",
			values: func() map[string]any {
				v := validValues()
				v["g"] = map[string]any{"lat": 91, "lon": 10}
				return v
			},
			wantField: "g",
		},
		{
			name: "error - present optional field is validated",
			values: func() map[string]any {
				v := validValues()
				v["c"] = []any{1}
				return v
			},
			wantField: "c",
		},
		{
			name:      "error - custom identity missing",
			opts:      []Option{WithOptionalPrimitiveField("id", types.String), WithIdentityField("id")},
			values:    validValues,
			wantField: "id",
			wantCause: ErrIdentityMissing,
		},
		{
			name: "error - custom identity too long",
			opts: []Option{WithPrimitiveField("id", types.String), WithIdentityField("id")},
			values: func() map[string]any {
				v := validValues()
				v["id"] = strings.Repeat("x", 513)
				return v
			},
			wantField: "id",
			wantCause: ErrIdentityTooLong,
		},
		{
			name: "ok - custom identity at the limit",
			opts: []Option{WithPrimitiveField("id", types.String), WithIdentityField("id")},
			values: func() map[string]any {
				v := validValues()
				v["id"] = strings.Repeat("x", 512)
				return v
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc := newTestSchema(t, tc.opts...).NewDocument(tc.values())

			err := doc.Validate()
			// validation doesn't change the document
			require.Equal(t, err, doc.Validate())

			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got error %v", err)
			require.Equal(t, "test_record", validationErr.Schema)
			require.Equal(t, tc.wantField, validationErr.Field)
			if tc.wantCause != nil {
				require.ErrorIs(t, err, tc.wantCause)
			} else {
				require.ErrorAs(t, err, &types.ErrValueInvalid{})
			}
		})
	}
}

func TestDocument_accessors(t *testing.T) {
	t.Parallel()

	s := newTestSchema(t,
		WithPrimitiveField("id", types.Integer),
		WithIdentityField("id"),
		WithDefault("c", "none"),
		WithIndexName("records"),
	)
	doc := s.NewDocument(map[string]any{
		"id":    42,
		"a":     "name",
		"b":     1,
		"extra": "not declared",
	})

	id, ok := doc.ID()
	require.True(t, ok)
	require.Equal(t, "42", id)

	index, ok := doc.Index()
	require.True(t, ok)
	require.Equal(t, "records", index)

	// identity excluded, defaults applied, absent and undeclared fields omitted
	require.Equal(t, map[string]any{"a": "name", "b": 1, "c": "none"}, doc.Body())

	doc.IndexOverride = "records-override"
	index, ok = doc.Index()
	require.True(t, ok)
	require.Equal(t, "records-override", index)
}

func TestDocument_Index(t *testing.T) {
	t.Parallel()

	byRegion := newTestSchema(t, WithIndexName("fallback"), WithIndexFunc(func(d *Document) string {
		v, _ := d.Get("a")
		s, _ := v.(string)
		if s == "" {
			return ""
		}
		return "records-" + s
	}))

	index, ok := byRegion.NewDocument(map[string]any{"a": "eu"}).Index()
	require.True(t, ok)
	require.Equal(t, "records-eu", index)

	index, ok = byRegion.NewDocument(nil).Index()
	require.True(t, ok)
	require.Equal(t, "fallback", index)

	stream := newTestSchema(t, AsDataStream(), WithIndexName("logs"))
	_, ok = stream.NewDocument(nil).Index()
	require.False(t, ok)

	noIndex := newTestSchema(t)
	_, ok = noIndex.NewDocument(nil).Index()
	require.False(t, ok)
}

func TestDocument_CreateRequest(t *testing.T) {
	t.Parallel()

	s := newTestSchema(t, WithIndexName("records"))
	doc := s.NewDocument(map[string]any{"a": "name"})

	req, err := doc.CreateRequest()
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/records/_doc/", req.Path)
	require.Equal(t, map[string]any{"a": "name"}, req.Body)

	doc.Set(DefaultIdentityField, "abc")
	req, err = doc.CreateRequest()
	require.NoError(t, err)
	require.Equal(t, "/records/_doc/abc", req.Path)

	// ids may hold path separators
	doc.Set(DefaultIdentityField, "a/b")
	req, err = doc.CreateRequest()
	require.NoError(t, err)
	require.Equal(t, "/records/_doc/a%2Fb", req.Path)

	httpReq, err := req.HTTPRequest(context.Background(), true)
	require.NoError(t, err)
	require.Equal(t, "/records/_doc/a/b", httpReq.URL.Path)
	require.Equal(t, "/records/_doc/a%2Fb", httpReq.URL.EscapedPath())

	_, err = newTestSchema(t, AsDataStream()).NewDocument(nil).CreateRequest()
	require.ErrorIs(t, err, ErrNoIndexName)
}

func TestBatchCreateRequest(t *testing.T) {
	t.Parallel()

	withID := newTestSchema(t,
		WithPrimitiveField("id", types.String),
		WithIdentityField("id"),
		WithIndexName("records"),
	)
	storeID := newTestSchema(t, WithIndexName("other"))

	docs := []*Document{
		withID.NewDocument(map[string]any{"id": "1", "a": "x", "b": 2}),
		storeID.NewDocument(map[string]any{"a": "y"}),
	}

	req, err := BatchCreateRequest(docs)
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/_bulk", req.Path)
	require.Equal(t, "application/x-ndjson", req.Headers["content-type"])

	wantBody := `{"index":{"_index":"records","_id":"1"}}` + "\n" +
		`{"a":"x","b":2}` + "\n" +
		`{"index":{"_index":"other","_id":null}}` + "\n" +
		`{"a":"y"}` + "\n" +
		"\n"
	require.Equal(t, wantBody, req.Body)

	req, err = BatchCreateRequest(nil)
	require.NoError(t, err)
	require.Equal(t, "\n", req.Body)

	_, err = BatchCreateRequest([]*Document{newTestSchema(t, AsDataStream()).NewDocument(nil)})
	require.ErrorIs(t, err, ErrNoIndexName)

	streamDoc := newTestSchema(t, AsDataStream()).NewDocument(map[string]any{"a": "z"})
	streamDoc.IndexOverride = "logs-app"
	req, err = BatchCreateRequest([]*Document{streamDoc})
	require.NoError(t, err)
	require.Equal(t, `{"create":{"_index":"logs-app","_id":null}}`+"\n"+`{"a":"z"}`+"\n"+"\n", req.Body)
}

func TestDocument_Size(t *testing.T) {
	t.Parallel()

	s := newTestSchema(t)
	small := s.NewDocument(map[string]any{"a": "x"})
	large := s.NewDocument(map[string]any{"a": strings.Repeat("x", 1000), "b": 1})

	require.Greater(t, large.Size(), small.Size())

	n, err := small.EncodedSize()
	require.NoError(t, err)
	require.Equal(t, len(`{"a":"x"}`), n)
}
