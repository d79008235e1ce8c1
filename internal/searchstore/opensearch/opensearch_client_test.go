// SPDX-License-Identifier: Apache-2.0

package opensearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/request"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/":
			io.WriteString(w, `{"version":{"distribution":"opensearch","number":"2.11.0"},"tagline":"The OpenSearch Project: https://opensearch.org/"}`)
		case r.Method == http.MethodPut && r.URL.EscapedPath() == "/records/_doc/a%2Fb":
			io.WriteString(w, `{"_index":"records","_id":"a/b","result":"created"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/records":
			body, _ := io.ReadAll(r.Body)
			require.JSONEq(t, `{"mappings":{"properties":{}}}`, string(body))
			io.WriteString(w, `{"acknowledged":true,"shards_acknowledged":true,"index":"records"}`)
		case r.Method == http.MethodPut && r.URL.Path == "/existing":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"type":"resource_already_exists_exception","reason":"index [existing] already exists"},"status":400}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Execute(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	client, err := NewClient(&searchstore.ClientConfig{URL: srv.URL})
	require.NoError(t, err)

	ctx := context.Background()
	res, err := client.Execute(ctx, request.New("/"))
	require.NoError(t, err)
	require.True(t, res.Get("version.number").Exists())

	res, err = client.Execute(ctx, &request.Template{
		Path:   "/records/_doc/a%2Fb",
		Method: http.MethodPut,
		Body:   map[string]any{"title": "escaped"},
	})
	require.NoError(t, err)
	require.Equal(t, "a/b", res.Get("_id").String())

	res, err = client.Execute(ctx, &request.Template{
		Path:   "/records",
		Method: http.MethodPut,
		Body:   map[string]any{"mappings": map[string]any{"properties": map[string]any{}}},
	})
	require.NoError(t, err)
	require.True(t, res.Acknowledged())

	_, err = client.Execute(ctx, &request.Template{Path: "/existing", Method: http.MethodPut})
	require.True(t, searchstore.IsResourceAlreadyExists(err), "got error %v", err)

	_, err = client.Execute(ctx, request.New("/missing/_refresh"))
	require.ErrorIs(t, err, searchstore.ErrResourceNotFound)
}

func TestNewClient_noAddress(t *testing.T) {
	t.Parallel()

	_, err := NewClient(&searchstore.ClientConfig{})
	require.Error(t, err)
}
