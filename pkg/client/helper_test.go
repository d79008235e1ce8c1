// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/internal/searchstore/mocks"
	"github.com/xataio/esdoc/pkg/index"
	"github.com/xataio/esdoc/pkg/request"
	"github.com/xataio/esdoc/pkg/types"
)

var errTest = errors.New("oh noes")

const testIndex = "records"

func newTestSchema(t *testing.T, opts ...index.Option) *index.Schema {
	t.Helper()

	fields := []index.Option{
		index.WithPrimitiveField("id", types.Integer),
		index.WithPrimitiveField("title", types.String),
		index.WithIdentityField("id"),
		index.WithIndexName(testIndex),
	}
	s, err := index.NewSchema("record", append(fields, opts...)...)
	require.NoError(t, err)
	return s
}

func newTestDocs(s *index.Schema, n int) []*index.Document {
	docs := make([]*index.Document, 0, n)
	for i := 1; i <= n; i++ {
		docs = append(docs, s.NewDocument(map[string]any{
			"id":    i,
			"title": fmt.Sprintf("record %d", i),
		}))
	}
	return docs
}

func newTestClient(t *testing.T, transport *mocks.Transport) *Client {
	t.Helper()

	c, err := NewWithTransport(transport)
	require.NoError(t, err)
	return c
}

func newResponse(body string) *searchstore.Response {
	return &searchstore.Response{StatusCode: 200, Body: []byte(body)}
}

const (
	acknowledgedBody = `{"acknowledged":true,"shards_acknowledged":true}`
	refreshedBody    = `{"_shards":{"total":2,"successful":2,"failed":0}}`
	bulkOKBody       = `{"took":3,"errors":false,"items":[]}`
)

// unexpectedCall fails the test on calls made to the transport.
func unexpectedCall(t *testing.T) func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
	return func(_ context.Context, i uint, tmpl *request.Template) (*searchstore.Response, error) {
		t.Errorf("unexpected call %d: %s %s", i, tmpl.Method, tmpl.Path)
		return nil, errTest
	}
}
