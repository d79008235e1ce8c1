// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/internal/searchstore/mocks"
	"github.com/xataio/esdoc/pkg/index"
	"github.com/xataio/esdoc/pkg/request"
)

func TestClient_Save(t *testing.T) {
	t.Parallel()

	bulkFailureBody := `{"errors":true,"items":[` +
		`{"index":{"_index":"records","_id":"1","status":201,"result":"created"}},` +
		`{"index":{"_index":"records","_id":"2","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [title]"}}}]}`

	tests := []struct {
		name      string
		docs      func(*index.Schema) []*index.Document
		opts      SaveOptions
		executeFn func(ctx context.Context, i uint, tmpl *request.Template) (*searchstore.Response, error)

		wantResult *SaveResult
		wantCalls  uint
		wantErr    error
	}{
		{
			name: "ok - no documents",
			docs: func(*index.Schema) []*index.Document { return nil },
			executeFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
				return nil, errTest
			},
			wantResult: &SaveResult{},
			wantCalls:  0,
		},
		{
			name: "ok - single bulk request",
			docs: func(s *index.Schema) []*index.Document { return newTestDocs(s, 3) },
			executeFn: func(_ context.Context, i uint, tmpl *request.Template) (*searchstore.Response, error) {
				if i != 1 {
					return nil, fmt.Errorf("unexpected call %d", i)
				}
				if tmpl.Path != "/_bulk" || tmpl.Method != http.MethodPost {
					return nil, fmt.Errorf("unexpected request %s %s", tmpl.Method, tmpl.Path)
				}
				if lines := strings.Count(tmpl.Body.(string), "\n"); lines != 7 {
					return nil, fmt.Errorf("unexpected number of bulk lines: %d", lines)
				}
				return newResponse(bulkOKBody), nil
			},
			wantResult: &SaveResult{Batches: 1},
			wantCalls:  1,
		},
		{
			name: "ok - split under the size ceiling",
			docs: func(s *index.Schema) []*index.Document { return newTestDocs(s, 3) },
			opts: SaveOptions{MaxBytesPerRequest: 1},
			executeFn: func(_ context.Context, i uint, tmpl *request.Template) (*searchstore.Response, error) {
				want := fmt.Sprintf(`"_id":"%d"`, i)
				if !strings.Contains(tmpl.Body.(string), want) {
					return nil, fmt.Errorf("call %d: missing document %s", i, want)
				}
				return newResponse(bulkOKBody), nil
			},
			wantResult: &SaveResult{Batches: 3},
			wantCalls:  3,
		},
		{
			name: "ok - exact size",
			docs: func(s *index.Schema) []*index.Document { return newTestDocs(s, 2) },
			opts: SaveOptions{ExactSize: true},
			executeFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
				return newResponse(bulkOKBody), nil
			},
			wantResult: &SaveResult{Batches: 1},
			wantCalls:  1,
		},
		{
			name: "ok - failed documents reported",
			docs: func(s *index.Schema) []*index.Document { return newTestDocs(s, 2) },
			executeFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
				return newResponse(bulkFailureBody), nil
			},
			wantResult: &SaveResult{
				Batches: 1,
				Failed: []searchstore.BulkItemError{
					{
						Action: "index",
						Index:  "records",
						ID:     "2",
						Status: 400,
						Type:   "mapper_parsing_exception",
						Reason: "failed to parse field [title]",
					},
				},
			},
			wantCalls: 1,
		},
		{
			name: "ok - create indexes and refresh",
			docs: func(s *index.Schema) []*index.Document {
				docs := newTestDocs(s, 3)
				docs[1].IndexOverride = "archive"
				return docs
			},
			opts: SaveOptions{CreateIndexes: true, RefreshAfter: true},
			executeFn: func(_ context.Context, i uint, tmpl *request.Template) (*searchstore.Response, error) {
				wantPaths := map[uint]string{
					1: "/records",
					2: "/archive",
					3: "/_bulk",
					4: "/_bulk",
					5: "/records/_refresh",
					6: "/archive/_refresh",
				}
				if tmpl.Path != wantPaths[i] {
					return nil, fmt.Errorf("call %d: unexpected path %s", i, tmpl.Path)
				}
				switch i {
				case 1:
					return newResponse(acknowledgedBody), nil
				case 2:
					return nil, searchstore.ErrResourceAlreadyExists{Reason: "exists"}
				case 3, 4:
					return newResponse(bulkOKBody), nil
				default:
					return newResponse(refreshedBody), nil
				}
			},
			wantResult: &SaveResult{Batches: 2, Refreshed: true},
			wantCalls:  6,
		},
		{
			name: "error - invalid document",
			docs: func(s *index.Schema) []*index.Document {
				docs := newTestDocs(s, 2)
				docs[1].Set("id", "not a number")
				return docs
			},
			opts: SaveOptions{Validate: true},
			executeFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
				return nil, errTest
			},
			wantCalls: 0,
			wantErr:   &index.ValidationError{},
		},
		{
			name: "error - bulk request",
			docs: func(s *index.Schema) []*index.Document { return newTestDocs(s, 2) },
			executeFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
				return nil, errTest
			},
			wantResult: &SaveResult{},
			wantCalls:  1,
			wantErr:    errTest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			transport := &mocks.Transport{ExecuteFn: tc.executeFn}
			c := newTestClient(t, transport)

			result, err := c.Save(context.Background(), tc.docs(newTestSchema(t)), tc.opts)
			if validationErr := (&index.ValidationError{}); errors.As(tc.wantErr, &validationErr) {
				require.ErrorAs(t, err, &validationErr)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
			require.Equal(t, tc.wantResult, result)
			require.Equal(t, tc.wantCalls, transport.GetExecuteCalls())
		})
	}
}

func TestClient_Save_onBatch(t *testing.T) {
	t.Parallel()

	transport := &mocks.Transport{
		ExecuteFn: func(context.Context, uint, *request.Template) (*searchstore.Response, error) {
			return newResponse(bulkOKBody), nil
		},
	}
	c := newTestClient(t, transport)

	batchSizes := []int{}
	result, err := c.Save(context.Background(), newTestDocs(newTestSchema(t), 3), SaveOptions{
		MaxBytesPerRequest: 1,
		OnBatch: func(docs int) {
			batchSizes = append(batchSizes, docs)
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Batches)
	require.Equal(t, []int{1, 1, 1}, batchSizes)
}

func TestClient_Save_opaqueID(t *testing.T) {
	t.Parallel()

	opaqueIDs := []string{}
	transport := &mocks.Transport{
		ExecuteFn: func(_ context.Context, _ uint, tmpl *request.Template) (*searchstore.Response, error) {
			opaqueIDs = append(opaqueIDs, tmpl.Headers[opaqueIDHeader])
			return newResponse(bulkOKBody), nil
		},
	}
	c := newTestClient(t, transport)
	docs := newTestDocs(newTestSchema(t), 2)

	_, err := c.Save(context.Background(), docs, SaveOptions{MaxBytesPerRequest: 1})
	require.NoError(t, err)
	require.Len(t, opaqueIDs, 2)
	require.NotEmpty(t, opaqueIDs[0])
	require.Equal(t, opaqueIDs[0], opaqueIDs[1])

	_, err = c.Save(context.Background(), docs, SaveOptions{})
	require.NoError(t, err)
	require.Len(t, opaqueIDs, 3)
	require.NotEqual(t, opaqueIDs[0], opaqueIDs[2])
}

func TestSaveOptions_maxBytesPerRequest(t *testing.T) {
	t.Parallel()

	require.Equal(t, defaultMaxBytesPerRequest, (&SaveOptions{}).maxBytesPerRequest())
	require.Equal(t, int64(100), (&SaveOptions{MaxBytesPerRequest: 100}).maxBytesPerRequest())
}
