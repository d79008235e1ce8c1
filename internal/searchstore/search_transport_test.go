// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/esdoc/pkg/request"
)

type performerFn func(req *http.Request) (*http.Response, error)

func (f performerFn) Perform(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestPerform(t *testing.T) {
	t.Parallel()

	tmpl := &request.Template{
		Path:    "/_bulk",
		Method:  http.MethodPost,
		Headers: map[string]string{"content-type": request.MimeNDJSON},
		Body:    "{\"index\":{}}\n{}\n\n",
	}
	errTest := errors.New("oh noes")

	tests := []struct {
		name      string
		performer performerFn

		wantBody string
		wantErr  func(t *testing.T, err error)
	}{
		{
			name: "ok",
			performer: func(req *http.Request) (*http.Response, error) {
				require.Equal(t, http.MethodPost, req.Method)
				require.Equal(t, "/_bulk", req.URL.Path)
				require.Equal(t, request.MimeNDJSON, req.Header.Get("Content-Type"))
				body, err := io.ReadAll(req.Body)
				require.NoError(t, err)
				require.Equal(t, "{\"index\":{}}\n{}\n\n", string(body))
				return newHTTPResponse(http.StatusOK, `{"errors":false}`), nil
			},
			wantBody: `{"errors":false}`,
		},
		{
			name: "error - perform",
			performer: func(req *http.Request) (*http.Response, error) {
				return nil, errTest
			},
			wantErr: func(t *testing.T, err error) {
				require.ErrorIs(t, err, errTest)
			},
		},
		{
			name: "error - response status",
			performer: func(req *http.Request) (*http.Response, error) {
				return newHTTPResponse(http.StatusServiceUnavailable, `{"error":{"type":"unavailable","reason":"down"}}`), nil
			},
			wantErr: func(t *testing.T, err error) {
				require.True(t, IsRetryable(err))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := Perform(context.Background(), tc.performer, tmpl)
			if tc.wantErr != nil {
				tc.wantErr(t, err)
				require.Nil(t, res)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantBody, string(res.Body))
		})
	}
}
