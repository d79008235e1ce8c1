// SPDX-License-Identifier: Apache-2.0

// Package searchstore implements the transport that executes request
// templates against Elasticsearch and OpenSearch clusters.
package searchstore

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/xataio/esdoc/pkg/request"
)

// Transport executes request templates against the search store.
type Transport interface {
	Execute(ctx context.Context, t *request.Template) (*Response, error)
}

// Performer is implemented by the low level transports of the search store
// clients.
type Performer interface {
	Perform(req *http.Request) (*http.Response, error)
}

// Perform renders the template and executes it with the performer. Responses
// with a non 2xx status code are returned as errors.
func Perform(ctx context.Context, p Performer, t *request.Template) (*Response, error) {
	req, err := t.HTTPRequest(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}

	resp, err := p.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("perform: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode > 299 {
		return nil, ExtractResponseError(body, resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
