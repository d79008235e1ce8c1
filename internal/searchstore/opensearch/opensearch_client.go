// SPDX-License-Identifier: Apache-2.0

package opensearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/request"
)

type Client struct {
	client *opensearch.Client
}

// NewClient returns a client for the cluster configured on input.
func NewClient(cfg *searchstore.ClientConfig) (*Client, error) {
	os, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return &Client{client: os}, nil
}

// Execute runs the request template against the OpenSearch cluster.
func (c *Client) Execute(ctx context.Context, t *request.Template) (*searchstore.Response, error) {
	res, err := searchstore.Perform(ctx, c, t)
	if err != nil {
		return nil, fmt.Errorf("[Execute] %s %s error from OpenSearch: %w", t.Method, t.Path, err)
	}
	return res, nil
}

func (c *Client) Perform(req *http.Request) (*http.Response, error) {
	return c.client.Transport.Perform(req)
}

func newClient(clientCfg *searchstore.ClientConfig) (*opensearch.Client, error) {
	if clientCfg.URL == "" {
		return nil, errors.New("no address provided")
	}

	cfg := opensearch.Config{
		Addresses: []string{
			clientCfg.URL,
		},
		Username:  clientCfg.Username,
		Password:  clientCfg.Password,
		Transport: clientCfg.HTTPTransport(),
	}

	return opensearch.NewClient(cfg)
}
