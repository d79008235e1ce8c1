// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/request"
)

type Client struct {
	client *elasticsearch.Client
}

// NewClient returns a client for the cluster configured on input.
func NewClient(cfg *searchstore.ClientConfig) (*Client, error) {
	es, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{client: es}, nil
}

// Execute runs the request template against the Elasticsearch cluster.
func (ec *Client) Execute(ctx context.Context, t *request.Template) (*searchstore.Response, error) {
	res, err := searchstore.Perform(ctx, ec, t)
	if err != nil {
		return nil, fmt.Errorf("[Execute] %s %s error from Elasticsearch: %w", t.Method, t.Path, err)
	}
	return res, nil
}

func (ec *Client) Perform(req *http.Request) (*http.Response, error) {
	return ec.client.Transport.Perform(req)
}

func newClient(clientCfg *searchstore.ClientConfig) (*elasticsearch.Client, error) {
	if clientCfg.URL == "" {
		return nil, errors.New("no address provided")
	}

	cfg := elasticsearch.Config{
		Addresses: []string{
			clientCfg.URL,
		},
		Username:  clientCfg.Username,
		Password:  clientCfg.Password,
		Transport: clientCfg.HTTPTransport(),
	}

	return elasticsearch.NewClient(cfg)
}
