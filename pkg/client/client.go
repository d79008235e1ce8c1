// SPDX-License-Identifier: Apache-2.0

// Package client writes schema documents to an Elasticsearch or OpenSearch
// cluster.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xataio/esdoc/internal/searchstore"
	elasticsearchstore "github.com/xataio/esdoc/internal/searchstore/elasticsearch"
	"github.com/xataio/esdoc/internal/searchstore/instrumentation"
	opensearchstore "github.com/xataio/esdoc/internal/searchstore/opensearch"
	"github.com/xataio/esdoc/pkg/index"
	loglib "github.com/xataio/esdoc/pkg/log"
	"github.com/xataio/esdoc/pkg/otel"
	"github.com/xataio/esdoc/pkg/request"
	"github.com/xataio/esdoc/pkg/tls"
)

type Client struct {
	transport       searchstore.Transport
	logger          loglib.Logger
	instrumentation *otel.Instrumentation
}

type Option func(*Client)

// New returns a client for the store configured on input.
func New(cfg Config, opts ...Option) (*Client, error) {
	tlsConfig, err := tls.NewConfig(&cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("parsing store tls config: %w", err)
	}
	clientCfg := &searchstore.ClientConfig{
		Username: cfg.Username,
		Password: cfg.Password,
		TLS:      tlsConfig,
	}

	var store searchstore.Transport
	switch {
	case cfg.OpenSearchURL != "" && cfg.ElasticsearchURL != "":
		return nil, errors.New("only one store URL must be provided")
	case cfg.OpenSearchURL == "" && cfg.ElasticsearchURL == "":
		return nil, errors.New("a store URL must be provided")
	case cfg.OpenSearchURL != "":
		clientCfg.URL = cfg.OpenSearchURL
		store, err = opensearchstore.NewClient(clientCfg)
	case cfg.ElasticsearchURL != "":
		clientCfg.URL = cfg.ElasticsearchURL
		store, err = elasticsearchstore.NewClient(clientCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("create search store client: %w", err)
	}

	c := newClient(opts...)
	return c.withTransport(searchstore.NewRetrier(store, &cfg.Retry, searchstore.WithRetrierLogger(c.logger)))
}

// NewWithTransport returns a client that sends its requests through the
// transport on input.
func NewWithTransport(transport searchstore.Transport, opts ...Option) (*Client, error) {
	return newClient(opts...).withTransport(transport)
}

func newClient(opts ...Option) *Client {
	c := &Client{
		logger: loglib.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) withTransport(transport searchstore.Transport) (*Client, error) {
	var err error
	c.transport, err = instrumentation.NewTransport(transport, c.instrumentation)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(c *Client) {
		c.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "esdoc_client",
		})
	}
}

func WithInstrumentation(i *otel.Instrumentation) Option {
	return func(c *Client) {
		c.instrumentation = i
	}
}

// Ping checks the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.transport.Execute(ctx, request.New("/")); err != nil {
		return fmt.Errorf("ping search store: %w", err)
	}
	return nil
}

// Execute builds the templates for the value on input (see request.BuildAll)
// and runs them in order. It stops at the first error.
func (c *Client) Execute(ctx context.Context, value any) ([]*searchstore.Response, error) {
	templates, err := request.BuildAll(value)
	if err != nil {
		return nil, err
	}

	responses := make([]*searchstore.Response, 0, len(templates))
	for i, t := range templates {
		res, err := c.transport.Execute(ctx, t)
		if err != nil {
			return responses, fmt.Errorf("request %d (%s %s): %w", i, t.Method, t.Path, err)
		}
		responses = append(responses, res)
	}
	return responses, nil
}

// CreateIndex creates the index of the schema, named name or the schema
// static index name when empty. It returns whether the store acknowledged the
// creation. An already existing index is an error unless existsOK is set, in
// which case false is returned.
func (c *Client) CreateIndex(ctx context.Context, schema *index.Schema, name string, existsOK bool) (bool, error) {
	t, err := schema.StaticIndexCreationRequest(name)
	if err != nil {
		return false, err
	}
	name = strings.TrimPrefix(t.Path, "/")

	res, err := c.transport.Execute(ctx, t)
	if err != nil {
		if existsOK && searchstore.IsResourceAlreadyExists(err) {
			c.logger.Debug("index already exists", loglib.Fields{
				loglib.IndexField:  name,
				loglib.SchemaField: schema.Name(),
			})
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", name, err)
	}

	acknowledged := res.Acknowledged()
	c.logger.Info("index created", loglib.Fields{
		loglib.IndexField:  name,
		loglib.SchemaField: schema.Name(),
		"acknowledged":     acknowledged,
	})
	return acknowledged, nil
}

// CreateIndexFor creates the target indexes of the documents, once per index
// name, using the schema of the first document targeting it. Existing indexes
// are ignored.
func (c *Client) CreateIndexFor(ctx context.Context, docs []*index.Document) error {
	groups, names, err := bulkGroups(docs)
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, err := c.CreateIndex(ctx, groups[name][0].Schema, name, true); err != nil {
			return err
		}
	}
	return nil
}

// RefreshIndex refreshes the named indexes, once per name. It returns true
// only if no shard failed to refresh on any of them.
func (c *Client) RefreshIndex(ctx context.Context, names ...string) (bool, error) {
	seen := make(map[string]struct{}, len(names))
	ok := true
	for _, name := range names {
		if _, found := seen[name]; found {
			continue
		}
		seen[name] = struct{}{}

		res, err := c.transport.Execute(ctx, index.RefreshRequest(name))
		if err != nil {
			return false, fmt.Errorf("refresh index %s: %w", name, err)
		}
		if failed := res.FailedShards(); failed > 0 {
			c.logger.Warn(nil, "index refresh failed on some shards", loglib.Fields{
				loglib.IndexField: name,
				"failed_shards":   failed,
			})
			ok = false
		}
	}

	c.logger.Debug("indexes refreshed", loglib.Fields{
		"indexes": len(seen),
		"success": ok,
	})
	return ok, nil
}

// RefreshIndexFor refreshes the target indexes of the documents.
func (c *Client) RefreshIndexFor(ctx context.Context, docs []*index.Document) (bool, error) {
	_, names, err := bulkGroups(docs)
	if err != nil {
		return false, err
	}
	return c.RefreshIndex(ctx, names...)
}
