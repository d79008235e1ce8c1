// SPDX-License-Identifier: Apache-2.0

package client

import (
	"github.com/xataio/esdoc/internal/backoff"
	"github.com/xataio/esdoc/pkg/tls"
)

type Config struct {
	// Only one of the URLs must be provided.
	ElasticsearchURL string
	OpenSearchURL    string
	// Username and Password are optional basic auth credentials.
	Username string
	Password string
	// TLS configures https connections to the store.
	TLS tls.Config
	// Retry is the backoff policy applied to requests failing with a
	// retryable status (429, 503). If no config is provided, requests are not
	// retried.
	Retry backoff.Config
}

// SaveOptions configure a Save call.
type SaveOptions struct {
	// CreateIndexes creates the target indexes of the documents before
	// writing them. Existing indexes are left as they are.
	CreateIndexes bool
	// MaxBytesPerRequest is the size ceiling of each bulk request. Defaults
	// to 10MiB.
	MaxBytesPerRequest int64
	// RefreshAfter refreshes the target indexes once all the documents have
	// been written.
	RefreshAfter bool
	// Validate validates every document before anything is sent.
	Validate bool
	// ExactSize measures the JSON encoding of the documents instead of
	// estimating their size.
	ExactSize bool
	// OnBatch is called with the number of documents of every bulk request
	// accepted by the store.
	OnBatch func(docs int)
}

const defaultMaxBytesPerRequest = int64(10 * 1024 * 1024) // 10MiB

func (o *SaveOptions) maxBytesPerRequest() int64 {
	if o.MaxBytesPerRequest > 0 {
		return o.MaxBytesPerRequest
	}
	return defaultMaxBytesPerRequest
}
