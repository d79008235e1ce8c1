// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/bulk"
	"github.com/xataio/esdoc/pkg/index"
	loglib "github.com/xataio/esdoc/pkg/log"
)

// opaqueIDHeader tags every bulk request of a Save call so they can be
// correlated in the store task and slow logs.
const opaqueIDHeader = "X-Opaque-Id"

// SaveResult describes the outcome of a Save call.
type SaveResult struct {
	// Batches is the number of bulk requests sent.
	Batches int
	// Failed are the documents the store reported as not written.
	Failed []searchstore.BulkItemError
	// Refreshed is set when the indexes were refreshed successfully.
	Refreshed bool
}

// Save writes the documents with as many bulk requests as needed to keep each
// of them under the configured size ceiling. Documents are grouped by target
// index and keep their relative order. Per document failures reported by the
// store are returned in the result, not as an error.
func (c *Client) Save(ctx context.Context, docs []*index.Document, opts SaveOptions) (*SaveResult, error) {
	result := &SaveResult{}
	if len(docs) == 0 {
		return result, nil
	}

	if opts.Validate {
		for i, doc := range docs {
			if err := doc.Validate(); err != nil {
				return nil, fmt.Errorf("document %d: %w", i, err)
			}
		}
	}

	groups, names, err := bulkGroups(docs)
	if err != nil {
		return nil, err
	}

	if opts.CreateIndexes {
		if err := c.CreateIndexFor(ctx, docs); err != nil {
			return nil, err
		}
	}

	opaqueID := xid.New().String()
	sizeFn := documentSize(opts.ExactSize)
	for _, name := range names {
		batches := bulk.BatchBySizeFunc(groups[name], opts.maxBytesPerRequest(), sizeFn)
		for _, batch := range batches {
			failed, err := c.sendBatch(ctx, batch, opaqueID)
			if err != nil {
				return result, fmt.Errorf("index %s: %w", name, err)
			}
			result.Batches++
			result.Failed = append(result.Failed, failed...)
			if opts.OnBatch != nil {
				opts.OnBatch(batch.Len())
			}
		}

		c.logger.Debug("documents saved", loglib.Fields{
			loglib.IndexField: name,
			"opaque_id":       opaqueID,
			"documents":       len(groups[name]),
			"batches":         len(batches),
		})
	}

	if len(result.Failed) > 0 {
		c.logger.Warn(nil, "store failed to write some documents", loglib.Fields{
			"failed":    len(result.Failed),
			"opaque_id": opaqueID,
		})
	}

	if opts.RefreshAfter {
		result.Refreshed, err = c.RefreshIndex(ctx, names...)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

func (c *Client) sendBatch(ctx context.Context, batch *bulk.Batch[*index.Document], opaqueID string) ([]searchstore.BulkItemError, error) {
	t, err := index.BatchCreateRequest(batch.GetMessages())
	if err != nil {
		return nil, err
	}
	t.Headers[opaqueIDHeader] = opaqueID

	res, err := c.transport.Execute(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("bulk request of %d documents (%d bytes): %w", batch.Len(), batch.TotalBytes(), err)
	}
	return res.BulkErrors(), nil
}

func bulkGroups(docs []*index.Document) (map[string][]*index.Document, []string, error) {
	groups, names, err := bulk.GroupByIndex(docs)
	if err != nil {
		return nil, nil, fmt.Errorf("grouping documents by index: %w", err)
	}
	return groups, names, nil
}

func documentSize(exact bool) func(*index.Document) int {
	if !exact {
		return (*index.Document).Size
	}
	return func(doc *index.Document) int {
		n, err := doc.EncodedSize()
		if err != nil {
			// the encoding error surfaces when building the request
			return doc.Size()
		}
		return n
	}
}
