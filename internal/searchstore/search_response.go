// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"net/http"

	"github.com/tidwall/gjson"
)

// Response is a successful search store response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// BulkItemError is a document of a bulk request the search store failed to
// write.
type BulkItemError struct {
	Action string
	Index  string
	ID     string
	Status int
	Type   string
	Reason string
}

// Get returns the value at the gjson path of the response body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Acknowledged returns the acknowledged flag of index management responses.
func (r *Response) Acknowledged() bool {
	return r.Get("acknowledged").Bool()
}

// FailedShards returns the number of shards that failed the operation, as
// reported in the _shards section of the response.
func (r *Response) FailedShards() int64 {
	return r.Get("_shards.failed").Int()
}

// BulkErrors returns the failed items of a bulk response, in request order.
func (r *Response) BulkErrors() []BulkItemError {
	if !r.Get("errors").Bool() {
		return nil
	}

	failed := []BulkItemError{}
	r.Get("items").ForEach(func(_, item gjson.Result) bool {
		item.ForEach(func(action, result gjson.Result) bool {
			if !result.Get("error").Exists() {
				return true
			}
			failed = append(failed, BulkItemError{
				Action: action.String(),
				Index:  result.Get("_index").String(),
				ID:     result.Get("_id").String(),
				Status: int(result.Get("status").Int()),
				Type:   result.Get("error.type").String(),
				Reason: result.Get("error.reason").String(),
			})
			return true
		})
		return true
	})
	return failed
}
