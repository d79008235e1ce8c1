// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"context"
	"time"

	"github.com/xataio/esdoc/internal/backoff"
	loglib "github.com/xataio/esdoc/pkg/log"
	"github.com/xataio/esdoc/pkg/request"
)

// Retrier retries the requests that fail with a retryable search store error,
// such as a 429 or a 503, using the configured backoff policy. Other errors
// are returned as is.
type Retrier struct {
	inner           Transport
	logger          loglib.Logger
	backoffProvider backoff.Provider
}

type RetrierOption func(*Retrier)

// NewRetrier wraps the transport on input. An empty backoff config disables
// the retries.
func NewRetrier(inner Transport, cfg *backoff.Config, opts ...RetrierOption) *Retrier {
	r := &Retrier{
		inner:           inner,
		logger:          loglib.NewNoopLogger(),
		backoffProvider: backoff.NewProvider(cfg),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func WithRetrierLogger(logger loglib.Logger) RetrierOption {
	return func(r *Retrier) {
		r.logger = loglib.NewLogger(logger).WithFields(loglib.Fields{
			loglib.ModuleField: "search_store_retrier",
		})
	}
}

func (r *Retrier) Execute(ctx context.Context, t *request.Template) (*Response, error) {
	var res *Response
	var lastErr error
	op := func() error {
		res, lastErr = r.inner.Execute(ctx, t)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return backoff.ErrPermanent
		}
		return lastErr
	}

	numRetries := 0
	notify := func(err error, d time.Duration) {
		r.logger.Warn(err, "search store request failed, retrying", loglib.Fields{
			"method":  t.Method,
			"path":    t.Path,
			"retries": numRetries,
			"backoff": d,
		})
		numRetries++
	}

	if err := r.backoffProvider(ctx).RetryNotify(op, notify); err != nil {
		return nil, lastErr
	}
	return res, nil
}
