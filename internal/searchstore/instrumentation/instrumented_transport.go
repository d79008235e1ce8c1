// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/xataio/esdoc/internal/searchstore"
	"github.com/xataio/esdoc/pkg/otel"
	"github.com/xataio/esdoc/pkg/request"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type Transport struct {
	inner   searchstore.Transport
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *transportMetrics
	clock   clockwork.Clock
}

type transportMetrics struct {
	requestLatency metric.Int64Histogram
	requestErrors  metric.Int64Counter
	bulkItemErrors metric.Int64Counter
}

// NewTransport wraps the transport with spans and metrics. When
// instrumentation is disabled the transport on input is returned.
func NewTransport(inner searchstore.Transport, instrumentation *otel.Instrumentation) (searchstore.Transport, error) {
	if !instrumentation.IsEnabled() {
		return inner, nil
	}

	t := &Transport{
		inner:   inner,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &transportMetrics{},
		clock:   clockwork.NewRealClock(),
	}

	if err := t.initMetrics(); err != nil {
		return nil, fmt.Errorf("error initialising search store transport metrics: %w", err)
	}

	return t, nil
}

func (t *Transport) Execute(ctx context.Context, tmpl *request.Template) (res *searchstore.Response, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("method", tmpl.Method),
		attribute.String("path", tmpl.Path),
	}
	ctx, span := otel.StartSpan(ctx, t.tracer, "searchstore.Execute", trace.WithAttributes(attrs...))
	defer otel.CloseSpan(span, err)

	start := t.clock.Now()
	res, err = t.inner.Execute(ctx, tmpl)
	if t.meter != nil {
		t.metrics.requestLatency.Record(ctx, t.clock.Since(start).Milliseconds(), metric.WithAttributes(attribute.String("method", tmpl.Method)))
		if err != nil {
			t.metrics.requestErrors.Add(ctx, 1, metric.WithAttributes(
				attribute.String("method", tmpl.Method),
				attribute.Bool("retryable", searchstore.IsRetryable(err)),
			))
		} else if failed := res.BulkErrors(); len(failed) > 0 {
			t.metrics.bulkItemErrors.Add(ctx, int64(len(failed)))
		}
	}

	return res, err
}

func (t *Transport) initMetrics() error {
	if t.meter == nil {
		return nil
	}

	var err error
	t.metrics.requestLatency, err = t.meter.Int64Histogram("esdoc.searchstore.request.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of search store request latencies"))
	if err != nil {
		return err
	}

	t.metrics.requestErrors, err = t.meter.Int64Counter("esdoc.searchstore.request.errors",
		metric.WithUnit("errors"),
		metric.WithDescription("Count of failed search store requests"))
	if err != nil {
		return err
	}

	t.metrics.bulkItemErrors, err = t.meter.Int64Counter("esdoc.searchstore.bulk.item.errors",
		metric.WithUnit("errors"),
		metric.WithDescription("Count of documents rejected in bulk requests"))
	if err != nil {
		return err
	}

	return nil
}
