// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewInstrumentationProvider_disabled(t *testing.T) {
	t.Parallel()

	provider, err := NewInstrumentationProvider(&Config{})
	require.NoError(t, err)
	require.False(t, provider.NewInstrumentation("test").IsEnabled())
	require.NoError(t, provider.Close())

	provider, err = NewInstrumentationProvider(nil)
	require.NoError(t, err)
	require.Nil(t, provider.NewInstrumentation("test"))
}

func TestSpans(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// a nil tracer is a noop
	gotCtx, span := StartSpan(ctx, nil, "noop")
	require.Equal(t, ctx, gotCtx)
	require.Nil(t, span)
	CloseSpan(span, errors.New("ignored"))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	_, span = StartSpan(ctx, tracer, "ok")
	CloseSpan(span, nil)
	_, span = StartSpan(ctx, tracer, "failed")
	CloseSpan(span, errors.New("oh noes"))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	require.Equal(t, "ok", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, "failed", ended[1].Name())
	require.Equal(t, codes.Error, ended[1].Status().Code)
}
