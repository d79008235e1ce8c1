// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Provider exports metrics and traces over OTLP gRPC.
type Provider struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	shutdownFns    []func(context.Context) error
}

const (
	serviceName     = "esdoc"
	shutdownTimeout = 5 * time.Second
)

func NewProvider(cfg *Config) (*Provider, error) {
	p := &Provider{}
	ctx := context.Background()
	if err := p.initMeterProvider(ctx, cfg.Metrics); err != nil {
		return nil, err
	}

	if err := p.initTracerProvider(ctx, cfg.Traces); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Provider) NewInstrumentation(name string) *Instrumentation {
	return &Instrumentation{
		Meter:  p.meterProvider.Meter(name),
		Tracer: p.tracerProvider.Tracer(name),
	}
}

// Close flushes and shuts down the exporters.
func (p *Provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs error
	for _, shutdownFn := range p.shutdownFns {
		errs = errors.Join(errs, shutdownFn(ctx))
	}
	return errs
}

func (p *Provider) initMeterProvider(ctx context.Context, cfg *MetricsConfig) error {
	if cfg == nil {
		p.meterProvider = metricnoop.NewMeterProvider()
		otel.SetMeterProvider(p.meterProvider)
		return nil
	}

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithTemporalitySelector(deltaSelector),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint))
	if err != nil {
		return err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.collectionInterval()))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(newResource()),
		sdkmetric.WithReader(reader))
	p.shutdownFns = append(p.shutdownFns, mp.Shutdown)

	p.meterProvider = mp
	otel.SetMeterProvider(p.meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(mp)); err != nil {
		return fmt.Errorf("starting go runtime metrics: %w", err)
	}
	return nil
}

func (p *Provider) initTracerProvider(ctx context.Context, cfg *TracesConfig) error {
	if cfg == nil {
		p.tracerProvider = tracenoop.NewTracerProvider()
		otel.SetTracerProvider(p.tracerProvider)
		return nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
	)
	if err != nil {
		return err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(newResource()),
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.sampleRatio()))))
	p.shutdownFns = append(p.shutdownFns, tp.Shutdown)

	p.tracerProvider = tp
	otel.SetTracerProvider(p.tracerProvider)
	return nil
}

func newResource() *resource.Resource {
	return resource.NewSchemaless(
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(buildVersion()),
	)
}

// buildVersion is the module version of the binary, or its vcs revision for
// development builds.
var buildVersion = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
})

// Delta temporality for counters and histograms, cumulative temporality may
// drop data points while the collector starts up.
func deltaSelector(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	switch kind {
	case sdkmetric.InstrumentKindCounter,
		sdkmetric.InstrumentKindHistogram,
		sdkmetric.InstrumentKindObservableGauge,
		sdkmetric.InstrumentKindObservableCounter:
		return metricdata.DeltaTemporality
	default:
		return metricdata.CumulativeTemporality
	}
}
