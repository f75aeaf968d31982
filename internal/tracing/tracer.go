// Package tracing wires OpenTelemetry with a Jaeger exporter for the
// showcase API. Tracing is optional and disabled by default.
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/Vighnesh-M-S/PM-Helper/internal/config"
)

// TracerProvider manages the OpenTelemetry tracer provider lifecycle
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	config   *config.TracingConfig
}

// NewTracerProvider creates and installs the global tracer provider.
// When tracing is disabled it returns an inert provider so callers can
// Shutdown unconditionally.
func NewTracerProvider(cfg *config.TracingConfig) (*TracerProvider, error) {
	if cfg == nil || !cfg.Enabled {
		return &TracerProvider{config: cfg}, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}

	if cfg.Endpoint != "" {
		exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.Endpoint)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
		}

		sampler := sdktrace.AlwaysSample()
		if cfg.SampleRate > 0 && cfg.SampleRate < 1.0 {
			sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
		}

		opts = append(opts,
			sdktrace.WithBatcher(exporter,
				sdktrace.WithBatchTimeout(5*time.Second),
				sdktrace.WithMaxExportBatchSize(512),
			),
			sdktrace.WithSampler(sampler),
		)
	}

	provider := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		config:   cfg,
	}, nil
}

// IsEnabled reports whether tracing is active
func (tp *TracerProvider) IsEnabled() bool {
	return tp.config != nil && tp.config.Enabled && tp.provider != nil
}

// Shutdown flushes pending spans and shuts down the provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider == nil {
		return nil
	}

	if err := tp.provider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to flush tracer: %w", err)
	}

	return tp.provider.Shutdown(ctx)
}

// StartSpan starts a span named after the given operation
func StartSpan(ctx context.Context, operationName string) (context.Context, func()) {
	tracer := otel.Tracer("pm-helper")
	ctx, span := tracer.Start(ctx, operationName)

	return ctx, func() {
		span.End()
	}
}
