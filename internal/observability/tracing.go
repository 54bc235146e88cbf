// Package observability provides OpenTelemetry tracing and logging utilities.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the name of the tracer used by the retrieval engine.
const TracerName = "ragcore"

// TracingConfig contains configuration for OpenTelemetry tracing. It
// takes an exporter rather than an OTLP endpoint so callers can plug in
// whatever backend (stdout, OTLP, an in-memory test double) fits their
// deployment without this package depending on a specific wire protocol.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	SampleRate  float64 // 0.0 to 1.0
	Exporter    sdktrace.SpanExporter
}

// DefaultTracingConfig returns sensible defaults.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		Enabled:     false,
		ServiceName: "ragcore",
		SampleRate:  1.0,
	}
}

// TracerProvider wraps the OpenTelemetry tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing initializes OpenTelemetry tracing. When cfg.Enabled is
// false, or no exporter is supplied, it returns a no-op tracer so callers
// never need to branch on whether tracing is on.
func InitTracing(ctx context.Context, cfg TracingConfig) (*TracerProvider, error) {
	if !cfg.Enabled || cfg.Exporter == nil {
		return &TracerProvider{
			tracer: otel.Tracer(TracerName),
		}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			attribute.String("service.name", cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, err
	}

	var sampler sdktrace.Sampler
	switch {
	case cfg.SampleRate >= 1.0:
		sampler = sdktrace.AlwaysSample()
	case cfg.SampleRate <= 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(cfg.Exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{
		provider: provider,
		tracer:   provider.Tracer(TracerName),
	}, nil
}

// Tracer returns the tracer instance.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// Shutdown gracefully shuts down the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// ShardSpanAttributes carries the per-shard-query attributes C3 attaches
// to a fan-out span.
type ShardSpanAttributes struct {
	CollectionID string
	Mode         string
	TopK         int
}

// StartShardSpan starts a span for a single shard query within C3's
// fan-out, tagging it with the attributes a reviewer would want when
// diagnosing a slow or failed shard.
func StartShardSpan(ctx context.Context, tracer trace.Tracer, attrs ShardSpanAttributes) (context.Context, trace.Span) {
	return tracer.Start(ctx, "shard_query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rag.collection_id", attrs.CollectionID),
			attribute.String("rag.mode", attrs.Mode),
			attribute.Int("rag.top_k", attrs.TopK),
		),
	)
}

// RecordShardResult records the outcome of a shard query on its span.
func RecordShardResult(span trace.Span, candidateCount int, err error) {
	span.SetAttributes(attribute.Int("rag.candidate_count", candidateCount))
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
}

// SpanFromContext extracts the current span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
