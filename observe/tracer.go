package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// CacheMeta identifies a cache instance for telemetry purposes.
type CacheMeta struct {
	Name string // cache name, e.g. "user-profiles" (required)
	Kind string // once|keyed|indexed|domain|wrapped (optional)
}

// SpanName returns the deterministic span name for lookups on this cache.
// Format: memo.lookup.<name>
func (m CacheMeta) SpanName() string {
	return "memo.lookup." + m.Name
}

// Validate checks that the metadata names a cache.
func (m CacheMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingCacheName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with cache-lookup span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndLookup must be best-effort and must not panic.
type Tracer interface {
	// StartLookup starts a span covering one accessor call.
	StartLookup(ctx context.Context, meta CacheMeta) (context.Context, trace.Span)

	// EndLookup ends the span, recording whether this call executed the
	// computation and any error.
	EndLookup(span trace.Span, computed bool, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartLookup(ctx context.Context, meta CacheMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("cache.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("cache.kind", meta.Kind))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndLookup(span trace.Span, computed bool, err error) {
	span.SetAttributes(attribute.Bool("cache.computed", computed))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartLookup(ctx context.Context, meta CacheMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndLookup(span trace.Span, computed bool, err error) {
	span.End()
}
