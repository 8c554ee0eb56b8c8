package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache lookup metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is best-effort.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records one accessor call: its duration, whether it
	// executed the computation, and its error status.
	RecordLookup(ctx context.Context, meta CacheMeta, duration time.Duration, computed bool, err error)

	// RecordReset records a cache reset.
	RecordReset(ctx context.Context, meta CacheMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	lookupCount    metric.Int64Counter
	executionCount metric.Int64Counter
	errorCount     metric.Int64Counter
	resetCount     metric.Int64Counter
	durationHist   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance over the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookupCount, err := meter.Int64Counter(
		"memo.lookup.total",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	executionCount, err := meter.Int64Counter(
		"memo.lookup.executions",
		metric.WithDescription("Lookups that executed the wrapped computation"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"memo.lookup.errors",
		metric.WithDescription("Lookups that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	resetCount, err := meter.Int64Counter(
		"memo.reset.total",
		metric.WithDescription("Cache resets"),
		metric.WithUnit("{reset}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"memo.lookup.duration_ms",
		metric.WithDescription("Cache lookup duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookupCount:    lookupCount,
		executionCount: executionCount,
		errorCount:     errorCount,
		resetCount:     resetCount,
		durationHist:   durationHist,
	}, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta CacheMeta, duration time.Duration, computed bool, err error) {
	opt := metric.WithAttributes(m.attrs(meta)...)

	m.lookupCount.Add(ctx, 1, opt)
	if computed {
		m.executionCount.Add(ctx, 1, opt)
	}
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

func (m *metricsImpl) RecordReset(ctx context.Context, meta CacheMeta) {
	m.resetCount.Add(ctx, 1, metric.WithAttributes(m.attrs(meta)...))
}

func (m *metricsImpl) attrs(meta CacheMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("cache.name", meta.Name),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("cache.kind", meta.Kind))
	}
	return attrs
}

// noopMetrics discards everything.
type noopMetrics struct{}

// NewNoopMetrics creates a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordLookup(context.Context, CacheMeta, time.Duration, bool, error) {}
func (noopMetrics) RecordReset(context.Context, CacheMeta)                              {}
