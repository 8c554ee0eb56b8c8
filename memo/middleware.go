package memo

import (
	"context"
	"time"

	"github.com/jonwraymond/memo/observe"
)

// InstrumentedKeyed wraps a Keyed cache with lookup telemetry: every
// accessor call records metrics, runs inside a span, and logs executions
// and failures. The cache semantics are unchanged.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: telemetry is best-effort; errors from the computation
//   propagate unchanged.
type InstrumentedKeyed[K comparable, V any] struct {
	cache *Keyed[K, V]
	ins   *observe.Instrumentation
	meta  observe.CacheMeta
}

// InstrumentKeyed wraps cache with the given instrumentation. A nil
// Instrumentation records nothing.
func InstrumentKeyed[K comparable, V any](cache *Keyed[K, V], name string, ins *observe.Instrumentation) *InstrumentedKeyed[K, V] {
	if ins == nil {
		ins = observe.Noop()
	}
	return &InstrumentedKeyed[K, V]{
		cache: cache,
		ins:   ins,
		meta:  observe.CacheMeta{Name: name, Kind: "keyed"},
	}
}

// Get returns the memoized result for key, recording the lookup.
func (c *InstrumentedKeyed[K, V]) Get(ctx context.Context, key K) (V, error) {
	ctx, span := c.ins.Tracer.StartLookup(ctx, c.meta)
	start := time.Now()

	v, computed, err := c.cache.lookup(key)

	duration := time.Since(start)
	c.ins.Tracer.EndLookup(span, computed, err)
	c.ins.Metrics.RecordLookup(ctx, c.meta, duration, computed, err)
	c.log(ctx, computed, duration, err)
	return v, err
}

// Refresh always executes the computation for key, recording the lookup
// as an execution.
func (c *InstrumentedKeyed[K, V]) Refresh(ctx context.Context, key K) (V, error) {
	ctx, span := c.ins.Tracer.StartLookup(ctx, c.meta)
	start := time.Now()

	v, err := c.cache.Refresh(key)

	duration := time.Since(start)
	c.ins.Tracer.EndLookup(span, true, err)
	c.ins.Metrics.RecordLookup(ctx, c.meta, duration, true, err)
	c.log(ctx, true, duration, err)
	return v, err
}

// Reset clears the cache and records the reset.
func (c *InstrumentedKeyed[K, V]) Reset(ctx context.Context) {
	c.cache.Reset()
	c.ins.Metrics.RecordReset(ctx, c.meta)
	c.ins.Logger.WithCache(c.meta).Info(ctx, "cache reset")
}

// Cache returns the wrapped cache.
func (c *InstrumentedKeyed[K, V]) Cache() *Keyed[K, V] {
	return c.cache
}

func (c *InstrumentedKeyed[K, V]) log(ctx context.Context, computed bool, duration time.Duration, err error) {
	logger := c.ins.Logger.WithCache(c.meta)
	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000.0},
		{Key: "computed", Value: computed},
	}

	switch {
	case err != nil:
		fields = append(fields, observe.Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "cache lookup failed", fields...)
	case computed:
		logger.Debug(ctx, "cache lookup executed computation", fields...)
	}
}

// InstrumentedOnce is InstrumentedKeyed for the zero-argument cache.
type InstrumentedOnce[V any] struct {
	cache *Once[V]
	ins   *observe.Instrumentation
	meta  observe.CacheMeta
}

// InstrumentOnce wraps cache with the given instrumentation. A nil
// Instrumentation records nothing.
func InstrumentOnce[V any](cache *Once[V], name string, ins *observe.Instrumentation) *InstrumentedOnce[V] {
	if ins == nil {
		ins = observe.Noop()
	}
	return &InstrumentedOnce[V]{
		cache: cache,
		ins:   ins,
		meta:  observe.CacheMeta{Name: name, Kind: "once"},
	}
}

// Get returns the published value, recording the lookup.
func (c *InstrumentedOnce[V]) Get(ctx context.Context) (V, error) {
	ctx, span := c.ins.Tracer.StartLookup(ctx, c.meta)
	start := time.Now()

	v, computed, err := c.cache.get(c.cache.compute)

	duration := time.Since(start)
	c.ins.Tracer.EndLookup(span, computed, err)
	c.ins.Metrics.RecordLookup(ctx, c.meta, duration, computed, err)
	c.logLookup(ctx, computed, duration, err)
	return v, err
}

// Refresh always executes and republishes, recording an execution.
func (c *InstrumentedOnce[V]) Refresh(ctx context.Context) (V, error) {
	ctx, span := c.ins.Tracer.StartLookup(ctx, c.meta)
	start := time.Now()

	v, err := c.cache.Refresh()

	duration := time.Since(start)
	c.ins.Tracer.EndLookup(span, true, err)
	c.ins.Metrics.RecordLookup(ctx, c.meta, duration, true, err)
	c.logLookup(ctx, true, duration, err)
	return v, err
}

// Reset rewinds the cache and records the reset.
func (c *InstrumentedOnce[V]) Reset(ctx context.Context) {
	c.cache.Reset()
	c.ins.Metrics.RecordReset(ctx, c.meta)
	c.ins.Logger.WithCache(c.meta).Info(ctx, "cache reset")
}

// Cache returns the wrapped cache.
func (c *InstrumentedOnce[V]) Cache() *Once[V] {
	return c.cache
}

func (c *InstrumentedOnce[V]) logLookup(ctx context.Context, computed bool, duration time.Duration, err error) {
	logger := c.ins.Logger.WithCache(c.meta)
	fields := []observe.Field{
		{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000.0},
		{Key: "computed", Value: computed},
	}

	switch {
	case err != nil:
		fields = append(fields, observe.Field{Key: "error", Value: err.Error()})
		logger.Error(ctx, "cache lookup failed", fields...)
	case computed:
		logger.Debug(ctx, "cache lookup executed computation", fields...)
	}
}
