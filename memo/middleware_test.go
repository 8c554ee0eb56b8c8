package memo

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/memo/observe"
)

// recordingMetrics captures RecordLookup calls for assertions.
type recordingMetrics struct {
	lookups   atomic.Int64
	computed  atomic.Int64
	errors    atomic.Int64
	resets    atomic.Int64
	lastMeta  atomic.Value // observe.CacheMeta
	lastError atomic.Value // string
}

func (m *recordingMetrics) RecordLookup(_ context.Context, meta observe.CacheMeta, _ time.Duration, computed bool, err error) {
	m.lookups.Add(1)
	if computed {
		m.computed.Add(1)
	}
	if err != nil {
		m.errors.Add(1)
		m.lastError.Store(err.Error())
	}
	m.lastMeta.Store(meta)
}

func (m *recordingMetrics) RecordReset(_ context.Context, meta observe.CacheMeta) {
	m.resets.Add(1)
	m.lastMeta.Store(meta)
}

// recordingTracer counts spans; the spans themselves are no-ops.
type recordingTracer struct {
	noop   trace.Tracer
	starts atomic.Int64
	ends   atomic.Int64
}

func newRecordingTracer() *recordingTracer {
	return &recordingTracer{noop: tracenoop.NewTracerProvider().Tracer("test")}
}

func (t *recordingTracer) StartLookup(ctx context.Context, meta observe.CacheMeta) (context.Context, trace.Span) {
	t.starts.Add(1)
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *recordingTracer) EndLookup(span trace.Span, computed bool, err error) {
	t.ends.Add(1)
	span.End()
}

func testInstrumentation() (*observe.Instrumentation, *recordingMetrics, *recordingTracer) {
	metrics := &recordingMetrics{}
	tracer := newRecordingTracer()
	return observe.NewInstrumentation(tracer, metrics, nil), metrics, tracer
}

func TestInstrumentedKeyed_RecordsLookups(t *testing.T) {
	ins, metrics, tracer := testInstrumentation()

	cache, _ := NewKeyed(func(k string) (string, error) { return "v:" + k, nil }, Stable)
	ic := InstrumentKeyed(cache, "users", ins)
	ctx := context.Background()

	// First lookup executes, second is a hit.
	if v, err := ic.Get(ctx, "a"); err != nil || v != "v:a" {
		t.Fatalf("Get = (%q, %v)", v, err)
	}
	if v, err := ic.Get(ctx, "a"); err != nil || v != "v:a" {
		t.Fatalf("second Get = (%q, %v)", v, err)
	}

	if n := metrics.lookups.Load(); n != 2 {
		t.Errorf("lookups recorded = %d, want 2", n)
	}
	if n := metrics.computed.Load(); n != 1 {
		t.Errorf("executions recorded = %d, want 1", n)
	}
	if n := tracer.starts.Load(); n != 2 {
		t.Errorf("spans started = %d, want 2", n)
	}
	if n := tracer.ends.Load(); n != 2 {
		t.Errorf("spans ended = %d, want 2", n)
	}

	meta := metrics.lastMeta.Load().(observe.CacheMeta)
	if meta.Name != "users" || meta.Kind != "keyed" {
		t.Errorf("meta = %+v, want {users keyed}", meta)
	}
}

func TestInstrumentedKeyed_RecordsErrors(t *testing.T) {
	ins, metrics, _ := testInstrumentation()

	boom := errors.New("boom")
	cache, _ := NewKeyed(func(k string) (string, error) { return "", boom }, Stable)
	ic := InstrumentKeyed(cache, "failing", ins)

	if _, err := ic.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("Get error = %v, want boom", err)
	}
	if n := metrics.errors.Load(); n != 1 {
		t.Errorf("errors recorded = %d, want 1", n)
	}
	if got := metrics.lastError.Load(); got != "boom" {
		t.Errorf("recorded error = %v, want boom", got)
	}
}

func TestInstrumentedKeyed_RefreshAndReset(t *testing.T) {
	ins, metrics, _ := testInstrumentation()

	var executions atomic.Int64
	cache, _ := NewKeyed(func(k string) (int64, error) { return executions.Add(1), nil }, Stable)
	ic := InstrumentKeyed(cache, "counters", ins)
	ctx := context.Background()

	if v, _ := ic.Get(ctx, "k"); v != 1 {
		t.Fatalf("Get = %d, want 1", v)
	}
	if v, err := ic.Refresh(ctx, "k"); err != nil || v != 2 {
		t.Fatalf("Refresh = (%d, %v), want (2, nil)", v, err)
	}
	// Refresh counts as an execution.
	if n := metrics.computed.Load(); n != 2 {
		t.Errorf("executions recorded = %d, want 2", n)
	}

	ic.Reset(ctx)
	if n := metrics.resets.Load(); n != 1 {
		t.Errorf("resets recorded = %d, want 1", n)
	}
	if n := ic.Cache().Len(); n != 0 {
		t.Errorf("Len() after Reset = %d, want 0", n)
	}
}

func TestInstrumentedOnce_RecordsLookups(t *testing.T) {
	ins, metrics, _ := testInstrumentation()

	cache, _ := NewOnce(func() (int, error) { return 42, nil }, Stable)
	ic := InstrumentOnce(cache, "startup-config", ins)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if v, err := ic.Get(ctx); err != nil || v != 42 {
			t.Fatalf("Get = (%d, %v)", v, err)
		}
	}

	if n := metrics.lookups.Load(); n != 3 {
		t.Errorf("lookups recorded = %d, want 3", n)
	}
	if n := metrics.computed.Load(); n != 1 {
		t.Errorf("executions recorded = %d, want 1", n)
	}

	ic.Reset(ctx)
	if n := metrics.resets.Load(); n != 1 {
		t.Errorf("resets recorded = %d, want 1", n)
	}

	meta := metrics.lastMeta.Load().(observe.CacheMeta)
	if meta.Kind != "once" {
		t.Errorf("meta.Kind = %q, want once", meta.Kind)
	}
}

func TestInstrument_NilInstrumentationIsNoop(t *testing.T) {
	cache, _ := NewKeyed(func(k string) (string, error) { return k, nil }, Stable)
	ic := InstrumentKeyed(cache, "plain", nil)

	if v, err := ic.Get(context.Background(), "x"); err != nil || v != "x" {
		t.Errorf("Get = (%q, %v), want (x, nil)", v, err)
	}
}
