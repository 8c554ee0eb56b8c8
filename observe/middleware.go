package observe

// Instrumentation bundles the telemetry components a cache wrapper needs.
//
// Contract:
// - Concurrency: safe for concurrent use once constructed.
// - Errors: recording is best-effort; nothing here fails a lookup.
type Instrumentation struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstrumentation assembles an Instrumentation from its parts. Nil
// parts are replaced with no-ops.
func NewInstrumentation(tracer Tracer, metrics Metrics, logger Logger) *Instrumentation {
	if tracer == nil {
		tracer = NewNoopTracer()
	}
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	if logger == nil {
		logger = NewNoopLogger()
	}
	return &Instrumentation{Tracer: tracer, Metrics: metrics, Logger: logger}
}

// FromObserver builds an Instrumentation from an Observer. This is the
// common construction path.
func FromObserver(obs Observer) (*Instrumentation, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instrumentation{
		Tracer:  NewTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// Noop returns an Instrumentation that records nothing, for callers that
// want the instrumented API without telemetry wired up.
func Noop() *Instrumentation {
	return &Instrumentation{
		Tracer:  NewNoopTracer(),
		Metrics: NewNoopMetrics(),
		Logger:  NewNoopLogger(),
	}
}
