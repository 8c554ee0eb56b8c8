package memo

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// WrapConfig configures the reflect-based adapter.
type WrapConfig struct {
	// Keyer derives the cache key from the argument tuple.
	// Default: NewDefaultKeyer()
	Keyer Keyer
}

// Handle is the control surface for a function memoized by Wrap.
type Handle struct {
	fn     reflect.Value
	typ    reflect.Type
	keyer  Keyer
	hasErr bool

	group   singleflight.Group
	mu      sync.RWMutex
	results map[string][]reflect.Value
}

// Wrap memoizes fn behind its own callable shape: the returned value has
// the identical dynamic type as fn and can be used anywhere fn could be.
// Calls with canonically equal argument tuples execute fn at most once
// concurrently (in-flight calls are deduplicated) and at most once
// overall until Reset or Refresh.
//
// fn must be a non-variadic function. If its last result is an error,
// failed calls propagate that error and are never cached. Arguments the
// keyer cannot canonicalize bypass the cache entirely (a direct call).
func Wrap(fn any, cfg WrapConfig) (any, *Handle, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, nil, ErrNotFunc
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, nil, ErrVariadicFunc
	}
	if cfg.Keyer == nil {
		cfg.Keyer = NewDefaultKeyer()
	}

	h := &Handle{
		fn:      v,
		typ:     t,
		keyer:   cfg.Keyer,
		hasErr:  t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType,
		results: make(map[string][]reflect.Value),
	}
	return reflect.MakeFunc(t, h.call).Interface(), h, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// call is the memoized body installed by reflect.MakeFunc.
func (h *Handle) call(args []reflect.Value) []reflect.Value {
	key, err := h.keyer.Key(argValues(args))
	if err != nil {
		// Uncacheable arguments: execute without caching, like a cache
		// skipped by policy.
		return h.fn.Call(args)
	}

	for {
		h.mu.RLock()
		out, ok := h.results[key]
		h.mu.RUnlock()
		if ok {
			return out
		}

		// executed marks this caller as the one whose flight ran the
		// function; singleflight's shared flag cannot tell the executor
		// apart from its waiters.
		executed := false
		res, execErr, _ := h.group.Do(key, func() (any, error) {
			// Double-check: a previous flight may have published between
			// the map probe and this call.
			h.mu.RLock()
			out, ok := h.results[key]
			h.mu.RUnlock()
			if ok {
				return out, nil
			}

			executed = true
			out = h.fn.Call(args)
			if h.hasErr {
				if errOut := out[len(out)-1]; !errOut.IsNil() {
					// Propagate without publishing.
					return out, errOut.Interface().(error)
				}
			}
			h.mu.Lock()
			h.results[key] = out
			h.mu.Unlock()
			return out, nil
		})
		if execErr != nil && !executed {
			// Only the caller whose flight ran the function sees its
			// failure; callers that merely waited re-attempt.
			continue
		}
		return res.([]reflect.Value)
	}
}

// Refresh always executes the function with args and republishes the
// result for that tuple. It returns the call's results, with a trailing
// error result split out when the function declares one.
func (h *Handle) Refresh(args ...any) ([]any, error) {
	in, err := h.inputs(args)
	if err != nil {
		return nil, err
	}

	key, keyErr := h.keyer.Key(args)
	out := h.fn.Call(in)

	results, callErr := h.outputs(out)
	if callErr == nil && keyErr == nil {
		h.mu.Lock()
		h.results[key] = out
		h.mu.Unlock()
	}
	return results, callErr
}

// Set publishes externally supplied results for args without executing.
// results must match the function's non-error result types.
func (h *Handle) Set(args []any, results []any) error {
	key, err := h.keyer.Key(args)
	if err != nil {
		return err
	}

	want := h.typ.NumOut()
	if h.hasErr {
		want--
	}
	if len(results) != want {
		return fmt.Errorf("memo: got %d results, function returns %d", len(results), want)
	}

	out := make([]reflect.Value, h.typ.NumOut())
	for i, r := range results {
		rv, err := conform(r, h.typ.Out(i))
		if err != nil {
			return fmt.Errorf("memo: result %d: %w", i, err)
		}
		out[i] = rv
	}
	if h.hasErr {
		out[len(out)-1] = reflect.Zero(errorType)
	}

	h.mu.Lock()
	h.results[key] = out
	h.mu.Unlock()
	return nil
}

// Reset clears every cached tuple. Executions already in flight may
// publish after the clear (last write wins).
func (h *Handle) Reset() {
	h.mu.Lock()
	h.results = make(map[string][]reflect.Value)
	h.mu.Unlock()
}

// Len reports the number of cached tuples.
func (h *Handle) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.results)
}

func (h *Handle) inputs(args []any) ([]reflect.Value, error) {
	if len(args) != h.typ.NumIn() {
		return nil, fmt.Errorf("memo: got %d arguments, function takes %d", len(args), h.typ.NumIn())
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		rv, err := conform(a, h.typ.In(i))
		if err != nil {
			return nil, fmt.Errorf("memo: argument %d: %w", i, err)
		}
		in[i] = rv
	}
	return in, nil
}

func (h *Handle) outputs(out []reflect.Value) ([]any, error) {
	n := len(out)
	var callErr error
	if h.hasErr {
		n--
		if !out[n].IsNil() {
			callErr = out[n].Interface().(error)
		}
	}
	results := make([]any, n)
	for i := 0; i < n; i++ {
		results[i] = out[i].Interface()
	}
	return results, callErr
}

// conform adapts an any value to the target reflect type, using the
// type's zero value for nil.
func conform(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, fmt.Errorf("nil is not assignable to %s", t)
		}
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), t)
	}
	return rv, nil
}

func argValues(args []reflect.Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a.Interface()
	}
	return out
}

var _ Registry = (*Handle)(nil)
