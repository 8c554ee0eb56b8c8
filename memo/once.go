package memo

import (
	"sync"
	"sync/atomic"

	"github.com/jonwraymond/memo/dispatch"
)

// Stability selects the cell layout a cache uses for its published state.
// It is a tuning knob with no caller-visible behavioral difference.
type Stability int

const (
	// Stable optimizes for publishing once and rarely resetting. The
	// accessor's dispatch target is swapped to a constant on publication,
	// so the steady state is one atomic load and an indirect call.
	Stable Stability = iota

	// Volatile optimizes for frequent Reset and Refresh. Every read pays
	// an atomic pointer load plus a nil check, and Reset is a single
	// store.
	Volatile
)

// published is the result slot: its presence means a value has been
// published, so a nil result value needs no sentinel.
type published[V any] struct {
	value V
}

// Once executes a zero-argument computation at most once and serves the
// published result thereafter.
//
// Contract:
// - Concurrency: safe for concurrent use. Only callers racing the first
//   execution block, on this cache's own guard; published reads are
//   lock-free.
// - Errors: a failed execution publishes nothing and releases the guard;
//   the error propagates to the caller that triggered it and the next
//   call re-attempts.
type Once[V any] struct {
	mu      sync.Mutex
	inner   atomic.Pointer[published[V]]
	cell    *dispatch.Cell[func() (V, error)] // Stable mode only
	slow    func() (V, error)                 // initial dispatch target; nil for slots
	compute func() (V, error)
}

// NewOnce creates a one-time publish cache around compute.
func NewOnce[V any](compute func() (V, error), s Stability) (*Once[V], error) {
	if compute == nil {
		return nil, ErrNilComputation
	}
	return newOnce(compute, s), nil
}

func newOnce[V any](compute func() (V, error), s Stability) *Once[V] {
	o := &Once[V]{compute: compute}
	if s == Stable {
		o.slow = func() (V, error) {
			v, _, err := o.get(o.compute)
			return v, err
		}
		o.cell = dispatch.New(o.slow)
	}
	return o
}

// newSlot creates an unbound cache used as an Indexed/Domain slot; the
// computation is supplied per call via get/refreshWith. In Stable layout
// the slot's cell starts unbound and is rebound to a constant on
// publication.
func newSlot[V any](s Stability) *Once[V] {
	o := &Once[V]{}
	if s == Stable {
		o.cell = dispatch.New(o.slow) // nil target until first publication
	}
	return o
}

// Get returns the published value, executing the computation first if
// nothing is published yet.
func (o *Once[V]) Get() (V, error) {
	if o.cell != nil {
		return o.cell.Load()()
	}
	v, _, err := o.get(o.compute)
	return v, err
}

// get is the shared miss path: double-checked locking around compute,
// publication on success. executed reports whether this call ran the
// computation.
func (o *Once[V]) get(compute func() (V, error)) (v V, executed bool, err error) {
	// A published slot in Stable layout reads through its dispatch cell.
	// Bound caches never take this path: their cell targets this method
	// until publication.
	if o.slow == nil && o.cell != nil {
		if fn := o.cell.Load(); fn != nil {
			v, err = fn()
			return v, false, err
		}
	}
	if p := o.inner.Load(); p != nil {
		return p.value, false, nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// Another caller may have published while we waited on the guard.
	if p := o.inner.Load(); p != nil {
		return p.value, false, nil
	}

	if compute == nil {
		var zero V
		return zero, false, ErrNilComputation
	}

	v, err = compute()
	if err != nil {
		var zero V
		return zero, true, err
	}

	o.publishLocked(v)
	return v, true, nil
}

// Refresh always executes the computation and republishes its result.
// On failure the previously published value, if any, is retained.
func (o *Once[V]) Refresh() (V, error) {
	return o.refreshWith(o.compute)
}

func (o *Once[V]) refreshWith(compute func() (V, error)) (V, error) {
	if compute == nil {
		var zero V
		return zero, ErrNilComputation
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	o.publishLocked(v)
	return v, nil
}

// Set publishes an externally supplied value without running the
// computation.
func (o *Once[V]) Set(v V) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publishLocked(v)
}

// Reset returns the cache to its unpublished state; the next accessor
// call re-executes. A Reset racing an in-flight first execution may be
// superseded by that execution's publication (last write wins at the
// cell level).
func (o *Once[V]) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inner.Store(nil)
	if o.cell != nil {
		o.cell.Store(o.slow)
	}
}

// publishLocked stores the result slot and, in Stable mode, rebinds the
// dispatch cell to a constant read. Callers must hold o.mu.
func (o *Once[V]) publishLocked(v V) {
	p := &published[V]{value: v}
	o.inner.Store(p)
	if o.cell != nil {
		o.cell.Store(func() (V, error) { return p.value, nil })
	}
}

// Ensure Once satisfies the shared cache contract.
var _ Registry = (*Once[int])(nil)
