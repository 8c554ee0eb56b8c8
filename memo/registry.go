package memo

// Registry is the contract shared by every cache in this package: it can
// be returned to its initial "nothing published" state. The accessor and
// updater surfaces stay on the concrete types because their signatures
// depend on the key shape.
type Registry interface {
	Reset()
}

// Tuple keys. Comparable structs give structural equality over the
// argument tuple: two tuples are the same key iff their elements are
// pairwise equal, independent of identity.

type tuple2[A, B comparable] struct {
	a A
	b B
}

type tuple3[A, B, C comparable] struct {
	a A
	b B
	c C
}

// Func0 memoizes a zero-argument function. It is a thin view over Once
// for symmetry with the other arities.
type Func0[V any] struct {
	*Once[V]
}

// NewFunc0 creates a memoized zero-argument function.
func NewFunc0[V any](fn func() (V, error), s Stability) (*Func0[V], error) {
	o, err := NewOnce(fn, s)
	if err != nil {
		return nil, err
	}
	return &Func0[V]{Once: o}, nil
}

// Func1 memoizes a one-argument function per distinct argument.
type Func1[A comparable, V any] struct {
	*Keyed[A, V]
}

// NewFunc1 creates a memoized one-argument function.
func NewFunc1[A comparable, V any](fn func(A) (V, error), s Stability) (*Func1[A, V], error) {
	k, err := NewKeyed(fn, s)
	if err != nil {
		return nil, err
	}
	return &Func1[A, V]{Keyed: k}, nil
}

// Func2 memoizes a two-argument function per distinct argument tuple.
type Func2[A, B comparable, V any] struct {
	keyed *Keyed[tuple2[A, B], V]
}

// NewFunc2 creates a memoized two-argument function.
func NewFunc2[A, B comparable, V any](fn func(A, B) (V, error), s Stability) (*Func2[A, B, V], error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	k, err := NewKeyed(func(t tuple2[A, B]) (V, error) { return fn(t.a, t.b) }, s)
	if err != nil {
		return nil, err
	}
	return &Func2[A, B, V]{keyed: k}, nil
}

// Get returns the memoized result for (a, b).
func (f *Func2[A, B, V]) Get(a A, b B) (V, error) {
	return f.keyed.Get(tuple2[A, B]{a, b})
}

// Refresh always executes and republishes the result for (a, b).
func (f *Func2[A, B, V]) Refresh(a A, b B) (V, error) {
	return f.keyed.Refresh(tuple2[A, B]{a, b})
}

// Reset clears every cached tuple.
func (f *Func2[A, B, V]) Reset() {
	f.keyed.Reset()
}

// Len reports the number of cached tuples.
func (f *Func2[A, B, V]) Len() int {
	return f.keyed.Len()
}

// Func3 memoizes a three-argument function per distinct argument tuple.
type Func3[A, B, C comparable, V any] struct {
	keyed *Keyed[tuple3[A, B, C], V]
}

// NewFunc3 creates a memoized three-argument function.
func NewFunc3[A, B, C comparable, V any](fn func(A, B, C) (V, error), s Stability) (*Func3[A, B, C, V], error) {
	if fn == nil {
		return nil, ErrNilComputation
	}
	k, err := NewKeyed(func(t tuple3[A, B, C]) (V, error) { return fn(t.a, t.b, t.c) }, s)
	if err != nil {
		return nil, err
	}
	return &Func3[A, B, C, V]{keyed: k}, nil
}

// Get returns the memoized result for (a, b, c).
func (f *Func3[A, B, C, V]) Get(a A, b B, c C) (V, error) {
	return f.keyed.Get(tuple3[A, B, C]{a, b, c})
}

// Refresh always executes and republishes the result for (a, b, c).
func (f *Func3[A, B, C, V]) Refresh(a A, b B, c C) (V, error) {
	return f.keyed.Refresh(tuple3[A, B, C]{a, b, c})
}

// Reset clears every cached tuple.
func (f *Func3[A, B, C, V]) Reset() {
	f.keyed.Reset()
}

// Len reports the number of cached tuples.
func (f *Func3[A, B, C, V]) Len() int {
	return f.keyed.Len()
}

var (
	_ Registry = (*Func0[int])(nil)
	_ Registry = (*Func1[string, int])(nil)
	_ Registry = (*Func2[string, int, bool])(nil)
	_ Registry = (*Func3[string, int, bool, string])(nil)
)
