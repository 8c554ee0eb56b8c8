package dispatch

import "sync/atomic"

// Cell is an atomically rebindable holder of a call target.
//
// Contract:
// - Concurrency: safe for concurrent use; Load never blocks.
// - Visibility: a Load that observes a value stored by Store or Swap also
//   observes every write made before that store (release/acquire ordering
//   per the Go memory model). Rebinding therefore doubles as a
//   publication barrier for whatever state the new target closes over.
type Cell[F any] struct {
	target atomic.Pointer[F]
}

// New creates a Cell bound to the initial target.
func New[F any](initial F) *Cell[F] {
	c := &Cell[F]{}
	c.target.Store(&initial)
	return c
}

// Load returns the current target. This is the accessor fast path: one
// atomic load, no branches, no locks.
func (c *Cell[F]) Load() F {
	return *c.target.Load()
}

// Store rebinds the cell to fn. Callers already executing the previous
// target are unaffected; every subsequent Load observes fn.
func (c *Cell[F]) Store(fn F) {
	c.target.Store(&fn)
}

// Swap rebinds the cell to fn and returns the previous target.
func (c *Cell[F]) Swap(fn F) F {
	return *c.target.Swap(&fn)
}
