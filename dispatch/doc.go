// Package dispatch provides an atomically rebindable call target.
//
// A Cell holds "the function to run next" for a call site whose behavior
// changes over its lifetime (compute-then-publish, then constant read).
// Reads are a single atomic load, so a call site that has stabilized pays
// no synchronization cost beyond the load itself.
package dispatch
