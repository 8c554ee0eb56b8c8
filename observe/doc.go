// Package observe provides observability primitives for cache lookups.
//
// It is a pure instrumentation library: no execution, no transport, no
// I/O beyond exporter setup. Consumers wire an Instrumentation bundle
// into the memo package's instrumented cache wrappers.
package observe
