package objectgraph

import (
	"errors"
	"reflect"
	"runtime"
)

// BridgePolicy selects how a synchronous walk handles asynchronous rules.
type BridgePolicy int

const (
	// BridgeThrow treats an async rule encountered in a sync walk as a
	// programming error surfaced to the caller.
	BridgeThrow BridgePolicy = iota

	// BridgeIgnore skips async rules entirely, treating them as passing.
	BridgeIgnore

	// BridgeTrySync drives the async rule to completion, blocking the
	// calling goroutine until the result is available.
	BridgeTrySync
)

// String returns the policy name.
func (p BridgePolicy) String() string {
	switch p {
	case BridgeThrow:
		return "throw"
	case BridgeIgnore:
		return "ignore"
	case BridgeTrySync:
		return "try-sync"
	default:
		return "unknown"
	}
}

// ErrAsyncRuleRequiresBridge is returned when a synchronous walk under
// BridgeThrow encounters an asynchronous rule. Async work is never run
// synchronously or skipped silently; the caller must opt in via
// BridgeTrySync or BridgeIgnore.
var ErrAsyncRuleRequiresBridge = errors.New("objectgraph: asynchronous rule invoked from a synchronous walk without a bridge policy")

// Option configures validation behavior.
type Option func(*Options)

// Options holds all configuration for a Validator.
type Options struct {
	// Bridge is the policy applied to async rules during synchronous
	// walks. The asynchronous walk ignores it.
	Bridge BridgePolicy

	// TypeFilter, when set, prunes which nested types get recursively
	// validated. It is consulted only for types that survive the built-in
	// exclusion list, never for primitives or other designated built-ins.
	TypeFilter func(reflect.Type) bool

	// WorkerCount bounds concurrency for batch validation.
	WorkerCount int

	// Metrics receives walk and rule timings. Nil disables recording.
	Metrics *Metrics
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Bridge:      BridgeThrow,
		WorkerCount: runtime.NumCPU(),
	}
}

// WithBridgePolicy sets the bridge policy for synchronous walks.
func WithBridgePolicy(p BridgePolicy) Option {
	return func(o *Options) {
		o.Bridge = p
	}
}

// WithTypeFilter sets a predicate pruning recursive descent by type.
func WithTypeFilter(fn func(reflect.Type) bool) Option {
	return func(o *Options) {
		o.TypeFilter = fn
	}
}

// WithWorkerCount sets the batch-validation worker count.
func WithWorkerCount(n int) Option {
	return func(o *Options) {
		o.WorkerCount = n
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}
