// Package metrics defines the capability interfaces for the pluggable
// window-to-scalar statistics the estimation engine is parameterized by.
// Concrete formulas live in adapters/indicators; the engine only sees
// these interfaces.
package metrics

import (
	"shiftsense/domain/core"
)

// Metric is a scalar statistic over a window of values. Implementations
// must be stateless: Evaluate may be called concurrently from many
// goroutines on different windows.
type Metric interface {
	Name() core.MetricKey
	Evaluate(values []float64) float64
}

// BoundMetric is an evaluator whose time-dependent algebra has already
// been solved for a fixed window of time coordinates. Only the
// value-dependent work remains.
type BoundMetric func(values []float64) float64

// Precomputable is the optional capability of metrics whose internal
// algebra depends only on the window's time coordinates, not on the
// sampled values (e.g. a regression design matrix). Precompute must be
// pure and the returned evaluator must satisfy
//
//	m.Precompute(t)(x) == m.Evaluate(x)
//
// for every value window x sampled on the time window t: binding
// changes cost, never results.
type Precomputable interface {
	Metric
	Precompute(times []float64) BoundMetric
}

// Bind resolves the evaluator to use for a fixed time window. Metrics
// exposing the Precomputable capability are bound once; all others are
// used unchanged.
func Bind(m Metric, times []float64) BoundMetric {
	if pc, ok := m.(Precomputable); ok {
		return pc.Precompute(times)
	}
	return m.Evaluate
}

// Func adapts a plain function into a Metric, for callers that do not
// want to define a type.
type Func struct {
	Key core.MetricKey
	Fn  func(values []float64) float64
}

// NewFunc wraps fn as a Metric named key.
func NewFunc(key string, fn func(values []float64) float64) Func {
	return Func{Key: core.MetricKey(key), Fn: fn}
}

func (f Func) Name() core.MetricKey { return f.Key }

func (f Func) Evaluate(values []float64) float64 { return f.Fn(values) }
