// Package series holds the value types the estimation engine operates
// on: an ordered (t, x) time series, lazy strided window views over
// arbitrary element types, and the representative-time policies used
// to assign one time coordinate to each window.
package series

import (
	"shiftsense/internal/errors"
)

// TimeSeries is an ordered pair of time coordinates and values.
// T is strictly increasing and the same length as X. Spacing may be
// uneven; metrics whose precomputation assumes even spacing must
// validate that themselves.
type TimeSeries struct {
	T []float64
	X []float64
}

// New builds a TimeSeries after validating the (t, x) pairing.
func New(t, x []float64) (TimeSeries, error) {
	if len(t) != len(x) {
		return TimeSeries{}, errors.InvalidInputf("time/value length mismatch: t=%d, x=%d", len(t), len(x))
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return TimeSeries{}, errors.InvalidInputf("time coordinates must be strictly increasing (t[%d]=%g, t[%d]=%g)", i-1, t[i-1], i, t[i])
		}
	}
	return TimeSeries{T: t, X: x}, nil
}

// NewIndexed builds a TimeSeries whose time coordinates are the index
// positions 0..len(x)-1. This is the default when the caller has no
// explicit time axis.
func NewIndexed(x []float64) TimeSeries {
	t := make([]float64, len(x))
	for i := range t {
		t[i] = float64(i)
	}
	return TimeSeries{T: t, X: x}
}

// Len returns the number of samples.
func (ts TimeSeries) Len() int {
	return len(ts.X)
}
