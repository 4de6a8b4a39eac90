package series

import (
	"shiftsense/internal/errors"
)

// View is a lazy, non-copying generator of fixed-width strided windows
// over a base slice. Window i is the subslice starting at offset i*S of
// length W; only offsets whose window fully fits are produced. A View
// holds no iteration state, so it can be walked any number of times.
type View[T any] struct {
	base   []T
	width  int
	stride int
}

// NewView validates the window geometry and wraps the base slice.
// A base shorter than the width is not an error; the resulting view is
// simply empty.
func NewView[T any](base []T, width, stride int) (View[T], error) {
	if width < 1 {
		return View[T]{}, errors.ConfigInvalidf("window width must be >= 1, got %d", width)
	}
	if stride < 1 {
		return View[T]{}, errors.ConfigInvalidf("window stride must be >= 1, got %d", stride)
	}
	return View[T]{base: base, width: width, stride: stride}, nil
}

// Count returns the number of windows: max(0, (L-W)/S + 1).
func (v View[T]) Count() int {
	if len(v.base) < v.width {
		return 0
	}
	return (len(v.base)-v.width)/v.stride + 1
}

// At returns the i-th window as a subslice of the base. The window is
// a view into the caller's data; it must not be retained across
// mutations of the base and must not be mutated.
func (v View[T]) At(i int) []T {
	off := i * v.stride
	return v.base[off : off+v.width]
}

// Width returns the window width.
func (v View[T]) Width() int { return v.width }

// Stride returns the offset between consecutive windows.
func (v View[T]) Stride() int { return v.stride }

// WindowCount computes the window count for a base of length n without
// materializing a View.
func WindowCount(n, width, stride int) int {
	if width < 1 || stride < 1 || n < width {
		return 0
	}
	return (n-width)/stride + 1
}
