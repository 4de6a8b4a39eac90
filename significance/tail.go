// Package significance decides which change-metric values are
// statistically extreme. The surrogate tester rebuilds the estimation
// pipeline over randomized null realizations; the quantile, sigma and
// threshold testers grade the already-computed change series directly.
// All testers share one output contract (Result).
package significance

import (
	"shiftsense/internal/errors"
)

// Tail selects which side of the null distribution counts as "more
// extreme". The convention, fixed once for every tester:
//
//   - TailRight flags values that are unusually HIGH relative to the
//     null: p = count(surrogate > observed) / n. Use it for metric
//     families that randomization weakens, e.g. trend metrics over
//     autocorrelation or variance indicators.
//   - TailLeft flags values that are unusually LOW:
//     p = count(surrogate < observed) / n. Use it for metric families
//     that randomization inflates, e.g. entropy-like indicators.
//   - TailBoth is two-sided: p = 2 * min(right, left) / n.
type Tail int

const (
	TailBoth Tail = iota
	TailRight
	TailLeft
)

func (t Tail) String() string {
	switch t {
	case TailBoth:
		return "both"
	case TailRight:
		return "right"
	case TailLeft:
		return "left"
	}
	return "unknown"
}

func (t Tail) valid() bool {
	return t == TailBoth || t == TailRight || t == TailLeft
}

// resolveTails expands the configured tails to one per change column.
// A nil list broadcasts def; a supplied list must match cols exactly.
func resolveTails(tails []Tail, def Tail, cols int) ([]Tail, error) {
	if !def.valid() {
		return nil, errors.ConfigInvalidf("invalid tail %d", def)
	}
	if tails == nil {
		out := make([]Tail, cols)
		for j := range out {
			out[j] = def
		}
		return out, nil
	}
	if len(tails) != cols {
		return nil, errors.ConfigInvalidf("tail list length %d does not match %d change metrics", len(tails), cols)
	}
	for _, t := range tails {
		if !t.valid() {
			return nil, errors.ConfigInvalidf("invalid tail %d", t)
		}
	}
	return tails, nil
}
