package significance

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"shiftsense/estimator"
	"shiftsense/internal/errors"
)

// The three testers below grade the already-computed change series
// without drawing any surrogates. They share the surrogate tester's
// output contract so call sites can swap strategies freely.

// QuantileConfig flags change values outside the empirical
// [1-P, P] quantile band of the same change column. On any
// non-constant column at least one point is flagged by construction:
// when tied extremes pull the interpolated band out to the column
// extremes, the band is tightened to the nearest interior value so
// the extreme points stay outside it. A constant column flags
// nothing.
type QuantileConfig struct {
	// P is the quantile level in (0.5, 1). Defaults to 0.95.
	P float64

	// Tails holds one tail per change column; nil broadcasts Tail.
	Tails []Tail

	// Tail is the default tail convention (zero value: TailBoth).
	Tail Tail
}

func (c QuantileConfig) p() float64 {
	if c.P == 0 {
		return 0.95
	}
	return c.P
}

// Test implements the shared tester contract.
func (c QuantileConfig) Test(res *estimator.Results) (*Result, error) {
	if c.p() <= 0.5 || c.p() >= 1 {
		return nil, errors.ConfigInvalidf("quantile level must be in (0.5, 1), got %g", c.p())
	}
	return testColumns(res, c.Tails, c.Tail, func(col []float64, finite []float64) (lo, hi float64, err error) {
		sorted := make([]float64, len(finite))
		copy(sorted, finite)
		sort.Float64s(sorted)
		lo = percentile(sorted, 1-c.p())
		hi = percentile(sorted, c.p())

		min, max := sorted[0], sorted[len(sorted)-1]
		if min == max {
			return lo, hi, nil
		}
		if hi >= max {
			hi = nextBelow(sorted, max)
		}
		if lo <= min {
			lo = nextAbove(sorted, min)
		}
		return lo, hi, nil
	})
}

// nextBelow returns the largest sorted value strictly below v.
func nextBelow(sorted []float64, v float64) float64 {
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] < v {
			return sorted[i]
		}
	}
	return v
}

// nextAbove returns the smallest sorted value strictly above v.
func nextAbove(sorted []float64, v float64) float64 {
	for _, s := range sorted {
		if s > v {
			return s
		}
	}
	return v
}

// percentile linearly interpolates the p-quantile of sorted values.
func percentile(sorted []float64, p float64) float64 {
	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SigmaConfig flags change values beyond mean +/- Factor*std of the
// same change column. Unlike the quantile tester it carries no
// flagging guarantee: a low-variance column under a large factor may
// flag nothing.
type SigmaConfig struct {
	// Factor scales the standard deviation band. Defaults to 2.
	Factor float64

	Tails []Tail
	Tail  Tail
}

func (c SigmaConfig) factor() float64 {
	if c.Factor <= 0 {
		return 2
	}
	return c.Factor
}

// SigmaForConfidence converts a two-sided normal confidence level into
// the equivalent sigma factor (e.g. 0.95 -> 1.96), for callers tuning
// SigmaConfig against a quantile-style level.
func SigmaForConfidence(confidence float64) float64 {
	n := distuv.Normal{Mu: 0, Sigma: 1}
	return n.Quantile(0.5 + confidence/2)
}

// Test implements the shared tester contract.
func (c SigmaConfig) Test(res *estimator.Results) (*Result, error) {
	return testColumns(res, c.Tails, c.Tail, func(col []float64, finite []float64) (lo, hi float64, err error) {
		mean, err := stats.Mean(finite)
		if err != nil {
			return 0, 0, err
		}
		sd, err := stats.StandardDeviationSample(finite)
		if err != nil {
			return 0, 0, err
		}
		return mean - c.factor()*sd, mean + c.factor()*sd, nil
	})
}

// ThresholdConfig flags change values that cross fixed literal bounds:
// above Upper for the right tail, below Lower for the left.
type ThresholdConfig struct {
	Upper float64
	Lower float64

	Tails []Tail
	Tail  Tail
}

// Test implements the shared tester contract.
func (c ThresholdConfig) Test(res *estimator.Results) (*Result, error) {
	return testColumns(res, c.Tails, c.Tail, func(col []float64, finite []float64) (lo, hi float64, err error) {
		return c.Lower, c.Upper, nil
	})
}

// testColumns runs a per-column band computation and flags values
// outside the band according to that column's tail. NaN change values
// (insufficient-data segments) are excluded from band estimation and
// never flagged.
func testColumns(res *estimator.Results, tails []Tail, def Tail, band func(col, finite []float64) (lo, hi float64, err error)) (*Result, error) {
	if res == nil {
		return nil, errors.InvalidInput("estimation results are required")
	}
	cols, rows := res.Change.NumCols(), res.Change.Rows()
	resolved, err := resolveTails(tails, def, cols)
	if err != nil {
		return nil, err
	}

	out := &Result{Flags: newFlags(cols, rows)}
	for j := 0; j < cols; j++ {
		finite := make([]float64, 0, rows)
		for _, v := range res.Change[j] {
			if !math.IsNaN(v) {
				finite = append(finite, v)
			}
		}
		if len(finite) == 0 {
			continue
		}

		lo, hi, err := band(res.Change[j], finite)
		if err != nil {
			return nil, errors.Wrapf(err, "band for change column %d", j)
		}

		for i, v := range res.Change[j] {
			if math.IsNaN(v) {
				continue
			}
			switch resolved[j] {
			case TailRight:
				out.Flags[j][i] = v > hi
			case TailLeft:
				out.Flags[j][i] = v < lo
			default:
				out.Flags[j][i] = v < lo || v > hi
			}
		}
	}
	return out, nil
}
