package significance

import (
	"math"

	"shiftsense/estimator"
)

// Result is the output contract every tester shares: one flag per
// change-series cell, in the change matrix's column-major shape. The
// surrogate tester also fills PValues; the cheaper testers leave it
// nil because they compute no null distribution.
type Result struct {
	// PValues[j][i] is the p-value of change column j at row i, NaN
	// for rows with insufficient data. Nil for flag-only testers.
	PValues estimator.Columns

	// Flags[j][i] reports whether the cell was graded significant.
	Flags [][]bool

	// Threshold is the significance level flags were derived from
	// (flag = p < Threshold), zero for flag-only testers.
	Threshold float64
}

func newFlags(cols, rows int) [][]bool {
	f := make([][]bool, cols)
	for j := range f {
		f[j] = make([]bool, rows)
	}
	return f
}

// FlaggedRate returns the fraction of non-NaN change cells that were
// flagged, a convenience for calibration checks.
func (r *Result) FlaggedRate(observed estimator.Columns) float64 {
	total, flagged := 0, 0
	for j := range r.Flags {
		for i := range r.Flags[j] {
			if j < len(observed) && math.IsNaN(observed[j][i]) {
				continue
			}
			total++
			if r.Flags[j][i] {
				flagged++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(flagged) / float64(total)
}
