// Package estimator computes indicator and change-metric series over a
// time series. Two estimation variants share one configuration/result
// contract: a sliding variant that traces change continuously, and a
// segmented variant that scores user-supplied episodes once each.
package estimator

import (
	"shiftsense/domain/core"
	"shiftsense/domain/series"
)

// Columns is a column-major value matrix: Columns[j][i] is row i of
// metric column j. All columns have equal length.
type Columns [][]float64

// NewColumns allocates a matrix of nCols columns with nRows rows each.
func NewColumns(nCols, nRows int) Columns {
	c := make(Columns, nCols)
	for j := range c {
		c[j] = make([]float64, nRows)
	}
	return c
}

// Rows returns the number of rows (0 for a matrix with no columns).
func (c Columns) Rows() int {
	if len(c) == 0 {
		return 0
	}
	return len(c[0])
}

// NumCols returns the number of metric columns.
func (c Columns) NumCols() int { return len(c) }

// Results holds everything one estimation run produced. Results are
// created fresh per Estimate call and are read-only afterward.
//
// The indicator stage output is stored per segment: the sliding
// variant fills exactly one entry spanning the whole series, the
// segmented variant one entry per configured segment. The change
// matrix always has one row per change time point (sliding: window
// position, segmented: segment) and one column per change metric.
type Results struct {
	ID     core.AnalysisID
	Series series.TimeSeries

	IndTimes   [][]float64
	Indicators []Columns

	ChangeTimes []float64
	Change      Columns

	Config Config
}

// ColumnNames returns the change-column names, in column order.
func (r *Results) ColumnNames() []core.MetricKey {
	return r.Config.ColumnNames()
}
