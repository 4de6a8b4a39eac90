package estimator

import (
	"shiftsense/domain/core"
	"shiftsense/domain/metrics"
	"shiftsense/domain/series"
	"shiftsense/internal/errors"
)

// Config is the immutable binding of metrics and window geometry for
// one estimation variant. A Config is built once, validated up front,
// and reused across many Estimate and Pipeline calls (including once
// per surrogate draw).
type Config interface {
	// Validate rejects degenerate configurations before any
	// computation begins.
	Validate() error

	// Estimate runs the full pipeline and returns fresh Results.
	Estimate(ts series.TimeSeries) (*Results, error)

	// Pipeline precomputes the evaluation schedule for a fixed time
	// grid, so the value-dependent work can be repeated cheaply over
	// many realizations of the values.
	Pipeline(t []float64) (Pipeline, error)

	// ColumnNames names the change-matrix columns.
	ColumnNames() []core.MetricKey
}

// Pipeline is a precomputed evaluation schedule bound to one time
// grid. It is safe for concurrent use as long as each goroutine owns
// its Scratch.
type Pipeline interface {
	// Rows is the number of change-matrix rows this pipeline produces.
	Rows() int

	// Cols is the number of change-metric columns.
	Cols() int

	// NewScratch allocates private intermediate buffers for one worker.
	NewScratch() *Scratch

	// ChangeInto evaluates the change matrix for values x (sampled on
	// the pipeline's time grid) into dst, using scratch for the
	// intermediate indicator series. dst must be Cols() x Rows().
	ChangeInto(dst Columns, x []float64, scratch *Scratch)
}

// Scratch holds per-worker intermediate buffers. Never shared between
// goroutines.
type Scratch struct {
	ind []float64
}

// validateMetricCounts enforces the {1, N} pairing rule between
// indicators and change metrics.
func validateMetricCounts(indicators, changeMetrics []metrics.Metric) error {
	if len(changeMetrics) < 1 {
		return errors.ConfigInvalid("at least one change metric is required")
	}
	if n := len(indicators); n > 0 && len(changeMetrics) != 1 && len(changeMetrics) != n {
		return errors.ConfigInvalidf("change metric count must be 1 or match the %d indicators, got %d", n, len(changeMetrics))
	}
	return nil
}

// columnCount returns the number of change columns: one per indicator,
// or one per change metric when the indicator stage is absent.
func columnCount(indicators, changeMetrics []metrics.Metric) int {
	if len(indicators) > 0 {
		return len(indicators)
	}
	return len(changeMetrics)
}

// changeMetricFor resolves the change metric of column j under the
// one-to-one / broadcast rule.
func changeMetricFor(indicators, changeMetrics []metrics.Metric, j int) metrics.Metric {
	if len(indicators) == 0 || len(changeMetrics) == len(indicators) {
		return changeMetrics[j]
	}
	return changeMetrics[0]
}

func columnNames(indicators, changeMetrics []metrics.Metric) []core.MetricKey {
	names := make([]core.MetricKey, columnCount(indicators, changeMetrics))
	for j := range names {
		cha := changeMetricFor(indicators, changeMetrics, j).Name()
		if len(indicators) == 0 {
			names[j] = cha
			continue
		}
		names[j] = core.MetricKey(indicators[j].Name().String() + ":" + cha.String())
	}
	return names
}

func orMidpoint(p series.TimePolicy) series.TimePolicy {
	if p == nil {
		return series.TimeMidpoint
	}
	return p
}
