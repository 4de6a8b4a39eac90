package indicators

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"shiftsense/domain/core"
	"shiftsense/domain/metrics"
)

// The metrics in this file score the trend of a window against its
// time coordinates, which is the usual change-metric role: applied to
// an indicator series they answer "is this indicator drifting". When
// evaluated without bound times they fall back to index positions,
// which is exact for evenly indexed series.

// KendallTau is the Kendall rank correlation between the window values
// and their time coordinates. Robust to monotone transformations of
// the values.
type KendallTau struct{}

func (KendallTau) Name() core.MetricKey { return "kendall-tau" }

func (k KendallTau) Evaluate(x []float64) float64 {
	return k.Precompute(indexTimes(len(x)))(x)
}

// Precompute implements metrics.Precomputable.
func (KendallTau) Precompute(times []float64) metrics.BoundMetric {
	t := times
	return func(x []float64) float64 {
		return nanIfInvalid(stat.Kendall(t, x, nil))
	}
}

// SpearmanRho is the Spearman rank correlation between the window
// values and their time coordinates. The time ranks depend only on the
// window geometry, so they are solved at bind time.
type SpearmanRho struct{}

func (SpearmanRho) Name() core.MetricKey { return "spearman-rho" }

func (s SpearmanRho) Evaluate(x []float64) float64 {
	return s.Precompute(indexTimes(len(x)))(x)
}

// Precompute implements metrics.Precomputable.
func (SpearmanRho) Precompute(times []float64) metrics.BoundMetric {
	tRanks := rankData(times)
	return func(x []float64) float64 {
		return nanIfInvalid(stat.Correlation(tRanks, rankData(x), nil))
	}
}

// RidgeRegressionSlope is the slope of a ridge-regularized linear fit
// of the window values against time. It is the motivating case for the
// precompute protocol: the regression weights solve a linear system
// that depends only on the time coordinates and the penalty, so
// binding reduces each evaluation to one dot product.
type RidgeRegressionSlope struct {
	// Lambda is the ridge penalty; zero gives the ordinary
	// least-squares slope.
	Lambda float64
}

func (RidgeRegressionSlope) Name() core.MetricKey { return "ridge-slope" }

func (r RidgeRegressionSlope) Evaluate(x []float64) float64 {
	return r.Precompute(indexTimes(len(x)))(x)
}

// Precompute implements metrics.Precomputable. With centered times
// t'_i = t_i - mean(t), the slope is
//
//	sum_i t'_i x_i / (sum_i t'_i^2 + lambda)
//
// so the weights w_i = t'_i / (sum t'^2 + lambda) are reusable across
// every value window sharing this time grid.
func (r RidgeRegressionSlope) Precompute(times []float64) metrics.BoundMetric {
	tMean := stat.Mean(times, nil)
	w := make([]float64, len(times))
	den := r.Lambda
	for i, t := range times {
		c := t - tMean
		w[i] = c
		den += c * c
	}
	if den != 0 {
		for i := range w {
			w[i] /= den
		}
	}
	return func(x []float64) float64 {
		return floats.Dot(w, x)
	}
}
