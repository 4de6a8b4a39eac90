// Package indicators supplies ready-made window-to-scalar statistics for
// the estimation engine: distribution moments, autocorrelation,
// permutation entropy, and trend metrics. The engine itself only
// depends on the metrics capability interfaces; everything here is a
// plug-in.
package indicators

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"shiftsense/domain/metrics"
)

// Mean is the window average.
func Mean() metrics.Metric {
	return metrics.NewFunc("mean", func(x []float64) float64 {
		return stat.Mean(x, nil)
	})
}

// Variance is the unbiased sample variance, a classical early-warning
// indicator (critical slowing down inflates it).
func Variance() metrics.Metric {
	return metrics.NewFunc("variance", func(x []float64) float64 {
		return stat.Variance(x, nil)
	})
}

// StdDev is the unbiased sample standard deviation.
func StdDev() metrics.Metric {
	return metrics.NewFunc("stddev", func(x []float64) float64 {
		return stat.StdDev(x, nil)
	})
}

// Skewness is the sample skewness.
func Skewness() metrics.Metric {
	return metrics.NewFunc("skewness", func(x []float64) float64 {
		return stat.Skew(x, nil)
	})
}

// Kurtosis is the sample excess kurtosis.
func Kurtosis() metrics.Metric {
	return metrics.NewFunc("kurtosis", func(x []float64) float64 {
		return stat.ExKurtosis(x, nil)
	})
}

// rankData assigns ranks, averaging ties, so rank correlations are
// well defined on windows with repeated values.
func rankData(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	// insertion sort by value; windows are small
	for i := 1; i < n; i++ {
		for j := i; j > 0 && data[idx[j]] < data[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j < n-1 && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func indexTimes(n int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i)
	}
	return t
}

func nanIfInvalid(v float64) float64 {
	if math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
