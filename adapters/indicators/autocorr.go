package indicators

import (
	"strconv"

	"shiftsense/domain/core"
)

// Autocorrelation is the lag-k sample autocorrelation, normalized the
// standard way (lag-offset products over the full-window variance).
// Lag-1 autocorrelation rising toward 1 is the canonical critical
// slowing down signal.
type Autocorrelation struct {
	Lag int
}

// AR1 is the lag-1 autocorrelation.
func AR1() Autocorrelation {
	return Autocorrelation{Lag: 1}
}

func (a Autocorrelation) lag() int {
	if a.Lag < 1 {
		return 1
	}
	return a.Lag
}

func (a Autocorrelation) Name() core.MetricKey {
	if a.lag() == 1 {
		return "ar1"
	}
	return core.MetricKey("autocorr-lag" + strconv.Itoa(a.lag()))
}

func (a Autocorrelation) Evaluate(x []float64) float64 {
	lag := a.lag()
	if len(x) <= lag {
		return 0
	}

	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))

	num, den := 0.0, 0.0
	for i := 0; i < len(x)-lag; i++ {
		num += (x[i] - mean) * (x[i+lag] - mean)
	}
	for _, v := range x {
		d := v - mean
		den += d * d
	}
	if den == 0 {
		return 0
	}
	return num / den
}

