package significance

import (
	"testing"

	"shiftsense/adapters/indicators"
	"shiftsense/adapters/surrogates"
	"shiftsense/domain/metrics"
	"shiftsense/domain/series"
	"shiftsense/estimator"
	"shiftsense/internal/testkit"
)

// TestSurrogates_CalibrationOnNoise runs the full pipeline end to end
// on pure noise: AR1 over sliding windows, Kendall tau of the AR1
// series, graded against shuffle surrogates. Shuffling white noise
// reproduces its own null, so the false positive rate at threshold
// 0.05 should stay low. Windows overlap heavily, which correlates
// neighbouring cells, so the check pools several independent series
// and uses a generous ceiling rather than a tight binomial bound.
func TestSurrogates_CalibrationOnNoise(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping surrogate calibration in short mode")
	}

	cfg := estimator.SlidingConfig{
		Indicators:    []metrics.Metric{indicators.AR1()},
		ChangeMetrics: []metrics.Metric{indicators.KendallTau{}},
		WidthInd:      100, StrideInd: 5,
		WidthCha: 50, StrideCha: 5,
	}

	const runs = 10
	rateSum := 0.0
	for seed := int64(1); seed <= runs; seed++ {
		ts := series.NewIndexed(testkit.WhiteNoise(1000, seed))
		res, err := cfg.Estimate(ts)
		if err != nil {
			t.Fatalf("Estimate(seed %d): %v", seed, err)
		}

		out, err := SurrogatesConfig{
			Generator: surrogates.RandomShuffle{},
			N:         200,
			Tail:      TailRight,
			Threshold: 0.05,
			Seed:      seed,
		}.Test(res)
		if err != nil {
			t.Fatalf("Test(seed %d): %v", seed, err)
		}

		for j := range out.PValues {
			for i := range out.PValues[j] {
				if p := out.PValues[j][i]; p < 0 || p > 1 {
					t.Fatalf("p-value out of range: %g", p)
				}
			}
		}
		rateSum += out.FlaggedRate(res.Change)
	}

	if rate := rateSum / runs; rate > 0.15 {
		t.Errorf("false positive rate on noise = %.3f, want <= 0.15", rate)
	}
}

// TestSurrogates_DetectsTrend is the power counterpart: a genuine
// linear drift should be flagged nearly everywhere, because shuffling
// destroys the trend the Kendall tau measures.
func TestSurrogates_DetectsTrend(t *testing.T) {
	ts := series.NewIndexed(testkit.LinearTrend(200, 0.05, 1, 31))

	cfg := estimator.SlidingConfig{
		ChangeMetrics: []metrics.Metric{indicators.KendallTau{}},
		WidthCha:      50, StrideCha: 25,
	}
	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	out, err := SurrogatesConfig{
		Generator: surrogates.RandomShuffle{},
		N:         200,
		Tail:      TailRight,
		Seed:      31,
	}.Test(res)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}

	if rate := out.FlaggedRate(res.Change); rate < 0.5 {
		t.Errorf("flagged rate on a clear trend = %.3f, want >= 0.5", rate)
	}
}

// TestSurrogates_DetectsShift checks a mean step: post-shift window
// means sit far above the shuffled null, pre-shift means do not (under
// the right tail).
func TestSurrogates_DetectsShift(t *testing.T) {
	ts := series.NewIndexed(testkit.StepShift(300, 150, 5, 1, 13))

	cfg := estimator.SlidingConfig{
		ChangeMetrics: []metrics.Metric{indicators.Mean()},
		WidthCha:      30, StrideCha: 30,
	}
	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	out, err := SurrogatesConfig{
		Generator: surrogates.RandomShuffle{},
		N:         200,
		Tail:      TailRight,
		Seed:      13,
	}.Test(res)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}

	rows := res.Change.Rows()
	if !out.Flags[0][rows-1] {
		t.Error("last post-shift window should be flagged")
	}
	if out.Flags[0][0] {
		t.Error("first pre-shift window should not be flagged on the right tail")
	}
	if rate := out.FlaggedRate(res.Change); rate < 0.3 {
		t.Errorf("flagged rate after a mean step = %.3f, want >= 0.3", rate)
	}
}
