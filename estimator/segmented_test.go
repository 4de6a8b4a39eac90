package estimator

import (
	"math"
	"testing"

	"shiftsense/adapters/indicators"
	"shiftsense/domain/metrics"
	"shiftsense/domain/series"
	"shiftsense/internal/testkit"
)

func segmentedTestConfig(segments []Segment) SegmentedConfig {
	return SegmentedConfig{
		Indicators:    []metrics.Metric{indicators.Variance()},
		ChangeMetrics: []metrics.Metric{indicators.KendallTau{}},
		WidthInd:      10, StrideInd: 1,
		MinWidthCha: 5,
		Segments:    segments,
	}
}

func TestSegmentedConfig_PerSegmentResults(t *testing.T) {
	ts := series.NewIndexed(testkit.AR1Process(100, 0.5, 21))

	cfg := segmentedTestConfig([]Segment{
		{Start: 0, End: 49},
		{Start: 50, End: 99},
		{Start: 20, End: 70}, // overlapping segments are allowed
	})

	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	if res.Change.Rows() != 3 || res.Change.NumCols() != 1 {
		t.Fatalf("change matrix shape %dx%d, want 1x3", res.Change.NumCols(), res.Change.Rows())
	}
	if len(res.Indicators) != 3 {
		t.Fatalf("expected 3 indicator segments, got %d", len(res.Indicators))
	}

	// 50 samples with width 10 stride 1 -> 41 indicator windows
	if got := len(res.Indicators[0][0]); got != 41 {
		t.Errorf("segment 0 indicator length = %d, want 41", got)
	}
	// change time is the last sample time inside each segment
	wantEnds := []float64{49, 99, 70}
	for k, want := range wantEnds {
		if res.ChangeTimes[k] != want {
			t.Errorf("change time[%d] = %g, want %g", k, res.ChangeTimes[k], want)
		}
		if math.IsNaN(res.Change[0][k]) {
			t.Errorf("segment %d unexpectedly NaN", k)
		}
	}
}

// TestSegmentedConfig_ShortSegmentNaN checks the explicit
// insufficient-data policy: a too-short segment yields NaN and never
// raises.
func TestSegmentedConfig_ShortSegmentNaN(t *testing.T) {
	ts := series.NewIndexed(testkit.WhiteNoise(100, 5))

	cfg := segmentedTestConfig([]Segment{
		{Start: 0, End: 49},
		{Start: 60, End: 65}, // 6 samples, width 10: zero indicator windows
	})

	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("short segment must not error: %v", err)
	}

	if math.IsNaN(res.Change[0][0]) {
		t.Error("long segment should have a finite change value")
	}
	if !math.IsNaN(res.Change[0][1]) {
		t.Error("short segment must yield NaN change value")
	}
}

func TestSegmentedConfig_Validation(t *testing.T) {
	noSegments := segmentedTestConfig(nil)
	if err := noSegments.Validate(); err == nil {
		t.Error("zero segments must be rejected")
	}

	inverted := segmentedTestConfig([]Segment{{Start: 10, End: 10}})
	if err := inverted.Validate(); err == nil {
		t.Error("start >= end must be rejected")
	}

	if _, err := inverted.Estimate(series.NewIndexed(testkit.WhiteNoise(50, 1))); err == nil {
		t.Error("Estimate must reject invalid segments before computing")
	}
}

// TestSegmentedPipeline_MatchesEstimate mirrors the sliding test: the
// surrogate-path pipeline must reproduce Estimate bit for bit.
func TestSegmentedPipeline_MatchesEstimate(t *testing.T) {
	ts := series.NewIndexed(testkit.AR1Process(90, 0.4, 8))
	cfg := segmentedTestConfig([]Segment{
		{Start: 0, End: 44},
		{Start: 45, End: 89},
		{Start: 80, End: 86}, // short: NaN row
	})

	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	pipe, err := cfg.Pipeline(ts.T)
	if err != nil {
		t.Fatalf("Pipeline: %v", err)
	}
	dst := NewColumns(pipe.Cols(), pipe.Rows())
	pipe.ChangeInto(dst, ts.X, pipe.NewScratch())

	for j := range dst {
		for k := range dst[j] {
			obs := res.Change[j][k]
			if math.IsNaN(obs) != math.IsNaN(dst[j][k]) {
				t.Fatalf("NaN mismatch at [%d][%d]", j, k)
			}
			if !math.IsNaN(obs) && math.Abs(obs-dst[j][k]) > 1e-12 {
				t.Fatalf("pipeline[%d][%d] = %g, Estimate = %g", j, k, dst[j][k], obs)
			}
		}
	}
}

// TestSegmentedConfig_NoIndicatorStage applies the change metric
// directly to each segment's raw values.
func TestSegmentedConfig_NoIndicatorStage(t *testing.T) {
	ts := series.NewIndexed([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	cfg := SegmentedConfig{
		ChangeMetrics: []metrics.Metric{indicators.Mean()},
		MinWidthCha:   2,
		Segments:      []Segment{{Start: 0, End: 3}, {Start: 6, End: 9}},
	}

	res, err := cfg.Estimate(ts)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if res.Change[0][0] != 1.5 {
		t.Errorf("segment 0 mean = %g, want 1.5", res.Change[0][0])
	}
	if res.Change[0][1] != 7.5 {
		t.Errorf("segment 1 mean = %g, want 7.5", res.Change[0][1])
	}
}
