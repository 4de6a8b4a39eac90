package estimator

import (
	"math"
	"sort"

	"shiftsense/domain/core"
	"shiftsense/domain/metrics"
	"shiftsense/domain/series"
	"shiftsense/internal/errors"
)

// Segment is a time sub-range [Start, End] analyzed independently.
// Segments may overlap.
type Segment struct {
	Start float64
	End   float64
}

// SegmentedConfig estimates change once per known episode: indicator
// windows slide within each segment, then each change metric is
// applied exactly once to that segment's whole indicator series. It
// answers "did a change occur by the end of this episode", not "trace
// the change continuously".
type SegmentedConfig struct {
	Indicators    []metrics.Metric
	ChangeMetrics []metrics.Metric

	// Indicator-stage window geometry (ignored when Indicators is empty).
	WidthInd  int
	StrideInd int

	// MinWidthCha is the minimum indicator-series length a segment
	// needs before its change metrics are evaluated. Shorter segments
	// get NaN change values instead of an error. Defaults to 2.
	MinWidthCha int

	Segments []Segment

	// Time reduces indicator windows to representative times. Defaults
	// to series.TimeMidpoint.
	Time series.TimePolicy
}

func (c SegmentedConfig) minWidthCha() int {
	if c.MinWidthCha < 1 {
		return 2
	}
	return c.MinWidthCha
}

// Validate implements Config.
func (c SegmentedConfig) Validate() error {
	if err := validateMetricCounts(c.Indicators, c.ChangeMetrics); err != nil {
		return err
	}
	if len(c.Indicators) > 0 {
		if c.WidthInd < 1 || c.StrideInd < 1 {
			return errors.ConfigInvalidf("indicator window geometry must be >= 1, got width=%d stride=%d", c.WidthInd, c.StrideInd)
		}
	}
	if len(c.Segments) < 1 {
		return errors.ConfigInvalid("at least one segment is required")
	}
	for k, seg := range c.Segments {
		if seg.Start >= seg.End {
			return errors.ConfigInvalidf("segment %d is degenerate: start %g >= end %g", k, seg.Start, seg.End)
		}
	}
	return nil
}

// ColumnNames implements Config.
func (c SegmentedConfig) ColumnNames() []core.MetricKey {
	return columnNames(c.Indicators, c.ChangeMetrics)
}

// Pipeline implements Config.
func (c SegmentedConfig) Pipeline(t []float64) (Pipeline, error) {
	return c.pipeline(t)
}

// Estimate implements Config.
func (c SegmentedConfig) Estimate(ts series.TimeSeries) (*Results, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(ts.T) != len(ts.X) {
		return nil, errors.InvalidInputf("time/value length mismatch: t=%d, x=%d", len(ts.T), len(ts.X))
	}

	p, err := c.pipeline(ts.T)
	if err != nil {
		return nil, err
	}

	res := &Results{
		ID:          core.AnalysisID(core.NewID()),
		Series:      ts,
		ChangeTimes: p.tCha,
		Change:      NewColumns(p.cols, len(c.Segments)),
		Config:      c,
	}
	if len(c.Indicators) > 0 {
		res.IndTimes = make([][]float64, len(c.Segments))
		res.Indicators = make([]Columns, len(c.Segments))
	}

	for k, seg := range p.segs {
		xSeg := ts.X[seg.lo:seg.hi]

		// Materialize the segment's indicator series (or the raw
		// values when the indicator stage is absent).
		src := xSeg
		var indCols Columns
		if len(c.Indicators) > 0 {
			indCols = NewColumns(len(c.Indicators), seg.nInd)
			xv, _ := series.NewView(xSeg, c.WidthInd, c.StrideInd)
			for m := range c.Indicators {
				for i := 0; i < seg.nInd; i++ {
					indCols[m][i] = seg.indBound[m][i](xv.At(i))
				}
			}
			res.IndTimes[k] = seg.tInd
			res.Indicators[k] = indCols
		}

		for j := 0; j < p.cols; j++ {
			if !seg.ok {
				res.Change[j][k] = math.NaN()
				continue
			}
			if indCols != nil {
				src = indCols[j]
			}
			res.Change[j][k] = seg.chaBound[j](src)
		}
	}

	return res, nil
}

// segmentedPipeline resolves every segment's index range and bound
// evaluators once; surrogate draws reuse them.
type segmentedPipeline struct {
	cfg  SegmentedConfig
	cols int

	segs []segmentPlan
	tCha []float64 // one representative end time per segment

	maxInd int // largest per-segment indicator length, sizes Scratch
}

type segmentPlan struct {
	lo, hi int // index range [lo, hi) in the base series
	ok     bool

	tInd     []float64
	nInd     int
	indBound [][]metrics.BoundMetric // [indicator][window within segment]
	chaBound []metrics.BoundMetric   // [column], applied to the whole indicator segment
}

func (c SegmentedConfig) pipeline(t []float64) (*segmentedPipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy := orMidpoint(c.Time)

	p := &segmentedPipeline{
		cfg:  c,
		cols: columnCount(c.Indicators, c.ChangeMetrics),
		segs: make([]segmentPlan, len(c.Segments)),
		tCha: make([]float64, len(c.Segments)),
	}

	for k, seg := range c.Segments {
		lo := sort.SearchFloat64s(t, seg.Start)
		hi := sort.Search(len(t), func(i int) bool { return t[i] > seg.End })
		sp := segmentPlan{lo: lo, hi: hi}

		tSeg := t[lo:hi]
		if len(c.Indicators) > 0 {
			tInd, err := series.ReduceTimes(tSeg, policy, c.WidthInd, c.StrideInd)
			if err != nil {
				return nil, err
			}
			sp.tInd = tInd

			tv, _ := series.NewView(tSeg, c.WidthInd, c.StrideInd)
			sp.indBound = make([][]metrics.BoundMetric, len(c.Indicators))
			for m, ind := range c.Indicators {
				sp.indBound[m] = make([]metrics.BoundMetric, tv.Count())
				for i := 0; i < tv.Count(); i++ {
					sp.indBound[m][i] = metrics.Bind(ind, tv.At(i))
				}
			}
		} else {
			sp.tInd = tSeg
		}
		sp.nInd = len(sp.tInd)
		sp.ok = sp.nInd >= c.minWidthCha()
		if sp.nInd > p.maxInd {
			p.maxInd = sp.nInd
		}

		if sp.ok {
			sp.chaBound = make([]metrics.BoundMetric, p.cols)
			for j := 0; j < p.cols; j++ {
				cha := changeMetricFor(c.Indicators, c.ChangeMetrics, j)
				sp.chaBound[j] = metrics.Bind(cha, sp.tInd)
			}
		}

		// The representative change time is the last sample inside the
		// segment, or the configured end for segments holding no data.
		p.tCha[k] = seg.End
		if hi > lo {
			p.tCha[k] = t[hi-1]
		}

		p.segs[k] = sp
	}

	return p, nil
}

// Rows implements Pipeline.
func (p *segmentedPipeline) Rows() int { return len(p.segs) }

// Cols implements Pipeline.
func (p *segmentedPipeline) Cols() int { return p.cols }

// NewScratch implements Pipeline.
func (p *segmentedPipeline) NewScratch() *Scratch {
	if len(p.cfg.Indicators) == 0 {
		return &Scratch{}
	}
	return &Scratch{ind: make([]float64, p.maxInd)}
}

// ChangeInto implements Pipeline. Segments below the minimum indicator
// length stay NaN; no metric is evaluated for them.
func (p *segmentedPipeline) ChangeInto(dst Columns, x []float64, scratch *Scratch) {
	for k := range p.segs {
		seg := &p.segs[k]
		if !seg.ok {
			for j := 0; j < p.cols; j++ {
				dst[j][k] = math.NaN()
			}
			continue
		}

		xSeg := x[seg.lo:seg.hi]
		for j := 0; j < p.cols; j++ {
			src := xSeg
			if len(p.cfg.Indicators) > 0 {
				xv, _ := series.NewView(xSeg, p.cfg.WidthInd, p.cfg.StrideInd)
				for i := 0; i < seg.nInd; i++ {
					scratch.ind[i] = seg.indBound[j][i](xv.At(i))
				}
				src = scratch.ind[:seg.nInd]
			}
			dst[j][k] = seg.chaBound[j](src)
		}
	}
}
