package estimator

import (
	"shiftsense/domain/core"
	"shiftsense/domain/metrics"
	"shiftsense/domain/series"
	"shiftsense/internal/errors"
)

// SlidingConfig estimates change continuously: indicator windows slide
// over the raw series, change-metric windows slide over the resulting
// indicator series.
//
// An empty Indicators list is the explicit "no indicator stage"
// sentinel: change metrics then operate directly on the raw values.
type SlidingConfig struct {
	Indicators    []metrics.Metric
	ChangeMetrics []metrics.Metric

	// Indicator-stage window geometry (ignored when Indicators is empty).
	WidthInd  int
	StrideInd int

	// Change-stage window geometry.
	WidthCha  int
	StrideCha int

	// Time reduces each window's time coordinates to one representative
	// scalar. Defaults to series.TimeMidpoint.
	Time series.TimePolicy
}

// Validate implements Config.
func (c SlidingConfig) Validate() error {
	if err := validateMetricCounts(c.Indicators, c.ChangeMetrics); err != nil {
		return err
	}
	if len(c.Indicators) > 0 {
		if c.WidthInd < 1 || c.StrideInd < 1 {
			return errors.ConfigInvalidf("indicator window geometry must be >= 1, got width=%d stride=%d", c.WidthInd, c.StrideInd)
		}
	}
	if c.WidthCha < 1 || c.StrideCha < 1 {
		return errors.ConfigInvalidf("change window geometry must be >= 1, got width=%d stride=%d", c.WidthCha, c.StrideCha)
	}
	return nil
}

// ColumnNames implements Config.
func (c SlidingConfig) ColumnNames() []core.MetricKey {
	return columnNames(c.Indicators, c.ChangeMetrics)
}

// Pipeline implements Config.
func (c SlidingConfig) Pipeline(t []float64) (Pipeline, error) {
	return c.pipeline(t)
}

// Estimate implements Config. A series too short for the requested
// geometry yields empty (not erroring) indicator/change arrays.
func (c SlidingConfig) Estimate(ts series.TimeSeries) (*Results, error) {
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
		Config:      c,
	}

	// Stage 1: indicator series. With no indicator stage the raw
	// series stands in and Indicators stays empty.
	if len(c.Indicators) > 0 {
		indCols := NewColumns(len(c.Indicators), p.nInd)
		xv, _ := series.NewView(ts.X, c.WidthInd, c.StrideInd)
		for k := range c.Indicators {
			for i := 0; i < p.nInd; i++ {
				indCols[k][i] = p.indBound[k][i](xv.At(i))
			}
		}
		res.IndTimes = [][]float64{p.tInd}
		res.Indicators = []Columns{indCols}
		res.Change = c.changeFromIndicators(p, indCols)
		return res, nil
	}

	// Stage 2 directly on the raw values.
	cha := NewColumns(p.cols, p.nCha)
	iv, _ := series.NewView(ts.X, c.WidthCha, c.StrideCha)
	for j := 0; j < p.cols; j++ {
		for i := 0; i < p.nCha; i++ {
			cha[j][i] = p.chaBound[j][i](iv.At(i))
		}
	}
	res.Change = cha
	return res, nil
}

func (c SlidingConfig) changeFromIndicators(p *slidingPipeline, indCols Columns) Columns {
	cha := NewColumns(p.cols, p.nCha)
	for j := 0; j < p.cols; j++ {
		iv, _ := series.NewView(indCols[j], c.WidthCha, c.StrideCha)
		for i := 0; i < p.nCha; i++ {
			cha[j][i] = p.chaBound[j][i](iv.At(i))
		}
	}
	return cha
}

// slidingPipeline is the precomputed schedule for one time grid: the
// representative time vectors plus one bound evaluator per (metric,
// window position). Binding happens once here; surrogate draws only
// repeat the value-dependent work.
type slidingPipeline struct {
	cfg  SlidingConfig
	cols int

	tInd []float64 // representative indicator times (the raw grid when no indicator stage)
	tCha []float64
	nInd int
	nCha int

	indBound [][]metrics.BoundMetric // [indicator][indicator window]
	chaBound [][]metrics.BoundMetric // [column][change window]
}

func (c SlidingConfig) pipeline(t []float64) (*slidingPipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	policy := orMidpoint(c.Time)

	p := &slidingPipeline{
		cfg:  c,
		cols: columnCount(c.Indicators, c.ChangeMetrics),
	}

	if len(c.Indicators) > 0 {
		tInd, err := series.ReduceTimes(t, policy, c.WidthInd, c.StrideInd)
		if err != nil {
			return nil, err
		}
		p.tInd = tInd

		tv, _ := series.NewView(t, c.WidthInd, c.StrideInd)
		p.indBound = make([][]metrics.BoundMetric, len(c.Indicators))
		for k, ind := range c.Indicators {
			p.indBound[k] = make([]metrics.BoundMetric, tv.Count())
			for i := 0; i < tv.Count(); i++ {
				p.indBound[k][i] = metrics.Bind(ind, tv.At(i))
			}
		}
	} else {
		p.tInd = t
	}
	p.nInd = len(p.tInd)

	tCha, err := series.ReduceTimes(p.tInd, policy, c.WidthCha, c.StrideCha)
	if err != nil {
		return nil, err
	}
	p.tCha = tCha
	p.nCha = len(tCha)

	cv, _ := series.NewView(p.tInd, c.WidthCha, c.StrideCha)
	p.chaBound = make([][]metrics.BoundMetric, p.cols)
	for j := 0; j < p.cols; j++ {
		cha := changeMetricFor(c.Indicators, c.ChangeMetrics, j)
		p.chaBound[j] = make([]metrics.BoundMetric, cv.Count())
		for i := 0; i < cv.Count(); i++ {
			p.chaBound[j][i] = metrics.Bind(cha, cv.At(i))
		}
	}

	return p, nil
}

// Rows implements Pipeline.
func (p *slidingPipeline) Rows() int { return p.nCha }

// Cols implements Pipeline.
func (p *slidingPipeline) Cols() int { return p.cols }

// NewScratch implements Pipeline.
func (p *slidingPipeline) NewScratch() *Scratch {
	if len(p.cfg.Indicators) == 0 {
		return &Scratch{}
	}
	return &Scratch{ind: make([]float64, p.nInd)}
}

// ChangeInto implements Pipeline.
func (p *slidingPipeline) ChangeInto(dst Columns, x []float64, scratch *Scratch) {
	for j := 0; j < p.cols; j++ {
		src := x
		if len(p.cfg.Indicators) > 0 {
			xv, _ := series.NewView(x, p.cfg.WidthInd, p.cfg.StrideInd)
			for i := 0; i < p.nInd; i++ {
				scratch.ind[i] = p.indBound[j][i](xv.At(i))
			}
			src = scratch.ind
		}
		iv, _ := series.NewView(src, p.cfg.WidthCha, p.cfg.StrideCha)
		for i := 0; i < p.nCha; i++ {
			dst[j][i] = p.chaBound[j][i](iv.At(i))
		}
	}
}
