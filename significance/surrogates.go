package significance

import (
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"shiftsense/estimator"
	"shiftsense/internal"
	"shiftsense/internal/errors"
	"shiftsense/ports"
)

// SurrogatesConfig tests each change value against a null distribution
// built by re-running the estimation pipeline on N randomized
// realizations of the input series. Built once, immutable, reusable.
type SurrogatesConfig struct {
	// Generator produces the null realizations.
	Generator ports.SurrogateGenerator

	// N is the number of surrogate draws. Defaults to 1000.
	N int

	// Tails holds one tail per change column; nil broadcasts Tail.
	Tails []Tail

	// Tail is the default tail convention (zero value: TailBoth).
	Tail Tail

	// Seed is the master seed; draw i uses the deterministic sub-seed
	// SplitSeed(Seed, i), so results do not depend on worker count or
	// scheduling.
	Seed int64

	// Threshold is the significance level (flag = p < Threshold).
	// Defaults to 0.05.
	Threshold float64

	// Workers bounds the parallel fan-out. Defaults to GOMAXPROCS.
	Workers int

	// RNG supplies seeded streams. Defaults to ports.DefaultRNG.
	RNG ports.RNG
}

func (c SurrogatesConfig) n() int {
	if c.N < 1 {
		return 1000
	}
	return c.N
}

func (c SurrogatesConfig) threshold() float64 {
	if c.Threshold <= 0 {
		return 0.05
	}
	return c.Threshold
}

func (c SurrogatesConfig) workers() int {
	if c.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

func (c SurrogatesConfig) rng() ports.RNG {
	if c.RNG == nil {
		return ports.DefaultRNG{}
	}
	return c.RNG
}

// tally accumulates one worker's private comparison counts. Partial
// tallies are merged by addition, which is commutative, so the merge
// order never affects the result.
type tally struct {
	right [][]int
	left  [][]int
}

func newTally(cols, rows int) *tally {
	t := &tally{
		right: make([][]int, cols),
		left:  make([][]int, cols),
	}
	for j := 0; j < cols; j++ {
		t.right[j] = make([]int, rows)
		t.left[j] = make([]int, rows)
	}
	return t
}

func (t *tally) add(other *tally) {
	for j := range t.right {
		for i := range t.right[j] {
			t.right[j][i] += other.right[j][i]
			t.left[j][i] += other.left[j][i]
		}
	}
}

// Test grades every (time point, metric) cell of the observed change
// matrix against its surrogate null distribution.
func (c SurrogatesConfig) Test(res *estimator.Results) (*Result, error) {
	if c.Generator == nil {
		return nil, errors.ConfigInvalid("surrogate generator is required")
	}
	if res == nil || res.Config == nil {
		return nil, errors.InvalidInput("estimation results with their config are required")
	}

	pipe, err := res.Config.Pipeline(res.Series.T)
	if err != nil {
		return nil, errors.Wrap(err, "rebuilding estimation pipeline")
	}

	cols, rows := pipe.Cols(), pipe.Rows()
	tails, err := resolveTails(c.Tails, c.Tail, cols)
	if err != nil {
		return nil, err
	}
	if res.Change.NumCols() != cols || res.Change.Rows() != rows {
		return nil, errors.InvalidInputf("change matrix shape %dx%d does not match pipeline %dx%d",
			res.Change.NumCols(), res.Change.Rows(), cols, rows)
	}

	out := &Result{
		PValues:   estimator.NewColumns(cols, rows),
		Flags:     newFlags(cols, rows),
		Threshold: c.threshold(),
	}
	if rows == 0 {
		return out, nil
	}

	n := c.n()
	workers := c.workers()
	if workers > n {
		workers = n
	}
	observed := res.Change

	start := time.Now()
	partials := make([]*tally, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			// Each worker owns its tally, scratch buffers and
			// surrogate buffer; nothing here is shared.
			part := newTally(cols, rows)
			scratch := pipe.NewScratch()
			surr := make([]float64, res.Series.Len())
			draw := estimator.NewColumns(cols, rows)

			for i := w; i < n; i += workers {
				rng := c.rng().SeededStream("surrogate-draw", ports.SplitSeed(c.Seed, i))
				c.Generator.Generate(surr, res.Series.X, rng)
				pipe.ChangeInto(draw, surr, scratch)

				for j := 0; j < cols; j++ {
					for r := 0; r < rows; r++ {
						obs := observed[j][r]
						if math.IsNaN(obs) {
							continue
						}
						switch v := draw[j][r]; {
						case v > obs:
							part.right[j][r]++
						case v < obs:
							part.left[j][r]++
						}
					}
				}
			}
			partials[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := partials[0]
	for _, part := range partials[1:] {
		total.add(part)
	}

	for j := 0; j < cols; j++ {
		for r := 0; r < rows; r++ {
			if math.IsNaN(observed[j][r]) {
				out.PValues[j][r] = math.NaN()
				continue
			}
			p := pValue(tails[j], total.right[j][r], total.left[j][r], n)
			out.PValues[j][r] = p
			out.Flags[j][r] = p < out.Threshold
		}
	}

	internal.DefaultLogger.Debug("surrogate test: %s draws=%d workers=%d cells=%dx%d took %v",
		c.Generator.Name(), n, workers, cols, rows, time.Since(start))

	return out, nil
}

func pValue(tail Tail, right, left, n int) float64 {
	switch tail {
	case TailRight:
		return float64(right) / float64(n)
	case TailLeft:
		return float64(left) / float64(n)
	default:
		m := right
		if left < m {
			m = left
		}
		p := 2 * float64(m) / float64(n)
		if p > 1 {
			p = 1
		}
		return p
	}
}
