package series

// TimePolicy reduces a window of time coordinates to one representative
// scalar. The same policy is applied at every windowing level, so the
// representative times of change-metric windows are reductions of
// already-reduced indicator times.
type TimePolicy func(window []float64) float64

// Built-in policies. TimeMidpoint averages the two central coordinates
// when the width is even.
var (
	TimeFirst TimePolicy = func(w []float64) float64 { return w[0] }
	TimeLast  TimePolicy = func(w []float64) float64 { return w[len(w)-1] }

	TimeMidpoint TimePolicy = func(w []float64) float64 {
		n := len(w)
		if n%2 == 1 {
			return w[n/2]
		}
		return (w[n/2-1] + w[n/2]) / 2
	}
)

// ReduceTimes maps each window of t onto its representative time.
// Returns an empty (non-nil) slice when no window fits.
func ReduceTimes(t []float64, policy TimePolicy, width, stride int) ([]float64, error) {
	view, err := NewView(t, width, stride)
	if err != nil {
		return nil, err
	}
	out := make([]float64, view.Count())
	for i := range out {
		out[i] = policy(view.At(i))
	}
	return out, nil
}
