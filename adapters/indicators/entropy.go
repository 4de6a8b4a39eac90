package indicators

import (
	"math"
	"strconv"

	"shiftsense/domain/core"
)

// PermutationEntropy is the normalized Shannon entropy of ordinal
// patterns of length Order embedded in the window. It lies in [0, 1];
// randomization pushes it toward 1, so genuine transitions usually sit
// in the LOW tail of the surrogate null (use TailLeft).
type PermutationEntropy struct {
	Order int
}

func (pe PermutationEntropy) order() int {
	if pe.Order < 2 {
		return 3
	}
	return pe.Order
}

func (pe PermutationEntropy) Name() core.MetricKey {
	return core.MetricKey("perm-entropy-m" + strconv.Itoa(pe.order()))
}

func (pe PermutationEntropy) Evaluate(x []float64) float64 {
	m := pe.order()
	if len(x) < m {
		return math.NaN()
	}

	counts := make(map[string]int)
	patterns := 0
	perm := make([]int, m)
	key := make([]byte, m)

	for i := 0; i+m <= len(x); i++ {
		w := x[i : i+m]
		for k := range perm {
			perm[k] = k
		}
		// ordinal pattern: argsort of the embedded vector
		for a := 1; a < m; a++ {
			for b := a; b > 0 && w[perm[b]] < w[perm[b-1]]; b-- {
				perm[b], perm[b-1] = perm[b-1], perm[b]
			}
		}
		for k, p := range perm {
			key[k] = byte(p)
		}
		counts[string(key)]++
		patterns++
	}

	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(patterns)
		h -= p * math.Log(p)
	}

	// normalize by log(m!) so the value is comparable across orders
	logFact := 0.0
	for k := 2; k <= m; k++ {
		logFact += math.Log(float64(k))
	}
	if logFact == 0 {
		return 0
	}
	return h / logFact
}
