// Package testkit generates deterministic synthetic series for tests.
// Every generator is seeded; the same seed always yields the same
// series.
package testkit

import (
	"math/rand"
)

// WhiteNoise returns n standard normal draws.
func WhiteNoise(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	return x
}

// AR1Process returns an AR(1) process x[i] = phi*x[i-1] + e[i] with
// standard normal innovations.
func AR1Process(n int, phi float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := 1; i < n; i++ {
		x[i] = phi*x[i-1] + rng.NormFloat64()
	}
	return x
}

// LinearTrend returns slope*i plus normal noise of the given standard
// deviation.
func LinearTrend(n int, slope, noise float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = slope*float64(i) + noise*rng.NormFloat64()
	}
	return x
}

// StepShift returns noisy values whose mean jumps by delta at index at.
func StepShift(n, at int, delta, noise float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	for i := range x {
		x[i] = noise * rng.NormFloat64()
		if i >= at {
			x[i] += delta
		}
	}
	return x
}
