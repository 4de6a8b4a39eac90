// Package ports declares the external capabilities the engine depends
// on. Concrete implementations live in adapters/ or are supplied by
// the caller.
package ports

import (
	"math/rand"
)

// SurrogateGenerator re-synthesizes a series into a randomized
// realization that preserves a chosen statistical invariant (the null
// model). The specific randomization method is a black box to the
// engine.
type SurrogateGenerator interface {
	Name() string

	// Generate fills dst with one realization of src drawn from rng.
	// dst and src have equal length. src must not be modified; dst may
	// alias a reused scratch buffer but never src.
	Generate(dst, src []float64, rng *rand.Rand)
}
