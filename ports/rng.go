package ports

import (
	"hash/fnv"
	"math/rand"
)

// RNG provides seeded random number generation for deterministic
// operations. Streams with the same name and seed always produce the
// same draws, which keeps significance runs reproducible.
type RNG interface {
	// SeededStream creates a deterministic random number generator for
	// a named operation.
	SeededStream(name string, seed int64) *rand.Rand
}

// DefaultRNG is the standard RNG implementation backed by math/rand.
type DefaultRNG struct{}

func (DefaultRNG) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

// SplitSeed derives an independent sub-seed from a master seed and a
// stream index via a splitmix64 step. Sub-seeds depend only on
// (master, index), so work partitioned across any number of workers
// reproduces identically.
func SplitSeed(master int64, index int) int64 {
	z := uint64(master) + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
