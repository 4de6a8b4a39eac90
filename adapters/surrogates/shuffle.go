// Package surrogates supplies ready-made null-model generators for the
// significance engine: value shuffles that destroy all temporal
// structure, block shuffles that keep short-range structure, and
// Fourier phase randomization that keeps the full power spectrum. The
// engine only depends on the ports.SurrogateGenerator capability.
package surrogates

import (
	"math/rand"
)

// RandomShuffle permutes the values uniformly. The null model keeps
// the amplitude distribution and destroys every temporal dependency.
type RandomShuffle struct{}

func (RandomShuffle) Name() string { return "random-shuffle" }

func (RandomShuffle) Generate(dst, src []float64, rng *rand.Rand) {
	copy(dst, src)
	// Fisher-Yates
	for i := len(dst) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		dst[i], dst[j] = dst[j], dst[i]
	}
}

// BlockShuffle permutes contiguous blocks of values, preserving
// dependencies shorter than the block length. The last block may be
// shorter when the length is not a multiple of BlockSize.
type BlockShuffle struct {
	// BlockSize is the block length. Defaults to len/10, floored at 2.
	BlockSize int
}

func (BlockShuffle) Name() string { return "block-shuffle" }

func (b BlockShuffle) blockSize(n int) int {
	size := b.BlockSize
	if size < 1 {
		size = n / 10
	}
	if size < 2 {
		size = 2
	}
	return size
}

func (b BlockShuffle) Generate(dst, src []float64, rng *rand.Rand) {
	n := len(src)
	if n == 0 {
		return
	}
	size := b.blockSize(n)

	nBlocks := (n + size - 1) / size
	order := rng.Perm(nBlocks)

	pos := 0
	for _, blk := range order {
		lo := blk * size
		hi := lo + size
		if hi > n {
			hi = n
		}
		pos += copy(dst[pos:], src[lo:hi])
	}
}
