package surrogates

import (
	"math"
	"math/cmplx"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PhaseRandomization draws surrogates with the same power spectrum
// (hence the same linear autocorrelation structure) as the input but
// uniformly random Fourier phases. This is the classical null model
// for "the observed change is explained by linear correlations alone".
type PhaseRandomization struct{}

func (PhaseRandomization) Name() string { return "phase-randomization" }

func (PhaseRandomization) Generate(dst, src []float64, rng *rand.Rand) {
	n := len(src)
	if n < 2 {
		copy(dst, src)
		return
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, src)

	// Randomize every phase except DC and (for even n) the Nyquist
	// coefficient, which must stay real for a real-valued inverse.
	last := len(coeff) - 1
	for k := 1; k < last; k++ {
		phi := rng.Float64() * 2 * math.Pi
		coeff[k] = complex(cmplx.Abs(coeff[k]), 0) * cmplx.Exp(complex(0, phi))
	}
	if n%2 != 0 {
		phi := rng.Float64() * 2 * math.Pi
		coeff[last] = complex(cmplx.Abs(coeff[last]), 0) * cmplx.Exp(complex(0, phi))
	}

	fft.Sequence(dst, coeff)
	// gonum's transform pair is unnormalized: scale by 1/n.
	for i := range dst {
		dst[i] /= float64(n)
	}
}
