package scene

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
)

// NoiseColors are the ambience tracks a scene can carry.
var NoiseColors = []string{"white", "pink", "brown"}

func validNoiseColor(color string) bool {
	for _, c := range NoiseColors {
		if c == color {
			return true
		}
	}
	return false
}

// synthNoise generates n samples of the named noise color, normalized to
// unit peak. Pink and brown noise are shaped in the frequency domain: white
// noise coefficients attenuated by 1/sqrt(f) and 1/f respectively.
func synthNoise(color string, n int, rng *rand.Rand) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("noise length must be positive, got %d", n)
	}
	white := make([]float64, n)
	for i := range white {
		white[i] = rng.NormFloat64()
	}
	if color == "white" {
		normalizePeak(white)
		return white, nil
	}

	var exponent float64
	switch color {
	case "pink":
		exponent = 0.5
	case "brown":
		exponent = 1.0
	default:
		return nil, fmt.Errorf("unknown noise color %q", color)
	}

	fft := fourier.NewFFT(n)
	coeff := fft.Coefficients(nil, white)
	for k := 1; k < len(coeff); k++ {
		coeff[k] /= complex(math.Pow(float64(k), exponent), 0)
	}
	// Drop DC so brown noise does not wander off zero.
	coeff[0] = 0

	out := fft.Sequence(nil, coeff)
	for i := range out {
		out[i] /= float64(n)
	}
	normalizePeak(out)
	return out, nil
}

func normalizePeak(samples []float64) {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range samples {
		samples[i] /= peak
	}
}
