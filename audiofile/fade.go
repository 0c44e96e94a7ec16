package audiofile

import (
	lin "github.com/sgreben/piecewiselinear"
)

// ApplyFade multiplies samples in place by a piecewise-linear envelope that
// ramps from silence over fade seconds at both edges. Signals shorter than
// twice the fade get a triangular envelope instead.
func ApplyFade(samples []float64, sampleRate int, fade float64) {
	n := len(samples)
	if n == 0 || fade <= 0 {
		return
	}
	ramp := fade * float64(sampleRate)
	if 2*ramp > float64(n-1) {
		ramp = float64(n-1) / 2
	}

	env := lin.Function{
		X: []float64{0, ramp, float64(n-1) - ramp, float64(n - 1)},
		Y: []float64{0, 1, 1, 0},
	}
	for i := range samples {
		samples[i] *= env.At(float64(i))
	}
}
