package audiofile

import (
	"math"
)

// Resample converts samples from srcRate to dstRate using Catmull-Rom cubic
// interpolation. When downsampling, a one-pole low-pass pass is applied
// first as basic anti-aliasing.
func Resample(samples []float64, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || len(samples) == 0 {
		return samples
	}

	src := samples
	ratio := float64(srcRate) / float64(dstRate)
	if ratio > 1 {
		src = lowpass(samples, 0.5)
	}

	n := int(math.Round(float64(len(src)) / ratio))
	out := make([]float64, n)
	for i := range out {
		pos := float64(i) * ratio
		i1 := int(pos)
		t := pos - float64(i1)
		out[i] = cubic(at(src, i1-1), at(src, i1), at(src, i1+1), at(src, i1+2), t)
	}
	return out
}

// at clamps index lookups at the signal edges.
func at(s []float64, i int) float64 {
	if i < 0 {
		i = 0
	}
	if i >= len(s) {
		i = len(s) - 1
	}
	return s[i]
}

// cubic evaluates Catmull-Rom interpolation between p1 and p2 at t.
func cubic(p0, p1, p2, p3, t float64) float64 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	b := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := -0.5*p0 + 0.5*p2
	return ((a*t+b)*t+c)*t + p1
}

func lowpass(samples []float64, alpha float64) []float64 {
	out := make([]float64, len(samples))
	state := 0.0
	for i, v := range samples {
		state += alpha * (v - state)
		out[i] = state
	}
	return out
}
