package scene

import (
	"math"

	"github.com/fogleman/pt/pt"
)

// CapsuleCounts maps supported microphone types to their capsule counts.
// Each capsule becomes one channel in the rendered output.
var CapsuleCounts = map[string]int{
	"mono":        1,
	"ambisonic":   4,
	"eigenmike32": 32,
	"eigenmike64": 64,
}

// Capsule array radius in meters, matching the em32 casing.
const capsuleRadius = 0.042

// Microphone is one placed microphone array.
type Microphone struct {
	Type     string
	Label    string
	Position pt.Vector
}

// Capsules returns capsule offsets relative to the microphone center. For
// multi-capsule arrays the capsules are distributed over a sphere with a
// golden-angle spiral.
func (m Microphone) Capsules() []pt.Vector {
	n := CapsuleCounts[m.Type]
	if n <= 1 {
		return []pt.Vector{{}}
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	out := make([]pt.Vector, n)
	for i := range out {
		z := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - z*z)
		theta := golden * float64(i)
		out[i] = pt.Vector{
			X: math.Cos(theta) * r,
			Y: math.Sin(theta) * r,
			Z: z,
		}.MulScalar(capsuleRadius)
	}
	return out
}
