package scene

import (
	"math/rand"

	"github.com/fogleman/pt/pt"
)

// Backend is the acoustic engine behind a Scene. It owns placement validity
// and audio rendering; the Scene owns bookkeeping and file output.
type Backend interface {
	// ValidatePosition checks a caller-chosen position against the room
	// geometry and existing placements. Rejections wrap ErrInvalidPlacement;
	// any other error is a real failure.
	ValidatePosition(pos pt.Vector, existing []pt.Vector) error

	// SamplePosition chooses a valid position internally. It either succeeds
	// in one call or fails with ErrInvalidPlacement.
	SamplePosition(rng *rand.Rand, existing []pt.Vector) (pt.Vector, error)

	// RenderMicrophone produces one sample buffer per capsule of mic.
	RenderMicrophone(s *Scene, mic Microphone) ([][]float64, error)
}
