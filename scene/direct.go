package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/fogleman/pt/pt"

	"github.com/PhilippXXY/audiblelight-dataset-generator/audiofile"
	"github.com/PhilippXXY/audiblelight-dataset-generator/mesh"
)

// Internal attempt budget of the backend-driven position sampler.
const backendSampleAttempts = 64

// Headroom of the ambience track above the background noise floor.
const ambienceHeadroomDB = 10.0

// DirectBackend validates placements against the room mesh and renders
// scenes by direct line-of-sight mixing: per-capsule delay and distance
// attenuation, no reflections.
type DirectBackend struct {
	Mesh *mesh.Mesh
	// Minimum distance between any two placements, in meters
	MinSpacing float64
}

func NewDirectBackend(m *mesh.Mesh) *DirectBackend {
	return &DirectBackend{Mesh: m, MinSpacing: 0.2}
}

func (b *DirectBackend) ValidatePosition(pos pt.Vector, existing []pt.Vector) error {
	if !b.Mesh.Contains(pos) {
		return fmt.Errorf("%w: position (%.2f, %.2f, %.2f) outside room geometry",
			ErrInvalidPlacement, pos.X, pos.Y, pos.Z)
	}
	for _, p := range existing {
		if pos.Sub(p).Length() < b.MinSpacing {
			return fmt.Errorf("%w: position (%.2f, %.2f, %.2f) within %.2fm of an existing placement",
				ErrInvalidPlacement, pos.X, pos.Y, pos.Z, b.MinSpacing)
		}
	}
	return nil
}

func (b *DirectBackend) SamplePosition(rng *rand.Rand, existing []pt.Vector) (pt.Vector, error) {
	min, max := b.Mesh.Bounds()
	for i := 0; i < backendSampleAttempts; i++ {
		pos := pt.Vector{
			X: min.X + (max.X-min.X)*rng.Float64(),
			Y: min.Y + (max.Y-min.Y)*rng.Float64(),
			Z: min.Z + (max.Z-min.Z)*rng.Float64(),
		}
		if b.ValidatePosition(pos, existing) == nil {
			return pos, nil
		}
	}
	return pt.Vector{}, fmt.Errorf("%w: no valid position found in %d internal attempts",
		ErrInvalidPlacement, backendSampleAttempts)
}

func (b *DirectBackend) RenderMicrophone(s *Scene, mic Microphone) ([][]float64, error) {
	n := int(math.Round(s.duration * float64(s.sampleRate)))
	capsules := mic.Capsules()

	floorAmp := ampFromDB(s.bgNoiseFloorDB)
	channels := make([][]float64, len(capsules))
	for c := range channels {
		buf := make([]float64, n)
		for i := range buf {
			buf[i] = floorAmp * s.rng.NormFloat64()
		}
		channels[c] = buf
	}

	if s.ambience != "" {
		amb, err := synthNoise(s.ambience, n, s.rng)
		if err != nil {
			return nil, err
		}
		ambAmp := ampFromDB(s.bgNoiseFloorDB + ambienceHeadroomDB)
		for c := range channels {
			for i := range amb {
				channels[c][i] += ambAmp * amb[i]
			}
		}
	}

	for _, ev := range s.events {
		source, err := s.sourceSamples(ev.FilePath)
		if err != nil {
			return nil, err
		}
		want := int(math.Round(ev.Duration * float64(s.sampleRate)))
		if want > len(source) {
			want = len(source)
		}
		samples := make([]float64, want)
		copy(samples, source[:want])
		if s.eventFade > 0 {
			audiofile.ApplyFade(samples, s.sampleRate, s.eventFade)
		}

		evAmp := ampFromDB(s.bgNoiseFloorDB + ev.SNR)
		for c, offset := range capsules {
			capsule := mic.Position.Add(offset)
			dist := ev.Position.Sub(capsule).Length()
			delay := int(math.Round(dist / SpeedOfSound * float64(s.sampleRate)))
			gain := evAmp / math.Max(dist, 0.1)
			start := int(math.Round(ev.Start*float64(s.sampleRate))) + delay
			for i, v := range samples {
				j := start + i
				if j < 0 {
					continue
				}
				if j >= n {
					break
				}
				channels[c][j] += gain * v
			}
		}
	}

	for c := range channels {
		clip(channels[c])
	}
	return channels, nil
}

func clip(buf []float64) {
	for i, v := range buf {
		if v > 1 {
			buf[i] = 1
		} else if v < -1 {
			buf[i] = -1
		}
	}
}
