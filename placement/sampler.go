// Package placement implements bounded rejection sampling for microphone
// and foreground event positions: a fixed number of caller-drawn attempts
// inside the room's bounding box, then a single backend-driven fallback.
package placement

import (
	"errors"
	"math/rand"

	"github.com/fogleman/pt/pt"

	"github.com/PhilippXXY/audiblelight-dataset-generator/scene"
)

// DefaultMaxAttempts bounds the caller-driven retry loop.
const DefaultMaxAttempts = 30

// EventMargin shrinks the sampling box inward by this fraction per axis when
// placing events, to keep sources away from boundary artifacts.
const EventMargin = 0.1

// Placer is the subset of the scene API the sampler drives.
type Placer interface {
	AddMicrophone(micType string, position *pt.Vector) error
	AddEventStatic(filePath string, position *pt.Vector, start, duration, snr float64, classID int) error
}

// Sampler draws placement positions from a shared per-run generator. Each
// attempt consumes generator state; retries are fresh draws, never replays.
type Sampler struct {
	RNG *rand.Rand
	// Attempt budget for the caller-driven mode. Zero means DefaultMaxAttempts.
	MaxAttempts int
}

func (s *Sampler) attempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

// randomPoint draws a uniform position within the box.
func (s *Sampler) randomPoint(bounds pt.Box) pt.Vector {
	return pt.Vector{
		X: bounds.Min.X + (bounds.Max.X-bounds.Min.X)*s.RNG.Float64(),
		Y: bounds.Min.Y + (bounds.Max.Y-bounds.Min.Y)*s.RNG.Float64(),
		Z: bounds.Min.Z + (bounds.Max.Z-bounds.Min.Z)*s.RNG.Float64(),
	}
}

// shrink moves each face of the box inward by fraction of its extent.
func shrink(bounds pt.Box, fraction float64) pt.Box {
	margin := bounds.Max.Sub(bounds.Min).MulScalar(fraction)
	return pt.Box{
		Min: bounds.Min.Add(margin),
		Max: bounds.Max.Sub(margin),
	}
}

// PlaceMicrophone tries up to MaxAttempts caller-drawn positions within
// bounds, then falls back to one backend-chosen attempt. It returns whether
// the microphone was placed; rejections never surface as errors, anything
// else does.
func (s *Sampler) PlaceMicrophone(p Placer, micType string, bounds pt.Box) (bool, error) {
	for attempt := 0; attempt < s.attempts(); attempt++ {
		pos := s.randomPoint(bounds)
		err := p.AddMicrophone(micType, &pos)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, scene.ErrInvalidPlacement) {
			return false, err
		}
	}
	// Let the backend choose a valid position instead.
	err := p.AddMicrophone(micType, nil)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, scene.ErrInvalidPlacement) {
		return false, nil
	}
	return false, err
}

// EventParams describe the pool an event is drawn from.
type EventParams struct {
	// Foreground audio files to choose from; must be non-empty
	Files         []string
	SceneDuration float64
	DurationMin   float64
	DurationMax   float64
	SNRMin        float64
	SNRMax        float64
	ClassID       int
}

// PlaceEvent draws the event's source file, duration, start time and SNR
// once, then runs the same two-tier position loop as PlaceMicrophone within
// the margin-shrunk bounds. Only the position varies across attempts.
func (s *Sampler) PlaceEvent(p Placer, params EventParams, bounds pt.Box) (bool, error) {
	file := params.Files[s.RNG.Intn(len(params.Files))]
	duration := uniform(s.RNG, params.DurationMin, params.DurationMax)
	if duration > params.SceneDuration {
		// The configured duration range may exceed the scene length. A draw
		// that cannot fit is dropped like any other rejection.
		return false, nil
	}
	start := uniform(s.RNG, 0, params.SceneDuration-duration)
	snr := uniform(s.RNG, params.SNRMin, params.SNRMax)

	inner := shrink(bounds, EventMargin)
	for attempt := 0; attempt < s.attempts(); attempt++ {
		pos := s.randomPoint(inner)
		err := p.AddEventStatic(file, &pos, start, duration, snr, params.ClassID)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, scene.ErrInvalidPlacement) {
			return false, err
		}
	}
	err := p.AddEventStatic(file, nil, start, duration, snr, params.ClassID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, scene.ErrInvalidPlacement) {
		return false, nil
	}
	return false, err
}

func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}
