// Package scene builds and renders one synthetic acoustic scene: a room
// mesh, a set of microphone arrays, a set of foreground events and an
// optional ambience track. Placement validation, position sampling and
// rendering are delegated to a Backend.
package scene

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/fogleman/pt/pt"

	"github.com/PhilippXXY/audiblelight-dataset-generator/audiofile"
	"github.com/PhilippXXY/audiblelight-dataset-generator/mesh"
)

// ClassAuto asks the scene's class mapping to choose the class index.
const ClassAuto = -1

// ClassMapping decides the class index and label recorded for an event file.
type ClassMapping interface {
	ClassOf(filePath string) (idx int, label string)
}

// AlwaysClass0 maps every file to class index 0 with a dummy label.
type AlwaysClass0 struct{}

func (AlwaysClass0) ClassOf(string) (int, string) { return 0, "dummy" }

// Event is one placed, time-bounded foreground sound occurrence.
type Event struct {
	FilePath string
	Position pt.Vector
	Start    float64
	Duration float64
	SNR      float64
	ClassID  int
}

// Params configure a new Scene.
type Params struct {
	// Scene length in seconds
	Duration   float64
	SampleRate int
	Mesh       *mesh.Mesh
	// Directory holding the foreground audio pool
	FgDir string
	// Maximum number of concurrently overlapping foreground events
	MaxOverlap     int
	BgNoiseFloorDB float64
	// Edge fade applied to every event, in seconds. Zero disables fading.
	EventFade    float64
	ClassMapping ClassMapping
	// Shared per-run generator. Never reseeded by the scene.
	RNG *rand.Rand
}

// Scene accumulates placements for one scene index and renders them.
type Scene struct {
	duration       float64
	sampleRate     int
	mesh           *mesh.Mesh
	fgDir          string
	maxOverlap     int
	bgNoiseFloorDB float64
	eventFade      float64
	classMapping   ClassMapping
	rng            *rand.Rand
	backend        Backend

	mics     []Microphone
	events   []Event
	ambience string

	// mono, rate-matched, RMS-normalized source audio keyed by path
	sourceCache map[string][]float64
}

// New constructs an empty scene bound to one mesh and one backend.
func New(p Params, b Backend) (*Scene, error) {
	if p.Duration <= 0 {
		return nil, fmt.Errorf("scene duration must be positive, got %v", p.Duration)
	}
	if p.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", p.SampleRate)
	}
	if p.Mesh == nil {
		return nil, errors.New("scene requires a mesh")
	}
	if p.RNG == nil {
		return nil, errors.New("scene requires a random generator")
	}
	if b == nil {
		return nil, errors.New("scene requires a backend")
	}
	cm := p.ClassMapping
	if cm == nil {
		cm = AlwaysClass0{}
	}
	return &Scene{
		duration:       p.Duration,
		sampleRate:     p.SampleRate,
		mesh:           p.Mesh,
		fgDir:          p.FgDir,
		maxOverlap:     p.MaxOverlap,
		bgNoiseFloorDB: p.BgNoiseFloorDB,
		eventFade:      p.EventFade,
		classMapping:   cm,
		rng:            p.RNG,
		backend:        b,
		sourceCache:    map[string][]float64{},
	}, nil
}

func (s *Scene) Duration() float64      { return s.duration }
func (s *Scene) SampleRate() int        { return s.sampleRate }
func (s *Scene) Mesh() *mesh.Mesh       { return s.mesh }
func (s *Scene) Microphones() []Microphone { return s.mics }
func (s *Scene) Events() []Event        { return s.events }

// placements returns the positions of everything placed so far, for spacing
// checks in the backend.
func (s *Scene) placements() []pt.Vector {
	out := make([]pt.Vector, 0, len(s.mics)+len(s.events))
	for _, m := range s.mics {
		out = append(out, m.Position)
	}
	for _, e := range s.events {
		out = append(out, e.Position)
	}
	return out
}

// AddMicrophone places a microphone array. A nil position delegates position
// selection to the backend. Rejected positions are reported as
// ErrInvalidPlacement.
func (s *Scene) AddMicrophone(micType string, position *pt.Vector) error {
	if _, ok := CapsuleCounts[micType]; !ok {
		return fmt.Errorf("unknown microphone type %q", micType)
	}
	pos, err := s.resolvePosition(position)
	if err != nil {
		return err
	}
	s.mics = append(s.mics, Microphone{
		Type:     micType,
		Label:    fmt.Sprintf("%s_%03d", micType, len(s.mics)),
		Position: pos,
	})
	return nil
}

// AddEventStatic places a foreground event at a fixed position. A nil
// position delegates position selection to the backend. Pass ClassAuto to
// derive the class index from the scene's class mapping.
func (s *Scene) AddEventStatic(filePath string, position *pt.Vector, start, duration, snr float64, classID int) error {
	if filePath == "" {
		return errors.New("event requires a file path")
	}
	if duration <= 0 {
		return fmt.Errorf("event duration must be positive, got %v", duration)
	}
	if start < 0 || start+duration > s.duration+1e-9 {
		return fmt.Errorf("event window [%.2f, %.2f] exceeds scene duration %.2f",
			start, start+duration, s.duration)
	}
	if n := s.maxConcurrent(start, duration); n+1 > s.maxOverlap {
		return fmt.Errorf("%w: overlap budget %d exhausted at %.2fs", ErrInvalidPlacement, s.maxOverlap, start)
	}
	pos, err := s.resolvePosition(position)
	if err != nil {
		return err
	}
	if classID == ClassAuto {
		classID, _ = s.classMapping.ClassOf(filePath)
	}
	s.events = append(s.events, Event{
		FilePath: filePath,
		Position: pos,
		Start:    start,
		Duration: duration,
		SNR:      snr,
		ClassID:  classID,
	})
	return nil
}

// AddAmbience attaches one ambient noise track. Only a single track per
// scene is allowed.
func (s *Scene) AddAmbience(color string) error {
	if s.ambience != "" {
		return fmt.Errorf("scene already has ambience %q", s.ambience)
	}
	if !validNoiseColor(color) {
		return fmt.Errorf("unknown noise color %q", color)
	}
	s.ambience = color
	return nil
}

func (s *Scene) resolvePosition(position *pt.Vector) (pt.Vector, error) {
	if position != nil {
		if err := s.backend.ValidatePosition(*position, s.placements()); err != nil {
			return pt.Vector{}, err
		}
		return *position, nil
	}
	return s.backend.SamplePosition(s.rng, s.placements())
}

// maxConcurrent returns the highest number of existing events active at any
// instant within [start, start+duration).
func (s *Scene) maxConcurrent(start, duration float64) int {
	end := start + duration
	most := 0
	for _, e := range s.events {
		t := e.Start
		if t < start {
			t = start
		}
		if t >= end || e.Start+e.Duration <= start {
			continue
		}
		n := 0
		for _, o := range s.events {
			if o.Start <= t && t < o.Start+o.Duration {
				n++
			}
		}
		if n > most {
			most = n
		}
	}
	return most
}

// GenerateOptions select what Generate writes per microphone.
type GenerateOptions struct {
	Audio         bool
	MetadataDCASE bool
	// Filename stem shared by the audio and metadata of this scene
	AudioFname    string
	MetadataFname string
}

// Generate renders the scene into outputDir: one audio file and one DCASE
// metadata file per microphone, with matching filename stems.
func (s *Scene) Generate(outputDir string, opts GenerateOptions) error {
	for _, mic := range s.mics {
		if opts.Audio {
			channels, err := s.backend.RenderMicrophone(s, mic)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", mic.Label, err)
			}
			path := filepath.Join(outputDir, opts.AudioFname+"_"+mic.Label+".wav")
			if err := audiofile.WriteWAV(path, channels, s.sampleRate); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		if opts.MetadataDCASE {
			path := filepath.Join(outputDir, opts.MetadataFname+"_"+mic.Label+".csv")
			if err := s.writeDCASE(path, mic); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return nil
}

// sourceSamples loads and caches one foreground file: mono, resampled to the
// scene rate, normalized to unit RMS.
func (s *Scene) sourceSamples(path string) ([]float64, error) {
	key := path
	if cached, ok := s.sourceCache[key]; ok {
		return cached, nil
	}
	if _, err := os.Stat(path); err != nil {
		// Relative event paths resolve against the foreground directory.
		resolved := filepath.Join(s.fgDir, path)
		if s.fgDir == "" || filepath.IsAbs(path) {
			return nil, fmt.Errorf("event source: %w", err)
		}
		if _, err2 := os.Stat(resolved); err2 != nil {
			return nil, fmt.Errorf("event source: %w", err)
		}
		path = resolved
	}
	samples, rate, err := audiofile.ReadMono(path)
	if err != nil {
		return nil, fmt.Errorf("decoding event source %q: %w", path, err)
	}
	if rate != s.sampleRate {
		samples = audiofile.Resample(samples, rate, s.sampleRate)
	}
	normalizeRMS(samples)
	s.sourceCache[key] = samples
	return samples, nil
}

func normalizeRMS(samples []float64) {
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	if len(samples) == 0 || sum == 0 {
		return
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	for i := range samples {
		samples[i] /= rms
	}
}
