// Package generate drives whole dataset runs: it provisions meshes, builds
// one scene per index, populates it through the placement sampler, renders
// into a temporary workspace and materializes the output files.
package generate

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/fogleman/pt/pt"

	"github.com/PhilippXXY/audiblelight-dataset-generator/audiofile"
	"github.com/PhilippXXY/audiblelight-dataset-generator/mesh"
	"github.com/PhilippXXY/audiblelight-dataset-generator/placement"
	"github.com/PhilippXXY/audiblelight-dataset-generator/scene"
	"github.com/PhilippXXY/audiblelight-dataset-generator/scene/config"
)

// Edge fade applied to every rendered event.
const eventFadeSeconds = 0.01

// Swappable in tests to run scenes against synthetic rooms.
var loadMesh = mesh.Load

// Options tune a run beyond what the config document carries.
type Options struct {
	// Write a top-down layout PNG next to each scene's audio
	Preview bool
}

// SceneResult reports what one scene actually contains. Placed counts below
// the requested counts indicate silent placement degradation.
type SceneResult struct {
	Index        int
	MeshPath     string
	MicsPlaced   int
	EventsPlaced int
}

// Run generates cfg.Runtime.NumScenes scenes sequentially. The first fatal
// error aborts the whole run.
func Run(cfg *config.GeneratorConfig, opts Options) ([]SceneResult, error) {
	rng := rand.New(rand.NewSource(int64(cfg.Runtime.Seed)))

	fgFiles, err := audiofile.ListWAVs(cfg.Paths.FgDir)
	if err != nil {
		return nil, err
	}
	if len(fgFiles) == 0 {
		return nil, fmt.Errorf("no audio files found in the foreground directory %q", cfg.Paths.FgDir)
	}

	for _, dir := range []string{cfg.Paths.AudioOut, cfg.Paths.MetaOut} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	meshes, err := mesh.Ensure(cfg.Mesh.MeshDir, cfg.Mesh.DownloadGibson)
	if err != nil {
		return nil, err
	}

	results := make([]SceneResult, 0, cfg.Runtime.NumScenes)
	for i := 0; i < cfg.Runtime.NumScenes; i++ {
		res, err := generateScene(cfg, i, rng, fgFiles, meshes, opts)
		if err != nil {
			return results, fmt.Errorf("scene %d: %w", i, err)
		}
		log.Printf("scene %05d: %d/%d microphones, %d/%d events (%s)",
			i, res.MicsPlaced, cfg.Runtime.NumMicsPerScene,
			res.EventsPlaced, cfg.Events.EventsPerScene, res.MeshPath)
		results = append(results, res)
	}

	log.Printf("wrote %d scenes", len(results))
	log.Printf("audio:    %s", cfg.Paths.AudioOut)
	log.Printf("metadata: %s", cfg.Paths.MetaOut)
	return results, nil
}

func generateScene(cfg *config.GeneratorConfig, idx int, rng *rand.Rand, fgFiles, meshes []string, opts Options) (SceneResult, error) {
	res := SceneResult{Index: idx}
	stem := fmt.Sprintf("scene_%05d", idx)

	meshPath := meshes[rng.Intn(len(meshes))]
	res.MeshPath = meshPath
	m, err := loadMesh(meshPath)
	if err != nil {
		return res, err
	}

	sc, err := scene.New(scene.Params{
		Duration:       cfg.Scene.SceneDuration,
		SampleRate:     cfg.Scene.SampleRate,
		Mesh:           m,
		FgDir:          cfg.Paths.FgDir,
		MaxOverlap:     cfg.Scene.MaxOverlap,
		BgNoiseFloorDB: cfg.Scene.BgNoiseFloorDB,
		EventFade:      eventFadeSeconds,
		ClassMapping:   scene.AlwaysClass0{},
		RNG:            rng,
	}, scene.NewDirectBackend(m))
	if err != nil {
		return res, err
	}

	// Roughly one scene in four gets no ambience at all.
	if choice := rng.Intn(len(scene.NoiseColors) + 1); choice < len(scene.NoiseColors) {
		if err := sc.AddAmbience(scene.NoiseColors[choice]); err != nil {
			return res, err
		}
	}

	minBound, maxBound := m.Bounds()
	bounds := pt.Box{Min: minBound, Max: maxBound}
	sampler := &placement.Sampler{RNG: rng}

	for j := 0; j < cfg.Runtime.NumMicsPerScene; j++ {
		ok, err := sampler.PlaceMicrophone(sc, cfg.Scene.MicType, bounds)
		if err != nil {
			return res, err
		}
		if ok {
			res.MicsPlaced++
		}
	}

	eventParams := placement.EventParams{
		Files:         fgFiles,
		SceneDuration: cfg.Scene.SceneDuration,
		DurationMin:   cfg.Events.EventDurationMin,
		DurationMax:   cfg.Events.EventDurationMax,
		SNRMin:        cfg.Events.SNRMin,
		SNRMax:        cfg.Events.SNRMax,
		ClassID:       scene.ClassAuto,
	}
	for j := 0; j < cfg.Events.EventsPerScene; j++ {
		ok, err := sampler.PlaceEvent(sc, eventParams, bounds)
		if err != nil {
			return res, err
		}
		if ok {
			res.EventsPlaced++
		}
	}

	// Render into an isolated workspace; the final layout only ever sees
	// complete scenes.
	workDir, err := os.MkdirTemp("", "audiblelight_")
	if err != nil {
		return res, fmt.Errorf("creating render workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := sc.Generate(workDir, scene.GenerateOptions{
		Audio:         true,
		MetadataDCASE: true,
		AudioFname:    stem,
		MetadataFname: stem,
	}); err != nil {
		return res, err
	}

	if opts.Preview {
		if err := writeLayout(cfg.Paths.AudioOut, stem, sc, bounds); err != nil {
			return res, err
		}
	}

	if err := materialize(workDir, idx, cfg.Runtime.NumMicsPerScene, cfg.Paths.AudioOut, cfg.Paths.MetaOut); err != nil {
		return res, err
	}
	return res, nil
}
