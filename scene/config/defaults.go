package config

import (
	"path/filepath"
	"time"
)

// Output directories default to a fresh timestamped directory so that two
// runs never overwrite each other.
const stampLayout = "20060102-150405"

// Defaults returns the built-in configuration with output paths derived from
// the given timestamp. User-supplied keys are merged over this.
func Defaults(now time.Time) GeneratorConfig {
	stamp := now.UTC().Format(stampLayout)
	return GeneratorConfig{
		Paths: PathsConfig{
			FgDir:    filepath.Join("data", "esc50", "fg_esc50_24k_mono"),
			AudioOut: filepath.Join("output", stamp, "audio"),
			MetaOut:  filepath.Join("output", stamp, "metadata"),
		},
		Runtime: RuntimeConfig{
			Seed:            0,
			NumScenes:       100,
			NumMicsPerScene: 5,
		},
		Mesh: MeshConfig{
			MeshDir:        filepath.Join("data", "gibson"),
			DownloadGibson: true,
		},
		Scene: SceneConfig{
			SampleRate:     24000,
			SceneDuration:  60.0,
			MaxOverlap:     15,
			MicType:        "eigenmike32",
			BgNoiseFloorDB: -50.0,
		},
		Events: EventsConfig{
			EventsPerScene:   15,
			EventDurationMin: 0.5,
			EventDurationMax: 10.0,
			SNRMin:           0.0,
			SNRMax:           30.0,
		},
	}
}
