package config

// GeneratorConfig represents the complete, validated configuration for one
// dataset generation run. It is built once by Load and never mutated.
type GeneratorConfig struct {
	Paths   PathsConfig
	Runtime RuntimeConfig
	Mesh    MeshConfig
	Scene   SceneConfig
	Events  EventsConfig
}

// PathsConfig holds the filesystem locations of a run.
type PathsConfig struct {
	// Directory containing mono foreground audio files
	FgDir string
	// Directory generated audio is written to
	AudioOut string
	// Directory generated metadata is written to
	MetaOut string
}

type RuntimeConfig struct {
	Seed            int
	NumScenes       int
	NumMicsPerScene int
}

type MeshConfig struct {
	MeshDir string
	// Download the default room bundle when MeshDir holds no meshes
	DownloadGibson bool
}

type SceneConfig struct {
	SampleRate int
	// Duration of each generated scene in seconds
	SceneDuration float64
	// Maximum number of concurrently overlapping foreground events
	MaxOverlap     int
	MicType        string
	BgNoiseFloorDB float64
}

type EventsConfig struct {
	EventsPerScene   int
	EventDurationMin float64
	EventDurationMax float64
	SNRMin           float64
	SNRMax           float64
}
