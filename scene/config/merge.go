package config

import (
	"fmt"
	"sort"
)

// Warning reports a config document key that has no counterpart in the
// defaults. Unknown keys never abort a load.
type Warning struct {
	Section string
	Key     string
	Message string
}

func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("config: %s: %s", w.Section, w.Message)
	}
	return fmt.Sprintf("config: %s.%s: %s", w.Section, w.Key, w.Message)
}

// section is one top-level mapping of the parsed document.
type section map[string]any

// asSection checks that a top-level value is a mapping. A nil value (an
// empty section in YAML) is treated as an empty mapping.
func asSection(name string, v any) (section, error) {
	switch m := v.(type) {
	case nil:
		return section{}, nil
	case map[string]any:
		return section(m), nil
	default:
		return nil, fmt.Errorf("parsing config: section %q must be a mapping, got %T", name, v)
	}
}

// merger collects type errors and unknown-key warnings while overwriting
// default values with keys present in the user document.
type merger struct {
	errs  []ValidationError
	warns []Warning
}

func (m *merger) typeError(field, want string, got any) {
	m.errs = append(m.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf("expected %s, got %T (%v)", want, got, got),
	})
}

func (m *merger) unknownKey(sec, key string) {
	m.warns = append(m.warns, Warning{Section: sec, Key: key, Message: "unknown key, ignored"})
}

func (m *merger) setInt(field string, v any, dst *int) {
	// Strict: booleans and floats never coerce to int, even whole floats.
	switch n := v.(type) {
	case int:
		*dst = n
	case int64:
		*dst = int(n)
	default:
		m.typeError(field, "integer", v)
	}
}

func (m *merger) setFloat(field string, v any, dst *float64) {
	switch n := v.(type) {
	case float64:
		*dst = n
	case int:
		*dst = float64(n)
	case int64:
		*dst = float64(n)
	default:
		m.typeError(field, "number", v)
	}
}

func (m *merger) setBool(field string, v any, dst *bool) {
	b, ok := v.(bool)
	if !ok {
		m.typeError(field, "boolean", v)
		return
	}
	*dst = b
}

func (m *merger) setString(field string, v any, dst *string) {
	s, ok := v.(string)
	if !ok {
		m.typeError(field, "string", v)
		return
	}
	if s == "" {
		m.errs = append(m.errs, ValidationError{Field: field, Message: "must not be empty"})
		return
	}
	*dst = s
}

// Paths are plain strings with the same non-empty requirement.
func (m *merger) setPath(field string, v any, dst *string) {
	m.setString(field, v, dst)
}

func (m *merger) mergePaths(dst *PathsConfig, sec section) {
	for _, key := range sortedKeys(sec) {
		v := sec[key]
		switch key {
		case "fg_dir":
			m.setPath("paths.fg_dir", v, &dst.FgDir)
		case "audio_out":
			m.setPath("paths.audio_out", v, &dst.AudioOut)
		case "meta_out":
			m.setPath("paths.meta_out", v, &dst.MetaOut)
		default:
			m.unknownKey("paths", key)
		}
	}
}

func (m *merger) mergeRuntime(dst *RuntimeConfig, sec section) {
	for _, key := range sortedKeys(sec) {
		v := sec[key]
		switch key {
		case "seed":
			m.setInt("runtime.seed", v, &dst.Seed)
		case "num_scenes":
			m.setInt("runtime.num_scenes", v, &dst.NumScenes)
		case "num_mics_per_scene":
			m.setInt("runtime.num_mics_per_scene", v, &dst.NumMicsPerScene)
		default:
			m.unknownKey("runtime", key)
		}
	}
}

func (m *merger) mergeMesh(dst *MeshConfig, sec section) {
	for _, key := range sortedKeys(sec) {
		v := sec[key]
		switch key {
		case "mesh_dir":
			m.setPath("mesh.mesh_dir", v, &dst.MeshDir)
		case "download_gibson":
			m.setBool("mesh.download_gibson", v, &dst.DownloadGibson)
		default:
			m.unknownKey("mesh", key)
		}
	}
}

func (m *merger) mergeScene(dst *SceneConfig, sec section) {
	for _, key := range sortedKeys(sec) {
		v := sec[key]
		switch key {
		case "sample_rate":
			m.setInt("scene.sample_rate", v, &dst.SampleRate)
		case "scene_duration":
			m.setFloat("scene.scene_duration", v, &dst.SceneDuration)
		case "max_overlap":
			m.setInt("scene.max_overlap", v, &dst.MaxOverlap)
		case "mic_type":
			m.setString("scene.mic_type", v, &dst.MicType)
		case "bg_noise_floor_db":
			m.setFloat("scene.bg_noise_floor_db", v, &dst.BgNoiseFloorDB)
		default:
			m.unknownKey("scene", key)
		}
	}
}

func (m *merger) mergeEvents(dst *EventsConfig, sec section) {
	for _, key := range sortedKeys(sec) {
		v := sec[key]
		switch key {
		case "events_per_scene":
			m.setInt("events.events_per_scene", v, &dst.EventsPerScene)
		case "event_duration_min":
			m.setFloat("events.event_duration_min", v, &dst.EventDurationMin)
		case "event_duration_max":
			m.setFloat("events.event_duration_max", v, &dst.EventDurationMax)
		case "snr_min":
			m.setFloat("events.snr_min", v, &dst.SNRMin)
		case "snr_max":
			m.setFloat("events.snr_max", v, &dst.SNRMax)
		default:
			m.unknownKey("events", key)
		}
	}
}

// sortedKeys keeps warning and error order stable across loads.
func sortedKeys(sec section) []string {
	keys := make([]string, 0, len(sec))
	for k := range sec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
