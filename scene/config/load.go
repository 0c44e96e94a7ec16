package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration document, merges it over the built-in
// defaults and validates the result. Unknown sections and keys are reported
// as warnings; type and value problems fail the load.
func Load(path string) (*GeneratorConfig, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, time.Now())
}

// Parse merges an in-memory document over Defaults(now). An empty document
// yields the defaults unchanged.
func Parse(data []byte, now time.Time) (*GeneratorConfig, []Warning, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := Defaults(now)
	m := &merger{}

	for _, name := range sortedKeys(doc) {
		sec, err := asSection(name, doc[name])
		if err != nil {
			return nil, nil, err
		}
		switch name {
		case "paths":
			m.mergePaths(&cfg.Paths, sec)
		case "runtime":
			m.mergeRuntime(&cfg.Runtime, sec)
		case "mesh":
			m.mergeMesh(&cfg.Mesh, sec)
		case "scene":
			m.mergeScene(&cfg.Scene, sec)
		case "events":
			m.mergeEvents(&cfg.Events, sec)
		default:
			m.warns = append(m.warns, Warning{Section: name, Message: "unknown section, ignored"})
		}
	}

	errs := append(m.errs, cfg.Validate()...)
	if len(errs) > 0 {
		return nil, m.warns, fmt.Errorf("invalid configuration:\n%s", FormatValidationErrors(errs))
	}
	return &cfg, m.warns, nil
}
