package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatValidationErrors groups errors by section for display
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder

	categories := map[string][]ValidationError{}
	order := []string{}
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		if _, seen := categories[category]; !seen {
			order = append(order, category)
		}
		categories[category] = append(categories[category], err)
	}

	for _, category := range order {
		b.WriteString(fmt.Sprintf("%s:\n", category))
		for _, err := range categories[category] {
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

func validatePositiveInt(field string, value int) []ValidationError {
	if value <= 0 {
		return []ValidationError{{Field: field, Message: "must be positive"}}
	}
	return nil
}

func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{Field: field, Message: "must be positive"}}
	}
	return nil
}

func validateOrdered(minField, maxField string, min, max float64) []ValidationError {
	if min > max {
		return []ValidationError{{
			Field:   minField,
			Message: fmt.Sprintf("must not exceed %s (%v > %v)", maxField, min, max),
		}}
	}
	return nil
}

// Validate performs validation on the entire configuration
func (c *GeneratorConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Runtime.Validate()...)
	errors = append(errors, c.Scene.Validate()...)
	errors = append(errors, c.Events.Validate()...)
	return errors
}

func (r *RuntimeConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositiveInt("runtime.num_scenes", r.NumScenes)...)
	errors = append(errors, validatePositiveInt("runtime.num_mics_per_scene", r.NumMicsPerScene)...)
	return errors
}

func (s *SceneConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositiveInt("scene.sample_rate", s.SampleRate)...)
	errors = append(errors, validatePositive("scene.scene_duration", s.SceneDuration)...)
	if s.MicType == "" {
		errors = append(errors, ValidationError{
			Field:   "scene.mic_type",
			Message: "microphone type is required",
		})
	}
	return errors
}

func (e *EventsConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validateOrdered("events.event_duration_min", "events.event_duration_max",
		e.EventDurationMin, e.EventDurationMax)...)
	errors = append(errors, validateOrdered("events.snr_min", "events.snr_max",
		e.SNRMin, e.SNRMax)...)
	errors = append(errors, validatePositive("events.event_duration_min", e.EventDurationMin)...)
	return errors
}
