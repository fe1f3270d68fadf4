package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/taigrr/glyphtrace/pkg/render"
)

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatValidationErrors groups errors by top-level section for display.
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	categories := map[string][]ValidationError{}
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		categories[category] = append(categories[category], err)
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, category := range names {
		fmt.Fprintf(&b, "\n%s:\n", strings.ToUpper(category))
		for _, err := range categories[category] {
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			fmt.Fprintf(&b, "  - %s: %s\n", field, err.Message)
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Render.Validate()...)
	errors = append(errors, c.Display.Validate()...)
	errors = append(errors, c.Scene.Validate()...)
	errors = append(errors, c.Log.Validate()...)
	return errors
}

func (r *Render) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, validatePositiveInt("render.width", r.Width)...)
	errors = append(errors, validatePositiveInt("render.height", r.Height)...)
	if r.FOV <= 0 || r.FOV >= maxFOV {
		errors = append(errors, ValidationError{
			Field:   "render.fov",
			Message: fmt.Sprintf("must be between 0 and %.4f radians (exclusive)", maxFOV),
		})
	}
	if r.MaxDepth < 0 {
		errors = append(errors, ValidationError{Field: "render.max_depth", Message: "must be non-negative"})
	}
	errors = append(errors, validatePositive("render.epsilon", r.Epsilon)...)
	if r.Workers < 0 {
		errors = append(errors, ValidationError{Field: "render.workers", Message: "must be non-negative (0 = one per CPU)"})
	}
	return errors
}

func (d *Display) Validate() []ValidationError {
	var errors []ValidationError
	if _, err := render.ParseGlyphMode(d.Glyph); err != nil {
		errors = append(errors, ValidationError{Field: "display.glyph", Message: "must be one of square, half"})
	}
	if _, err := render.ParsePalette(d.Palette); err != nil {
		errors = append(errors, ValidationError{Field: "display.palette", Message: "must be one of ansi256, truecolor"})
	}
	errors = append(errors, validatePositiveInt("display.fps", d.FPS)...)
	return errors
}

func (s *Scene) Validate() []ValidationError {
	if s.File == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(s.File)) {
	case ".glb", ".gltf":
		return nil
	}
	return []ValidationError{{Field: "scene.file", Message: "must be a .glb or .gltf file"}}
}

func (l *Log) Validate() []ValidationError {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return []ValidationError{{Field: "log.level", Message: "must be one of debug, info, warn, error, fatal"}}
	}
	return nil
}

// Validation helper functions
func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validatePositiveInt(field string, value int) []ValidationError {
	return validatePositive(field, float64(value))
}
