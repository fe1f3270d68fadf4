// Package config holds the glyphtrace runtime configuration: render and
// display settings, animation toggles, scene source and logging.
package config

import (
	"math"

	"github.com/taigrr/glyphtrace/pkg/trace"
)

// Config is the complete runtime configuration.
type Config struct {
	Render    Render    `yaml:"render"`
	Display   Display   `yaml:"display"`
	Animation Animation `yaml:"animation"`
	Scene     Scene     `yaml:"scene"`
	Log       Log       `yaml:"log"`
}

type Render struct {
	Width    int     `yaml:"width"`     // Framebuffer columns
	Height   int     `yaml:"height"`    // Framebuffer rows
	FOV      float64 `yaml:"fov"`       // Vertical field of view in radians
	MaxDepth int     `yaml:"max_depth"` // Deepest shaded bounce
	Epsilon  float64 `yaml:"epsilon"`   // Self-intersection offset
	Workers  int     `yaml:"workers"`   // 0 = GOMAXPROCS
}

type Display struct {
	Glyph   string `yaml:"glyph"`   // square | half
	Palette string `yaml:"palette"` // ansi256 | truecolor
	FPS     int    `yaml:"fps"`
	Fit     bool   `yaml:"fit"` // run: size the frame to the terminal instead of render.width x height
}

type Animation struct {
	Enabled bool `yaml:"enabled"`
	Easing  bool `yaml:"easing"` // Spring the spin rate on start and pause
}

type Scene struct {
	File string `yaml:"file,omitempty"` // .glb or .gltf; empty = built-in scene
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"` // Empty = discard while the terminal UI runs
}

// Default returns the reference configuration: an 80x40 frame, 1.05 rad
// field of view, four bounces and 30 fps on the 256-color palette.
func Default() *Config {
	return &Config{
		Render: Render{
			Width:    80,
			Height:   40,
			FOV:      1.05,
			MaxDepth: trace.DefaultMaxDepth,
			Epsilon:  trace.DefaultEpsilon,
			Workers:  0,
		},
		Display: Display{
			Glyph:   "square",
			Palette: "ansi256",
			FPS:     30,
		},
		Animation: Animation{
			Enabled: true,
			Easing:  true,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// TracerOptions converts the render settings into tracer options.
func (c *Config) TracerOptions() trace.Options {
	opts := trace.DefaultOptions()
	opts.MaxDepth = c.Render.MaxDepth
	opts.Epsilon = c.Render.Epsilon
	return opts
}

const maxFOV = math.Pi
