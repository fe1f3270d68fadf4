// glyphtrace - Terminal Ray Tracer
// Renders a small scene of spheres over a checkerboard floor with recursive
// ray tracing and streams it to the terminal as colored glyphs.
//
// Controls (run):
//
//	q / Esc / Ctrl+C - Quit
//	p / Space        - Pause or resume the animation
//	g                - Toggle glyph mode (square / half block)
//	c                - Toggle palette (256 colors / truecolor)
//	s                - Save a PNG snapshot of the current frame
//	?                - Toggle HUD overlay
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glyphtrace/pkg/config"
	"github.com/taigrr/glyphtrace/pkg/models"
	"github.com/taigrr/glyphtrace/pkg/render"
	"github.com/taigrr/glyphtrace/pkg/scene"
	"github.com/taigrr/glyphtrace/pkg/trace"
)

// Globals are flags shared by every command. Unset flags leave the value
// from the config file (or the default) alone.
type Globals struct {
	Config   string   `help:"YAML configuration file." short:"c" placeholder:"FILE"`
	Width    *int     `name:"width" help:"Frame width in pixels."`
	Height   *int     `name:"height" help:"Frame height in pixels."`
	FOV      *float64 `name:"fov" help:"Vertical field of view in radians."`
	MaxDepth *int     `name:"max-depth" help:"Deepest reflection/refraction bounce."`
	Workers  *int     `name:"workers" help:"Rows traced concurrently (0 = one per CPU)."`
	Glyph    *string  `name:"glyph" help:"Glyph mode: square or half."`
	Palette  *string  `name:"palette" help:"Palette: ansi256 or truecolor."`
	FPS      *int     `name:"fps" help:"Target frames per second."`
	Scene    *string  `name:"scene" help:"Scene file (.glb/.gltf) to trace instead of the built-in one." placeholder:"FILE"`
	Fit      bool     `help:"Size the live frame to the terminal instead of --width x --height."`
	Static   bool     `help:"Disable sphere animation."`
	NoEasing bool     `help:"Spin at full rate immediately instead of easing in and out."`
	LogLevel *string  `name:"log-level" help:"Log level: debug, info, warn, error."`
	LogFile  *string  `name:"log-file" help:"Write logs to this file." placeholder:"FILE"`
}

var cli struct {
	Globals

	Run        RunCmd        `cmd:"" default:"1" help:"Trace the animated scene live in the terminal."`
	Print      PrintCmd      `cmd:"" help:"Trace one frame and print it as ANSI text."`
	Snapshot   SnapshotCmd   `cmd:"" help:"Trace one frame and save it as a PNG."`
	Export     ExportCmd     `cmd:"" help:"Write the scene as glTF for reuse with --scene."`
	ShowConfig ShowConfigCmd `cmd:"" name:"config" help:"Print the effective configuration as YAML."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("glyphtrace"),
		kong.Description("Recursive ray tracer that renders to the terminal."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// resolve builds the effective configuration: defaults, then the config
// file, then flags.
func (g *Globals) resolve() (*config.Config, error) {
	cfg := config.Default()
	if g.Config != "" {
		var err error
		cfg, err = config.Load(g.Config)
		if err != nil {
			return nil, err
		}
	}

	set(&cfg.Render.Width, g.Width)
	set(&cfg.Render.Height, g.Height)
	set(&cfg.Render.FOV, g.FOV)
	set(&cfg.Render.MaxDepth, g.MaxDepth)
	set(&cfg.Render.Workers, g.Workers)
	set(&cfg.Display.Glyph, g.Glyph)
	set(&cfg.Display.Palette, g.Palette)
	set(&cfg.Display.FPS, g.FPS)
	set(&cfg.Scene.File, g.Scene)
	set(&cfg.Log.Level, g.LogLevel)
	set(&cfg.Log.File, g.LogFile)
	if g.Fit {
		cfg.Display.Fit = true
	}
	if g.Static {
		cfg.Animation.Enabled = false
	}
	if g.NoEasing {
		cfg.Animation.Easing = false
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func set[T any](dst *T, flag *T) {
	if flag != nil {
		*dst = *flag
	}
}

// App is everything a command needs once flags and config are resolved.
type App struct {
	Config  *config.Config
	Log     *log.Logger
	Glyph   render.GlyphMode
	Palette render.Palette

	closeLog func() error
}

// newApp resolves the configuration and sets up logging. The interactive
// terminal owns stdout and stderr, so its logs go to the log file or nowhere.
func (g *Globals) newApp(interactive bool) (*App, error) {
	cfg, err := g.resolve()
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, closeLog: func() error { return nil }}
	// Both already passed validation.
	app.Glyph, _ = render.ParseGlyphMode(cfg.Display.Glyph)
	app.Palette, _ = render.ParsePalette(cfg.Display.Palette)

	var w io.Writer = os.Stderr
	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		app.closeLog = f.Close
	case interactive:
		w = io.Discard
	}

	level, _ := log.ParseLevel(cfg.Log.Level)
	app.Log = log.NewWithOptions(w, log.Options{
		Prefix:          "glyphtrace",
		ReportTimestamp: true,
		Level:           level,
	})
	return app, nil
}

// Close flushes and closes the log file, if any.
func (a *App) Close() error {
	return a.closeLog()
}

// Scene returns the configured scene file, or the built-in scene.
func (a *App) Scene() (*scene.Scene, error) {
	if a.Config.Scene.File == "" {
		return scene.Default(), nil
	}
	s, err := models.LoadScene(a.Config.Scene.File)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", a.Config.Scene.File, err)
	}
	if len(s.Spheres) == 0 {
		return nil, fmt.Errorf("load scene %s: %w", a.Config.Scene.File, errEmptyScene)
	}
	a.Log.Info("loaded scene", "file", a.Config.Scene.File, "spheres", len(s.Spheres), "lights", len(s.Lights))
	return s, nil
}

var errEmptyScene = errors.New("scene has no spheres")

// Animator returns the sphere animator. Offline commands pass easing=false
// so that N frames always produce the same scene.
func (a *App) Animator(easing bool) *scene.Animator {
	return scene.NewAnimator(a.Config.Display.FPS, easing, scene.DefaultOrbits()...)
}

// Advance applies frames animation steps to s, if animation is enabled.
func (a *App) Advance(s *scene.Scene, frames int) {
	if !a.Config.Animation.Enabled || frames <= 0 {
		return
	}
	anim := a.Animator(false)
	for range frames {
		anim.Step(s)
	}
	a.Log.Debug("advanced animation", "frames", frames)
}

// FrameSize returns the framebuffer size for a cols x rows terminal: the
// configured render size, or the whole terminal when display.fit is set.
func (a *App) FrameSize(g render.GlyphMode, cols, rows int) (width, height int) {
	if a.Config.Display.Fit {
		return g.FramebufferSize(cols, rows)
	}
	return a.Config.Render.Width, a.Config.Render.Height
}

// frameArea centers a framebuffer of fb's size in bounds. The result may
// extend past bounds; Draw clips to the screen.
func frameArea(g render.GlyphMode, fb *render.Framebuffer, bounds uv.Rectangle) uv.Rectangle {
	cols, rows := screenSize(g, fb.Width, fb.Height)
	x := bounds.Min.X + max(0, (bounds.Dx()-cols)/2)
	y := bounds.Min.Y + max(0, (bounds.Dy()-rows)/2)
	return uv.Rect(x, y, cols, rows).Intersect(bounds)
}

// Renderer returns a frame renderer for the configured camera and tracer.
func (a *App) Renderer() *render.Renderer {
	return render.NewRenderer(
		trace.NewTracer(a.Config.TracerOptions()),
		render.NewCamera(a.Config.Render.FOV),
		a.Config.Render.Workers,
	)
}
