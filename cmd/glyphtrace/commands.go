package main

import (
	"context"
	"fmt"
	"os"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/glyphtrace/pkg/models"
	"github.com/taigrr/glyphtrace/pkg/render"
)

// PrintCmd traces one frame and writes it to stdout as ANSI text.
type PrintCmd struct {
	Frames int `help:"Animation steps to apply before tracing." default:"0"`
}

func (c *PrintCmd) Run(g *Globals) error {
	app, err := g.newApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := app.Scene()
	if err != nil {
		return err
	}
	app.Advance(s, c.Frames)

	cfg := app.Config.Render
	fb, st := app.Renderer().Render(s, cfg.Width, cfg.Height)
	app.Log.Debug("traced frame", "width", fb.Width, "height", fb.Height, "rays", st.Rays, "shadow_rays", st.ShadowRays)

	cols, rows := screenSize(app.Glyph, fb.Width, fb.Height)
	scr := uv.NewScreenBuffer(cols, rows)
	fb.Draw(scr, scr.Bounds(), render.DrawOptions{Glyph: app.Glyph, Palette: app.Palette})

	if _, err := fmt.Fprintln(os.Stdout, scr.Render()+ansi.ResetStyle); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// screenSize is the inverse of GlyphMode.FramebufferSize: the cell area
// needed to show a width x height framebuffer.
func screenSize(g render.GlyphMode, width, height int) (cols, rows int) {
	if g == render.GlyphHalfBlock {
		return width, (height + 1) / 2
	}
	return width * 2, height
}

// SnapshotCmd traces one frame and saves it as a scaled PNG.
type SnapshotCmd struct {
	Out    string `help:"PNG file to write." short:"o" default:"glyphtrace.png"`
	Frames int    `help:"Animation steps to apply before tracing." default:"0"`
	Scale  int    `help:"Output pixels per traced pixel." default:"8"`
}

func (c *SnapshotCmd) Run(g *Globals) error {
	app, err := g.newApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := app.Scene()
	if err != nil {
		return err
	}
	app.Advance(s, c.Frames)

	cfg := app.Config.Render
	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	st := app.Renderer().RenderInto(context.Background(), fb, s)
	if err := fb.SavePNG(c.Out, c.Scale); err != nil {
		return err
	}
	app.Log.Info("saved snapshot", "file", c.Out, "width", fb.Width*max(c.Scale, 1), "height", fb.Height*max(c.Scale, 1), "rays", st.Rays)
	return nil
}

// ExportCmd writes the (optionally animated) scene as glTF.
type ExportCmd struct {
	Out    string `help:"Scene file to write (.glb or .gltf)." short:"o" default:"glyphtrace.glb"`
	Frames int    `help:"Animation steps to apply before exporting." default:"0"`
}

func (c *ExportCmd) Run(g *Globals) error {
	app, err := g.newApp(false)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := app.Scene()
	if err != nil {
		return err
	}
	app.Advance(s, c.Frames)

	if err := models.SaveScene(c.Out, s); err != nil {
		return err
	}
	app.Log.Info("exported scene", "file", c.Out, "spheres", len(s.Spheres), "lights", len(s.Lights))
	return nil
}

// ShowConfigCmd prints the effective configuration as YAML.
type ShowConfigCmd struct{}

func (c *ShowConfigCmd) Run(g *Globals) error {
	cfg, err := g.resolve()
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
