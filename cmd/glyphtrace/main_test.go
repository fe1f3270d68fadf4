package main

import (
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/glyphtrace/pkg/config"
	"github.com/taigrr/glyphtrace/pkg/render"
	"github.com/taigrr/glyphtrace/pkg/scene"
)

func ptr[T any](v T) *T { return &v }

func TestResolvePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphtrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  width: 100\n  height: 50\ndisplay:\n  glyph: half\n"), 0o644))

	g := &Globals{Config: path, Height: ptr(30), Palette: ptr("truecolor"), Static: true}
	cfg, err := g.resolve()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Render.Width, "file beats default")
	assert.Equal(t, 30, cfg.Render.Height, "flag beats file")
	assert.Equal(t, "half", cfg.Display.Glyph)
	assert.Equal(t, "truecolor", cfg.Display.Palette)
	assert.Equal(t, config.Default().Render.FOV, cfg.Render.FOV)
	assert.False(t, cfg.Animation.Enabled)
	assert.True(t, cfg.Animation.Easing)
}

func TestResolveRejectsInvalidFlags(t *testing.T) {
	_, err := (&Globals{FOV: ptr(4.0)}).resolve()
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = (&Globals{Glyph: ptr("braille")}).resolve()
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewAppLogsToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "glyphtrace.log")
	app, err := (&Globals{LogFile: ptr(logPath), Glyph: ptr("half")}).newApp(true)
	require.NoError(t, err)

	assert.Equal(t, render.GlyphHalfBlock, app.Glyph)
	assert.Equal(t, render.PaletteANSI256, app.Palette)

	app.Log.Info("hello", "answer", 42)
	require.NoError(t, app.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "answer=42")
}

func TestAdvanceIsDeterministic(t *testing.T) {
	app, err := (&Globals{}).newApp(false)
	require.NoError(t, err)

	a, b := scene.Default(), scene.Default()
	app.Advance(a, 10)
	for range 10 {
		app.Advance(b, 1)
	}
	for i := range a.Spheres {
		assert.True(t, a.Spheres[i].Center.ApproxEqual(b.Spheres[i].Center, 1e-9))
	}
	assert.NotEqual(t, scene.Default().Spheres[3].Center, a.Spheres[3].Center)

	app.Config.Animation.Enabled = false
	c := scene.Default()
	app.Advance(c, 10)
	assert.Equal(t, scene.Default().Spheres, c.Spheres)
}

func TestFrameSize(t *testing.T) {
	app, err := (&Globals{}).newApp(false)
	require.NoError(t, err)

	for _, g := range []render.GlyphMode{render.GlyphSquare, render.GlyphHalfBlock} {
		w, h := app.FrameSize(g, 200, 60)
		assert.Equal(t, [2]int{80, 40}, [2]int{w, h}, "configured size regardless of terminal (%s)", g)
	}

	fit, err := (&Globals{Fit: true}).newApp(false)
	require.NoError(t, err)
	w, h := fit.FrameSize(render.GlyphHalfBlock, 200, 60)
	assert.Equal(t, [2]int{200, 120}, [2]int{w, h})
	w, h = fit.FrameSize(render.GlyphSquare, 200, 60)
	assert.Equal(t, [2]int{100, 60}, [2]int{w, h})
}

func TestFrameArea(t *testing.T) {
	fb := render.NewFramebuffer(80, 40)

	// 160x40 cells centered in 200x60.
	area := frameArea(render.GlyphSquare, fb, uv.Rect(0, 0, 200, 60))
	assert.Equal(t, uv.Rect(20, 10, 160, 40), area)

	// 80x20 cells centered in 200x60.
	area = frameArea(render.GlyphHalfBlock, fb, uv.Rect(0, 0, 200, 60))
	assert.Equal(t, uv.Rect(60, 20, 80, 20), area)

	// A frame larger than the terminal is anchored top-left and clipped.
	area = frameArea(render.GlyphSquare, fb, uv.Rect(0, 0, 100, 30))
	assert.Equal(t, uv.Rect(0, 0, 100, 30), area)
}

func TestScreenSize(t *testing.T) {
	for _, g := range []render.GlyphMode{render.GlyphSquare, render.GlyphHalfBlock} {
		cols, rows := screenSize(g, 80, 40)
		w, h := g.FramebufferSize(cols, rows)
		assert.Equal(t, [2]int{80, 40}, [2]int{w, h}, g.String())
	}
	cols, rows := screenSize(render.GlyphHalfBlock, 5, 7)
	assert.Equal(t, [2]int{5, 4}, [2]int{cols, rows})
}

func TestControlsTake(t *testing.T) {
	ctl := &controls{}
	ctl.update(func(c *controls) {
		c.view.Paused = true
		c.size = &[2]int{100, 30}
		c.snapshot = true
	})

	view, size, erase, snap := ctl.take()
	assert.True(t, view.Paused)
	require.NotNil(t, size)
	assert.Equal(t, [2]int{100, 30}, *size)
	assert.False(t, erase)
	assert.True(t, snap)

	view, size, _, snap = ctl.take()
	assert.True(t, view.Paused, "view state persists")
	assert.Nil(t, size, "one-shot requests are consumed")
	assert.False(t, snap)
}

func TestCount(t *testing.T) {
	assert.Equal(t, "950", count(950))
	assert.Equal(t, "12.3k", count(12_345))
	assert.Equal(t, "4.1M", count(4_100_000))
}
