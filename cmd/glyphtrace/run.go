package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glyphtrace/pkg/render"
)

// snapshotScale is the pixel scale for PNGs saved with the s key.
const snapshotScale = 8

// RunCmd is the live terminal view.
type RunCmd struct{}

// ViewState holds the display settings the keyboard can change.
type ViewState struct {
	Glyph   render.GlyphMode
	Palette render.Palette
	Paused  bool
	ShowHUD bool
}

// controls is shared between the event goroutine and the frame loop.
type controls struct {
	mu       sync.Mutex
	view     ViewState
	size     *[2]int // pending terminal size
	erase    bool    // screen must be cleared before the next draw
	snapshot bool
}

func (c *controls) update(fn func(*controls)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// take returns the current view and consumes pending one-shot requests.
func (c *controls) take() (view ViewState, size *[2]int, erase, snapshot bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view, size, erase, snapshot = c.view, c.size, c.erase, c.snapshot
	c.size, c.erase, c.snapshot = nil, false, false
	return view, size, erase, snapshot
}

func (c *RunCmd) Run(g *Globals) error {
	app, err := g.newApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	s, err := app.Scene()
	if err != nil {
		return err
	}

	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			app.Log.Error("shutdown terminal", "err", err)
		}
	}()

	// Context for clean shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	ctl := &controls{view: ViewState{Glyph: app.Glyph, Palette: app.Palette}}

	// Event handler
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				ctl.update(func(c *controls) {
					c.size = &[2]int{ev.Width, ev.Height}
				})

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("q", "escape", "ctrl+c"):
					cancel()
					return
				case ev.MatchString("p", "space"):
					ctl.update(func(c *controls) { c.view.Paused = !c.view.Paused })
				case ev.MatchString("g"):
					ctl.update(func(c *controls) {
						c.view.Glyph = c.view.Glyph.Next()
						c.erase = true
					})
				case ev.MatchString("c"):
					ctl.update(func(c *controls) { c.view.Palette = c.view.Palette.Next() })
				case ev.MatchString("s"):
					ctl.update(func(c *controls) { c.snapshot = true })
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					ctl.update(func(c *controls) {
						c.view.ShowHUD = !c.view.ShowHUD
						c.erase = true
					})
				}
			}
		}
	}()

	anim := app.Animator(app.Config.Animation.Easing)
	renderer := app.Renderer()
	hud := NewHUD(app.Config.Scene.File)
	fb := render.NewFramebuffer(app.FrameSize(app.Glyph, width, height))

	app.Log.Info("starting", "cols", width, "rows", height, "frame_width", fb.Width, "frame_height", fb.Height, "glyph", app.Glyph, "palette", app.Palette, "fps", app.Config.Display.FPS)

	// Main loop
	targetDuration := time.Second / time.Duration(app.Config.Display.FPS)

	for {
		select {
		case <-ctx.Done():
			app.Log.Info("quit")
			return nil
		default:
		}

		now := time.Now()
		view, size, erase, snapshot := ctl.take()

		if size != nil {
			width, height = size[0], size[1]
			if err := term.Resize(width, height); err != nil {
				return fmt.Errorf("resize terminal: %w", err)
			}
			erase = true
			app.Log.Debug("resized", "width", width, "height", height)
		}
		if erase {
			term.Erase()
		}

		// The scene is only mutated here, never while a frame is traced.
		if app.Config.Animation.Enabled {
			anim.SetPaused(view.Paused)
			anim.Step(s)
		}

		if w, h := app.FrameSize(view.Glyph, width, height); w != fb.Width || h != fb.Height {
			fb = render.NewFramebuffer(w, h)
		}
		stats := renderer.RenderInto(ctx, fb, s)

		fb.Draw(term, frameArea(view.Glyph, fb, term.Bounds()), render.DrawOptions{Glyph: view.Glyph, Palette: view.Palette})

		hud.UpdateFPS()
		hud.Draw(term, term.Bounds(), view, stats, anim.Speed())

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		if snapshot {
			path := fmt.Sprintf("glyphtrace-%s.png", now.Format("20060102-150405"))
			if err := fb.SavePNG(path, snapshotScale); err != nil {
				app.Log.Error("snapshot failed", "err", err)
			} else {
				app.Log.Info("saved snapshot", "file", path)
				hud.Flash("saved " + path)
			}
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		} else {
			app.Log.Debug("frame over budget", "elapsed", elapsed, "rays", stats.Rays)
		}
	}
}
