package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/glyphtrace/pkg/render"
)

// flashDuration is how long a status message stays on the HUD.
const flashDuration = 2 * time.Second

var (
	hudBase  = lipgloss.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("15"))
	hudFPS   = hudBase.Foreground(lipgloss.Color("10"))
	hudTitle = hudBase.Bold(true)
	hudStats = hudBase.Foreground(lipgloss.Color("14")).Bold(true)
	hudHint  = hudBase.Foreground(lipgloss.Color("11")).Faint(true)
)

// HUD renders an overlay with frame timing and tracer counters.
type HUD struct {
	title     string
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	flash      string
	flashUntil time.Time
}

// NewHUD creates a new HUD. sceneFile names the loaded scene, if any.
func NewHUD(sceneFile string) *HUD {
	title := "built-in scene"
	if sceneFile != "" {
		title = filepath.Base(sceneFile)
	}
	return &HUD{
		title:   title,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Flash shows msg on the bottom row for a couple of seconds, even when the
// HUD is hidden.
func (h *HUD) Flash(msg string) {
	h.flash = msg
	h.flashUntil = time.Now().Add(flashDuration)
}

// Draw paints the HUD on the top and bottom rows of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, view ViewState, stats render.FrameStats, speed float64) {
	if area.Dy() < 2 {
		return
	}
	top := uv.Rect(area.Min.X, area.Min.Y, area.Dx(), 1)
	bottom := uv.Rect(area.Min.X, area.Max.Y-1, area.Dx(), 1)

	if h.flash != "" && time.Now().Before(h.flashUntil) {
		uv.NewStyledString(hudHint.Faint(false).Render(" "+h.flash+" ")).Draw(scr, bottom)
	} else {
		h.flash = ""
	}

	if !view.ShowHUD {
		return
	}

	state := "running"
	switch {
	case view.Paused && speed > 0:
		state = "stopping"
	case view.Paused:
		state = "paused"
	case speed < 1:
		state = "starting"
	}

	line := hudFPS.Render(fmt.Sprintf(" %.0f FPS ", h.fps)) +
		hudTitle.Render(" "+h.title+" ") +
		hudStats.Render(fmt.Sprintf(" %s rays  %s shadow  depth %d ",
			count(stats.Rays), count(stats.ShadowRays), stats.MaxDepth))
	uv.NewStyledString(line).Draw(scr, top)

	if h.flash != "" {
		return
	}
	modes := hudBase.Render(fmt.Sprintf(" %s │ %s │ %s ", view.Glyph, view.Palette, state))
	hint := hudHint.Render(" p pause  g glyph  c palette  s snapshot  ? hud  q quit ")
	uv.NewStyledString(modes + hint).Draw(scr, bottom)
}

// count formats n compactly: 950, 12.3k, 4.1M.
func count(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1e3)
	default:
		return fmt.Sprint(n)
	}
}
