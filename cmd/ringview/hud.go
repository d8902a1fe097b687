package main

import (
	"fmt"
	"sync/atomic"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/render"
	"github.com/taigrr/ringview/pkg/viewer"
)

// banner is the instruction line under the ring.
const banner = "Click and drag to rotate • Scroll to zoom"

var (
	hudBg     = render.RGB(0, 0, 0)
	hudWhite  = render.RGB(255, 255, 255)
	hudGreen  = render.RGB(80, 250, 120)
	hudCyan   = render.RGB(80, 220, 250)
	hudGold   = render.RGB(0xD4, 0xAF, 0x37)
	hudDim    = render.RGB(110, 110, 110)
	bannerInk = render.RGB(70, 70, 70)
	bannerBg  = render.RGB(0xF8, 0xF8, 0xF8)
)

// HUD draws the overlay: the rotation toggle and instruction banner
// always, stats when toggled on.
type HUD struct {
	showStats atomic.Bool

	polyCount atomic.Int64
	arPose    atomic.Pointer[string]
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD with stats hidden.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// SetPolyCount sets the triangle count shown in the stats row.
func (h *HUD) SetPolyCount(n int) {
	h.polyCount.Store(int64(n))
}

// SetARPose sets the AR handoff pose shown in the stats rows.
func (h *HUD) SetARPose(o ar.Orbit) {
	label := arPoseLabel(o)
	h.arPose.Store(&label)
}

func arPoseLabel(o ar.Orbit) string {
	return fmt.Sprintf(" AR pose %s ", o)
}

// ToggleStats shows or hides the stats rows. Safe to call while rendering.
func (h *HUD) ToggleStats() {
	h.showStats.Store(!h.showStats.Load())
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the overlay onto scr, a width x height cell area.
func (h *HUD) Render(scr uv.Screen, width, height int, st viewer.State) {
	if width <= 0 || height <= 0 {
		return
	}

	toggle := fmt.Sprintf(" [%s] ", st.ToggleLabel())
	render.DrawText(scr, 1, height-1, toggle, hudGold, hudBg)

	col := max((width-len([]rune(banner)))/2, 0)
	render.DrawText(scr, col, height-1, banner, bannerInk, bannerBg)

	if s := st.AR.String(); s != "" {
		render.DrawText(scr, max(width-len(s)-2, 0), height-1, " "+s+" ", hudCyan, hudBg)
	}

	if !h.showStats.Load() {
		return
	}

	render.DrawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen, hudBg)

	title := " " + st.Finish + " "
	render.DrawText(scr, max((width-len(title))/2, 0), 0, title, hudWhite, hudBg)

	polys := fmt.Sprintf(" %d polys ", h.polyCount.Load())
	render.DrawText(scr, max(width-len(polys), 0), 0, polys, hudCyan, hudBg)

	wire := "[ ]"
	if st.Wireframe {
		wire = "[✓]"
	}
	mode := fmt.Sprintf(" %s X-Ray (wireframe)  %s ", wire, st.Rotation)
	render.DrawText(scr, 0, 1, mode, hudDim, hudBg)

	if pose := h.arPose.Load(); pose != nil {
		render.DrawText(scr, max(width-len(*pose), 0), 1, *pose, hudCyan, hudBg)
	}
}
