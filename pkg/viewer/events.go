package viewer

import (
	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/render"
	"go.uber.org/zap"
)

// event is one queued input, applied at the start of the next frame.
type event interface {
	apply(s *Shell)
}

type (
	hoverEvent      struct{ on bool }
	pointerEvent    struct{ col, row int }
	dragStartEvent  struct{}
	dragEndEvent    struct{}
	dragEvent       struct{ dx, dy float64 }
	pinchEvent      struct{ scale float64 }
	wheelEvent      struct{ steps float64 }
	toggleEvent     struct{}
	resetEvent      struct{}
	arStatusEvent   struct{ status ar.Status }
	finishEvent     struct{ finish string }
	autoRotateEvent struct{ on bool }
	wireframeEvent  struct{ on bool }
	resizeEvent     struct{ width, height int }
)

func (e hoverEvent) apply(s *Shell) { s.setHovered(e.on) }

func (e pointerEvent) apply(s *Shell) {
	x, y := render.CellToPixel(e.col, e.row)
	s.setHovered(s.renderer.PickAt(x, y) == bandID)
}

func (dragStartEvent) apply(s *Shell) { s.orbit.BeginOrbit() }
func (dragEndEvent) apply(s *Shell)   { s.orbit.EndOrbit() }

// Drag deltas are framebuffer pixels; a drag the height of the frame turns
// the camera a full revolution.
func (e dragEvent) apply(s *Shell) {
	h := float64(s.renderer.Framebuffer().Height)
	if h <= 0 {
		return
	}
	s.orbit.Rotate(fullTurn*e.dx/h, fullTurn*e.dy/h)
}

func (e pinchEvent) apply(s *Shell) { s.orbit.Zoom(e.scale) }
func (e wheelEvent) apply(s *Shell) { s.orbit.Wheel(e.steps) }
func (toggleEvent) apply(s *Shell)  { s.orbit.ToggleAutoRotate() }

func (e autoRotateEvent) apply(s *Shell) { s.orbit.SetAutoRotate(e.on) }

func (resetEvent) apply(s *Shell) {
	s.orbit.Reset()
	s.rotation.Reset()
	s.interaction.Hovered = false
}

func (e arStatusEvent) apply(s *Shell) { s.arStatus = e.status }

func (e finishEvent) apply(s *Shell) {
	if err := s.rebuild(e.finish); err != nil {
		s.logger.Error("rebuild ring", zap.Error(err))
	}
}

func (e wireframeEvent) apply(s *Shell) { s.renderer.Wireframe = e.on }

func (e resizeEvent) apply(s *Shell) {
	if e.width > 0 && e.height > 0 {
		s.renderer.Resize(e.width, e.height)
	}
}
