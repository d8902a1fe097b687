package render

import (
	"math"
	"testing"

	"github.com/taigrr/ringview/pkg/math3d"
)

// floorQuad lies flat at height y, facing up.
type floorQuad struct{ quadMesh }

func (m *floorQuad) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	p, _, _ := m.quadMesh.GetVertex(i)
	return math3d.V3(p.X, m.z, -p.Y), math3d.V3(0, 1, 0), math3d.Vec2{}
}

func TestContactShadowDefaults(t *testing.T) {
	s := DefaultContactShadow()
	if s.Y != -0.8 || s.Opacity != 0.4 || s.Scale != 10 || s.Blur != 2 || s.Far != 4 {
		t.Errorf("defaults = %+v", s)
	}
}

func TestContactShadowFootprint(t *testing.T) {
	s := DefaultContactShadow()
	s.Reset()
	s.Accumulate(&floorQuad{quadMesh{size: 2, z: 0}}, math3d.Identity())

	under := s.At(0, 0)
	// 0.8 above the plane with far 4 gives 0.8 darkness.
	if math.Abs(under-0.8*s.Opacity) > 1e-9 {
		t.Errorf("shadow under quad = %v, want %v", under, 0.8*s.Opacity)
	}
	if got := s.At(4, 4); got != 0 {
		t.Errorf("shadow away from quad = %v", got)
	}
	if got := s.At(50, 0); got != 0 {
		t.Errorf("shadow outside area = %v", got)
	}

	s.Soften()
	if s.At(0, 0) <= 0 || s.At(0, 0) > under+1e-9 {
		t.Errorf("softened center = %v, from %v", s.At(0, 0), under)
	}
	if s.At(1.1, 0) <= 0 {
		t.Error("blur should spread past the quad edge")
	}
}

func TestContactShadowIgnoresFarAndBelow(t *testing.T) {
	s := DefaultContactShadow()
	s.Reset()
	s.Accumulate(&floorQuad{quadMesh{size: 2, z: 5}}, math3d.Identity())
	s.Accumulate(&floorQuad{quadMesh{size: 2, z: -2}}, math3d.Identity())
	if got := s.At(0, 0); got != 0 {
		t.Errorf("shadow from out-of-range geometry = %v", got)
	}
}

func TestContactShadowDraw(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	white := RGB(255, 255, 255)
	fb.Clear(white)

	cam := NewCamera()
	cam.SetAspectRatio(1)
	s := DefaultContactShadow()
	s.Reset()
	s.Accumulate(&floorQuad{quadMesh{size: 2, z: 0}}, math3d.Identity())
	s.Draw(fb, cam)

	// The plane point under the origin lies below screen center.
	x, y, _, ok := cam.worldToScreen(math3d.V3(0, s.Y, 0), fb.Width, fb.Height)
	if !ok {
		t.Fatal("shadow center off screen")
	}
	if got := fb.GetPixel(int(x), int(y)); got == white {
		t.Error("no shadow blended under the ring")
	}
	if got := fb.GetPixel(0, 0); got != white {
		t.Errorf("top-left corner darkened: %v", got)
	}

	s.Release()
	if s.At(0, 0) != 0 {
		t.Error("released shadow still samples")
	}
}
