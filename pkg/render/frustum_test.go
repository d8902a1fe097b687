package render

import (
	"math"
	"testing"

	"github.com/taigrr/ringview/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 1, 0), D: 0.8} // y = -0.8

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"on plane", math3d.V3(3, -0.8, 1), 0},
		{"ring center", math3d.V3(0, 0, 0), 0.8},
		{"below", math3d.V3(0, -2, 0), -1.2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	plane.Normalize()

	if math.Abs(plane.Normal.Len()-1) > 1e-9 {
		t.Errorf("normal length = %v, want 1", plane.Normal.Len())
	}
	if math.Abs(plane.D-2) > 1e-9 {
		t.Errorf("D = %v, want 2", plane.D)
	}

	zero := Plane{D: 3}
	zero.Normalize()
	if zero.D != 3 {
		t.Errorf("degenerate plane changed: %+v", zero)
	}
}

func TestAABBCornersAndTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -0.15, -0.15), math3d.V3(1, 1, 0.15))

	seen := map[math3d.Vec3]bool{}
	for _, c := range box.Corners() {
		if !box.ContainsPoint(c) {
			t.Errorf("corner %v outside its box", c)
		}
		seen[c] = true
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct corners, want 8", len(seen))
	}

	moved := box.Transform(math3d.Translate(math3d.V3(0, 2, 0)))
	if !moved.Center().ApproxEqual(box.Center().Add(math3d.V3(0, 2, 0)), 1e-12) {
		t.Errorf("translated center = %v", moved.Center())
	}

	// A quarter turn about Y swaps the X and Z extents.
	turned := box.Transform(math3d.RotateY(math.Pi / 2))
	if math.Abs(turned.Size().X-box.Size().Z) > 1e-9 || math.Abs(turned.Size().Z-box.Size().X) > 1e-9 {
		t.Errorf("rotated size = %v, from %v", turned.Size(), box.Size())
	}
}

func TestViewerFrustum(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	f := cam.GetFrustum()

	for i, plane := range f.Planes {
		if math.Abs(plane.Normal.Len()-1) > 1e-6 {
			t.Errorf("plane %d not normalized", i)
		}
	}

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"ring", NewAABB(math3d.V3(-1.2, -1.2, -1.2), math3d.V3(1.2, 1.2, 1.2)), true},
		{"behind camera", NewAABB(math3d.V3(-1, 3, 8), math3d.V3(1, 4, 10)), false},
		{"beyond far plane", NewAABB(math3d.V3(-1, -1, -300), math3d.V3(1, 1, -200)), false},
		{"far to the side", NewAABB(math3d.V3(50, -1, -1), math3d.V3(52, 1, 1)), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.want {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.want)
			}
		})
	}

	if !f.ContainsPoint(math3d.Zero3()) {
		t.Error("origin should be visible")
	}
	if f.ContainsPoint(cam.Position.Scale(2)) {
		t.Error("point behind camera should not be visible")
	}
	if !f.IntersectsSphere(math3d.V3(0, 0, 0), 1.15) {
		t.Error("accent orbit should be visible")
	}
	if f.IntersectsSphere(math3d.V3(0, 0, 20), 1) {
		t.Error("sphere behind camera should not be visible")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := NewCamera().GetFrustum()
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	trans := math3d.Translate(math3d.V3(0, 0.4, 0)).Mul(math3d.RotateY(0.5))

	for b.Loop() {
		_ = box.Transform(trans)
	}
}
