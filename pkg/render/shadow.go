package render

import (
	"math"

	"github.com/taigrr/ringview/pkg/math3d"
)

// ContactShadow is a soft shadow on a horizontal plane under the ring. It
// is baked each frame from a top-down view of the geometry within Far
// units above the plane, blurred, and blended onto the framebuffer.
type ContactShadow struct {
	Y          float64 // plane height
	Opacity    float64
	Scale      float64 // side length of the square shadow area
	Blur       float64
	Far        float64 // geometry higher than this above the plane casts nothing
	Resolution int
	Color      Color

	grid    []float64
	scratch []float64
	points  []math3d.Vec3
}

// DefaultContactShadow returns the shadow under the viewer's ring.
func DefaultContactShadow() *ContactShadow {
	return &ContactShadow{
		Y:          -0.8,
		Opacity:    0.4,
		Scale:      10,
		Blur:       2,
		Far:        4,
		Resolution: 128,
		Color:      RGB(0, 0, 0),
	}
}

// Reset clears the baked shadow.
func (s *ContactShadow) Reset() {
	n := s.Resolution * s.Resolution
	if len(s.grid) != n {
		s.grid = make([]float64, n)
		s.scratch = make([]float64, n)
		return
	}
	clear(s.grid)
}

// Release drops the shadow buffers.
func (s *ContactShadow) Release() {
	s.grid, s.scratch, s.points = nil, nil, nil
}

// cell maps world x/z to grid coordinates.
func (s *ContactShadow) cell(p math3d.Vec3) (float64, float64) {
	res := float64(s.Resolution)
	return (p.X/s.Scale + 0.5) * res, (p.Z/s.Scale + 0.5) * res
}

// darkness is the shadow strength cast by a point at height y.
func (s *ContactShadow) darkness(y float64) float64 {
	h := y - s.Y
	if h < 0 || h > s.Far || s.Far <= 0 {
		return 0
	}
	return 1 - h/s.Far
}

func (s *ContactShadow) mark(ix, iy int, v float64) {
	if ix < 0 || iy < 0 || ix >= s.Resolution || iy >= s.Resolution {
		return
	}
	i := iy*s.Resolution + ix
	s.grid[i] = math.Max(s.grid[i], v)
}

// Accumulate adds the footprint of a placed mesh to the shadow.
func (s *ContactShadow) Accumulate(mesh MeshRenderer, transform math3d.Mat4) {
	if len(s.grid) == 0 {
		s.Reset()
	}

	n := mesh.VertexCount()
	if cap(s.points) < n {
		s.points = make([]math3d.Vec3, n)
	}
	world := s.points[:n]
	for i := range n {
		pos, _, _ := mesh.GetVertex(i)
		world[i] = transform.MulVec3(pos)
		// Splat vertices so features smaller than a cell still register.
		cx, cz := s.cell(world[i])
		s.mark(int(cx), int(cz), s.darkness(world[i].Y))
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		f := mesh.GetFace(i)
		a, b, c := world[f[0]], world[f[1]], world[f[2]]
		dark := s.darkness(min3(a.Y, b.Y, c.Y))
		if dark == 0 {
			continue
		}
		ax, az := s.cell(a)
		bx, bz := s.cell(b)
		cx, cz := s.cell(c)

		minX := max(0, int(math.Floor(min3(ax, bx, cx))))
		maxX := min(s.Resolution-1, int(math.Ceil(max3(ax, bx, cx))))
		minZ := max(0, int(math.Floor(min3(az, bz, cz))))
		maxZ := min(s.Resolution-1, int(math.Ceil(max3(az, bz, cz))))
		for iz := minZ; iz <= maxZ; iz++ {
			for ix := minX; ix <= maxX; ix++ {
				bc := barycentric(ax, az, bx, bz, cx, cz, float64(ix)+0.5, float64(iz)+0.5)
				// Edge-on triangles give NaN and fail these tests.
				if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
					s.mark(ix, iz, dark)
				}
			}
		}
	}
}

// blurRadius converts Blur to grid cells.
func (s *ContactShadow) blurRadius() int {
	return int(math.Round(s.Blur * float64(s.Resolution) / 64))
}

// Soften applies two separable box blur passes.
func (s *ContactShadow) Soften() {
	radius := s.blurRadius()
	if radius <= 0 || len(s.grid) == 0 {
		return
	}
	res := s.Resolution
	for range 2 {
		boxBlur(s.scratch, s.grid, res, radius, 1, res)
		boxBlur(s.grid, s.scratch, res, radius, res, 1)
	}
}

// boxBlur averages src into dst along one axis. step walks along the
// axis; stride moves between lines.
func boxBlur(dst, src []float64, res, radius, step, stride int) {
	for line := range res {
		base := line * stride
		for i := range res {
			var sum float64
			var count int
			for k := i - radius; k <= i+radius; k++ {
				if k < 0 || k >= res {
					continue
				}
				sum += src[base+k*step]
				count++
			}
			dst[base+i*step] = sum / float64(count)
		}
	}
}

// At returns the shadow strength at world x/z, already scaled by Opacity.
func (s *ContactShadow) At(x, z float64) float64 {
	if len(s.grid) == 0 {
		return 0
	}
	cx, cz := s.cell(math3d.V3(x, 0, z))
	ix, iz := int(math.Floor(cx)), int(math.Floor(cz))
	if ix < 0 || iz < 0 || ix >= s.Resolution || iz >= s.Resolution {
		return 0
	}
	return s.grid[iz*s.Resolution+ix] * s.Opacity
}

// Draw blends the shadow plane into fb as seen by cam. Draw it after the
// backdrop and before the ring.
func (s *ContactShadow) Draw(fb *Framebuffer, cam *Camera) {
	eye := cam.Position
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			dir := cam.Ray(float64(x)+0.5, float64(y)+0.5, fb.Width, fb.Height)
			if dir.Y == 0 {
				continue
			}
			t := (s.Y - eye.Y) / dir.Y
			if t <= 0 {
				continue
			}
			hit := eye.Add(dir.Scale(t))
			if a := s.At(hit.X, hit.Z); a > 0 {
				fb.BlendPixel(x, y, s.Color, a)
			}
		}
	}
}
