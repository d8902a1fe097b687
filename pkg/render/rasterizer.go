package render

import (
	"math"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// NoPick is the pick buffer value of pixels no mesh covers.
const NoPick int32 = 0

// Vertex represents a vertex with all attributes needed for rasterization.
type Vertex struct {
	Position math3d.Vec3 // World position
	Normal   math3d.Vec3
	Color    Color // Lit vertex color
}

// Triangle represents a triangle to be rasterized.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer handles software triangle rasterization with a depth buffer
// and a pick buffer recording which mesh covers each pixel.
type Rasterizer struct {
	camera                 *Camera
	fb                     *Framebuffer
	zbuffer                []float64 // row-major
	pick                   []int32
	frustum                Frustum
	frustumDirty           bool
	CullingStats           CullingStats
	DisableBackfaceCulling bool

	// per-mesh scratch, indexed by vertex
	world  []math3d.Vec3
	normal []math3d.Vec3
	lit    []Color
	litFor []*material.Profile
	litOK  []bool
}

// CullingStats tracks frustum culling performance.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:       camera,
		fb:           fb,
		frustumDirty: true,
	}
	r.Resize()
	return r
}

// Resize resizes the depth and pick buffers to match the framebuffer.
func (r *Rasterizer) Resize() {
	if r.fb == nil {
		r.zbuffer, r.pick = nil, nil
		return
	}
	n := r.fb.Width * r.fb.Height
	r.zbuffer = make([]float64, n)
	r.pick = make([]int32, n)
	r.ClearDepth()
}

// Release drops all buffers. The rasterizer draws nothing afterwards.
func (r *Rasterizer) Release() {
	r.zbuffer, r.pick = nil, nil
	r.world, r.normal, r.lit, r.litFor, r.litOK = nil, nil, nil, nil, nil
	r.fb = nil
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth clears the depth and pick buffers (call before each frame).
func (r *Rasterizer) ClearDepth() {
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	// copy-doubling fill
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
	clear(r.pick)
}

// InvalidateFrustum marks the frustum as needing recalculation.
// Call this when the camera moves.
func (r *Rasterizer) InvalidateFrustum() {
	r.frustumDirty = true
}

// UpdateFrustum recalculates the frustum planes from the camera.
func (r *Rasterizer) UpdateFrustum() {
	if r.frustumDirty {
		r.frustum = r.camera.GetFrustum()
		r.frustumDirty = false
	}
}

// ResetCullingStats resets the culling statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// IsVisible tests if a world-space AABB is visible in the frustum.
func (r *Rasterizer) IsVisible(worldBounds AABB) bool {
	r.UpdateFrustum()
	return r.frustum.IntersectAABB(worldBounds)
}

// PickAt returns the id of the mesh drawn at pixel (x, y), or NoPick.
func (r *Rasterizer) PickAt(x, y int) int32 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() || len(r.pick) == 0 {
		return NoPick
	}
	return r.pick[y*r.Width()+x]
}

// getDepth returns the depth at (x, y).
func (r *Rasterizer) getDepth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// setDepth sets the depth at (x, y).
func (r *Rasterizer) setDepth(x, y int, z float64) {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return
	}
	r.zbuffer[y*r.Width()+x] = z
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float64 // Screen coordinates
	Z     float64 // NDC depth
	W     float64 // clip W for perspective-correct interpolation
	Color Color
}

// project converts tri to screen space. It reports false when any vertex
// lies behind the camera.
func (r *Rasterizer) project(tri Triangle) ([3]screenVertex, bool) {
	var sv [3]screenVertex
	viewProj := r.camera.ViewProjectionMatrix()
	w, h := float64(r.Width()), float64(r.Height())

	for i := range 3 {
		clipPos := viewProj.MulVec4(math3d.V4FromV3(tri.V[i].Position, 1))
		if clipPos.W <= 0 {
			return sv, false
		}
		invW := 1 / clipPos.W
		sv[i].X = (clipPos.X*invW + 1) * 0.5 * w
		sv[i].Y = (1 - clipPos.Y*invW) * 0.5 * h // Y flipped
		sv[i].Z = clipPos.Z * invW
		sv[i].W = clipPos.W
		sv[i].Color = tri.V[i].Color
	}
	return sv, true
}

// frontFacing reports whether a screen-space triangle winds
// counter-clockwise as seen by the viewer. Screen Y grows downward, so
// that is a negative signed area.
func frontFacing(sv [3]screenVertex) bool {
	e1x, e1y := sv[1].X-sv[0].X, sv[1].Y-sv[0].Y
	e2x, e2y := sv[2].X-sv[0].X, sv[2].Y-sv[0].Y
	return e1x*e2y-e1y*e2x < 0
}

// DrawTriangle rasterizes a triangle with Gouraud shading: vertex colors
// are interpolated perspective-correct across the face. Covered pixels
// record id in the pick buffer.
func (r *Rasterizer) DrawTriangle(tri Triangle, id int32) {
	if r.fb == nil {
		return
	}
	sv, ok := r.project(tri)
	if !ok {
		return
	}
	if !r.DisableBackfaceCulling && !frontFacing(sv) {
		return
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	var invW [3]float64
	for i := range 3 {
		invW[i] = 1 / sv[i].W
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z >= r.getDepth(x, y) {
				continue
			}

			w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
			sum := w0 + w1 + w2
			if sum == 0 {
				continue
			}
			pc := math3d.V3(w0/sum, w1/sum, w2/sum)

			r.setDepth(x, y, z)
			r.pick[y*r.Width()+x] = id
			r.fb.SetPixel(x, y, interpolateColor3(sv[0].Color, sv[1].Color, sv[2].Color, pc))
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

// interpolateColor3 interpolates between 3 colors using barycentric coords.
func interpolateColor3(c0, c1, c2 Color, bc math3d.Vec3) Color {
	return RGB(
		channel((float64(c0.R)*bc.X+float64(c1.R)*bc.Y+float64(c2.R)*bc.Z)/255),
		channel((float64(c0.G)*bc.X+float64(c1.G)*bc.Y+float64(c2.G)*bc.Z)/255),
		channel((float64(c0.B)*bc.X+float64(c1.B)*bc.Y+float64(c2.B)*bc.Z)/255),
	)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}

// MeshRenderer is the mesh surface the rasterizer needs. It keeps this
// package free of the models package.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
	GetFaceMaterial(i int) *material.Profile
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// tryFrustumCull reports whether a mesh with bounds lies fully outside
// the view. Meshes without bounds are never culled.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.IsVisible(NewAABB(lo, hi).Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

func (r *Rasterizer) reserve(n int) {
	if cap(r.world) < n {
		r.world = make([]math3d.Vec3, n)
		r.normal = make([]math3d.Vec3, n)
		r.lit = make([]Color, n)
		r.litFor = make([]*material.Profile, n)
		r.litOK = make([]bool, n)
	}
	r.world, r.normal = r.world[:n], r.normal[:n]
	r.lit, r.litFor, r.litOK = r.lit[:n], r.litFor[:n], r.litOK[:n]
	clear(r.litOK)
}

// DrawMesh renders a mesh placed by transform, lighting each vertex once
// per material with shader. It returns false when the mesh was culled.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, shader *Shader, id int32) bool {
	if r.fb == nil || r.tryFrustumCull(mesh, transform) {
		return false
	}

	n := mesh.VertexCount()
	r.reserve(n)
	normalMatrix := transform.NormalMatrix()
	for i := range n {
		pos, nrm, _ := mesh.GetVertex(i)
		r.world[i] = transform.MulVec3(pos)
		r.normal[i] = normalMatrix.MulVec3Dir(nrm).Normalize()
	}

	eye := r.camera.Position
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)
		mat := mesh.GetFaceMaterial(i)

		var tri Triangle
		for k, vi := range face {
			if !r.litOK[vi] || r.litFor[vi] != mat {
				r.lit[vi] = shader.Shade(r.world[vi], r.normal[vi], eye, mat)
				r.litFor[vi] = mat
				r.litOK[vi] = true
			}
			tri.V[k] = Vertex{Position: r.world[vi], Normal: r.normal[vi], Color: r.lit[vi]}
		}
		r.DrawTriangle(tri, id)
	}
	return true
}

// DrawMeshWireframe renders a mesh's edges in a single color without
// depth testing.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.fb == nil || r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.drawLine3D(v0, v1, color)
		r.drawLine3D(v1, v2, color)
		r.drawLine3D(v2, v0, color)
	}
}

// drawLine3D draws a 3D line (projected to screen).
func (r *Rasterizer) drawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()

	clipA := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	clipB := viewProj.MulVec4(math3d.V4FromV3(b, 1))
	if clipA.W <= 0 || clipB.W <= 0 {
		return
	}

	x0 := int((clipA.X/clipA.W + 1) * 0.5 * float64(r.Width()))
	y0 := int((1 - clipA.Y/clipA.W) * 0.5 * float64(r.Height()))
	x1 := int((clipB.X/clipB.W + 1) * 0.5 * float64(r.Width()))
	y1 := int((1 - clipB.Y/clipB.W) * 0.5 * float64(r.Height()))

	r.fb.DrawLine(x0, y0, x1, y1, color)
}
