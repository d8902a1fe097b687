package render

import (
	"math"

	"github.com/taigrr/ringview/pkg/math3d"
)

// Default camera placement for the ring viewer.
const (
	DefaultFOVDegrees = 50.0
	DefaultNear       = 0.1
	DefaultFar        = 100.0
)

// DefaultCameraPosition is where the camera starts, looking at the origin.
var DefaultCameraPosition = math3d.V3(0, 2, 5)

// Camera is a perspective camera that always looks at Target.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64
	Far         float64

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
}

// NewCamera creates the viewer's default camera: 50 degree field of view,
// positioned at (0, 2, 5) looking at the origin.
func NewCamera() *Camera {
	return &Camera{
		Position:    DefaultCameraPosition,
		Target:      math3d.Zero3(),
		Up:          math3d.Up(),
		FOV:         math3d.Deg2Rad(DefaultFOVDegrees),
		AspectRatio: 16.0 / 9.0,
		Near:        DefaultNear,
		Far:         DefaultFar,
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition moves the camera without changing what it looks at.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetTarget sets the look-at point.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Target.Sub(c.Position).Normalize()
}

// Right returns the unit vector to the right of the view direction.
func (c *Camera) Right() math3d.Vec3 {
	return c.Forward().Cross(c.Up).Normalize()
}

// TrueUp returns the camera's up vector, orthogonal to Forward.
func (c *Camera) TrueUp() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.LookAt(c.Position, c.Target, c.Up)
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewDirty = false
		c.projDirty = false
	}
	return c.viewProjMatrix
}

// Ray returns the world-space direction through screen point (sx, sy) of
// a width x height viewport.
func (c *Camera) Ray(sx, sy float64, width, height int) math3d.Vec3 {
	ndcX := sx/float64(width)*2 - 1
	ndcY := 1 - sy/float64(height)*2
	tanHalf := math.Tan(c.FOV / 2)

	dir := c.Forward().
		Add(c.Right().Scale(ndcX * tanHalf * c.AspectRatio)).
		Add(c.TrueUp().Scale(ndcY * tanHalf))
	return dir.Normalize()
}

// worldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible).
func (c *Camera) worldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}
