package render

import (
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/scene"
)

// Instance is one placed mesh. ID is written to the pick buffer and must
// not be NoPick for meshes that should be hit-testable.
type Instance struct {
	Mesh      MeshRenderer
	Transform math3d.Mat4
	ID        int32
}

// Renderer draws a complete frame: backdrop, contact shadow and the
// shaded instances.
type Renderer struct {
	Camera    *Camera
	Shader    *Shader
	Backdrop  Backdrop
	Shadow    *ContactShadow // nil disables the shadow
	Wireframe bool
	WireColor Color

	fb   *Framebuffer
	rast *Rasterizer
}

// NewRenderer creates a renderer with a width x height pixel framebuffer.
func NewRenderer(width, height int, lights []scene.Light, env Environment) *Renderer {
	cam := NewCamera()
	fb := NewFramebuffer(width, height)
	r := &Renderer{
		Camera:    cam,
		Shader:    NewShader(lights, env),
		Backdrop:  DefaultBackdrop(),
		Shadow:    DefaultContactShadow(),
		WireColor: RGB(0, 255, 128),
		fb:        fb,
		rast:      NewRasterizer(cam, fb),
	}
	r.updateAspect()
	return r
}

func (r *Renderer) updateAspect() {
	if r.fb.Height > 0 {
		r.Camera.SetAspectRatio(float64(r.fb.Width) / float64(r.fb.Height))
	}
}

// Resize changes the framebuffer size.
func (r *Renderer) Resize(width, height int) {
	r.fb.Resize(width, height)
	r.rast.Resize()
	r.rast.InvalidateFrustum()
	r.updateAspect()
}

// Framebuffer returns the frame drawn by the last Render.
func (r *Renderer) Framebuffer() *Framebuffer {
	return r.fb
}

// Stats returns culling statistics for the last frame.
func (r *Renderer) Stats() CullingStats {
	return r.rast.CullingStats
}

// PickAt returns the instance id drawn at pixel (x, y), or NoPick.
func (r *Renderer) PickAt(x, y int) int32 {
	return r.rast.PickAt(x, y)
}

// Render draws one frame of instances from the current camera.
func (r *Renderer) Render(instances []Instance) {
	if r.fb.Width == 0 || r.fb.Height == 0 {
		return
	}
	r.rast.InvalidateFrustum()
	r.rast.ResetCullingStats()
	r.rast.ClearDepth()
	r.Backdrop.Fill(r.fb)

	if r.Shadow != nil && !r.Wireframe {
		r.Shadow.Reset()
		for _, inst := range instances {
			r.Shadow.Accumulate(inst.Mesh, inst.Transform)
		}
		r.Shadow.Soften()
		r.Shadow.Draw(r.fb, r.Camera)
	}

	for _, inst := range instances {
		if r.Wireframe {
			r.rast.DrawMeshWireframe(inst.Mesh, inst.Transform, r.WireColor)
			continue
		}
		r.rast.DrawMesh(inst.Mesh, inst.Transform, r.Shader, inst.ID)
	}
}

// Release frees the framebuffer and all rasterizer and shadow buffers.
// Render draws nothing afterwards.
func (r *Renderer) Release() {
	r.rast.Release()
	r.fb.Release()
	if r.Shadow != nil {
		r.Shadow.Release()
	}
}
