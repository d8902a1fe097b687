package controls

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/ringview/pkg/math3d"
)

// Orbit defaults for the ring viewer.
const (
	DefaultMinDistance     = 3.0
	DefaultMaxDistance     = 8.0
	DefaultAutoRotateSpeed = 2.0
	DefaultRotateSpeed     = 1.0
	DefaultZoomSpeed       = 1.0

	// polarMargin keeps the camera off the poles where the up vector
	// degenerates.
	polarMargin = 1e-3
	// dollyBase is the distance factor for one wheel step at ZoomSpeed 1.
	dollyBase = 0.95
)

// OrbitConfig configures an OrbitAdapter. Panning is not configurable;
// the camera always looks at Target.
type OrbitConfig struct {
	Target          math3d.Vec3
	EnableZoom      bool
	MinDistance     float64
	MaxDistance     float64
	MinPolar        float64
	MaxPolar        float64
	AutoRotate      bool
	AutoRotateSpeed float64 // one revolution every 60/speed seconds
	RotateSpeed     float64 // radians per unit of drag
	ZoomSpeed       float64
	Damping         bool
	FPS             int
}

// DefaultOrbitConfig returns the viewer's orbit settings.
func DefaultOrbitConfig() OrbitConfig {
	return OrbitConfig{
		EnableZoom:      true,
		MinDistance:     DefaultMinDistance,
		MaxDistance:     DefaultMaxDistance,
		MinPolar:        0,
		MaxPolar:        math.Pi,
		AutoRotate:      true,
		AutoRotateSpeed: DefaultAutoRotateSpeed,
		RotateSpeed:     DefaultRotateSpeed,
		ZoomSpeed:       DefaultZoomSpeed,
		Damping:         true,
		FPS:             60,
	}
}

// Spherical is a camera placement around the orbit target.
type Spherical struct {
	Distance float64
	Polar    float64 // from +Y
	Azimuth  float64 // around +Y from +Z
}

// orbitAxis damps one spherical coordinate toward its goal.
type orbitAxis struct {
	value, velocity float64
}

// OrbitAdapter turns drag, pinch and wheel gestures into an orbiting
// camera placement. Results are clamped; gestures carrying NaN are ignored.
type OrbitAdapter struct {
	cfg      OrbitConfig
	home     Spherical
	goal     Spherical
	spring   harmonica.Spring
	axes     [3]orbitAxis // distance, polar, azimuth
	orbiting bool
}

// NewOrbitAdapter places the camera at position, looking at cfg.Target.
func NewOrbitAdapter(cfg OrbitConfig, position math3d.Vec3) *OrbitAdapter {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.MaxPolar <= cfg.MinPolar {
		cfg.MinPolar, cfg.MaxPolar = 0, math.Pi
	}

	o := &OrbitAdapter{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FPS), 6.0, 1.0),
	}
	d, polar, az := position.Sub(cfg.Target).ToSpherical()
	o.home = o.clamp(Spherical{Distance: d, Polar: polar, Azimuth: az})
	o.jump(o.home)
	return o
}

func (o *OrbitAdapter) jump(s Spherical) {
	o.goal = s
	o.axes = [3]orbitAxis{{value: s.Distance}, {value: s.Polar}, {value: s.Azimuth}}
}

func (o *OrbitAdapter) clamp(s Spherical) Spherical {
	s.Distance = math3d.Clamp(s.Distance, o.cfg.MinDistance, o.cfg.MaxDistance)
	s.Polar = math3d.Clamp(s.Polar, o.cfg.MinPolar+polarMargin, o.cfg.MaxPolar-polarMargin)
	return s
}

// Config returns the adapter's configuration.
func (o *OrbitAdapter) Config() OrbitConfig {
	return o.cfg
}

// BeginOrbit marks a drag as in progress; auto-rotation holds meanwhile.
func (o *OrbitAdapter) BeginOrbit() {
	o.orbiting = true
}

// EndOrbit marks the drag as finished.
func (o *OrbitAdapter) EndOrbit() {
	o.orbiting = false
}

// Orbiting reports whether a drag is in progress.
func (o *OrbitAdapter) Orbiting() bool {
	return o.orbiting
}

// Rotate drags the camera: dx turns around the target, dy tilts it.
func (o *OrbitAdapter) Rotate(dx, dy float64) {
	if !math3d.Finite(dx, dy) {
		return
	}
	o.goal.Azimuth -= dx * o.cfg.RotateSpeed
	o.goal.Polar -= dy * o.cfg.RotateSpeed
	o.goal = o.clamp(o.goal)
}

// Zoom applies a pinch scale; values above 1 move the camera closer.
// Non-positive scales are treated as the strongest zoom out.
func (o *OrbitAdapter) Zoom(scale float64) {
	if !o.cfg.EnableZoom || math.IsNaN(scale) {
		return
	}
	if scale <= 0 {
		o.SetDistance(o.cfg.MaxDistance)
		return
	}
	o.SetDistance(o.goal.Distance / scale)
}

// Wheel applies scroll steps; positive steps move the camera closer.
func (o *OrbitAdapter) Wheel(steps float64) {
	if !o.cfg.EnableZoom || !math3d.Finite(steps) {
		return
	}
	o.SetDistance(o.goal.Distance * math.Pow(dollyBase, steps*o.cfg.ZoomSpeed))
}

// SetDistance requests a camera distance, clamped to the configured range.
func (o *OrbitAdapter) SetDistance(d float64) {
	if math.IsNaN(d) {
		return
	}
	o.goal.Distance = d
	o.goal = o.clamp(o.goal)
}

// Pan is disabled for the ring viewer; it never moves the target and
// always reports false.
func (o *OrbitAdapter) Pan(dx, dy float64) bool {
	return false
}

// PanEnabled reports whether panning is available. It never is.
func (o *OrbitAdapter) PanEnabled() bool {
	return false
}

// AutoRotate reports whether the camera circles on its own.
func (o *OrbitAdapter) AutoRotate() bool {
	return o.cfg.AutoRotate
}

// SetAutoRotate sets the auto-rotate flag.
func (o *OrbitAdapter) SetAutoRotate(on bool) {
	o.cfg.AutoRotate = on
}

// ToggleAutoRotate flips the auto-rotate flag and returns the new value.
func (o *OrbitAdapter) ToggleAutoRotate() bool {
	o.cfg.AutoRotate = !o.cfg.AutoRotate
	return o.cfg.AutoRotate
}

// autoRotateAngle is the azimuth covered in dt seconds.
func (o *OrbitAdapter) autoRotateAngle(dt float64) float64 {
	return 2 * math.Pi / 60 * o.cfg.AutoRotateSpeed * dt
}

// Update advances auto-rotation and eases the camera toward its goal.
func (o *OrbitAdapter) Update(dt float64) {
	if !math3d.Finite(dt) {
		return
	}
	if o.cfg.AutoRotate && !o.orbiting {
		o.goal.Azimuth -= o.autoRotateAngle(dt)
	}

	goals := [3]float64{o.goal.Distance, o.goal.Polar, o.goal.Azimuth}
	for i := range o.axes {
		if !o.cfg.Damping {
			o.axes[i] = orbitAxis{value: goals[i]}
			continue
		}
		a := &o.axes[i]
		a.value, a.velocity = o.spring.Update(a.value, a.velocity, goals[i])
	}
}

// Current returns the displayed camera placement, always within bounds.
func (o *OrbitAdapter) Current() Spherical {
	return o.clamp(Spherical{
		Distance: o.axes[0].value,
		Polar:    o.axes[1].value,
		Azimuth:  o.axes[2].value,
	})
}

// Distance returns the displayed camera distance.
func (o *OrbitAdapter) Distance() float64 {
	return o.Current().Distance
}

// CameraPosition returns the camera's world position.
func (o *OrbitAdapter) CameraPosition() math3d.Vec3 {
	c := o.Current()
	return o.cfg.Target.Add(math3d.FromSpherical(c.Distance, c.Polar, c.Azimuth))
}

// Target returns the fixed look-at point.
func (o *OrbitAdapter) Target() math3d.Vec3 {
	return o.cfg.Target
}

// Reset jumps back to the initial placement without easing.
func (o *OrbitAdapter) Reset() {
	o.orbiting = false
	o.jump(o.home)
}
