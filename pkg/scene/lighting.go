package scene

import (
	"fmt"

	"github.com/taigrr/ringview/pkg/math3d"
)

// LightKind is the kind of a light source.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightDirectional
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightAmbient:
		return "ambient"
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return fmt.Sprintf("LightKind(%d)", int(k))
	}
}

// Light is one source in the rig. Position is nil for ambient light.
// Directional lights shine from Position toward Target; spots use Angle
// (half cone, radians) and Penumbra (0 hard edge, 1 fully soft).
type Light struct {
	Name        string
	Kind        LightKind
	Position    *math3d.Vec3
	Target      math3d.Vec3
	Intensity   float64
	CastsShadow bool
	Angle       float64
	Penumbra    float64
	Decay       float64 // point and spot distance falloff exponent
}

// Direction returns the unit vector from the light toward its target.
// Ambient lights have no direction.
func (l Light) Direction() math3d.Vec3 {
	if l.Position == nil {
		return math3d.Zero3()
	}
	return l.Target.Sub(*l.Position).Normalize()
}

func ptr(v math3d.Vec3) *math3d.Vec3 {
	return &v
}

// StudioRig returns the fixed lighting for the ring viewer: one ambient,
// a key and a fill directional, an overhead point and a shadow-casting
// spot.
func StudioRig() []Light {
	return []Light{
		{
			Name:      "ambient",
			Kind:      LightAmbient,
			Intensity: 0.5,
		},
		{
			Name:        "key",
			Kind:        LightDirectional,
			Position:    ptr(math3d.V3(10, 10, 5)),
			Intensity:   1,
			CastsShadow: true,
		},
		{
			Name:      "fill",
			Kind:      LightDirectional,
			Position:  ptr(math3d.V3(-10, -10, -5)),
			Intensity: 0.3,
		},
		{
			Name:      "top",
			Kind:      LightPoint,
			Position:  ptr(math3d.V3(0, 5, 0)),
			Intensity: 0.5,
			Decay:     2,
		},
		{
			Name:        "spot",
			Kind:        LightSpot,
			Position:    ptr(math3d.V3(5, 5, 5)),
			Intensity:   1,
			CastsShadow: true,
			Angle:       0.3,
			Penumbra:    1,
			Decay:       2,
		},
	}
}

// ShadowCasters returns the lights with CastsShadow set.
func ShadowCasters(lights []Light) []Light {
	var out []Light
	for _, l := range lights {
		if l.CastsShadow {
			out = append(out, l)
		}
	}
	return out
}

// ValidateLights checks intensities and that every non-ambient light has
// a position.
func ValidateLights(lights []Light) error {
	for _, l := range lights {
		if l.Intensity < 0 {
			return fmt.Errorf("light %q: negative intensity %g", l.Name, l.Intensity)
		}
		if l.Kind != LightAmbient && l.Position == nil {
			return fmt.Errorf("light %q: %v light needs a position", l.Name, l.Kind)
		}
		if l.Kind == LightAmbient && l.Position != nil {
			return fmt.Errorf("light %q: ambient light has a position", l.Name)
		}
	}
	return nil
}
