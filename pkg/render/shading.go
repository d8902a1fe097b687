package render

import (
	"image/color"
	"math"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/scene"
)

const (
	// pointFalloff scales distance attenuation for point and spot lights
	// so that lights a few units away still read on a terminal.
	pointFalloff = 0.1
	// DefaultExposure maps accumulated radiance into display range.
	DefaultExposure = 1.2
)

// Shader lights surface points with a light rig and an environment.
type Shader struct {
	Lights   []scene.Light
	Env      Environment
	Exposure float64
	fallback *material.Profile
}

// NewShader creates a shader for the given rig and environment.
func NewShader(lights []scene.Light, env Environment) *Shader {
	return &Shader{
		Lights:   lights,
		Env:      env,
		Exposure: DefaultExposure,
		fallback: material.Metal(material.ColorDefault),
	}
}

// Shade returns the display color of point p with normal n, seen from eye.
// A nil profile shades as the default gold.
func (s *Shader) Shade(p, n, eye math3d.Vec3, m *material.Profile) color.RGBA {
	return s.tonemap(s.Radiance(p, n, eye, m))
}

// Radiance returns the unclamped linear color leaving p toward eye.
func (s *Shader) Radiance(p, n, eye math3d.Vec3, m *material.Profile) math3d.Vec3 {
	if m == nil {
		m = s.fallback
	}

	base := colorToVec(m.BaseColor)
	v := eye.Sub(p).Normalize()
	nrm := n.Normalize()
	nDotV := nrm.Dot(v)
	if nDotV < 0 && m.Transmission > 0 {
		// Transmissive surfaces are two-sided.
		nrm = nrm.Negate()
		nDotV = -nDotV
	}
	nDotV = math.Max(nDotV, 1e-4)

	f0 := math3d.One3().Scale(dielectricF0(m.IOR)).Lerp(base, m.Metalness)
	diffuse := base.Scale((1 - m.Metalness) * (1 - m.Transmission))
	shininess := roughnessToShininess(m.Roughness)

	var out math3d.Vec3
	for _, l := range s.Lights {
		if l.Kind == scene.LightAmbient {
			out = out.Add(diffuse.Add(f0.Scale(0.25)).Scale(l.Intensity))
			continue
		}

		dir, radiance := incident(l, p)
		nDotL := nrm.Dot(dir)
		if nDotL <= 0 || radiance <= 0 {
			continue
		}
		h := dir.Add(v).Normalize()
		fresnel := schlick(f0, math.Max(h.Dot(v), 0))
		spec := math.Pow(math.Max(nrm.Dot(h), 0), shininess) * (shininess + 8) / (8 * math.Pi)

		out = out.Add(diffuse.Add(fresnel.Scale(spec)).Scale(nDotL * radiance))

		if m.Clearcoat > 0 {
			coat := math.Pow(math.Max(nrm.Dot(h), 0), 256) * 264 / (8 * math.Pi)
			out = out.Add(math3d.One3().Scale(0.04 * coat * m.Clearcoat * nDotL * radiance))
		}
	}

	// Environment reflection and, for gems, refracted environment light.
	r := v.Negate().Reflect(nrm)
	envFresnel := schlick(f0, nDotV)
	blur := 1 - 0.5*m.Roughness
	out = out.Add(s.Env.Sample(r).Mul(envFresnel).Scale(m.EnvIntensity * blur))

	if m.Transmission > 0 {
		t, ok := refract(v.Negate(), nrm, 1/math.Max(m.IOR, 1))
		if !ok {
			t = r
		}
		through := s.Env.Sample(t).Mul(base)
		keep := 1 - (envFresnel.X+envFresnel.Y+envFresnel.Z)/3
		out = out.Add(through.Scale(m.Transmission * keep * 0.5 * m.EnvIntensity))
	}

	if m.Clearcoat > 0 {
		coatF := schlick(math3d.V3(0.04, 0.04, 0.04), nDotV)
		out = out.Add(s.Env.Sample(r).Mul(coatF).Scale(m.Clearcoat))
	}

	return out
}

// incident returns the unit direction toward the light and the light's
// strength at p.
func incident(l scene.Light, p math3d.Vec3) (math3d.Vec3, float64) {
	if l.Position == nil {
		return math3d.Zero3(), 0
	}
	switch l.Kind {
	case scene.LightDirectional:
		return l.Direction().Negate(), l.Intensity
	case scene.LightPoint, scene.LightSpot:
		toLight := l.Position.Sub(p)
		dist := toLight.Len()
		if dist == 0 {
			return math3d.Zero3(), 0
		}
		dir := toLight.Scale(1 / dist)
		strength := l.Intensity * attenuation(dist, l.Decay)
		if l.Kind == scene.LightSpot {
			strength *= spotCone(l, dir)
		}
		return dir, strength
	default:
		return math3d.Zero3(), 0
	}
}

func attenuation(dist, decay float64) float64 {
	if decay <= 0 {
		return 1
	}
	return 1 / math.Max(1, pointFalloff*math.Pow(dist, decay))
}

// spotCone fades from full strength inside the penumbra to zero at the
// cone edge.
func spotCone(l scene.Light, toLight math3d.Vec3) float64 {
	cosTheta := toLight.Negate().Dot(l.Direction())
	outer := math.Cos(l.Angle)
	inner := math.Cos(l.Angle * (1 - math3d.Clamp(l.Penumbra, 0, 1)))
	if inner <= outer {
		if cosTheta >= outer {
			return 1
		}
		return 0
	}
	return smoothstep(outer, inner, cosTheta)
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := math3d.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// dielectricF0 is the normal-incidence reflectance for an index of
// refraction against air.
func dielectricF0(ior float64) float64 {
	if ior < 1 {
		ior = 1
	}
	r := (ior - 1) / (ior + 1)
	return r * r
}

// schlick is Schlick's Fresnel approximation.
func schlick(f0 math3d.Vec3, cosine float64) math3d.Vec3 {
	k := math.Pow(1-math3d.Clamp(cosine, 0, 1), 5)
	return f0.Add(math3d.One3().Sub(f0).Scale(k))
}

// refract bends unit vector uv through a surface with normal n using
// Snell's law. It reports false on total internal reflection.
func refract(uv, n math3d.Vec3, etaRatio float64) (math3d.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1)
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	if etaRatio*sinTheta > 1 {
		return math3d.Vec3{}, false
	}
	perp := uv.Add(n.Scale(cosTheta)).Scale(etaRatio)
	parallel := n.Scale(-math.Sqrt(math.Abs(1 - perp.LenSq())))
	return perp.Add(parallel), true
}

func roughnessToShininess(roughness float64) float64 {
	r := math3d.Clamp(roughness, 0, 1)
	return math3d.Clamp(2/(r*r+1e-4)-2, 8, 256)
}

func colorToVec(c color.RGBA) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// tonemap compresses radiance with an exponential curve.
func (s *Shader) tonemap(c math3d.Vec3) color.RGBA {
	exp := s.Exposure
	if exp <= 0 {
		exp = DefaultExposure
	}
	curve := func(v float64) float64 { return 1 - math.Exp(-v*exp) }
	return RGB(channel(curve(c.X)), channel(curve(c.Y)), channel(curve(c.Z)))
}
