package material

import (
	"errors"
	"fmt"
	"image/color"
)

// Kind is the semantic surface class of a profile.
type Kind int

const (
	// Metallic surfaces reflect their base color and transmit nothing.
	Metallic Kind = iota
	// Transmissive surfaces are clear dielectrics such as diamond.
	Transmissive
)

func (k Kind) String() string {
	switch k {
	case Metallic:
		return "metallic"
	case Transmissive:
		return "dielectric-transmissive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IORDiamond is the refractive index used for every stone.
const IORDiamond = 2.4

// maxTransmissiveMetalness is how much metalness a transmissive profile
// tolerates before it stops counting as a dielectric.
const maxTransmissiveMetalness = 0.1

// ErrInvalidProfile is wrapped by every Validate failure.
var ErrInvalidProfile = errors.New("invalid material profile")

// Profile is a physically based surface description shared by the scene
// nodes that reference it.
type Profile struct {
	Name         string
	Kind         Kind
	BaseColor    color.RGBA
	Metalness    float64 // 0 = dielectric, 1 = metal
	Roughness    float64 // 0 = mirror, 1 = fully diffuse
	Transmission float64 // fraction of light passing through
	IOR          float64 // index of refraction, >= 1
	Thickness    float64 // volume thickness for transmission
	Clearcoat    float64 // extra specular layer strength
	EnvIntensity float64 // environment reflection multiplier
}

// Metal returns the polished metal profile used for band and prongs.
func Metal(c color.RGBA) *Profile {
	return &Profile{
		Name:         "metal",
		Kind:         Metallic,
		BaseColor:    c,
		Metalness:    0.9,
		Roughness:    0.1,
		IOR:          1.5,
		EnvIntensity: 1,
	}
}

// Gem returns the profile for the primary stone.
func Gem() *Profile {
	return &Profile{
		Name:         "gem",
		Kind:         Transmissive,
		BaseColor:    ColorGem,
		Metalness:    0.1,
		Roughness:    0,
		Transmission: 0.9,
		IOR:          IORDiamond,
		Thickness:    0.5,
		Clearcoat:    1,
		EnvIntensity: 2,
	}
}

// Accent returns the profile for the small stones around the band.
func Accent() *Profile {
	return &Profile{
		Name:         "accent",
		Kind:         Transmissive,
		BaseColor:    ColorGem,
		Metalness:    0,
		Roughness:    0,
		Transmission: 0.95,
		IOR:          IORDiamond,
		Clearcoat:    1,
		EnvIntensity: 2,
	}
}

// Validate checks parameter ranges and the kind invariants: metallic
// profiles transmit nothing and transmissive profiles are near-zero metal.
func (p *Profile) Validate() error {
	unit := []struct {
		name string
		v    float64
	}{
		{"metalness", p.Metalness},
		{"roughness", p.Roughness},
		{"transmission", p.Transmission},
		{"clearcoat", p.Clearcoat},
	}
	for _, u := range unit {
		if u.v < 0 || u.v > 1 {
			return fmt.Errorf("%w: %s %s=%g outside [0,1]", ErrInvalidProfile, p.Name, u.name, u.v)
		}
	}
	if p.IOR < 1 {
		return fmt.Errorf("%w: %s ior=%g below 1", ErrInvalidProfile, p.Name, p.IOR)
	}
	if p.EnvIntensity < 0 {
		return fmt.Errorf("%w: %s env intensity=%g negative", ErrInvalidProfile, p.Name, p.EnvIntensity)
	}

	switch p.Kind {
	case Metallic:
		if p.Transmission != 0 {
			return fmt.Errorf("%w: metallic %s has transmission %g", ErrInvalidProfile, p.Name, p.Transmission)
		}
	case Transmissive:
		if p.Metalness > maxTransmissiveMetalness {
			return fmt.Errorf("%w: transmissive %s has metalness %g", ErrInvalidProfile, p.Name, p.Metalness)
		}
	default:
		return fmt.Errorf("%w: %s has unknown kind %v", ErrInvalidProfile, p.Name, p.Kind)
	}
	return nil
}

// Set is the group of profiles one ring shares across its nodes.
type Set struct {
	Metal  *Profile
	Gem    *Profile
	Accent *Profile
}

// ForFinish builds the profile set for a finish name.
func ForFinish(finish string) Set {
	return Set{
		Metal:  Metal(ResolveColor(finish)),
		Gem:    Gem(),
		Accent: Accent(),
	}
}

// All returns the profiles in a stable order.
func (s Set) All() []*Profile {
	return []*Profile{s.Metal, s.Gem, s.Accent}
}
