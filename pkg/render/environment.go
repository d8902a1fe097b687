package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/taigrr/ringview/pkg/math3d"
)

// Softbox is a bright rectangular light source seen in reflections,
// approximated as a disc of angular radius Spread around Dir.
type Softbox struct {
	Dir       math3d.Vec3
	Spread    float64 // radians
	Intensity float64
}

// Environment is a distant lighting environment sampled by direction. It
// supplies reflections and refracted light; it is never drawn as a
// background.
type Environment struct {
	Name      string
	Zenith    math3d.Vec3 // linear RGB in [0, 1]
	Horizon   math3d.Vec3
	Ground    math3d.Vec3
	Softboxes []Softbox
}

// StudioEnvironment is a photo studio: light grey walls, a darker floor
// and three softboxes above the subject.
func StudioEnvironment() Environment {
	return Environment{
		Name:    "studio",
		Zenith:  math3d.V3(0.95, 0.95, 0.95),
		Horizon: math3d.V3(0.62, 0.62, 0.64),
		Ground:  math3d.V3(0.22, 0.22, 0.23),
		Softboxes: []Softbox{
			{Dir: math3d.V3(0, 1, 0.35).Normalize(), Spread: 0.45, Intensity: 1.6},
			{Dir: math3d.V3(1, 0.6, 0.4).Normalize(), Spread: 0.3, Intensity: 1.2},
			{Dir: math3d.V3(-1, 0.5, 0.2).Normalize(), Spread: 0.3, Intensity: 0.9},
		},
	}
}

// NeutralEnvironment is a flat grey surround without highlights.
func NeutralEnvironment() Environment {
	grey := math3d.V3(0.5, 0.5, 0.5)
	return Environment{Name: "neutral", Zenith: grey, Horizon: grey, Ground: grey}
}

// EnvironmentPreset returns a named environment.
func EnvironmentPreset(name string) (Environment, error) {
	switch strings.ToLower(name) {
	case "studio", "":
		return StudioEnvironment(), nil
	case "neutral":
		return NeutralEnvironment(), nil
	default:
		return Environment{}, fmt.Errorf("unknown environment preset %q", name)
	}
}

// Sample returns the radiance arriving from direction dir.
func (e Environment) Sample(dir math3d.Vec3) math3d.Vec3 {
	d := dir.Normalize()

	var base math3d.Vec3
	if d.Y >= 0 {
		base = e.Horizon.Lerp(e.Zenith, math.Sqrt(d.Y))
	} else {
		base = e.Horizon.Lerp(e.Ground, math.Sqrt(-d.Y))
	}

	for _, sb := range e.Softboxes {
		angle := math.Acos(math3d.Clamp(d.Dot(sb.Dir), -1, 1))
		if angle >= sb.Spread {
			continue
		}
		// Soft edge over the outer third of the box.
		t := math3d.Clamp((sb.Spread-angle)/(sb.Spread/3), 0, 1)
		base = base.Add(math3d.One3().Scale(sb.Intensity * t))
	}
	return base
}

// Backdrop is the screen-space gradient behind the ring.
type Backdrop struct {
	From color.RGBA // top-left
	To   color.RGBA // bottom-right
}

// DefaultBackdrop runs from light grey to white.
func DefaultBackdrop() Backdrop {
	return Backdrop{From: RGB(0xF8, 0xF8, 0xF8), To: RGB(0xFF, 0xFF, 0xFF)}
}

// Fill paints the gradient over the whole framebuffer.
func (b Backdrop) Fill(fb *Framebuffer) {
	if fb.Width == 0 || fb.Height == 0 {
		return
	}
	span := float64(fb.Width + fb.Height - 2)
	if span <= 0 {
		span = 1
	}
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.Pixels[y*fb.Width+x] = LerpColor(b.From, b.To, float64(x+y)/span)
		}
	}
}
