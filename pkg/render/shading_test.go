package render

import (
	"math"
	"testing"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/scene"
)

func testLights() []scene.Light {
	return scene.StudioRig()
}

func luminance(c Color) float64 {
	return 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
}

func TestShadeFacingKeyLightIsBrighter(t *testing.T) {
	s := NewShader(testLights(), StudioEnvironment())
	m := &material.Profile{
		Name:      "matte",
		Kind:      material.Metallic,
		BaseColor: RGB(200, 200, 200),
		Roughness: 1,
		IOR:       1.5,
	}
	eye := math3d.V3(0, 2, 5)

	toKey := math3d.V3(10, 10, 5).Normalize()
	lit := s.Shade(math3d.Zero3(), toKey, eye, m)
	away := s.Shade(math3d.Zero3(), toKey.Negate(), eye, m)

	if luminance(lit) <= luminance(away) {
		t.Errorf("surface facing key light %v not brighter than facing away %v", lit, away)
	}
}

func TestShadeKeepsFinishHue(t *testing.T) {
	s := NewShader(testLights(), StudioEnvironment())
	eye := math3d.V3(0, 2, 5)
	n := math3d.V3(0, 0.4, 1).Normalize()

	rose := s.Shade(math3d.Zero3(), n, eye, material.Metal(material.ColorRoseGold))
	if rose.R <= rose.B {
		t.Errorf("rose gold shaded as %v, want red above blue", rose)
	}
	yellow := s.Shade(math3d.Zero3(), n, eye, material.Metal(material.ColorYellowGold))
	if yellow.B >= yellow.G {
		t.Errorf("yellow gold shaded as %v, want green above blue", yellow)
	}
}

func TestShadeNilProfileUsesDefault(t *testing.T) {
	s := NewShader(testLights(), StudioEnvironment())
	eye := math3d.V3(0, 0, 5)
	n := math3d.V3(0, 0, 1)
	want := s.Shade(math3d.Zero3(), n, eye, material.Metal(material.ColorDefault))
	if got := s.Shade(math3d.Zero3(), n, eye, nil); got != want {
		t.Errorf("nil profile = %v, want %v", got, want)
	}
}

func TestShadeBackFaceIsLit(t *testing.T) {
	s := NewShader(testLights(), StudioEnvironment())
	eye := math3d.V3(0, 0, 5)
	got := s.Shade(math3d.Zero3(), math3d.V3(0, 0, -1), eye, material.Gem())
	if got == RGB(0, 0, 0) {
		t.Error("gem seen from behind shaded black")
	}
}

func TestSpotCone(t *testing.T) {
	spot := scene.StudioRig()[4]
	if spot.Kind != scene.LightSpot {
		t.Fatalf("rig[4] = %v, want spot", spot.Kind)
	}

	axis := spot.Direction().Negate()
	if got := spotCone(spot, axis); math.Abs(got-1) > 1e-9 {
		t.Errorf("on axis = %v, want 1", got)
	}

	outside := math3d.V3(1, 0, -1).Normalize()
	if got := spotCone(spot, outside); got != 0 {
		t.Errorf("outside cone = %v, want 0", got)
	}

	hard := spot
	hard.Penumbra = 0
	if got := spotCone(hard, axis); got != 1 {
		t.Errorf("hard edge on axis = %v", got)
	}
}

func TestAttenuation(t *testing.T) {
	if got := attenuation(100, 0); got != 1 {
		t.Errorf("no decay = %v", got)
	}
	if got := attenuation(1, 2); got != 1 {
		t.Errorf("close light = %v, want 1", got)
	}
	if attenuation(10, 2) >= attenuation(5, 2) {
		t.Error("attenuation should fall with distance")
	}
}

func TestDielectricF0(t *testing.T) {
	if got := dielectricF0(1.5); math.Abs(got-0.04) > 1e-9 {
		t.Errorf("glass F0 = %v, want 0.04", got)
	}
	if got := dielectricF0(material.IORDiamond); got <= 0.16 || got >= 0.18 {
		t.Errorf("diamond F0 = %v", got)
	}
	if got := dielectricF0(0.5); got != 0 {
		t.Errorf("sub-unity IOR = %v, want 0", got)
	}
}

func TestSchlick(t *testing.T) {
	f0 := math3d.V3(0.04, 0.04, 0.04)
	if got := schlick(f0, 1); !got.ApproxEqual(f0, 1e-12) {
		t.Errorf("normal incidence = %v", got)
	}
	if got := schlick(f0, 0); !got.ApproxEqual(math3d.One3(), 1e-12) {
		t.Errorf("grazing = %v", got)
	}
}

func TestRefract(t *testing.T) {
	n := math3d.V3(0, 1, 0)

	straight, ok := refract(math3d.V3(0, -1, 0), n, 1/material.IORDiamond)
	if !ok || !straight.ApproxEqual(math3d.V3(0, -1, 0), 1e-9) {
		t.Errorf("head-on refraction = %v, %v", straight, ok)
	}

	// Leaving diamond at a shallow angle is totally reflected.
	grazing := math3d.V3(1, -0.2, 0).Normalize()
	if _, ok := refract(grazing, n, material.IORDiamond); ok {
		t.Error("expected total internal reflection")
	}
}

func TestEnvironment(t *testing.T) {
	env := StudioEnvironment()
	up := env.Sample(math3d.V3(0, 1, 0))
	down := env.Sample(math3d.V3(0, -1, 0))
	if up.X <= down.X {
		t.Errorf("studio ceiling %v should be brighter than floor %v", up, down)
	}

	// Softbox highlights add on top of the gradient.
	box := env.Softboxes[0]
	if env.Sample(box.Dir).X <= env.Horizon.X {
		t.Error("softbox center not brighter than horizon")
	}

	if _, err := EnvironmentPreset("Studio"); err != nil {
		t.Errorf("studio preset: %v", err)
	}
	if _, err := EnvironmentPreset("sunset"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestRoughnessToShininess(t *testing.T) {
	if roughnessToShininess(0) != 256 {
		t.Error("mirror should hit the shininess cap")
	}
	if roughnessToShininess(1) != 8 {
		t.Error("fully rough should hit the floor")
	}
	if roughnessToShininess(0.1) <= roughnessToShininess(0.5) {
		t.Error("smoother surfaces should be shinier")
	}
}
