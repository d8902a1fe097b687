package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// Ring dimensions in world units.
const (
	BandRadius      = 1.0
	BandTube        = 0.15
	BandRadialSegs  = 16
	BandTubularSegs = 100

	GemRadius        = 0.3
	CrownHeight      = 0.6
	CrownY           = 0.4
	PavilionHeight   = 0.3
	PavilionY        = 0.1
	GemSides         = 8
	GemTwist         = math.Pi / 4
	AccentCount      = 12
	AccentOrbit      = 1.15
	AccentY          = 0.05
	AccentRadius     = 0.1
	AccentScale      = 0.15
	AccentSegs       = 16
	ProngCount       = 4
	ProngOrbit       = 0.25
	ProngY           = 0.2
	ProngRadius      = 0.02
	ProngHeight      = 0.4
	ProngSides       = 8
	prongStepDegrees = 90
)

// Assembly is the ring: one rigid hierarchy whose root yaw is what the
// rotation controller drives.
type Assembly struct {
	Root      *Node
	Finish    string
	Color     color.RGBA
	Materials material.Set

	band *Node
}

// AccentAngle returns the placement angle of accent i in radians.
func AccentAngle(i int) float64 {
	return float64(i) / AccentCount * 2 * math.Pi
}

// ProngAngle returns the placement angle of prong i in radians.
func ProngAngle(i int) float64 {
	return math3d.Deg2Rad(float64(i * prongStepDegrees))
}

// BuildRing constructs the ring scene graph for a finish name. Unknown
// finishes get the default gold tone. Construction cannot fail.
func BuildRing(finish string) *Assembly {
	mats := material.ForFinish(finish)

	band := NewLeaf("band", KindBand, math3d.NewTransform(), Primitive{
		Shape:       ShapeTorus,
		Radius:      BandRadius,
		Tube:        BandTube,
		RadialSegs:  BandRadialSegs,
		TubularSegs: BandTubularSegs,
	}, mats.Metal)

	// Crown and pavilion share the vertical axis and point away from
	// each other.
	gem := NewGroup("gem", math3d.NewTransform().WithRotation(math3d.V3(0, GemTwist, 0))).Add(
		NewLeaf("gem/crown", KindGem, math3d.At(math3d.V3(0, CrownY, 0)), Primitive{
			Shape:      ShapeCone,
			Radius:     GemRadius,
			Height:     CrownHeight,
			RadialSegs: GemSides,
		}, mats.Gem),
		NewLeaf("gem/pavilion", KindGem, math3d.At(math3d.V3(0, PavilionY, 0)).WithRotation(math3d.V3(math.Pi, 0, 0)), Primitive{
			Shape:      ShapeCone,
			Radius:     GemRadius,
			Height:     PavilionHeight,
			RadialSegs: GemSides,
		}, mats.Gem),
	)

	accents := NewGroup("accents", math3d.NewTransform())
	for i := range AccentCount {
		a := AccentAngle(i)
		pos := math3d.V3(math.Cos(a)*AccentOrbit, AccentY, math.Sin(a)*AccentOrbit)
		accents.Add(NewLeaf(fmt.Sprintf("accent/%d", i), KindAccent, math3d.At(pos).WithUniformScale(AccentScale), Primitive{
			Shape:       ShapeSphere,
			Radius:      AccentRadius,
			RadialSegs:  AccentSegs,
			TubularSegs: AccentSegs,
		}, mats.Accent))
	}

	prongs := NewGroup("prongs", math3d.NewTransform())
	for i := range ProngCount {
		a := ProngAngle(i)
		pos := math3d.V3(math.Cos(a)*ProngOrbit, ProngY, math.Sin(a)*ProngOrbit)
		prongs.Add(NewLeaf(fmt.Sprintf("prong/%d", i), KindProng, math3d.At(pos), Primitive{
			Shape:      ShapeCylinder,
			Radius:     ProngRadius,
			Height:     ProngHeight,
			RadialSegs: ProngSides,
		}, mats.Metal))
	}

	root := NewGroup("ring", math3d.NewTransform()).Add(band, gem, accents, prongs)

	return &Assembly{
		Root:      root,
		Finish:    finish,
		Color:     mats.Metal.BaseColor,
		Materials: mats,
		band:      band,
	}
}

// Band returns the band node, the surface that reacts to hover.
func (a *Assembly) Band() *Node {
	return a.band
}

// Yaw returns the assembly's rotation about the vertical axis.
func (a *Assembly) Yaw() float64 {
	return a.Root.Local.Rotation.Y
}

// SetYaw sets the assembly's rotation about the vertical axis.
func (a *Assembly) SetYaw(yaw float64) {
	a.Root.Local.Rotation.Y = yaw
}

// Walk visits every node with its world matrix, parent before child.
func (a *Assembly) Walk(fn VisitFunc) {
	a.Root.Walk(math3d.Identity(), fn)
}
