package scene

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

const tol = 1e-9

func TestBuildRingCounts(t *testing.T) {
	ring := BuildRing("18K Yellow Gold")

	assert.Equal(t, 1, ring.Root.Count(KindBand))
	assert.Equal(t, 2, ring.Root.Count(KindGem))
	assert.Equal(t, AccentCount, ring.Root.Count(KindAccent))
	assert.Equal(t, ProngCount, ring.Root.Count(KindProng))
	assert.Len(t, ring.Root.Leaves(), 1+2+12+4)
}

func TestBandPrimitive(t *testing.T) {
	band := BuildRing("Platinum").Band()
	require.NotNil(t, band)
	assert.Equal(t, ShapeTorus, band.Primitive.Shape)
	assert.Equal(t, 1.0, band.Primitive.Radius)
	assert.Equal(t, 0.15, band.Primitive.Tube)
}

func TestAccentPlacement(t *testing.T) {
	ring := BuildRing("18K White Gold")

	for i := range AccentCount {
		wantDeg := float64(i * 30)
		assert.InDelta(t, wantDeg, math3d.Rad2Deg(AccentAngle(i)), tol, "accent %d angle", i)

		node := ring.Root.Find(accentName(i))
		require.NotNil(t, node, "accent %d", i)
		p := node.WorldMatrix().Translation()
		assert.InDelta(t, AccentOrbit, math.Hypot(p.X, p.Z), tol, "accent %d radius", i)
		assert.InDelta(t, AccentY, p.Y, tol)
		assert.Equal(t, ShapeSphere, node.Primitive.Shape)
		assert.Equal(t, math3d.V3(AccentScale, AccentScale, AccentScale), node.Local.Scale)
	}
}

func TestProngPlacement(t *testing.T) {
	ring := BuildRing("18K White Gold")
	want := []float64{0, 90, 180, 270}

	for i := range ProngCount {
		assert.InDelta(t, want[i], math3d.Rad2Deg(ProngAngle(i)), tol)

		node := ring.Root.Find(prongName(i))
		require.NotNil(t, node)
		p := node.WorldMatrix().Translation()
		assert.InDelta(t, ProngOrbit, math.Hypot(p.X, p.Z), tol)
		assert.InDelta(t, math.Cos(ProngAngle(i))*ProngOrbit, p.X, tol)
		assert.InDelta(t, math.Sin(ProngAngle(i))*ProngOrbit, p.Z, tol)
		assert.Equal(t, ShapeCylinder, node.Primitive.Shape)
	}
}

func TestGemConesOpposed(t *testing.T) {
	ring := BuildRing("")
	crown := ring.Root.Find("gem/crown")
	pavilion := ring.Root.Find("gem/pavilion")
	require.NotNil(t, crown)
	require.NotNil(t, pavilion)

	up := crown.WorldMatrix().MulVec3Dir(math3d.Up())
	down := pavilion.WorldMatrix().MulVec3Dir(math3d.Up())
	assert.InDelta(t, -1, up.Normalize().Dot(down.Normalize()), tol, "cones point away from each other")

	// Both share the vertical axis through the origin.
	for _, n := range []*Node{crown, pavilion} {
		p := n.WorldMatrix().Translation()
		assert.InDelta(t, 0, p.X, tol)
		assert.InDelta(t, 0, p.Z, tol)
	}

	gem := crown.Parent()
	assert.InDelta(t, math.Pi/4, gem.Local.Rotation.Y, tol)
}

func TestFinishColor(t *testing.T) {
	assert.Equal(t, material.ColorRoseGold, BuildRing("18K Rose Gold").Color)
	assert.Equal(t, material.ColorDefault, BuildRing("Unknown").Color)
}

func TestLeavesShareMaterials(t *testing.T) {
	ring := BuildRing("18K Rose Gold")
	band := ring.Band()
	prong := ring.Root.Find(prongName(2))
	assert.Same(t, band.Material, prong.Material)
	for _, leaf := range ring.Root.Leaves() {
		assert.NotNil(t, leaf.Material, leaf.Name)
	}
}

func TestWalkParentBeforeChild(t *testing.T) {
	ring := BuildRing("Platinum")
	ring.SetYaw(math.Pi / 2)

	seen := map[*Node]bool{}
	ring.Walk(func(n *Node, world math3d.Mat4, depth int) bool {
		if p := n.Parent(); p != nil {
			assert.True(t, seen[p], "%s visited before its parent", n.Name)
		} else {
			assert.Zero(t, depth)
		}
		seen[n] = true

		// The world matrix handed to the visitor matches the one composed
		// from the node upward.
		got := world.MulVec3(math3d.V3(1, 2, 3))
		want := n.WorldMatrix().MulVec3(math3d.V3(1, 2, 3))
		assert.True(t, got.ApproxEqual(want, tol), n.Name)
		return true
	})
	assert.Len(t, seen, 1+1+1+2+1+12+1+4)
}

func TestYawRotatesChildren(t *testing.T) {
	ring := BuildRing("Platinum")
	accent := ring.Root.Find(accentName(0))
	before := accent.WorldMatrix().Translation()
	assert.InDelta(t, AccentOrbit, before.X, tol)

	ring.SetYaw(math.Pi / 2)
	after := accent.WorldMatrix().Translation()
	assert.InDelta(t, 0, after.X, tol)
	assert.InDelta(t, -AccentOrbit, after.Z, tol)
	assert.Equal(t, math.Pi/2, ring.Yaw())
}

func TestAddMovesOwnership(t *testing.T) {
	a := NewGroup("a", math3d.NewTransform())
	b := NewGroup("b", math3d.NewTransform())
	leaf := NewLeaf("leaf", KindProng, math3d.NewTransform(), Primitive{}, nil)

	a.Add(leaf)
	b.Add(leaf)
	assert.Empty(t, a.Children)
	assert.Same(t, b, leaf.Parent())
}

func TestNodeIDsUnique(t *testing.T) {
	ids := map[string]bool{}
	BuildRing("Platinum").Walk(func(n *Node, _ math3d.Mat4, _ int) bool {
		assert.False(t, ids[n.ID.String()], "duplicate id")
		ids[n.ID.String()] = true
		return true
	})
}

func TestStudioRig(t *testing.T) {
	rig := StudioRig()
	require.NoError(t, ValidateLights(rig))

	kinds := map[LightKind]int{}
	for _, l := range rig {
		kinds[l.Kind]++
	}
	assert.Equal(t, 1, kinds[LightAmbient])
	assert.Equal(t, 2, kinds[LightDirectional])
	assert.Equal(t, 1, kinds[LightPoint])
	assert.Equal(t, 1, kinds[LightSpot])
	assert.Len(t, ShadowCasters(rig), 2)

	assert.Nil(t, rig[0].Position)
	assert.Equal(t, math3d.Zero3(), rig[0].Direction())
	assert.True(t, rig[1].Direction().ApproxEqual(math3d.V3(-10, -10, -5).Normalize(), tol))
}

func TestValidateLights(t *testing.T) {
	pos := math3d.V3(1, 1, 1)
	assert.Error(t, ValidateLights([]Light{{Name: "neg", Kind: LightAmbient, Intensity: -1}}))
	assert.Error(t, ValidateLights([]Light{{Name: "nopos", Kind: LightPoint, Intensity: 1}}))
	assert.Error(t, ValidateLights([]Light{{Name: "amb", Kind: LightAmbient, Position: &pos}}))
}

func accentName(i int) string { return "accent/" + strconv.Itoa(i) }
func prongName(i int) string  { return "prong/" + strconv.Itoa(i) }
