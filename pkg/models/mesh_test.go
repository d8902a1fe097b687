package models

import (
	"math"
	"testing"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// TestFaceMaterialLookup verifies per-face material assignment.
func TestFaceMaterialLookup(t *testing.T) {
	metal := material.Metal(material.ColorRoseGold)
	gem := material.Gem()

	mesh := NewMesh("test")
	ms := mesh.AddMaterial(metal)
	gs := mesh.AddMaterial(gem)
	if again := mesh.AddMaterial(metal); again != ms {
		t.Errorf("AddMaterial reused slot = %d, want %d", again, ms)
	}

	mesh.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: ms},
		{V: [3]int{3, 4, 5}, Material: gs},
		{V: [3]int{6, 7, 8}, Material: -1},
	}

	if got := mesh.GetFaceMaterial(0); got != metal {
		t.Errorf("face 0 material = %v, want metal", got)
	}
	if got := mesh.GetFaceMaterial(1); got != gem {
		t.Errorf("face 1 material = %v, want gem", got)
	}
	if got := mesh.GetFaceMaterial(2); got != nil {
		t.Errorf("face 2 material = %v, want nil", got)
	}
	if mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial(99) should return nil for out-of-bounds")
	}
	if mesh.MaterialCount() != 2 {
		t.Errorf("MaterialCount = %d, want 2", mesh.MaterialCount())
	}
}

// TestAppendTransformsAndMergesMaterials verifies baking one mesh into another.
func TestAppendTransformsAndMergesMaterials(t *testing.T) {
	metal := material.Metal(material.ColorDefault)
	a := NewCylinder(0.1, 0.1, 1, 4, metal)
	b := NewCylinder(0.1, 0.1, 1, 4, metal)

	out := NewMesh("merged")
	out.Append(a, math3d.Identity())
	out.Append(b, math3d.Translate(math3d.V3(10, 0, 0)))

	if out.MaterialCount() != 1 {
		t.Errorf("merged materials = %d, want 1", out.MaterialCount())
	}
	if out.TriangleCount() != a.TriangleCount()+b.TriangleCount() {
		t.Errorf("merged triangles = %d", out.TriangleCount())
	}
	if out.BoundsMax.X < 10 {
		t.Errorf("merged bounds max X = %v, want >= 10", out.BoundsMax.X)
	}
	if out.Faces[len(out.Faces)-1].V[0] < a.VertexCount() {
		t.Errorf("second mesh faces should index past the first mesh's vertices")
	}
}

func TestSmoothNormalsPointOutward(t *testing.T) {
	mesh := NewSphere(1, 8, 6, nil)
	mesh.CalculateSmoothNormals()

	for i, v := range mesh.Vertices {
		if v.Position.Len() < 0.5 {
			continue
		}
		if d := v.Normal.Dot(v.Position.Normalize()); d < 0.5 {
			t.Errorf("vertex %d normal·radial = %v, want > 0.5", i, d)
		}
	}
}

func TestSmoothNormalsKeepUnreferencedVertex(t *testing.T) {
	mesh := NewMesh("tri")
	up := math3d.V3(0, 1, 0)
	a := mesh.AddVertex(math3d.V3(0, 0, 0), math3d.Zero3(), math3d.V2(0, 0))
	b := mesh.AddVertex(math3d.V3(1, 0, 0), math3d.Zero3(), math3d.V2(1, 0))
	c := mesh.AddVertex(math3d.V3(0, 1, 0), math3d.Zero3(), math3d.V2(0, 1))
	loose := mesh.AddVertex(math3d.V3(5, 5, 5), up, math3d.V2(0, 0))
	mesh.AddFace(a, b, c, mesh.AddMaterial(nil))

	mesh.CalculateSmoothNormals()

	if got := mesh.Vertices[loose].Normal; got != up {
		t.Errorf("unreferenced normal = %v, want %v", got, up)
	}
	if got := mesh.Vertices[a].Normal; math.Abs(got.Z-1) > 1e-9 {
		t.Errorf("face normal = %v, want +Z", got)
	}
}

func TestRelease(t *testing.T) {
	mesh := NewTorus(1, 0.15, 4, 8, nil)
	mesh.Release()
	if mesh.VertexCount() != 0 || mesh.TriangleCount() != 0 || mesh.MaterialCount() != 0 {
		t.Errorf("released mesh still holds data")
	}
}
