// Package models turns the ring scene graph into triangle meshes and moves
// meshes in and out of glTF binary assets.
package models

import (
	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// Mesh is an indexed triangle mesh. Triangles wind counter-clockwise when
// seen from the side their normal points to.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []*material.Profile

	// Bounding box (calculated on build or load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with an index into Mesh.Materials (-1 for none).
type Face struct {
	V        [3]int
	Material int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal, UV: uv})
	return len(m.Vertices) - 1
}

// AddFace appends a triangle using material slot mat.
func (m *Mesh) AddFace(a, b, c, mat int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: mat})
}

// AddMaterial registers a profile and returns its slot. A profile already
// present is reused so shared materials stay shared.
func (m *Mesh) AddMaterial(p *material.Profile) int {
	for i, existing := range m.Materials {
		if existing == p {
			return i
		}
	}
	m.Materials = append(m.Materials, p)
	return len(m.Materials) - 1
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateSmoothNormals averages face normals per vertex. Loaded assets
// without a NORMAL attribute rely on it. Vertices no face references keep
// their normal.
func (m *Mesh) CalculateSmoothNormals() {
	sums := make([]math3d.Vec3, len(m.Vertices))
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position

		// Unnormalized, so larger faces weigh more.
		normal := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range f.V {
			sums[idx] = sums[idx].Add(normal)
		}
	}

	for i, n := range sums {
		if n.LenSq() == 0 {
			continue
		}
		m.Vertices[i].Normal = n.Normalize()
	}
}

// Append copies other into m with every vertex transformed by mat.
// Materials are merged by identity.
func (m *Mesh) Append(other *Mesh, mat math3d.Mat4) {
	normalMat := mat.NormalMatrix()
	base := len(m.Vertices)
	for _, v := range other.Vertices {
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: mat.MulVec3(v.Position),
			Normal:   normalMat.MulVec3Dir(v.Normal).Normalize(),
			UV:       v.UV,
		})
	}

	slots := make([]int, len(other.Materials))
	for i, p := range other.Materials {
		slots[i] = m.AddMaterial(p)
	}
	for _, f := range other.Faces {
		slot := -1
		if f.Material >= 0 && f.Material < len(slots) {
			slot = slots[f.Material]
		}
		m.AddFace(base+f.V[0], base+f.V[1], base+f.V[2], slot)
	}
	m.CalculateBounds()
}

// Release drops vertex and face storage. The mesh is empty afterwards.
func (m *Mesh) Release() {
	m.Vertices = nil
	m.Faces = nil
	m.Materials = nil
	m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceMaterial returns the profile for face i, or nil.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFaceMaterial(i int) *material.Profile {
	return m.GetMaterial(m.Faces[i].Material)
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *material.Profile {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
