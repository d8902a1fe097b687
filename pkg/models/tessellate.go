package models

import (
	"fmt"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/scene"
)

// Part is one scene leaf paired with its local-space mesh.
type Part struct {
	Node *scene.Node
	Mesh *Mesh
}

// Model is the tessellated form of an assembly. Leaves with identical
// primitives and materials share one Mesh.
type Model struct {
	Assembly *scene.Assembly
	Parts    []Part
	meshes   map[meshKey]*Mesh
}

type meshKey struct {
	prim scene.Primitive
	mat  *material.Profile
}

// Tessellate builds meshes for every leaf of the assembly.
func Tessellate(a *scene.Assembly) (*Model, error) {
	model := &Model{
		Assembly: a,
		meshes:   make(map[meshKey]*Mesh),
	}

	for _, leaf := range a.Root.Leaves() {
		key := meshKey{prim: leaf.Primitive, mat: leaf.Material}
		mesh, ok := model.meshes[key]
		if !ok {
			var err error
			mesh, err = MeshFor(leaf.Primitive, leaf.Material)
			if err != nil {
				return nil, fmt.Errorf("tessellate %s: %w", leaf.Name, err)
			}
			model.meshes[key] = mesh
		}
		model.Parts = append(model.Parts, Part{Node: leaf, Mesh: mesh})
	}

	return model, nil
}

// MeshFor tessellates a single primitive.
func MeshFor(p scene.Primitive, mat *material.Profile) (*Mesh, error) {
	switch p.Shape {
	case scene.ShapeTorus:
		return NewTorus(p.Radius, p.Tube, p.RadialSegs, p.TubularSegs, mat), nil
	case scene.ShapeCone:
		return NewCone(p.Radius, p.Height, p.RadialSegs, mat), nil
	case scene.ShapeSphere:
		return NewSphere(p.Radius, p.RadialSegs, p.TubularSegs, mat), nil
	case scene.ShapeCylinder:
		return NewCylinder(p.Radius, p.Radius, p.Height, p.RadialSegs, mat), nil
	default:
		return nil, fmt.Errorf("unsupported shape %d", p.Shape)
	}
}

// UniqueMeshes returns how many distinct meshes back the parts.
func (m *Model) UniqueMeshes() int {
	return len(m.meshes)
}

// TriangleCount returns the drawn triangle total across all parts.
func (m *Model) TriangleCount() int {
	total := 0
	for _, p := range m.Parts {
		total += p.Mesh.TriangleCount()
	}
	return total
}

// Part returns the part for a node, if present.
func (m *Model) Part(n *scene.Node) (Part, bool) {
	for _, p := range m.Parts {
		if p.Node == n {
			return p, true
		}
	}
	return Part{}, false
}

// Merge bakes every part into a single world-space mesh using the
// assembly's current transforms.
func (m *Model) Merge(name string) *Mesh {
	out := NewMesh(name)
	worlds := make(map[*scene.Node]math3d.Mat4, len(m.Parts))
	m.Assembly.Walk(func(n *scene.Node, world math3d.Mat4, _ int) bool {
		worlds[n] = world
		return true
	})
	for _, p := range m.Parts {
		out.Append(p.Mesh, worlds[p.Node])
	}
	return out
}

// Release frees every mesh. The model must not be drawn afterwards.
func (m *Model) Release() {
	for k, mesh := range m.meshes {
		mesh.Release()
		delete(m.meshes, k)
	}
	m.Parts = nil
}
