package models

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/ringview/pkg/material"
)

// ExportGLB writes the mesh as a single-node binary glTF. Faces are
// grouped into one primitive per material.
func ExportGLB(mesh *Mesh, path string) error {
	doc, err := Document(mesh)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save glb: %w", err)
	}
	return nil
}

// Document converts the mesh into an in-memory glTF document.
func Document(mesh *Mesh) (*gltf.Document, error) {
	if mesh.TriangleCount() == 0 {
		return nil, fmt.Errorf("mesh %q has no triangles", mesh.Name)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "ringview"

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	uvs := make([][2]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		normals[i] = [3]float32{float32(v.Normal.X), float32(v.Normal.Y), float32(v.Normal.Z)}
		uvs[i] = [2]float32{float32(v.UV.X), float32(v.UV.Y)}
	}
	attrs := map[string]int{
		gltf.POSITION:   modeler.WritePosition(doc, positions),
		gltf.NORMAL:     modeler.WriteNormal(doc, normals),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
	}

	for _, p := range mesh.Materials {
		doc.Materials = append(doc.Materials, materialToGLTF(p))
	}

	// Faces without a material go in a trailing primitive with none.
	groups := make([][]uint32, len(mesh.Materials)+1)
	for _, f := range mesh.Faces {
		g := len(mesh.Materials)
		if f.Material >= 0 && f.Material < len(mesh.Materials) {
			g = f.Material
		}
		groups[g] = append(groups[g], uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}

	gm := &gltf.Mesh{Name: mesh.Name}
	for g, indices := range groups {
		if len(indices) == 0 {
			continue
		}
		prim := &gltf.Primitive{
			Mode:       gltf.PrimitiveTriangles,
			Attributes: attrs,
			Indices:    ptr(modeler.WriteIndices(doc, indices)),
		}
		if g < len(mesh.Materials) {
			prim.Material = ptr(g)
		}
		gm.Primitives = append(gm.Primitives, prim)
	}
	doc.Meshes = []*gltf.Mesh{gm}

	doc.Nodes = []*gltf.Node{{
		Name:     mesh.Name,
		Mesh:     ptr(0),
		Rotation: [4]float64{0, 0, 0, 1},
		Scale:    [3]float64{1, 1, 1},
	}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	return doc, nil
}

func materialToGLTF(p *material.Profile) *gltf.Material {
	m := &gltf.Material{
		Name: p.Name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{
				float64(p.BaseColor.R) / 255,
				float64(p.BaseColor.G) / 255,
				float64(p.BaseColor.B) / 255,
				float64(p.BaseColor.A) / 255,
			},
			MetallicFactor:  ptr(p.Metalness),
			RoughnessFactor: ptr(p.Roughness),
		},
		Extras: map[string]any{
			extraKind:         p.Kind.String(),
			extraTransmission: p.Transmission,
			extraIOR:          p.IOR,
			extraClearcoat:    p.Clearcoat,
		},
	}
	if p.Kind == material.Transmissive {
		m.AlphaMode = gltf.AlphaBlend
		m.DoubleSided = true
	}
	return m
}

func ptr[T any](v T) *T {
	return &v
}
