package models

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// Extras keys carrying the profile parameters core glTF has no slot for.
const (
	extraKind         = "ringview_kind"
	extraTransmission = "transmission"
	extraIOR          = "ior"
	extraClearcoat    = "clearcoat"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals fills in smooth normals for assets that lack them.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	slots := make([]int, len(doc.Materials))
	for i, m := range doc.Materials {
		slots[i] = mesh.AddMaterial(profileFromGLTF(m))
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh, slots); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}
	if l.CalculateNormals && !hasNormals {
		mesh.CalculateSmoothNormals()
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of one glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh, slots []int) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		slot := -1
		if prim.Material != nil && *prim.Material < len(slots) {
			slot = slots[*prim.Material]
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.AddFace(base+int(indices[i]), base+int(indices[i+1]), base+int(indices[i+2]), slot)
			}
		} else {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(base+i, base+i+1, base+i+2, slot)
			}
		}
	}

	return nil
}

func vec3(f [3]float32) math3d.Vec3 {
	return math3d.V3(float64(f[0]), float64(f[1]), float64(f[2]))
}

// profileFromGLTF rebuilds a surface profile from a glTF PBR material and
// the extras written by ExportGLB.
func profileFromGLTF(m *gltf.Material) *material.Profile {
	p := &material.Profile{
		Name:         m.Name,
		Kind:         material.Metallic,
		BaseColor:    color.RGBA{255, 255, 255, 255},
		Metalness:    1,
		Roughness:    1,
		IOR:          1.5,
		EnvIntensity: 1,
	}

	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			f := *pbr.BaseColorFactor
			p.BaseColor = color.RGBA{unit8(f[0]), unit8(f[1]), unit8(f[2]), unit8(f[3])}
		}
		if pbr.MetallicFactor != nil {
			p.Metalness = *pbr.MetallicFactor
		}
		if pbr.RoughnessFactor != nil {
			p.Roughness = *pbr.RoughnessFactor
		}
	}

	extras, _ := m.Extras.(map[string]any)
	if v, ok := extras[extraTransmission].(float64); ok {
		p.Transmission = v
	}
	if v, ok := extras[extraIOR].(float64); ok {
		p.IOR = v
	}
	if v, ok := extras[extraClearcoat].(float64); ok {
		p.Clearcoat = v
	}
	if p.Transmission > 0 || extras[extraKind] == material.Transmissive.String() {
		p.Kind = material.Transmissive
	}
	return p
}

func unit8(f float64) uint8 {
	return uint8(math3d.Clamp(f, 0, 1)*255 + 0.5)
}
