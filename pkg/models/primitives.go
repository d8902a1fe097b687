package models

import (
	"math"

	"github.com/taigrr/ringview/pkg/material"
	"github.com/taigrr/ringview/pkg/math3d"
)

// NewTorus builds a torus lying in the XY plane around the Z axis.
// radialSegs runs around the tube, tubularSegs around the ring.
func NewTorus(radius, tube float64, radialSegs, tubularSegs int, mat *material.Profile) *Mesh {
	m := NewMesh("torus")
	slot := m.AddMaterial(mat)

	for j := 0; j <= radialSegs; j++ {
		v := float64(j) / float64(radialSegs) * 2 * math.Pi
		for i := 0; i <= tubularSegs; i++ {
			u := float64(i) / float64(tubularSegs) * 2 * math.Pi

			pos := math3d.V3(
				(radius+tube*math.Cos(v))*math.Cos(u),
				(radius+tube*math.Cos(v))*math.Sin(u),
				tube*math.Sin(v),
			)
			center := math3d.V3(radius*math.Cos(u), radius*math.Sin(u), 0)
			uv := math3d.V2(float64(i)/float64(tubularSegs), float64(j)/float64(radialSegs))
			m.AddVertex(pos, pos.Sub(center).Normalize(), uv)
		}
	}

	row := tubularSegs + 1
	for j := 1; j <= radialSegs; j++ {
		for i := 1; i <= tubularSegs; i++ {
			a := row*j + i - 1
			b := row*(j-1) + i - 1
			c := row*(j-1) + i
			d := row*j + i
			m.AddFace(a, b, d, slot)
			m.AddFace(b, c, d, slot)
		}
	}

	m.CalculateBounds()
	return m
}

// NewCylinder builds a capped cylinder (or frustum) along Y, centered on
// the origin. A zero radius drops that cap.
func NewCylinder(radiusTop, radiusBottom, height float64, radialSegs int, mat *material.Profile) *Mesh {
	m := NewMesh("cylinder")
	slot := m.AddMaterial(mat)
	half := height / 2
	slope := (radiusBottom - radiusTop) / height

	// Side: row 0 at the top, row 1 at the bottom.
	var rows [2][]int
	for y := range 2 {
		r := radiusTop
		py := half
		if y == 1 {
			r = radiusBottom
			py = -half
		}
		for x := 0; x <= radialSegs; x++ {
			theta := float64(x) / float64(radialSegs) * 2 * math.Pi
			sin, cos := math.Sin(theta), math.Cos(theta)
			pos := math3d.V3(r*sin, py, r*cos)
			normal := math3d.V3(sin, slope, cos).Normalize()
			rows[y] = append(rows[y], m.AddVertex(pos, normal, math3d.V2(float64(x)/float64(radialSegs), float64(1-y))))
		}
	}
	for x := range radialSegs {
		a, b := rows[0][x], rows[1][x]
		c, d := rows[1][x+1], rows[0][x+1]
		if radiusTop > 0 {
			m.AddFace(a, b, d, slot)
		}
		if radiusBottom > 0 {
			m.AddFace(b, c, d, slot)
		}
	}

	if radiusTop > 0 {
		addCap(m, radiusTop, half, radialSegs, true, slot)
	}
	if radiusBottom > 0 {
		addCap(m, radiusBottom, -half, radialSegs, false, slot)
	}

	m.CalculateBounds()
	return m
}

func addCap(m *Mesh, radius, y float64, segs int, top bool, slot int) {
	normal := math3d.V3(0, -1, 0)
	if top {
		normal = math3d.Up()
	}
	center := m.AddVertex(math3d.V3(0, y, 0), normal, math3d.V2(0.5, 0.5))

	ring := make([]int, 0, segs+1)
	for x := 0; x <= segs; x++ {
		theta := float64(x) / float64(segs) * 2 * math.Pi
		sin, cos := math.Sin(theta), math.Cos(theta)
		ring = append(ring, m.AddVertex(math3d.V3(radius*sin, y, radius*cos), normal, math3d.V2(0.5+sin/2, 0.5+cos/2)))
	}
	for x := range segs {
		if top {
			m.AddFace(center, ring[x], ring[x+1], slot)
		} else {
			m.AddFace(center, ring[x+1], ring[x], slot)
		}
	}
}

// NewCone builds a cone with its apex at +height/2 and its base at
// -height/2.
func NewCone(radius, height float64, radialSegs int, mat *material.Profile) *Mesh {
	m := NewCylinder(0, radius, height, radialSegs, mat)
	m.Name = "cone"
	return m
}

// NewSphere builds a UV sphere centered on the origin.
func NewSphere(radius float64, widthSegs, heightSegs int, mat *material.Profile) *Mesh {
	m := NewMesh("sphere")
	slot := m.AddMaterial(mat)

	grid := make([][]int, heightSegs+1)
	for iy := 0; iy <= heightSegs; iy++ {
		v := float64(iy) / float64(heightSegs)
		for ix := 0; ix <= widthSegs; ix++ {
			u := float64(ix) / float64(widthSegs)
			pos := math3d.V3(
				-radius*math.Cos(u*2*math.Pi)*math.Sin(v*math.Pi),
				radius*math.Cos(v*math.Pi),
				radius*math.Sin(u*2*math.Pi)*math.Sin(v*math.Pi),
			)
			grid[iy] = append(grid[iy], m.AddVertex(pos, pos.Normalize(), math3d.V2(u, 1-v)))
		}
	}

	for iy := range heightSegs {
		for ix := range widthSegs {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			if iy != 0 {
				m.AddFace(a, b, d, slot)
			}
			if iy != heightSegs-1 {
				m.AddFace(b, c, d, slot)
			}
		}
	}

	m.CalculateBounds()
	return m
}
