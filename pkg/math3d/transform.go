package math3d

// Transform is a local position, Euler rotation (radians) and scale.
// The composed matrix is T * Rx * Ry * Rz * S.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

// NewTransform returns a transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Scale: One3()}
}

// At returns a unit-scale transform positioned at p.
func At(p Vec3) Transform {
	return Transform{Position: p, Scale: One3()}
}

// WithRotation returns a copy of t with the rotation replaced.
func (t Transform) WithRotation(r Vec3) Transform {
	t.Rotation = r
	return t
}

// WithUniformScale returns a copy of t with every axis scaled by s.
func (t Transform) WithUniformScale(s float64) Transform {
	t.Scale = V3(s, s, s)
	return t
}

// Matrix composes the transform.
func (t Transform) Matrix() Mat4 {
	return Translate(t.Position).Mul(RotateEuler(t.Rotation)).Mul(Scale(t.Scale))
}
