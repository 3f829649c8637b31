package geom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is a rotation expressed as three successive axis rotations, in
// radians, applied X then Y then Z (extrinsic), matching the DSTV/engine
// convention used throughout the engine.
type Euler struct {
	X, Y, Z float32
}

// Transform is a rigid (optionally non-uniform scaled) affine transform:
// scale, then rotate, then translate. Rotation composition is delegated
// to gonum's r3.Rotation (quaternion-backed) rather than a hand-rolled
// matrix stack.
type Transform struct {
	Translation Vec3
	Rotation    Euler
	Scale       Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Translate returns a pure translation transform.
func Translate(v Vec3) Transform {
	return Transform{Translation: v, Scale: Vec3{1, 1, 1}}
}

func toR3(v Vec3) r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

func fromR3(v r3.Vec) Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// rotation builds the composite r3.Rotation for t's Euler angles,
// applied X then Y then Z.
func (t Transform) rotation() r3.Rotation {
	rx := quat.Number(r3.NewRotation(float64(t.Rotation.X), r3.Vec{X: 1}))
	ry := quat.Number(r3.NewRotation(float64(t.Rotation.Y), r3.Vec{Y: 1}))
	rz := quat.Number(r3.NewRotation(float64(t.Rotation.Z), r3.Vec{Z: 1}))
	// Apply rx first, so it is the innermost (rightmost) factor in the
	// quaternion product rz*ry*rx.
	return r3.Rotation(quat.Mul(quat.Mul(rz, ry), rx))
}

// Apply transforms a point: scale, rotate, translate.
func (t Transform) Apply(p Vec3) Vec3 {
	scaled := Vec3{p[0] * t.scaleOrOne(0), p[1] * t.scaleOrOne(1), p[2] * t.scaleOrOne(2)}
	rotated := fromR3(t.rotation().Rotate(toR3(scaled)))
	return rotated.Add(t.Translation)
}

// ApplyDirection transforms a direction vector (rotation only, no
// translation or scale) — used for normals.
func (t Transform) ApplyDirection(d Vec3) Vec3 {
	return fromR3(t.rotation().Rotate(toR3(d))).Normalized()
}

func (t Transform) scaleOrOne(axis int) float32 {
	if t.Scale == (Vec3{}) {
		return 1
	}
	return t.Scale[axis]
}

// ApplyMesh returns a new mesh with t applied to every position and
// normal of m. UserData and indices are carried over unchanged.
func ApplyMesh(m *Mesh, t Transform) *Mesh {
	out := &Mesh{
		Positions: make([]Vec3, len(m.Positions)),
		Normals:   make([]Vec3, len(m.Normals)),
		UVs:       append([]Vec2(nil), m.UVs...),
		Indices:   append([]uint32(nil), m.Indices...),
		UserData:  m.UserData.Clone(),
	}
	for i, p := range m.Positions {
		out.Positions[i] = t.Apply(p)
	}
	for i, n := range m.Normals {
		out.Normals[i] = t.ApplyDirection(n)
	}
	return out
}
