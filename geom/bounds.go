package geom

import "math"

// Bounds is an axis-aligned bounding box in engine-local coordinates.
type Bounds struct {
	Min, Max Vec3
}

// EmptyBounds returns a bounds value that Expand will replace entirely on
// first use.
func EmptyBounds() Bounds {
	inf := float32(math.Inf(1))
	return Bounds{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// Expand grows b to include p.
func (b Bounds) Expand(p Vec3) Bounds {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Union returns the smallest bounds containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return b.Expand(o.Min).Expand(o.Max)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Valid reports whether the box contains at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Pad returns b expanded by margin in every direction.
func (b Bounds) Pad(margin float32) Bounds {
	m := Vec3{margin, margin, margin}
	return Bounds{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// ComputeBounds returns the axis-aligned bounding box of m's positions.
func ComputeBounds(m *Mesh) Bounds {
	b := EmptyBounds()
	for _, p := range m.Positions {
		b = b.Expand(p)
	}
	return b
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center Vec3
	Radius float32
}

// ComputeBoundingSphere returns the sphere centered on m's bounding-box
// center with a radius large enough to contain every vertex. This is the
// cheap "box-derived" sphere, adequate for the coarse culling the
// renderer performs; it is not the minimal enclosing sphere.
func ComputeBoundingSphere(m *Mesh) Sphere {
	b := ComputeBounds(m)
	c := b.Center()
	var r2 float32
	for _, p := range m.Positions {
		d := p.Sub(c)
		if dd := d.Dot(d); dd > r2 {
			r2 = dd
		}
	}
	return Sphere{Center: c, Radius: float32(math.Sqrt(float64(r2)))}
}
