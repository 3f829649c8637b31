// Package geom implements the indexed-triangle mesh representation shared
// by every stage of the feature pipeline, along with the affine-transform
// and bounding-volume math used to place cut solids in engine-local space.
//
// The mesh itself is intentionally dumb: it carries attributes and an
// index buffer and nothing else. Semantics (which triangles came from a
// cut, which face a hole was drilled through, ...) live in Mesh.UserData,
// attached by the higher layers and required to survive every CSG
// operation unchanged (see csg.Apply).
package geom

import "math"

// Vec3 is a 3-component vector of float32, matching the wire
// representation used by the external renderer.
type Vec3 [3]float32

// Vec2 is a 2-component vector of float32, used for UVs and 2D contour
// points.
type Vec2 [2]float32

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns s*v.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns v . w.
func (v Vec3) Dot(w Vec3) float32 {
	return v[0]*w[0] + v[1]*w[1] + v[2]*w[2]
}

// Cross returns v x w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float32 {
	return float32(math.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Lerp returns the point a fraction t of the way from v to w.
func (v Vec3) Lerp(w Vec3, t float32) Vec3 {
	return v.Add(w.Sub(v).Scale(t))
}

// CutRecord describes one applied (or attempted) cut, preserved in
// Mesh.UserData.Cuts across every CSG operation (Metadata
// preservation).
type CutRecord struct {
	ID            string
	Kind          string
	Face          string
	Bounds        Bounds
	ContourPoints []Vec2
	Depth         float32
	Angle         float32
	CutType       string
	CSGFailed     bool
	CSGSkipped    bool
	Explanation   string
}

// MarkingRecord describes a visual marking not applied to geometry.
type MarkingRecord struct {
	ID       string
	Text     string
	Size     float32
	Face     string
	Position Vec3
}

// UserData is the mesh side-channel consumed by the outline renderer. It must be
// copied (not aliased) onto the result of every CSG operation.
type UserData struct {
	Cuts         []CutRecord
	Markings     []MarkingRecord
	YOffset      float32
	CenterOffset Vec3
	IsMirrored   bool
}

// Clone returns a deep copy of d.
func (d UserData) Clone() UserData {
	out := UserData{
		YOffset:      d.YOffset,
		CenterOffset: d.CenterOffset,
		IsMirrored:   d.IsMirrored,
	}
	if d.Cuts != nil {
		out.Cuts = make([]CutRecord, len(d.Cuts))
		for i, c := range d.Cuts {
			c2 := c
			if c.ContourPoints != nil {
				c2.ContourPoints = append([]Vec2(nil), c.ContourPoints...)
			}
			out.Cuts[i] = c2
		}
	}
	if d.Markings != nil {
		out.Markings = append([]MarkingRecord(nil), d.Markings...)
	}
	return out
}

// Mesh is an indexed triangle set: positions, normals and uvs are parallel
// arrays; Indices groups them into triangles three at a time. A Mesh with
// a nil Indices buffer is treated as an unindexed triangle soup (every
// three consecutive vertices form a triangle).
type Mesh struct {
	Positions []Vec3
	Normals   []Vec3
	UVs       []Vec2
	Indices   []uint32
	UserData  UserData
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{}
}

// TriCount returns the number of triangles in the mesh.
func (m *Mesh) TriCount() int {
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Triangle returns the three vertex positions of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c Vec3) {
	if m.Indices != nil {
		return m.Positions[m.Indices[3*i]], m.Positions[m.Indices[3*i+1]], m.Positions[m.Indices[3*i+2]]
	}
	return m.Positions[3*i], m.Positions[3*i+1], m.Positions[3*i+2]
}

// Clone returns a deep copy of m, including UserData. Callers of the
// geometry cache always receive a Clone, never a shared reference to a
// stored mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{UserData: m.UserData.Clone()}
	if m.Positions != nil {
		out.Positions = append([]Vec3(nil), m.Positions...)
	}
	if m.Normals != nil {
		out.Normals = append([]Vec3(nil), m.Normals...)
	}
	if m.UVs != nil {
		out.UVs = append([]Vec2(nil), m.UVs...)
	}
	if m.Indices != nil {
		out.Indices = append([]uint32(nil), m.Indices...)
	}
	return out
}

// Dispose releases the mesh's backing arrays. The Mesh value itself
// remains usable (as an empty mesh) after Dispose.
func (m *Mesh) Dispose() {
	m.Positions = nil
	m.Normals = nil
	m.UVs = nil
	m.Indices = nil
	m.UserData = UserData{}
}

// ByteSize returns the number of bytes occupied by the mesh's attribute
// and index buffers, plus the contour points carried in UserData.Cuts.
// This is the authoritative size used by the geometry cache's byte
// accounting.
func (m *Mesh) ByteSize() int64 {
	const v3 = 12 // 3 * float32
	const v2 = 8  // 2 * float32
	const idx = 4 // uint32
	n := int64(len(m.Positions))*v3 + int64(len(m.Normals))*v3 + int64(len(m.UVs))*v2 + int64(len(m.Indices))*idx
	for _, c := range m.UserData.Cuts {
		n += int64(len(c.ContourPoints)) * v2
	}
	return n
}

// Merge appends other's geometry onto m, offsetting other's indices. It
// concatenates the triangle sets only; it does not compute a boolean
// union, so overlapping pieces stay overlapping.
func (m *Mesh) Merge(other *Mesh) {
	if other == nil || len(other.Positions) == 0 {
		return
	}
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, other.Positions...)
	m.Normals = append(m.Normals, other.Normals...)
	m.UVs = append(m.UVs, other.UVs...)

	if m.Indices == nil && len(m.Positions)-len(other.Positions) > 0 {
		// m previously held an unindexed soup; index it so the merge stays
		// coherent with other's (possibly indexed) triangles.
		m.Indices = make([]uint32, len(m.Positions)-len(other.Positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	if other.Indices != nil {
		for _, idx := range other.Indices {
			m.Indices = append(m.Indices, base+idx)
		}
	} else {
		for i := range other.Positions {
			m.Indices = append(m.Indices, base+uint32(i))
		}
	}
	m.UserData.Cuts = append(m.UserData.Cuts, other.UserData.Cuts...)
	m.UserData.Markings = append(m.UserData.Markings, other.UserData.Markings...)
}

// RecomputeNormals rebuilds per-vertex normals as the area-weighted
// average of adjacent face normals, overwriting m.Normals.
func (m *Mesh) RecomputeNormals() {
	acc := make([]Vec3, len(m.Positions))
	tris := m.TriCount()
	for i := 0; i < tris; i++ {
		a, b, c := m.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a)) // not normalized: magnitude encodes area weight
		ia, ib, ic := m.triIndices(i)
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}
	out := make([]Vec3, len(m.Positions))
	for i, n := range acc {
		out[i] = n.Normalized()
	}
	m.Normals = out
}

func (m *Mesh) triIndices(i int) (a, b, c uint32) {
	if m.Indices != nil {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	return uint32(3 * i), uint32(3*i + 1), uint32(3*i + 2)
}
