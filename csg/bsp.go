package csg

import "github.com/gostructural/featurecut/geom"

// epsilon is the plane-classification tolerance. Points within epsilon of
// a splitting plane are treated as coplanar rather than split, which is
// what keeps the evaluator from crashing (or thrashing on infinitesimal
// slivers) at grazing/near-coplanar intersections.
const epsilon = 1e-5

// vertex is a BSP polygon corner: position plus interpolated normal.
type vertex struct {
	pos    geom.Vec3
	normal geom.Vec3
}

func lerpVertex(a, b vertex, t float32) vertex {
	return vertex{pos: a.pos.Lerp(b.pos, t), normal: a.normal.Lerp(b.normal, t).Normalized()}
}

// polygon is a convex, planar polygon — the BSP tree's atomic unit. Every
// input triangle starts as a 3-vertex polygon; splitting can produce
// polygons with more vertices.
type polygon struct {
	verts []vertex
	plane plane
}

func newPolygon(verts []vertex) polygon {
	return polygon{verts: verts, plane: planeFromPoints(verts[0].pos, verts[1].pos, verts[2].pos)}
}

// plane is a half-space boundary in Hesse normal form: normal . p == w.
type plane struct {
	normal geom.Vec3
	w      float32
}

func planeFromPoints(a, b, c geom.Vec3) plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalized()
	return plane{normal: n, w: n.Dot(a)}
}

func (p plane) valid() bool {
	return p.normal.Len() > 0.5
}

func (p plane) flipped() plane {
	return plane{normal: p.normal.Scale(-1), w: -p.w}
}

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

func (p plane) classifyPoint(v geom.Vec3) int {
	d := p.normal.Dot(v) - p.w
	switch {
	case d < -epsilon:
		return back
	case d > epsilon:
		return front
	default:
		return coplanar
	}
}

// splitPolygon classifies poly against p and appends its pieces to the
// four output slices: coplanar polygons are routed to coF/coB by
// whether they face the same way as p, front/back to f/b. Straddling
// polygons are split into a front part and a back part.
func (p plane) splitPolygon(poly polygon, coF, coB, f, b *[]polygon) {
	const (
		cCoplanar = 0
		cFront    = 1
		cBack     = 2
		cSpan     = 3
	)
	var types []int
	overall := 0
	for _, v := range poly.verts {
		t := p.classifyPoint(v.pos)
		overall |= t
		types = append(types, t)
	}

	switch overall {
	case coplanar:
		if p.normal.Dot(poly.plane.normal) > 0 {
			*coF = append(*coF, poly)
		} else {
			*coB = append(*coB, poly)
		}
	case front:
		*f = append(*f, poly)
	case back:
		*b = append(*b, poly)
	default: // spanning
		var fVerts, bVerts []vertex
		n := len(poly.verts)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.verts[i], poly.verts[j]
			if ti != back {
				fVerts = append(fVerts, vi)
			}
			if ti != front {
				bVerts = append(bVerts, vi)
			}
			if (ti | tj) == spanning {
				t := (p.w - p.normal.Dot(vi.pos)) / p.normal.Dot(vj.pos.Sub(vi.pos))
				mid := lerpVertex(vi, vj, t)
				fVerts = append(fVerts, mid)
				bVerts = append(bVerts, mid)
			}
		}
		if len(fVerts) >= 3 {
			*f = append(*f, newPolygon(fVerts))
		}
		if len(bVerts) >= 3 {
			*b = append(*b, newPolygon(bVerts))
		}
	}
}

// node is a BSP tree node.
type node struct {
	plane    plane
	front    *node
	back     *node
	polygons []polygon
}

func buildBSP(polys []polygon) *node {
	if len(polys) == 0 {
		return nil
	}
	n := &node{}
	n.build(polys)
	return n
}

// build inserts polys into the subtree rooted at n, splitting on the
// first polygon's plane — a stable, order-preserving pivot choice that
// keeps the resulting tree (and therefore Apply's output) a pure
// function of input polygon order.
func (n *node) build(polys []polygon) {
	if len(polys) == 0 {
		return
	}
	if !n.plane.valid() {
		n.plane = polys[0].plane
	}
	var f, b []polygon
	for _, p := range polys {
		n.plane.splitPolygon(p, &n.polygons, &n.polygons, &f, &b)
	}
	if len(f) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		n.front.build(f)
	}
	if len(b) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		n.back.build(b)
	}
}

// invert flips every plane and polygon in the subtree in place, swapping
// front/back subtrees — turning "inside" into "outside" and back.
func (n *node) invert() {
	if n == nil {
		return
	}
	for i := range n.polygons {
		n.polygons[i] = flipPolygon(n.polygons[i])
	}
	n.plane = n.plane.flipped()
	n.front.invert()
	n.back.invert()
	n.front, n.back = n.back, n.front
}

func flipPolygon(p polygon) polygon {
	verts := make([]vertex, len(p.verts))
	last := len(p.verts) - 1
	for i, v := range p.verts {
		v.normal = v.normal.Scale(-1)
		verts[last-i] = v
	}
	return polygon{verts: verts, plane: p.plane.flipped()}
}

// clipPolygons removes the parts of polys that lie inside the solid
// represented by n.
func (n *node) clipPolygons(polys []polygon) []polygon {
	if n == nil {
		return append([]polygon(nil), polys...)
	}
	var f, b []polygon
	for _, p := range polys {
		var coF, coB []polygon
		n.plane.splitPolygon(p, &coF, &coB, &f, &b)
		f = append(f, coF...)
		b = append(b, coB...)
	}
	if n.front != nil {
		f = n.front.clipPolygons(f)
	}
	if n.back != nil {
		b = n.back.clipPolygons(b)
	} else {
		b = nil
	}
	return append(f, b...)
}

// clipTo removes all polygons in n that lie inside other.
func (n *node) clipTo(other *node) {
	if n == nil {
		return
	}
	n.polygons = other.clipPolygons(n.polygons)
	n.front.clipTo(other)
	n.back.clipTo(other)
}

func (n *node) allPolygons() []polygon {
	if n == nil {
		return nil
	}
	out := append([]polygon(nil), n.polygons...)
	out = append(out, n.front.allPolygons()...)
	out = append(out, n.back.allPolygons()...)
	return out
}

// The three boolean combinators below follow the well-known BSP-CSG
// recipe (subtract = invert, clip mutually, merge, invert back; union and
// intersect are the analogous clip/merge sequences without, or with, the
// final double invert).

func opUnion(a, b []polygon) []polygon {
	na, nb := buildBSP(a), buildBSP(b)
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	return na.allPolygons()
}

func opSubtract(a, b []polygon) []polygon {
	na, nb := buildBSP(a), buildBSP(b)
	na.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	nb.invert()
	nb.clipTo(na)
	nb.invert()
	na.build(nb.allPolygons())
	na.invert()
	return na.allPolygons()
}

func opIntersect(a, b []polygon) []polygon {
	na, nb := buildBSP(a), buildBSP(b)
	na.invert()
	nb.clipTo(na)
	nb.invert()
	na.clipTo(nb)
	nb.clipTo(na)
	na.build(nb.allPolygons())
	na.invert()
	return na.allPolygons()
}

func meshToPolygons(m *geom.Mesh) []polygon {
	tris := m.TriCount()
	polys := make([]polygon, 0, tris)
	for i := 0; i < tris; i++ {
		a, b, c := m.Triangle(i)
		var na, nb, nc geom.Vec3
		if len(m.Normals) > 0 {
			ia, ib, ic := triIndices(m, i)
			na, nb, nc = m.Normals[ia], m.Normals[ib], m.Normals[ic]
		} else {
			n := b.Sub(a).Cross(c.Sub(a)).Normalized()
			na, nb, nc = n, n, n
		}
		verts := []vertex{{pos: a, normal: na}, {pos: b, normal: nb}, {pos: c, normal: nc}}
		p := newPolygon(verts)
		if !p.plane.valid() {
			continue // degenerate (zero-area) triangle, drop it
		}
		polys = append(polys, p)
	}
	return polys
}

func triIndices(m *geom.Mesh, i int) (a, b, c uint32) {
	if m.Indices != nil {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	return uint32(3 * i), uint32(3*i + 1), uint32(3*i + 2)
}

// polygonsToMesh fan-triangulates every (possibly >3-gon) polygon and
// assembles an indexed mesh.
func polygonsToMesh(polys []polygon) *geom.Mesh {
	m := geom.New()
	for _, p := range polys {
		if len(p.verts) < 3 {
			continue
		}
		base := uint32(len(m.Positions))
		for _, v := range p.verts {
			m.Positions = append(m.Positions, v.pos)
			m.Normals = append(m.Normals, v.normal)
			m.UVs = append(m.UVs, geom.Vec2{})
		}
		for i := 1; i < len(p.verts)-1; i++ {
			m.Indices = append(m.Indices, base, base+uint32(i), base+uint32(i+1))
		}
	}
	return m
}
